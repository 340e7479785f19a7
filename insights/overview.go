package insights

import (
	"math"

	"fittrack-dashboard/meals"
	"fittrack-dashboard/models"
)

// RecentLimit caps the recent-activities list on the overview.
const RecentLimit = 5

// PercentOfGoal returns round(value/goal*100). A zero, negative or NaN goal
// yields 0.
func PercentOfGoal(value, goal float64) int {
	if !(goal > 0) || math.IsNaN(value) {
		return 0
	}
	p := math.Round(value / goal * 100)
	if math.IsInf(p, 0) || p > math.MaxInt32 || p < math.MinInt32 {
		return 0
	}
	return int(p)
}

func sum(xs [7]int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// Totals sums both weekly arrays.
func Totals(w models.Weekly) (activities, calories int) {
	return sum(w.ActivitiesCount), sum(w.CaloriesBurned)
}

func AvgActivitiesPerDay(w models.Weekly) float64 {
	return float64(sum(w.ActivitiesCount)) / float64(len(w.ActivitiesCount))
}

func AvgCaloriesPerDay(w models.Weekly) float64 {
	return float64(sum(w.CaloriesBurned)) / float64(len(w.CaloriesBurned))
}

// OverviewSummary is what the overview page shows beyond the raw metrics.
type OverviewSummary struct {
	StepsPct            int                     `json:"stepsPct"`
	CaloriesPct         int                     `json:"caloriesPct"`
	WaterPct            int                     `json:"waterPct"`
	TotalActivities     int                     `json:"totalActivities"`
	TotalMealCalories   int                     `json:"totalMealCalories"`
	AvgActivitiesPerDay float64                 `json:"avgActivitiesPerDay"`
	AvgCaloriesPerDay   float64                 `json:"avgCaloriesPerDay"`
	Recent              []models.ActivityRecord `json:"recent"`
}

func Overview(st *models.AppState) OverviewSummary {
	ov := st.Overview
	recent := st.Activity
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return OverviewSummary{
		StepsPct:            PercentOfGoal(float64(ov.Steps), float64(ov.StepsGoal)),
		CaloriesPct:         PercentOfGoal(float64(ov.Calories), float64(ov.CaloriesGoal)),
		WaterPct:            PercentOfGoal(float64(ov.Water), float64(ov.WaterGoal)),
		TotalActivities:     len(st.Activity),
		TotalMealCalories:   meals.TotalCalories(&st.Meals),
		AvgActivitiesPerDay: AvgActivitiesPerDay(st.Weekly),
		AvgCaloriesPerDay:   AvgCaloriesPerDay(st.Weekly),
		Recent:              append([]models.ActivityRecord{}, recent...),
	}
}

// WeeklySummary backs the insights page.
type WeeklySummary struct {
	Days                [7]string     `json:"days"`
	Weekly              models.Weekly `json:"weekly"`
	TotalActivities     int           `json:"totalActivities"`
	TotalCalories       int           `json:"totalCalories"`
	AvgActivitiesPerDay float64       `json:"avgActivitiesPerDay"`
	AvgCaloriesPerDay   float64       `json:"avgCaloriesPerDay"`
}

func Weekly(st *models.AppState) WeeklySummary {
	acts, cals := Totals(st.Weekly)
	return WeeklySummary{
		Days:                Weekdays,
		Weekly:              st.Weekly,
		TotalActivities:     acts,
		TotalCalories:       cals,
		AvgActivitiesPerDay: AvgActivitiesPerDay(st.Weekly),
		AvgCaloriesPerDay:   AvgCaloriesPerDay(st.Weekly),
	}
}
