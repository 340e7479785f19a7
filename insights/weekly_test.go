package insights

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack-dashboard/models"
)

func act(id, date string, calories int) models.ActivityRecord {
	return models.ActivityRecord{ID: id, Name: "Run " + id, Period: models.Morning, Duration: 30, Calories: calories, Date: date}
}

func TestMondayIndex(t *testing.T) {
	assert.Equal(t, 0, MondayIndex(time.Monday))
	assert.Equal(t, 5, MondayIndex(time.Saturday))
	assert.Equal(t, 6, MondayIndex(time.Sunday))
}

func TestRecalcWeeklyWeekdayRemap(t *testing.T) {
	// 2025-03-09 is a Sunday, 2025-03-10 a Monday.
	st := &models.AppState{Activity: []models.ActivityRecord{
		act("sun", "2025-03-09", 200),
		act("mon", "2025-03-10", 300),
	}}
	require.True(t, RecalcWeekly(st, time.Local))
	assert.Equal(t, [7]int{1, 0, 0, 0, 0, 0, 1}, st.Weekly.ActivitiesCount)
	assert.Equal(t, [7]int{300, 0, 0, 0, 0, 0, 200}, st.Weekly.CaloriesBurned)
}

func TestRecalcWeeklyBucketsMatchDatedRecords(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local) // Monday
	var activity []models.ActivityRecord
	wantCount := [7]int{}
	wantCals := [7]int{}
	for i := 0; i < 40; i++ {
		d := start.AddDate(0, 0, (i*5)%17)
		cals := 10 * (i + 1)
		activity = append(activity, act(fmt.Sprint(i), d.Format(models.DateLayout), cals))
		idx := MondayIndex(d.Weekday())
		wantCount[idx]++
		wantCals[idx] += cals
	}
	// Undated and malformed records never contribute.
	activity = append(activity, act("nodate", "", 500), act("garbage", "soon", 500))

	st := &models.AppState{Activity: activity}
	require.True(t, RecalcWeekly(st, time.Local))

	total, _ := Totals(st.Weekly)
	assert.Equal(t, 40, total)
	assert.Equal(t, wantCount, st.Weekly.ActivitiesCount)
	assert.Equal(t, wantCals, st.Weekly.CaloriesBurned)
}

func TestRecalcWeeklyKeepsCacheWithoutDates(t *testing.T) {
	prev := models.Weekly{
		ActivitiesCount: [7]int{3, 2, 4, 3, 5, 2, 3},
		CaloriesBurned:  [7]int{450, 380, 520, 410, 600, 320, 420},
	}
	for name, activity := range map[string][]models.ActivityRecord{
		"empty":       nil,
		"undated":     {act("a", "", 100)},
		"unparseable": {act("a", "not-a-date", 100), act("b", "2025-02-30", 50)},
	} {
		t.Run(name, func(t *testing.T) {
			st := &models.AppState{Activity: activity, Weekly: prev}
			assert.False(t, RecalcWeekly(st, time.Local))
			assert.Equal(t, prev, st.Weekly)
			assert.False(t, RecalcWeekly(st, time.Local))
			assert.Equal(t, prev, st.Weekly)
		})
	}
}

func TestRecalcWeeklyNonPositiveCalories(t *testing.T) {
	st := &models.AppState{Activity: []models.ActivityRecord{
		act("a", "2025-03-12", 0),
		act("b", "2025-03-12", -40),
		act("c", "2025-03-12", 75),
	}}
	require.True(t, RecalcWeekly(st, time.Local))
	assert.Equal(t, 3, st.Weekly.ActivitiesCount[2])
	assert.Equal(t, 75, st.Weekly.CaloriesBurned[2])
}

func TestPercentOfGoal(t *testing.T) {
	assert.Equal(t, 85, PercentOfGoal(8543, 10000))
	assert.Equal(t, 84, PercentOfGoal(2100, 2500))
	assert.Equal(t, 75, PercentOfGoal(6, 8))
	assert.Equal(t, 150, PercentOfGoal(12, 8))
	for _, v := range []float64{0, 1, 8543, -3, math.MaxFloat64} {
		assert.Equal(t, 0, PercentOfGoal(v, 0), "value %v", v)
	}
	assert.Equal(t, 0, PercentOfGoal(5, -1))
	assert.Equal(t, 0, PercentOfGoal(5, math.NaN()))
	assert.Equal(t, 0, PercentOfGoal(math.NaN(), 5))
}

func TestAverages(t *testing.T) {
	w := models.Weekly{
		ActivitiesCount: [7]int{3, 2, 4, 3, 5, 2, 3},
		CaloriesBurned:  [7]int{450, 380, 520, 410, 600, 320, 420},
	}
	assert.InDelta(t, 22.0/7, AvgActivitiesPerDay(w), 1e-9)
	assert.InDelta(t, 3100.0/7, AvgCaloriesPerDay(w), 1e-9)
	acts, cals := Totals(w)
	assert.Equal(t, 22, acts)
	assert.Equal(t, 3100, cals)
}

func TestOverview(t *testing.T) {
	st := &models.AppState{
		Overview: models.Overview{Steps: 5000, StepsGoal: 10000, Calories: 100, CaloriesGoal: 0, Water: 8, WaterGoal: 8},
		Meals:    models.MealPlan{Lunch: []string{"Soup — 90 cal", "Bread"}},
		Weekly:   models.Weekly{ActivitiesCount: [7]int{7}, CaloriesBurned: [7]int{700}},
	}
	for i := 0; i < 7; i++ {
		st.Activity = append(st.Activity, act(fmt.Sprint(i), "", 10))
	}

	got := Overview(st)
	assert.Equal(t, 50, got.StepsPct)
	assert.Equal(t, 0, got.CaloriesPct)
	assert.Equal(t, 100, got.WaterPct)
	assert.Equal(t, 7, got.TotalActivities)
	assert.Equal(t, 90, got.TotalMealCalories)
	assert.InDelta(t, 1.0, got.AvgActivitiesPerDay, 1e-9)
	assert.InDelta(t, 100.0, got.AvgCaloriesPerDay, 1e-9)
	require.Len(t, got.Recent, RecentLimit)
	assert.Equal(t, "0", got.Recent[0].ID)

	got.Recent[0].Name = "mutated"
	assert.Equal(t, "Run 0", st.Activity[0].Name)
}

func TestWeeklySummary(t *testing.T) {
	st := &models.AppState{Weekly: models.Weekly{ActivitiesCount: [7]int{1, 1}, CaloriesBurned: [7]int{70, 0, 0, 0, 0, 0, 7}}}
	got := Weekly(st)
	assert.Equal(t, "Mon", got.Days[0])
	assert.Equal(t, 2, got.TotalActivities)
	assert.Equal(t, 77, got.TotalCalories)
	assert.InDelta(t, 11.0, got.AvgCaloriesPerDay, 1e-9)
}
