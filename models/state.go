package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for activity dates.
const DateLayout = "2006-01-02"

type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
)

// Periods lists every period in display order.
var Periods = []Period{Morning, Afternoon, Evening}

func (p Period) Valid() bool {
	switch p {
	case Morning, Afternoon, Evening:
		return true
	}
	return false
}

type Slot string

const (
	Breakfast Slot = "breakfast"
	Lunch     Slot = "lunch"
	Dinner    Slot = "dinner"
)

// Slots lists every meal slot in display order.
var Slots = []Slot{Breakfast, Lunch, Dinner}

func (s Slot) Valid() bool {
	switch s {
	case Breakfast, Lunch, Dinner:
		return true
	}
	return false
}

type Overview struct {
	Steps             int     `json:"steps" yaml:"steps"`
	StepsGoal         int     `json:"stepsGoal" yaml:"stepsGoal"`
	Calories          int     `json:"calories" yaml:"calories"`
	CaloriesGoal      int     `json:"caloriesGoal" yaml:"caloriesGoal"`
	Water             int     `json:"water" yaml:"water"`
	WaterGoal         int     `json:"waterGoal" yaml:"waterGoal"`
	ActiveTimeMinutes int     `json:"activeTimeMinutes" yaml:"activeTimeMinutes"`
	AvgHeartRate      int     `json:"avgHeartRate" yaml:"avgHeartRate"`
	DistanceKm        float64 `json:"distanceKm" yaml:"distanceKm"`
	StreakDays        int     `json:"streakDays" yaml:"streakDays"`
}

type ActivityRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Period   Period `json:"period"`
	Duration int    `json:"duration"` // minutes
	Calories int    `json:"calories"`
	Date     string `json:"date,omitempty"` // "2025-02-20"
}

// ParsedDate returns the record's calendar date in loc. Plain ISO dates and
// RFC 3339 timestamps are accepted; a timestamp keeps its own calendar day.
func (a ActivityRecord) ParsedDate(loc *time.Location) (time.Time, bool) {
	if a.Date == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(DateLayout, a.Date, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, a.Date); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

// MealPlan holds free-text meal entries per slot.
type MealPlan struct {
	Breakfast []string `json:"breakfast"`
	Lunch     []string `json:"lunch"`
	Dinner    []string `json:"dinner"`
}

// Entries returns a pointer to the slot's list, or nil for an unknown slot.
func (m *MealPlan) Entries(slot Slot) *[]string {
	switch slot {
	case Breakfast:
		return &m.Breakfast
	case Lunch:
		return &m.Lunch
	case Dinner:
		return &m.Dinner
	}
	return nil
}

// Weekly is the derived Mon..Sun cache. Index 0 is Monday.
type Weekly struct {
	ActivitiesCount [7]int `json:"activitiesCount"`
	CaloriesBurned  [7]int `json:"caloriesBurned"`
}

// AppState is the whole dashboard document for one session.
type AppState struct {
	Overview Overview         `json:"overview"`
	Activity []ActivityRecord `json:"activity"`
	Meals    MealPlan         `json:"meals"`
	Weekly   Weekly           `json:"weekly"`
}

// Clone returns a deep copy that shares no slices with s.
func (s *AppState) Clone() *AppState {
	c := *s
	c.Activity = append([]ActivityRecord{}, s.Activity...)
	c.Meals = MealPlan{
		Breakfast: append([]string{}, s.Meals.Breakfast...),
		Lunch:     append([]string{}, s.Meals.Lunch...),
		Dinner:    append([]string{}, s.Meals.Dinner...),
	}
	return &c
}

// Validate checks a loaded document against the schema. Activity dates are
// not checked: undated records are legal and skipped by aggregation.
func (s *AppState) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s.Activity))
	for i, a := range s.Activity {
		switch {
		case a.ID == "":
			errs = append(errs, fmt.Errorf("activity[%d]: missing id", i))
		case seen[a.ID]:
			errs = append(errs, fmt.Errorf("activity[%d]: duplicate id %q", i, a.ID))
		}
		seen[a.ID] = true
		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, fmt.Errorf("activity[%d]: missing name", i))
		}
		if !a.Period.Valid() {
			errs = append(errs, fmt.Errorf("activity[%d]: unknown period %q", i, a.Period))
		}
		if a.Duration <= 0 {
			errs = append(errs, fmt.Errorf("activity[%d]: duration must be positive", i))
		}
		if a.Calories <= 0 {
			errs = append(errs, fmt.Errorf("activity[%d]: calories must be positive", i))
		}
	}
	return errors.Join(errs...)
}
