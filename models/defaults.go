package models

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seed struct {
	Overview Overview `yaml:"overview"`
	Activity []struct {
		Name     string `yaml:"name"`
		Period   Period `yaml:"period"`
		Duration int    `yaml:"duration"`
		Calories int    `yaml:"calories"`
		DaysAgo  int    `yaml:"daysAgo"`
	} `yaml:"activity"`
	Meals struct {
		Breakfast []string `yaml:"breakfast"`
		Lunch     []string `yaml:"lunch"`
		Dinner    []string `yaml:"dinner"`
	} `yaml:"meals"`
	Weekly struct {
		ActivitiesCount [7]int `yaml:"activitiesCount"`
		CaloriesBurned  [7]int `yaml:"caloriesBurned"`
	} `yaml:"weekly"`
}

// Defaults is the compiled-in default snapshot. It is materialized once, so
// every reset within a process yields the same ids and dates.
type Defaults struct {
	state *AppState
}

// NewDefaults builds the snapshot from the embedded seed, dating activities
// relative to now and assigning ids from newID.
func NewDefaults(now time.Time, newID func() string) (*Defaults, error) {
	var sd seed
	if err := yaml.Unmarshal(defaultsYAML, &sd); err != nil {
		return nil, fmt.Errorf("parse default state: %w", err)
	}

	st := &AppState{
		Overview: sd.Overview,
		Activity: make([]ActivityRecord, 0, len(sd.Activity)),
		Meals: MealPlan{
			Breakfast: sd.Meals.Breakfast,
			Lunch:     sd.Meals.Lunch,
			Dinner:    sd.Meals.Dinner,
		},
		Weekly: Weekly{
			ActivitiesCount: sd.Weekly.ActivitiesCount,
			CaloriesBurned:  sd.Weekly.CaloriesBurned,
		},
	}
	for _, a := range sd.Activity {
		st.Activity = append(st.Activity, ActivityRecord{
			ID:       newID(),
			Name:     a.Name,
			Period:   a.Period,
			Duration: a.Duration,
			Calories: a.Calories,
			Date:     now.AddDate(0, 0, -a.DaysAgo).Format(DateLayout),
		})
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("default state: %w", err)
	}
	return &Defaults{state: st}, nil
}

// State returns a fresh deep copy of the snapshot.
func (d *Defaults) State() *AppState {
	return d.state.Clone()
}
