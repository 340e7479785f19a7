// Package insights derives the weekly aggregates and overview metrics from
// an AppState.
package insights

import (
	"time"

	"fittrack-dashboard/models"
)

// Weekdays are the aggregate bucket labels, Monday first.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// MondayIndex maps a weekday to its bucket: Monday is 0, Sunday is 6.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Aggregate counts activities and sums calories per weekday bucket for every
// record with a parseable date. Undated records are skipped.
func Aggregate(activity []models.ActivityRecord, loc *time.Location) (w models.Weekly, dated int) {
	for _, a := range activity {
		d, ok := a.ParsedDate(loc)
		if !ok {
			continue
		}
		i := MondayIndex(d.Weekday())
		w.ActivitiesCount[i]++
		if a.Calories > 0 {
			w.CaloriesBurned[i] += a.Calories
		}
		dated++
	}
	return w, dated
}

// RecalcWeekly recomputes st.Weekly from st.Activity. When no record carries
// a valid date the existing arrays are kept and false is returned.
func RecalcWeekly(st *models.AppState, loc *time.Location) bool {
	w, dated := Aggregate(st.Activity, loc)
	if dated == 0 {
		return false
	}
	st.Weekly = w
	return true
}
