// Package meals maintains the per-slot meal lists. Calories are not stored
// structurally; they are parsed back out of each entry's text.
package meals

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fittrack-dashboard/models"
)

var ErrInvalidMeal = errors.New("invalid meal")

// calPattern is the compatibility parser for stored entries: the first run
// of digits followed by "cal", case-insensitive.
var calPattern = regexp.MustCompile(`(?i)(\d+)\s*cal`)

// FormatEntry renders the stored text for a meal.
func FormatEntry(name string, calories int) string {
	return fmt.Sprintf("%s — %d cal", name, calories)
}

// Add appends a formatted entry to slot.
func Add(plan *models.MealPlan, slot models.Slot, name string, calories int) error {
	name = strings.TrimSpace(name)
	switch {
	case !slot.Valid():
		return fmt.Errorf("%w: unknown slot %q", ErrInvalidMeal, slot)
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidMeal)
	case calories <= 0:
		return fmt.Errorf("%w: calories must be positive", ErrInvalidMeal)
	}
	entries := plan.Entries(slot)
	*entries = append(*entries, FormatEntry(name, calories))
	return nil
}

// Remove deletes the entry at index. It reports false and leaves the plan
// alone when the slot or index is out of range.
func Remove(plan *models.MealPlan, slot models.Slot, index int) bool {
	entries := plan.Entries(slot)
	if entries == nil || index < 0 || index >= len(*entries) {
		return false
	}
	*entries = append((*entries)[:index:index], (*entries)[index+1:]...)
	return true
}

// ParseCalories extracts the calorie figure from an entry.
func ParseCalories(entry string) (int, bool) {
	m := calPattern.FindStringSubmatch(entry)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SumCalories totals the parseable entries of one slot.
func SumCalories(plan *models.MealPlan, slot models.Slot) int {
	entries := plan.Entries(slot)
	if entries == nil {
		return 0
	}
	total := 0
	for _, e := range *entries {
		if n, ok := ParseCalories(e); ok {
			total += n
		}
	}
	return total
}

func TotalCalories(plan *models.MealPlan) int {
	total := 0
	for _, slot := range models.Slots {
		total += SumCalories(plan, slot)
	}
	return total
}
