// ABOUTME: Item model shared by meals and workouts.
// ABOUTME: Meals add calories to the running total, workouts subtract them.
package models

import (
	"github.com/google/uuid"
)

// Kind distinguishes consumed calories from burned calories.
type Kind string

const (
	KindMeal    Kind = "meal"
	KindWorkout Kind = "workout"
)

// Kinds lists every valid item kind.
var Kinds = []Kind{KindMeal, KindWorkout}

// IsValidKind checks if a string names an item kind.
func IsValidKind(s string) bool {
	for _, k := range Kinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// Sign returns +1 for meals and -1 for workouts.
func (k Kind) Sign() float64 {
	if k == KindWorkout {
		return -1
	}
	return 1
}

// Item is a named, calorie-valued record. The ID is the only lookup key.
type Item struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Calories float64 `json:"calories" validate:"gt=0"`
}

// NewItem creates an Item with a generated UUID. Calories are rounded with
// RoundCalories.
func NewItem(name string, calories float64) Item {
	return Item{
		ID:       uuid.New().String(),
		Name:     name,
		Calories: RoundCalories(calories),
	}
}

// NewMeal creates a meal item.
func NewMeal(name string, calories float64) Item {
	return NewItem(name, calories)
}

// NewWorkout creates a workout item.
func NewWorkout(name string, calories float64) Item {
	return NewItem(name, calories)
}

// ShortID returns the 8-character ID prefix shown in listings.
func (i Item) ShortID() string {
	if len(i.ID) <= 8 {
		return i.ID
	}
	return i.ID[:8]
}
