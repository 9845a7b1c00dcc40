// ABOUTME: Store and KV interfaces for calorie ledger persistence.
// ABOUTME: Store exposes one method group per slot; KV is the raw backend.
package storage

import (
	"errors"

	"github.com/harperreed/calories/internal/models"
)

// Slot keys in the flat key-value namespace.
const (
	KeyCalorieLimit  = "calorieLimit"
	KeyTotalCalories = "totalCalories"
	KeyMeals         = "meals"
	KeyWorkouts      = "workouts"
)

// DefaultCalorieLimit is returned when no limit has been stored.
const DefaultCalorieLimit = 2200

// ErrNotFound is returned by KV.Get when a key is absent.
var ErrNotFound = errors.New("key not found")

// Store is the durable mirror of ledger state.
// This interface allows swapping implementations (e.g., for testing).
type Store interface {
	// Calorie limit. Preserved by ClearAll.
	GetCalorieLimit() (float64, error)
	SetCalorieLimit(v float64) error

	// Running total
	GetTotalCalories() (float64, error)
	UpdateTotalCalories(v float64) error

	// Meal list
	GetMeals() ([]models.Item, error)
	SaveMeal(item models.Item) error
	RemoveMeal(id string) error

	// Workout list
	GetWorkouts() ([]models.Item, error)
	SaveWorkout(item models.Item) error
	RemoveWorkout(id string) error

	// ClearAll removes the total, meals and workouts but keeps the limit.
	ClearAll() error

	// Lifecycle
	Close() error
}

// KV is a minimal byte-oriented key-value backend.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
