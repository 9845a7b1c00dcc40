// ABOUTME: Data migration between calorie storage backends.
// ABOUTME: Copies the limit, running total, meals, and workouts from source to destination.

package storage

import (
	"fmt"
	"os"

	"github.com/harperreed/calories/internal/models"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	CalorieLimit  float64
	TotalCalories float64
	Meals         int
	Workouts      int
}

// snapshot is everything CopySlots moves, read in one pass.
type snapshot struct {
	limit    float64
	total    float64
	meals    []models.Item
	workouts []models.Item
}

func (s *snapshot) summary() *MigrateSummary {
	return &MigrateSummary{
		CalorieLimit:  s.limit,
		TotalCalories: s.total,
		Meals:         len(s.meals),
		Workouts:      len(s.workouts),
	}
}

func readSnapshot(src Store) (*snapshot, error) {
	limit, err := src.GetCalorieLimit()
	if err != nil {
		return nil, fmt.Errorf("read source limit: %w", err)
	}
	total, err := src.GetTotalCalories()
	if err != nil {
		return nil, fmt.Errorf("read source total: %w", err)
	}
	meals, err := src.GetMeals()
	if err != nil {
		return nil, fmt.Errorf("read source meals: %w", err)
	}
	workouts, err := src.GetWorkouts()
	if err != nil {
		return nil, fmt.Errorf("read source workouts: %w", err)
	}
	return &snapshot{limit: limit, total: total, meals: meals, workouts: workouts}, nil
}

// Summarize reads src and reports what CopySlots would copy.
func Summarize(src Store) (*MigrateSummary, error) {
	snap, err := readSnapshot(src)
	if err != nil {
		return nil, err
	}
	return snap.summary(), nil
}

// CopySlots copies all data from src to dst storage.
// Source slots are read in full before the destination is cleared, so dst
// ends up an exact mirror of src even when both share a database.
func CopySlots(src, dst Store) (*MigrateSummary, error) {
	snap, err := readSnapshot(src)
	if err != nil {
		return nil, err
	}

	if err := dst.ClearAll(); err != nil {
		return nil, fmt.Errorf("clear destination: %w", err)
	}
	if err := dst.SetCalorieLimit(snap.limit); err != nil {
		return nil, fmt.Errorf("copy limit: %w", err)
	}
	if err := dst.UpdateTotalCalories(snap.total); err != nil {
		return nil, fmt.Errorf("copy total: %w", err)
	}
	for _, m := range snap.meals {
		if err := dst.SaveMeal(m); err != nil {
			return nil, fmt.Errorf("copy meal %s: %w", m.ID, err)
		}
	}
	for _, w := range snap.workouts {
		if err := dst.SaveWorkout(w); err != nil {
			return nil, fmt.Errorf("copy workout %s: %w", w.ID, err)
		}
	}

	return snap.summary(), nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
