// ABOUTME: Read accessors and derived values for the Ledger.
// ABOUTME: Consumed and burned are recomputed; the signed total is cached.
package tracker

import (
	"math"
	"strings"

	"github.com/harperreed/calories/internal/models"
)

// Stats is a point-in-time view of the ledger.
type Stats struct {
	CalorieLimit  float64 `json:"calorie_limit"`
	TotalCalories float64 `json:"total_calories"`
	Consumed      float64 `json:"consumed"`
	Burned        float64 `json:"burned"`
	Remaining     float64 `json:"remaining"`
	Progress      float64 `json:"progress"`
	OverLimit     bool    `json:"over_limit"`
	Meals         int     `json:"meals"`
	Workouts      int     `json:"workouts"`
}

// CalorieLimit returns the current daily limit.
func (l *Ledger) CalorieLimit() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calorieLimit
}

// TotalCalories returns the running total.
func (l *Ledger) TotalCalories() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalCalories
}

// Meals returns a copy of the meals in insertion order.
func (l *Ledger) Meals() []models.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Item{}, l.meals...)
}

// Workouts returns a copy of the workouts in insertion order.
func (l *Ledger) Workouts() []models.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Item{}, l.workouts...)
}

// Items returns a copy of the items of one kind.
func (l *Ledger) Items(kind models.Kind) []models.Item {
	if kind == models.KindWorkout {
		return l.Workouts()
	}
	return l.Meals()
}

// ConsumedTotal sums meal calories.
func (l *Ledger) ConsumedTotal() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sum(l.meals)
}

// BurnedTotal sums workout calories.
func (l *Ledger) BurnedTotal() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sum(l.workouts)
}

// Remaining returns limit minus total.
func (l *Ledger) Remaining() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return models.RoundCalories(l.calorieLimit - l.totalCalories)
}

// ProgressFraction returns total/limit clamped to [0, 1].
func (l *Ledger) ProgressFraction() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return progress(l.totalCalories, l.calorieLimit)
}

// OverLimit reports whether nothing remains of the limit.
func (l *Ledger) OverLimit() bool {
	return l.Remaining() <= 0
}

// Snapshot returns every derived value at once.
func (l *Ledger) Snapshot() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// snapshot requires l.mu.
func (l *Ledger) snapshot() Stats {
	remaining := models.RoundCalories(l.calorieLimit - l.totalCalories)
	return Stats{
		CalorieLimit:  l.calorieLimit,
		TotalCalories: l.totalCalories,
		Consumed:      sum(l.meals),
		Burned:        sum(l.workouts),
		Remaining:     remaining,
		Progress:      progress(l.totalCalories, l.calorieLimit),
		OverLimit:     remaining <= 0,
		Meals:         len(l.meals),
		Workouts:      len(l.workouts),
	}
}

// LoadItems replays every meal, then every workout, into r.
func (l *Ledger) LoadItems(r Renderer) {
	for _, m := range l.Meals() {
		r.RenderMeal(m)
	}
	for _, w := range l.Workouts() {
		r.RenderWorkout(w)
	}
}

// FilterItems returns the items whose name contains query, ignoring case.
// An empty query matches everything.
func FilterItems(items []models.Item, query string) []models.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if q == "" || strings.Contains(strings.ToLower(item.Name), q) {
			out = append(out, item)
		}
	}
	return out
}

func sum(items []models.Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Calories
	}
	return models.RoundCalories(total)
}

// progress guards a zero, negative or non-finite limit: any positive total
// counts as full, otherwise empty.
func progress(total, limit float64) float64 {
	if limit <= 0 || math.IsNaN(limit) || math.IsInf(limit, 0) {
		if total > 0 {
			return 1
		}
		return 0
	}
	p := total / limit
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
