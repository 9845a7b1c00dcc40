// ABOUTME: Ledger aggregate holding the calorie limit, running total, meals and workouts.
// ABOUTME: Every in-memory mutation is followed by a matching Store write.
package tracker

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/storage"
	"go.uber.org/zap"
)

// ErrAmbiguousID is returned when an ID prefix matches more than one item.
var ErrAmbiguousID = errors.New("ambiguous id prefix")

// Renderer receives items during LoadItems replay.
type Renderer interface {
	RenderMeal(item models.Item)
	RenderWorkout(item models.Item)
}

// Ledger is the in-memory calorie aggregate.
//
// The running total is maintained incrementally and always equals the sum
// of meal calories minus the sum of workout calories. Calories and the total
// are kept to one decimal place with models.RoundCalories. The in-memory update
// and the Store write are separate steps; a failed write is reported but
// not rolled back, and the next Initialize trusts whatever the Store holds.
type Ledger struct {
	store storage.Store
	log   *zap.Logger

	mu            sync.Mutex
	calorieLimit  float64
	totalCalories float64
	meals         []models.Item
	workouts      []models.Item
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the ledger logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates a Ledger backed by store. Call Initialize before use.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:        store,
		log:          zap.NewNop(),
		calorieLimit: storage.DefaultCalorieLimit,
		meals:        []models.Item{},
		workouts:     []models.Item{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open creates a Ledger and initializes it from store.
func Open(store storage.Store, opts ...Option) (*Ledger, error) {
	l := New(store, opts...)
	if err := l.Initialize(); err != nil {
		return nil, err
	}
	return l, nil
}

// Initialize loads limit, total, meals and workouts from the store.
func (l *Ledger) Initialize() error {
	limit, err := l.store.GetCalorieLimit()
	if err != nil {
		return fmt.Errorf("load calorie limit: %w", err)
	}
	total, err := l.store.GetTotalCalories()
	if err != nil {
		return fmt.Errorf("load total calories: %w", err)
	}
	meals, err := l.store.GetMeals()
	if err != nil {
		return fmt.Errorf("load meals: %w", err)
	}
	workouts, err := l.store.GetWorkouts()
	if err != nil {
		return fmt.Errorf("load workouts: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.calorieLimit = limit
	l.totalCalories = models.RoundCalories(total)
	l.meals = meals
	l.workouts = workouts

	l.log.Debug("ledger initialized",
		zap.Float64("limit", limit),
		zap.Float64("total", total),
		zap.Int("meals", len(meals)),
		zap.Int("workouts", len(workouts)))
	return nil
}

// AddMeal appends a meal and adds its calories to the total.
func (l *Ledger) AddMeal(item models.Item) error {
	_, err := l.add(models.KindMeal, item)
	return err
}

// AddWorkout appends a workout and subtracts its calories from the total.
func (l *Ledger) AddWorkout(item models.Item) error {
	_, err := l.add(models.KindWorkout, item)
	return err
}

// RemoveMeal removes the meal with id. It reports false, without error,
// when no such meal exists.
func (l *Ledger) RemoveMeal(id string) (bool, error) {
	removed, _, err := l.remove(models.KindMeal, id)
	return removed, err
}

// RemoveWorkout removes the workout with id. It reports false, without
// error, when no such workout exists.
func (l *Ledger) RemoveWorkout(id string) (bool, error) {
	removed, _, err := l.remove(models.KindWorkout, id)
	return removed, err
}

// Add dispatches on kind and returns the stats as they stood right after
// the item was added.
func (l *Ledger) Add(kind models.Kind, item models.Item) (Stats, error) {
	if !models.IsValidKind(string(kind)) {
		return Stats{}, &models.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", kind)}
	}
	return l.add(kind, item)
}

// Remove dispatches on kind and returns the stats as they stood right after
// the removal, or the unchanged stats when nothing matched id.
func (l *Ledger) Remove(kind models.Kind, id string) (bool, Stats, error) {
	if !models.IsValidKind(string(kind)) {
		return false, Stats{}, &models.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", kind)}
	}
	return l.remove(kind, id)
}

// SetCalorieLimit overwrites the limit, rounded to one decimal place. The
// total is unchanged. NaN and infinite limits are rejected.
func (l *Ledger) SetCalorieLimit(limit float64) error {
	if math.IsNaN(limit) || math.IsInf(limit, 0) {
		return &models.ValidationError{Field: "limit", Reason: "must be a finite number"}
	}
	limit = models.RoundCalories(limit)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.calorieLimit = limit
	if err := l.store.SetCalorieLimit(limit); err != nil {
		return fmt.Errorf("persist calorie limit: %w", err)
	}
	l.log.Debug("calorie limit set", zap.Float64("limit", limit))
	return nil
}

// Reset zeroes the total and clears both lists. The limit is kept.
func (l *Ledger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totalCalories = 0
	l.meals = []models.Item{}
	l.workouts = []models.Item{}
	if err := l.store.ClearAll(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	l.log.Debug("ledger reset")
	return nil
}

func (l *Ledger) add(kind models.Kind, item models.Item) (Stats, error) {
	item.Calories = models.RoundCalories(item.Calories)
	if err := item.Validate(); err != nil {
		return Stats{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.setItems(kind, append(l.items(kind), item))
	l.totalCalories = models.RoundCalories(l.totalCalories + kind.Sign()*item.Calories)

	if err := l.store.UpdateTotalCalories(l.totalCalories); err != nil {
		return Stats{}, fmt.Errorf("persist total: %w", err)
	}
	if err := l.save(kind, item); err != nil {
		return Stats{}, fmt.Errorf("persist %s: %w", kind, err)
	}

	l.log.Debug("item added",
		zap.String("kind", string(kind)),
		zap.String("id", item.ID),
		zap.Float64("calories", item.Calories),
		zap.Float64("total", l.totalCalories))
	return l.snapshot(), nil
}

func (l *Ledger) remove(kind models.Kind, id string) (bool, Stats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := l.items(kind)
	idx := indexOf(items, id)
	if idx == -1 {
		l.log.Debug("remove: not found", zap.String("kind", string(kind)), zap.String("id", id))
		return false, l.snapshot(), nil
	}
	item := items[idx]

	l.totalCalories = models.RoundCalories(l.totalCalories - kind.Sign()*item.Calories)
	if err := l.store.UpdateTotalCalories(l.totalCalories); err != nil {
		return false, Stats{}, fmt.Errorf("persist total: %w", err)
	}
	if err := l.delete(kind, id); err != nil {
		return false, Stats{}, fmt.Errorf("persist %s removal: %w", kind, err)
	}

	next := make([]models.Item, 0, len(items)-1)
	next = append(next, items[:idx]...)
	next = append(next, items[idx+1:]...)
	l.setItems(kind, next)

	l.log.Debug("item removed",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Float64("total", l.totalCalories))
	return true, l.snapshot(), nil
}

func (l *Ledger) items(kind models.Kind) []models.Item {
	if kind == models.KindWorkout {
		return l.workouts
	}
	return l.meals
}

func (l *Ledger) setItems(kind models.Kind, items []models.Item) {
	if kind == models.KindWorkout {
		l.workouts = items
		return
	}
	l.meals = items
}

func (l *Ledger) save(kind models.Kind, item models.Item) error {
	if kind == models.KindWorkout {
		return l.store.SaveWorkout(item)
	}
	return l.store.SaveMeal(item)
}

func (l *Ledger) delete(kind models.Kind, id string) error {
	if kind == models.KindWorkout {
		return l.store.RemoveWorkout(id)
	}
	return l.store.RemoveMeal(id)
}

func indexOf(items []models.Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// FindMeal resolves a full ID or unique ID prefix to a meal.
func (l *Ledger) FindMeal(idOrPrefix string) (models.Item, bool, error) {
	return l.Find(models.KindMeal, idOrPrefix)
}

// FindWorkout resolves a full ID or unique ID prefix to a workout.
func (l *Ledger) FindWorkout(idOrPrefix string) (models.Item, bool, error) {
	return l.Find(models.KindWorkout, idOrPrefix)
}

// Find resolves a full ID or unique ID prefix. An exact match wins over
// prefix matches; more than one prefix match returns ErrAmbiguousID.
func (l *Ledger) Find(kind models.Kind, idOrPrefix string) (models.Item, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if idOrPrefix == "" {
		return models.Item{}, false, nil
	}

	var matches []models.Item
	for _, item := range l.items(kind) {
		if item.ID == idOrPrefix {
			return item, true, nil
		}
		if strings.HasPrefix(item.ID, idOrPrefix) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return models.Item{}, false, nil
	case 1:
		return matches[0], true, nil
	default:
		return models.Item{}, false, fmt.Errorf("%w %s: matches %d %ss", ErrAmbiguousID, idOrPrefix, len(matches), kind)
	}
}
