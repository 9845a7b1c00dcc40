// ABOUTME: SlotStore implements Store on top of any KV backend.
// ABOUTME: Numbers are stored as decimal text, item lists as JSON arrays.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/calories/internal/models"
	"go.uber.org/zap"
)

// SlotStore maps the logical ledger slots onto a KV backend.
// Every mutation is a full read-modify-write of one slot.
type SlotStore struct {
	kv           KV
	defaultLimit float64
	log          *zap.Logger
}

// Compile-time check that SlotStore implements Store.
var _ Store = (*SlotStore)(nil)

// SlotOption configures a SlotStore.
type SlotOption func(*SlotStore)

// WithDefaultLimit overrides the limit returned when none is stored.
func WithDefaultLimit(limit float64) SlotOption {
	return func(s *SlotStore) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

// WithLogger sets the logger used for malformed slot warnings.
func WithLogger(log *zap.Logger) SlotOption {
	return func(s *SlotStore) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSlotStore wraps kv.
func NewSlotStore(kv KV, opts ...SlotOption) *SlotStore {
	s := &SlotStore{
		kv:           kv,
		defaultLimit: DefaultCalorieLimit,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the underlying backend.
func (s *SlotStore) Close() error {
	return s.kv.Close()
}

// GetCalorieLimit returns the stored limit or the default.
func (s *SlotStore) GetCalorieLimit() (float64, error) {
	return s.getNumber(KeyCalorieLimit, s.defaultLimit)
}

// SetCalorieLimit overwrites the stored limit.
func (s *SlotStore) SetCalorieLimit(v float64) error {
	return s.setNumber(KeyCalorieLimit, v)
}

// GetTotalCalories returns the stored running total or 0.
func (s *SlotStore) GetTotalCalories() (float64, error) {
	return s.getNumber(KeyTotalCalories, 0)
}

// UpdateTotalCalories overwrites the stored running total.
func (s *SlotStore) UpdateTotalCalories(v float64) error {
	return s.setNumber(KeyTotalCalories, v)
}

// GetMeals returns the stored meal list, oldest first.
func (s *SlotStore) GetMeals() ([]models.Item, error) {
	return s.getItems(KeyMeals)
}

// SaveMeal appends a meal to the stored list.
func (s *SlotStore) SaveMeal(item models.Item) error {
	return s.appendItem(KeyMeals, item)
}

// RemoveMeal removes the meal with the given ID. Missing IDs are ignored.
func (s *SlotStore) RemoveMeal(id string) error {
	return s.removeItem(KeyMeals, id)
}

// GetWorkouts returns the stored workout list, oldest first.
func (s *SlotStore) GetWorkouts() ([]models.Item, error) {
	return s.getItems(KeyWorkouts)
}

// SaveWorkout appends a workout to the stored list.
func (s *SlotStore) SaveWorkout(item models.Item) error {
	return s.appendItem(KeyWorkouts, item)
}

// RemoveWorkout removes the workout with the given ID. Missing IDs are ignored.
func (s *SlotStore) RemoveWorkout(id string) error {
	return s.removeItem(KeyWorkouts, id)
}

// ClearAll deletes the session slots. The calorie limit is a standing
// preference and is left in place.
func (s *SlotStore) ClearAll() error {
	for _, key := range []string{KeyWorkouts, KeyMeals, KeyTotalCalories} {
		if err := s.kv.Delete(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// read returns the raw slot value, or nil when the slot is absent.
func (s *SlotStore) read(key string) ([]byte, error) {
	data, err := s.kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *SlotStore) getNumber(key string, def float64) (float64, error) {
	data, err := s.read(key)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return def, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		s.log.Warn("malformed slot, using default",
			zap.String("key", key),
			zap.ByteString("value", data),
			zap.Float64("default", def),
			zap.Error(err))
		return def, nil
	}
	return v, nil
}

func (s *SlotStore) setNumber(key string, v float64) error {
	if err := s.kv.Set(key, []byte(models.FormatCalories(v))); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SlotStore) getItems(key string) ([]models.Item, error) {
	data, err := s.read(key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []models.Item{}, nil
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("malformed slot, using empty list",
			zap.String("key", key),
			zap.Error(err))
		return []models.Item{}, nil
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (s *SlotStore) putItems(key string, items []models.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SlotStore) appendItem(key string, item models.Item) error {
	items, err := s.getItems(key)
	if err != nil {
		return err
	}
	return s.putItems(key, append(items, item))
}

func (s *SlotStore) removeItem(key, id string) error {
	items, err := s.getItems(key)
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == id {
			return s.putItems(key, append(items[:i], items[i+1:]...))
		}
	}
	s.log.Debug("remove: id not in slot", zap.String("key", key), zap.String("id", id))
	return nil
}
