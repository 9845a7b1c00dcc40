// ABOUTME: Parse-and-validate boundary for user supplied item fields.
// ABOUTME: Produces typed ValidationErrors instead of coercing input.
package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every ValidationError.
var ErrInvalid = errors.New("invalid input")

// ValidationError reports a rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that the item has an ID, a non-blank name and positive,
// finite calories.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if math.IsNaN(i.Calories) || math.IsInf(i.Calories, 0) {
		return &ValidationError{Field: "calories", Reason: "must be a finite number"}
	}

	err := getValidator().Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return &ValidationError{Field: field, Reason: "must not be empty"}
		case "gt":
			return &ValidationError{Field: field, Reason: "must be greater than zero"}
		default:
			return &ValidationError{Field: field, Reason: fe.Tag()}
		}
	}
	return fmt.Errorf("validate item: %w", err)
}

// calorieScale is the number of recorded steps per kcal. Inputs and running
// totals are kept to one decimal place.
const calorieScale = 10

// RoundCalories rounds v to one decimal place, returning the float64 nearest
// that decimal. NaN and infinities pass through unchanged.
func RoundCalories(v float64) float64 {
	return math.Round(v*calorieScale) / calorieScale
}

// ParseCalories converts raw text to a positive calorie amount rounded to
// one decimal place.
func ParseCalories(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "calories", Reason: "must not be empty"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: "calories", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	v = RoundCalories(v)
	if v <= 0 {
		return 0, &ValidationError{Field: "calories", Reason: "must be greater than zero"}
	}
	return v, nil
}

// ParseItem builds a validated item from raw form values.
func ParseItem(name, calories string) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	c, err := ParseCalories(calories)
	if err != nil {
		return Item{}, err
	}
	item := NewItem(name, c)
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// FormatCalories renders a calorie amount without trailing zeros.
func FormatCalories(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
