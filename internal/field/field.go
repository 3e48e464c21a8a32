// Package field implements validated value containers for contact fields.
// A Field carries the validator it was built with, so every assignment is
// checked and a rejected assignment leaves the stored value untouched.
package field

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation is the sentinel for values that fail a field's format rule.
var ErrValidation = errors.New("field: invalid value")

// Validator checks a candidate value before it is stored.
// It returns nil to accept the value.
type Validator[T any] func(T) error

// Field holds a single validated value. The zero Field is not usable;
// construct with New (or NewPhone / NewBirthday).
type Field[T any] struct {
	value    T
	validate Validator[T]
}

// New constructs a Field holding value, validated by validate.
// A nil validate accepts everything.
func New[T any](value T, validate Validator[T]) (*Field[T], error) {
	f := &Field[T]{validate: validate}
	if err := f.Set(value); err != nil {
		return nil, err
	}
	return f, nil
}

// Set replaces the stored value after re-running the validator.
// On validation failure the previous value is retained.
func (f *Field[T]) Set(value T) error {
	if f.validate != nil {
		if err := f.validate(value); err != nil {
			return err
		}
	}
	f.value = value
	return nil
}

// Get returns the current value.
func (f *Field[T]) Get() T {
	return f.value
}

// phoneLength is the required number of digits in a phone number.
const phoneLength = 10

// validatePhone requires exactly 10 decimal digits.
func validatePhone(raw string) error {
	if len(raw) != phoneLength {
		return fmt.Errorf("%w: phone %q must be exactly %d digits", ErrValidation, raw, phoneLength)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return fmt.Errorf("%w: phone %q must contain only digits", ErrValidation, raw)
		}
	}
	return nil
}

// Phone is a validated 10-digit phone number.
type Phone struct {
	Field[string]
}

// NewPhone constructs a Phone from raw, rejecting anything that is not
// exactly 10 decimal digits.
func NewPhone(raw string) (*Phone, error) {
	p := &Phone{Field[string]{validate: validatePhone}}
	if err := p.Set(raw); err != nil {
		return nil, err
	}
	return p, nil
}

// String returns the phone number as entered.
func (p *Phone) String() string {
	return p.Get()
}

// Birthday is a calendar date parsed from YYYY-MM-DD.
type Birthday struct {
	Field[time.Time]
}

// NewBirthday constructs a Birthday from a YYYY-MM-DD string.
func NewBirthday(raw string) (*Birthday, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: birthday %q must be a valid YYYY-MM-DD date", ErrValidation, raw)
	}
	b := &Birthday{}
	if err := b.Set(t); err != nil {
		return nil, err
	}
	return b, nil
}

// String renders the date back as YYYY-MM-DD.
func (b *Birthday) String() string {
	return b.Get().Format(time.DateOnly)
}
