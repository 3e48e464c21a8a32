// Package book implements the in-memory contact store: single contact
// records and the insertion-ordered, name-keyed collection that holds them.
package book

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smileynet/rolodex/internal/field"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrNotFound   = errors.New("book: not found")
	ErrNoBirthday = errors.New("book: no birthday set")
	ErrLeapDay    = errors.New("book: no Feb 29 in target year")
)

// LeapPolicy controls how a Feb 29 birthday is handled when its next
// occurrence falls in a non-leap year.
type LeapPolicy string

const (
	// LeapNormalize rolls Feb 29 forward to Mar 1 in non-leap years.
	LeapNormalize LeapPolicy = "normalize"
	// LeapStrict reports ErrLeapDay instead of picking a substitute date.
	LeapStrict LeapPolicy = "strict"
)

// Record is one contact: a name, an optional birthday, and an ordered
// list of phone numbers. Duplicate phones are permitted.
type Record struct {
	Name     string
	Birthday *field.Birthday

	phones []*field.Phone
	leap   LeapPolicy
}

// NewRecord creates a Record with the given name and no phones.
func NewRecord(name string) *Record {
	return &Record{Name: name, leap: LeapNormalize}
}

// SetBirthday parses raw as YYYY-MM-DD and stores it as the birthday.
func (r *Record) SetBirthday(raw string) error {
	b, err := field.NewBirthday(raw)
	if err != nil {
		return err
	}
	r.Birthday = b
	return nil
}

// SetLeapPolicy selects the Feb 29 handling used by DaysToBirthday.
func (r *Record) SetLeapPolicy(p LeapPolicy) {
	r.leap = p
}

// AddPhone validates raw and appends it to the phone list.
func (r *Record) AddPhone(raw string) error {
	p, err := field.NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes every phone equal to raw. Removing a phone that is
// not present is a no-op.
func (r *Record) RemovePhone(raw string) {
	kept := r.phones[:0]
	for _, p := range r.phones {
		if p.String() != raw {
			kept = append(kept, p)
		}
	}
	r.phones = kept
}

// FindPhone returns the first phone equal to raw, or nil if none match.
func (r *Record) FindPhone(raw string) *field.Phone {
	for _, p := range r.phones {
		if p.String() == raw {
			return p
		}
	}
	return nil
}

// EditPhone replaces the first phone equal to oldRaw with newRaw, in place.
// Other phones and their order are untouched. Returns ErrNotFound if no
// phone equals oldRaw, or a validation error if newRaw is malformed.
func (r *Record) EditPhone(oldRaw, newRaw string) error {
	p := r.FindPhone(oldRaw)
	if p == nil {
		return fmt.Errorf("%w: phone %s in record %s", ErrNotFound, oldRaw, r.Name)
	}
	return p.Set(newRaw)
}

// Phones returns the formatted phone numbers in insertion order.
func (r *Record) Phones() []string {
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.String()
	}
	return out
}

// DaysToBirthday returns the whole number of days from now's calendar date
// to the next occurrence of the birthday's month and day. A birthday whose
// occurrence is today returns 0. Returns ErrNoBirthday when no birthday is
// set, and ErrLeapDay under LeapStrict when the next occurrence would land
// on Feb 29 of a non-leap year.
func (r *Record) DaysToBirthday(now time.Time) (int, error) {
	if r.Birthday == nil {
		return 0, fmt.Errorf("%w: record %s", ErrNoBirthday, r.Name)
	}

	bday := r.Birthday.Get()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// time.Date normalizes Feb 29 to Mar 1 in non-leap years.
	next := time.Date(today.Year(), bday.Month(), bday.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, bday.Month(), bday.Day(), 0, 0, 0, 0, time.UTC)
	}

	if r.leap == LeapStrict && bday.Month() == time.February && bday.Day() == 29 && !isLeapYear(next.Year()) {
		return 0, fmt.Errorf("%w: %d", ErrLeapDay, next.Year())
	}

	return int(next.Sub(today).Hours() / 24), nil
}

// isLeapYear reports whether year has a Feb 29.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// String renders the record as a single display line. The birthday clause
// is present only when a birthday is set.
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("Contact name: ")
	sb.WriteString(r.Name)
	sb.WriteString(", phones: ")
	sb.WriteString(strings.Join(r.Phones(), ", "))
	if r.Birthday != nil {
		sb.WriteString(", birthday: ")
		sb.WriteString(r.Birthday.String())
	}
	return sb.String()
}
