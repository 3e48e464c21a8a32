package book

import (
	"fmt"
	"strings"
)

// DefaultPageSize is the number of records shown per page when no
// configuration overrides it.
const DefaultPageSize = 5

// Book is the in-memory contact collection. Names are case-insensitive
// identities with case-preserving storage: at most one record exists per
// case-folded name. Records keep insertion order, which is what pagination
// and listing iterate over. Not safe for concurrent use.
type Book struct {
	records []*Record
	index   map[string]*Record // case-folded name → record

	// PageSize and CurrentPage hold the mutable pagination state used by
	// the "show all" listing.
	PageSize    int
	CurrentPage int

	// DedupePhones skips phones the target record already holds when a
	// duplicate-name Add merges phone lists. Off by default, matching the
	// historical merge behavior.
	DedupePhones bool
}

// New creates an empty Book with default pagination state.
func New() *Book {
	return &Book{
		index:       make(map[string]*Record),
		PageSize:    DefaultPageSize,
		CurrentPage: 1,
	}
}

// foldName produces the case-insensitive identity for a contact name.
func foldName(name string) string {
	return strings.ToLower(name)
}

// Add inserts rec into the book. If a record with a case-insensitively
// matching name already exists, rec's phones are appended onto the existing
// record instead of creating a second entry; the existing record's name
// casing and birthday are kept.
func (b *Book) Add(rec *Record) {
	existing, ok := b.index[foldName(rec.Name)]
	if !ok {
		b.records = append(b.records, rec)
		b.index[foldName(rec.Name)] = rec
		return
	}
	for _, p := range rec.phones {
		if b.DedupePhones && existing.FindPhone(p.String()) != nil {
			continue
		}
		existing.phones = append(existing.phones, p)
	}
}

// Find returns the record stored under name, matched case-insensitively,
// or nil if no such record exists.
func (b *Book) Find(name string) *Record {
	return b.index[foldName(name)]
}

// Delete removes the record stored under name, matched case-insensitively.
// It reports whether a record was removed. The removal key is derived from
// the resolved record's stored name, not the caller's spelling.
func (b *Book) Delete(name string) bool {
	rec := b.Find(name)
	if rec == nil {
		return false
	}
	delete(b.index, foldName(rec.Name))
	for i, r := range b.records {
		if r == rec {
			b.records = append(b.records[:i], b.records[i+1:]...)
			break
		}
	}
	return true
}

// ChangePhone resolves name and replaces oldRaw with newRaw in that record.
// Returns ErrNotFound when the name does not resolve; phone-level errors
// come from Record.EditPhone.
func (b *Book) ChangePhone(name, oldRaw, newRaw string) error {
	rec := b.Find(name)
	if rec == nil {
		return fmt.Errorf("%w: contact %s", ErrNotFound, name)
	}
	return rec.EditPhone(oldRaw, newRaw)
}

// Len returns the number of records.
func (b *Book) Len() int {
	return len(b.records)
}

// All returns the formatted representation of every record in insertion
// order.
func (b *Book) All() []string {
	out := make([]string, len(b.records))
	for i, r := range b.records {
		out[i] = r.String()
	}
	return out
}

// Page returns the records on page n (1-based) of the insertion-ordered
// listing, sliced by PageSize. Out-of-range pages return an empty slice.
func (b *Book) Page(n int) []*Record {
	if n < 1 || b.PageSize < 1 {
		return nil
	}
	start := (n - 1) * b.PageSize
	if start >= len(b.records) {
		return nil
	}
	end := start + b.PageSize
	if end > len(b.records) {
		end = len(b.records)
	}
	return b.records[start:end]
}

// Pages returns the total page count for the current PageSize.
// An empty book has zero pages.
func (b *Book) Pages() int {
	if b.PageSize < 1 {
		return 0
	}
	return (len(b.records) + b.PageSize - 1) / b.PageSize
}

// FirstN returns up to n formatted records from the start of the listing,
// fewer if the book holds fewer. n <= 0 returns an empty slice.
func (b *Book) FirstN(n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(b.records) {
		n = len(b.records)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = b.records[i].String()
	}
	return out
}
