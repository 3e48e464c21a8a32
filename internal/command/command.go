// Package command implements the contact book's command layer: it parses
// one line of user input, runs it against a Book, and returns the text to
// display. Core errors are converted to "Error: ..." lines here; the data
// layer never prints.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smileynet/rolodex/internal/book"
)

// ErrParse is the sentinel for input that names a known command but does
// not match its argument shape.
var ErrParse = errors.New("command: malformed command")

// Executor evaluates command lines against a Book.
type Executor struct {
	book *book.Book
	leap book.LeapPolicy

	// now is the clock used for birthday countdowns. Tests override it.
	now func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithLeapPolicy sets the Feb 29 handling applied to records created by
// the add command.
func WithLeapPolicy(p book.LeapPolicy) Option {
	return func(e *Executor) { e.leap = p }
}

// WithClock overrides the clock used for birthday countdowns.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New creates an Executor over b.
func New(b *book.Book, opts ...Option) *Executor {
	e := &Executor{
		book: b,
		leap: book.LeapNormalize,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Book returns the underlying collection.
func (e *Executor) Book() *book.Book {
	return e.book
}

// Execute runs one input line and returns the text to display. quit
// reports that a farewell command was entered and the session should end.
// Execute never returns an error: failures come back as "Error: ..." lines.
func (e *Executor) Execute(line string) (out string, quit bool) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", false
	}

	switch strings.ToLower(args[0]) {
	case "hello":
		return "How can I help you?", false
	case "add":
		return report(e.addContact(args[1:])), false
	case "delete":
		return report(e.deleteContact(args[1:])), false
	case "change":
		return report(e.changePhone(args[1:])), false
	case "phone":
		return report(e.getPhones(args[1:])), false
	case "birthday":
		return report(e.daysToBirthday(args[1:])), false
	case "show":
		return report(e.show(args[1:])), false
	case "page":
		return report(e.setPage(args[1:])), false
	case "next":
		return e.movePage(1), false
	case "prev":
		return e.movePage(-1), false
	case "good":
		if len(args) == 2 && strings.EqualFold(args[1], "bye") {
			return "Good bye!", true
		}
	case "close", "exit":
		return "Good bye!", true
	}
	return "Unknown command. Please try again.", false
}

// report converts a handler result to a display line, turning errors into
// the user-visible "Error: ..." form.
func report(out string, err error) string {
	if err != nil {
		return "Error: " + err.Error()
	}
	return out
}

// addContact handles: add NAME PHONE [BIRTHDAY].
// Adding an existing name appends the phone to that record; the optional
// birthday only applies when the record is created.
func (e *Executor) addContact(args []string) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", fmt.Errorf("%w: usage: add NAME PHONE [BIRTHDAY]", ErrParse)
	}
	name, phone := args[0], args[1]

	if rec := e.book.Find(name); rec != nil {
		if err := rec.AddPhone(phone); err != nil {
			return "", err
		}
		return fmt.Sprintf("Contact %s added with phone %s", name, phone), nil
	}

	rec := book.NewRecord(name)
	rec.SetLeapPolicy(e.leap)
	if len(args) == 3 {
		if err := rec.SetBirthday(args[2]); err != nil {
			return "", err
		}
	}
	if err := rec.AddPhone(phone); err != nil {
		return "", err
	}
	e.book.Add(rec)
	return fmt.Sprintf("Contact %s added with phone %s", name, phone), nil
}

// deleteContact handles: delete NAME.
func (e *Executor) deleteContact(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: delete NAME", ErrParse)
	}
	name := args[0]
	if !e.book.Delete(name) {
		return fmt.Sprintf("Contact %s not found", name), nil
	}
	return fmt.Sprintf("Contact %s deleted", name), nil
}

// changePhone handles: change NAME OLD NEW.
func (e *Executor) changePhone(args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("%w: usage: change NAME OLD NEW", ErrParse)
	}
	name, oldPhone, newPhone := args[0], args[1], args[2]
	if err := e.book.ChangePhone(name, oldPhone, newPhone); err != nil {
		return "", err
	}
	return fmt.Sprintf("Phone for %s changed from %s to %s", name, oldPhone, newPhone), nil
}

// getPhones handles: phone NAME.
func (e *Executor) getPhones(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: phone NAME", ErrParse)
	}
	name := args[0]
	rec := e.book.Find(name)
	if rec == nil || len(rec.Phones()) == 0 {
		return "", fmt.Errorf("%w: contact %s", book.ErrNotFound, name)
	}
	return fmt.Sprintf("Phone numbers for %s: %s", name, strings.Join(rec.Phones(), ", ")), nil
}

// daysToBirthday handles: birthday NAME.
func (e *Executor) daysToBirthday(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: birthday NAME", ErrParse)
	}
	name := args[0]
	rec := e.book.Find(name)
	if rec == nil {
		return "", fmt.Errorf("%w: contact %s", book.ErrNotFound, name)
	}
	days, err := rec.DaysToBirthday(e.now())
	if errors.Is(err, book.ErrNoBirthday) {
		return fmt.Sprintf("No birthday set for %s", name), nil
	}
	if err != nil {
		return "", err
	}
	switch days {
	case 0:
		return fmt.Sprintf("%s's birthday is today", name), nil
	case 1:
		return fmt.Sprintf("%s's birthday is tomorrow", name), nil
	default:
		return fmt.Sprintf("%s's birthday is in %d days", name, days), nil
	}
}

// show handles: show all | show n records N.
func (e *Executor) show(args []string) (string, error) {
	switch {
	case len(args) == 1 && strings.EqualFold(args[0], "all"):
		return e.showPage(), nil
	case len(args) == 3 && strings.EqualFold(args[0], "n") && strings.EqualFold(args[1], "records"):
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return "", fmt.Errorf("%w: record count %q is not a number", ErrParse, args[2])
		}
		records := e.book.FirstN(n)
		return fmt.Sprintf("%d records:\n%s", n, strings.Join(records, "\n")), nil
	}
	return "", fmt.Errorf("%w: usage: show all | show n records N", ErrParse)
}

// showPage renders the current page of the insertion-ordered listing.
func (e *Executor) showPage() string {
	page := e.book.Page(e.book.CurrentPage)
	lines := make([]string, len(page))
	for i, rec := range page {
		lines[i] = rec.String()
	}
	return fmt.Sprintf("Page %d:\n%s", e.book.CurrentPage, strings.Join(lines, "\n"))
}

// setPage handles: page N.
func (e *Executor) setPage(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: page N", ErrParse)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return "", fmt.Errorf("%w: page %q must be a positive number", ErrParse, args[0])
	}
	e.book.CurrentPage = n
	return fmt.Sprintf("Page set to %d of %d", n, e.book.Pages()), nil
}

// movePage advances CurrentPage by delta, never going below page 1.
func (e *Executor) movePage(delta int) string {
	n := e.book.CurrentPage + delta
	if n < 1 {
		n = 1
	}
	e.book.CurrentPage = n
	return fmt.Sprintf("Page set to %d of %d", n, e.book.Pages())
}
