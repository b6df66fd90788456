// Package todo holds the task model and the status filter shared by the
// server, the page filter and the CLI.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of due dates in forms and on the page.
const DateLayout = "2006-01-02"

var (
	ErrUnknownStatus  = errors.New("unknown status")
	ErrInvalidDueDate = errors.New("invalid due date")
)

// Todo represents a single to-do item.
type Todo struct {
	ID        int64     `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	DueDate   time.Time `json:"due_date"`
	Category  string    `json:"category"`
}

// HasDueDate reports whether a due date was set.
func (t Todo) HasDueDate() bool { return !t.DueDate.IsZero() }

// DueString formats the due date for forms; empty when unset.
func (t Todo) DueString() string {
	if !t.HasDueDate() {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

// Overdue is true for open tasks whose due day lies before now's day.
func (t Todo) Overdue(now time.Time) bool {
	if t.Completed || !t.HasDueDate() {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, t.DueDate.Location())
	return t.DueDate.Before(today)
}

// ParseDueDate accepts YYYY-MM-DD; an empty string means no due date.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
	}
	return d, nil
}

// Status is a visibility category for rendered tasks.
type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// Statuses lists the filter values in display order.
var Statuses = []Status{StatusAll, StatusCompleted, StatusPending}

// ParseStatus normalises s. Empty input selects all.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAll, "":
		return StatusAll, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusPending:
		return StatusPending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// Shows reports whether an item with the given checkbox state is visible
// under s.
func (s Status) Shows(checked bool) bool {
	switch s {
	case StatusAll:
		return true
	case StatusCompleted:
		return checked
	case StatusPending:
		return !checked
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// Filter keeps the todos visible under status, in order.
func Filter(todos []Todo, status Status) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if status.Shows(t.Completed) {
			out = append(out, t)
		}
	}
	return out
}

// Counts returns the number of todos per status.
func Counts(todos []Todo) map[Status]int {
	c := map[Status]int{StatusAll: len(todos)}
	for _, t := range todos {
		if t.Completed {
			c[StatusCompleted]++
		} else {
			c[StatusPending]++
		}
	}
	return c
}
