package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority is the importance of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when a draft does not set one
const DefaultPriority = PriorityMedium

// ErrInvalidPriority is returned for anything outside low/medium/high
var ErrInvalidPriority = errors.New("priority must be low, medium or high")

// Priorities returns the priorities in ascending order
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next cycles low -> medium -> high -> low
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority parses a priority name, case-insensitively
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// User is an authenticated identity
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Task represents a single task owned by one user
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	DueDate     *Date // nil when the task has no due date
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasDueDate reports whether the task carries a due date
func (t Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// ErrEmptyTitle is returned when a task title is empty or only whitespace
var ErrEmptyTitle = errors.New("title is required")

// Draft holds the user-supplied fields of a task that does not exist yet.
// Identifier, owner and timestamps are assigned by the store.
type Draft struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *Date
}

// Validate checks the draft the way the task form does before submitting
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	return nil
}

// Normalized returns the draft with a trimmed title and a default priority
func (d Draft) Normalized() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Priority == "" {
		d.Priority = DefaultPriority
	}
	return d
}

// Patch is a sparse set of field changes. Nil fields are left untouched.
type Patch struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *Priority
	DueDate      *Date
	ClearDueDate bool
}

// Validate rejects patches that would break task invariants
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.DueDate == nil && !p.ClearDueDate
}

// Apply merges the patch into t and stamps UpdatedAt. ID, UserID and
// CreatedAt are never touched.
func (p Patch) Apply(t Task, updatedAt time.Time) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if updatedAt.After(t.UpdatedAt) {
		t.UpdatedAt = updatedAt
	}
	return t
}

// CompletedPatch builds the patch used to toggle completion
func CompletedPatch(completed bool) Patch {
	return Patch{Completed: &completed}
}
