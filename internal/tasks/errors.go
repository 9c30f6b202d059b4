package tasks

import "fmt"

// Kind classifies a failed repository operation
type Kind int

const (
	FetchFailed Kind = iota + 1
	CreateFailed
	UpdateFailed
	DeleteFailed
)

func (k Kind) String() string {
	switch k {
	case FetchFailed:
		return "fetch failed"
	case CreateFailed:
		return "create failed"
	case UpdateFailed:
		return "update failed"
	case DeleteFailed:
		return "delete failed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every Repository operation that could not reach or
// satisfy the store. Local state is never mutated when an Error is returned.
type Error struct {
	Kind Kind
	ID   string // task id for update/delete, empty otherwise
	Err  error
}

// Sentinels for errors.Is matching on the kind only.
var (
	ErrFetchFailed  = &Error{Kind: FetchFailed}
	ErrCreateFailed = &Error{Kind: CreateFailed}
	ErrUpdateFailed = &Error{Kind: UpdateFailed}
	ErrDeleteFailed = &Error{Kind: DeleteFailed}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Message is the short text shown to the user
func (e *Error) Message() string {
	switch e.Kind {
	case FetchFailed:
		return "Failed to fetch tasks"
	case CreateFailed:
		return "Failed to add task"
	case UpdateFailed:
		return "Failed to update task"
	case DeleteFailed:
		return "Failed to delete task"
	}
	return e.Error()
}
