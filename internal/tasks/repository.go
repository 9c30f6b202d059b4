// Package tasks keeps a signed-in user's task list in sync with the task
// store and selects the visible subset of it.
package tasks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tgienger/tasks/internal/models"
)

// ErrNoOwner is returned when an operation needs an owner and none was given
var ErrNoOwner = errors.New("no owner identity")

// Store is the backend holding task records. Every call is one round trip.
type Store interface {
	// ListByOwner returns all tasks owned by owner, newest created first.
	ListByOwner(ctx context.Context, owner string) ([]models.Task, error)
	// Insert stores a new task for owner and returns it with the
	// store-assigned id and timestamps.
	Insert(ctx context.Context, owner string, draft models.Draft) (*models.Task, error)
	// Update merges patch into the task with id owned by owner, stamps
	// updatedAt and returns the stored record. A task owned by someone else
	// is treated as absent.
	Update(ctx context.Context, owner, id string, patch models.Patch, updatedAt time.Time) (*models.Task, error)
	// Delete removes the task with id owned by owner. Deleting an absent id,
	// or one owned by someone else, changes nothing and is not an error.
	Delete(ctx context.Context, owner, id string) error
}

// Op names a repository operation
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Notice reports the outcome of a mutating operation or a failed load,
// ready to be shown as a transient notification.
type Notice struct {
	Op      Op
	OK      bool
	Message string
	Err     error
}

// Notifier receives a Notice when an operation completes
type Notifier func(Notice)

// Repository applies store results to a State. It never retries and never
// pre-applies a change: the list moves only after the store confirms.
//
// Two in-flight updates for the same id race; whichever response is applied
// last wins. There is no version check.
type Repository struct {
	store  Store
	state  *State
	now    func() time.Time
	logger *slog.Logger
	notify Notifier
}

// Option configures a Repository
type Option func(*Repository)

// WithClock overrides time.Now for updated-at stamping
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithLogger sets the logger used for backend failures
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// WithNotifier registers a callback for operation outcomes
func WithNotifier(n Notifier) Option {
	return func(r *Repository) { r.notify = n }
}

// NewRepository creates a repository writing into state
func NewRepository(store Store, state *State, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		state:  state,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// State returns the list this repository maintains
func (r *Repository) State() *State {
	return r.state
}

// Load fetches every task owned by owner and replaces the list with the
// result. A different owner than the current one empties the list first.
// On failure the list is left as it was.
func (r *Repository) Load(ctx context.Context, owner string) error {
	if owner == "" {
		return r.fail(OpLoad, &Error{Kind: FetchFailed, Err: ErrNoOwner})
	}
	if r.state.Owner() != owner {
		r.state.Reset(owner)
	}

	list, err := r.store.ListByOwner(ctx, owner)
	if err != nil {
		r.logger.Warn("Failed to fetch tasks", slog.String("owner", owner), slog.Any("error", err))
		return r.fail(OpLoad, &Error{Kind: FetchFailed, Err: err})
	}

	if !r.state.replace(owner, list) {
		r.logger.Debug("Dropped task list for stale owner", slog.String("owner", owner))
		return nil
	}
	r.logger.Debug("Loaded tasks", slog.String("owner", owner), slog.Int("count", len(list)))
	return nil
}

// Refetch reloads the list for the current owner
func (r *Repository) Refetch(ctx context.Context) error {
	return r.Load(ctx, r.state.Owner())
}

// Create inserts a task for owner and puts it at the front of the list
func (r *Repository) Create(ctx context.Context, owner string, draft models.Draft) (*models.Task, error) {
	if owner == "" {
		return nil, r.fail(OpCreate, &Error{Kind: CreateFailed, Err: ErrNoOwner})
	}
	if err := draft.Validate(); err != nil {
		return nil, r.fail(OpCreate, &Error{Kind: CreateFailed, Err: err})
	}
	if r.state.Owner() == "" {
		r.state.Reset(owner)
	}

	task, err := r.store.Insert(ctx, owner, draft.Normalized())
	if err != nil {
		r.logger.Warn("Failed to add task", slog.String("owner", owner), slog.Any("error", err))
		return nil, r.fail(OpCreate, &Error{Kind: CreateFailed, Err: err})
	}

	r.state.prepend(owner, *task)
	r.succeed(OpCreate, "Task added successfully")
	return task, nil
}

// Update re-stamps updated-at, persists the patch and replaces the matching
// entry in place once the store confirms. Only tasks of the current owner
// can be updated.
func (r *Repository) Update(ctx context.Context, id string, patch models.Patch) (*models.Task, error) {
	owner := r.state.Owner()
	if owner == "" {
		return nil, r.fail(OpUpdate, &Error{Kind: UpdateFailed, ID: id, Err: ErrNoOwner})
	}
	if err := patch.Validate(); err != nil {
		return nil, r.fail(OpUpdate, &Error{Kind: UpdateFailed, ID: id, Err: err})
	}

	task, err := r.store.Update(ctx, owner, id, patch, r.now())
	if err != nil {
		r.logger.Warn("Failed to update task",
			slog.String("id", id), slog.String("owner", owner), slog.Any("error", err))
		return nil, r.fail(OpUpdate, &Error{Kind: UpdateFailed, ID: id, Err: err})
	}

	r.state.put(*task)
	r.succeed(OpUpdate, "Task updated successfully")
	return task, nil
}

// ToggleComplete sets the completed flag of a task
func (r *Repository) ToggleComplete(ctx context.Context, id string, completed bool) (*models.Task, error) {
	return r.Update(ctx, id, models.CompletedPatch(completed))
}

// Delete removes a task of the current owner from the store and then from
// the list
func (r *Repository) Delete(ctx context.Context, id string) error {
	owner := r.state.Owner()
	if owner == "" {
		return r.fail(OpDelete, &Error{Kind: DeleteFailed, ID: id, Err: ErrNoOwner})
	}
	if err := r.store.Delete(ctx, owner, id); err != nil {
		r.logger.Warn("Failed to delete task",
			slog.String("id", id), slog.String("owner", owner), slog.Any("error", err))
		return r.fail(OpDelete, &Error{Kind: DeleteFailed, ID: id, Err: err})
	}

	r.state.remove(id)
	r.succeed(OpDelete, "Task deleted successfully")
	return nil
}

func (r *Repository) fail(op Op, err *Error) error {
	if r.notify != nil {
		r.notify(Notice{Op: op, Message: err.Message(), Err: err})
	}
	return err
}

func (r *Repository) succeed(op Op, msg string) {
	if r.notify != nil {
		r.notify(Notice{Op: op, OK: true, Message: msg})
	}
}
