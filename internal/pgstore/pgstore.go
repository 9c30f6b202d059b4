// Package pgstore keeps tasks in a PostgreSQL database instead of the local
// SQLite file. Accounts still live in each machine's local database, so a
// task is only visible to the user id that created it on that machine.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tgienger/tasks/internal/models"
)

// ErrNotFound is returned when a task does not exist
var ErrNotFound = errors.New("task not found")

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id     TEXT NOT NULL,
    title       TEXT NOT NULL CHECK (length(btrim(title)) > 0),
    description TEXT NOT NULL DEFAULT '',
    completed   BOOLEAN NOT NULL DEFAULT FALSE,
    priority    TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
    due_date    DATE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks (user_id, created_at DESC);
`

const taskColumns = `id::text, user_id, title, description, completed, priority, due_date, created_at, updated_at`

// Store is a task store backed by a pgx connection pool
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to dsn and makes sure the tasks table exists
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	logger.Debug("Connected to postgres task store")
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}

func scanTask(row pgx.Row) (models.Task, error) {
	var (
		t        models.Task
		priority string
		due      pgtype.Date
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &priority, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	t.Priority = models.Priority(priority)
	if due.Valid {
		d := models.DateOf(due.Time)
		t.DueDate = &d
	}
	return t, nil
}

func dueDate(d *models.Date) pgtype.Date {
	if d == nil || d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.In(time.UTC), Valid: true}
}

// ListByOwner returns all tasks for owner, newest created first
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Insert stores a new task; id and timestamps come from the database
func (s *Store) Insert(ctx context.Context, owner string, d models.Draft) (*models.Task, error) {
	priority := d.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, priority, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+taskColumns,
		owner, d.Title, d.Description, string(priority), dueDate(d.DueDate))
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	s.logger.Debug("Inserted task", slog.String("id", t.ID), slog.String("owner", owner))
	return &t, nil
}

// Update applies the non-nil fields of p to a task owned by owner and
// returns the stored row. An id that is not a UUID cannot exist.
func (s *Store) Update(ctx context.Context, owner, id string, p models.Patch, updatedAt time.Time) (*models.Task, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var sets []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if p.Title != nil {
		sets = append(sets, "title = "+arg(strings.TrimSpace(*p.Title)))
	}
	if p.Description != nil {
		sets = append(sets, "description = "+arg(*p.Description))
	}
	if p.Completed != nil {
		sets = append(sets, "completed = "+arg(*p.Completed))
	}
	if p.Priority != nil {
		sets = append(sets, "priority = "+arg(string(*p.Priority)))
	}
	if p.ClearDueDate {
		sets = append(sets, "due_date = NULL")
	} else if p.DueDate != nil {
		sets = append(sets, "due_date = "+arg(dueDate(p.DueDate)))
	}
	sets = append(sets, "updated_at = GREATEST(updated_at, "+arg(updatedAt)+")")
	where := "id = " + arg(key.String()) + "::uuid AND user_id = " + arg(owner)

	row := s.pool.QueryRow(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE "+where+" RETURNING "+taskColumns,
		args...)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &t, nil
}

// Delete removes a task owned by owner. A missing id is not an error.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	_, err = s.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1::uuid AND user_id = $2", key.String(), owner)
	return err
}
