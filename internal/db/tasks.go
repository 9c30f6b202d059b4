package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/tasks/internal/models"
)

const taskColumns = `id, user_id, title, description, completed, priority, due_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t   models.Task
		due sql.Null[models.Date]
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.Priority, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	if due.Valid {
		d := due.V
		t.DueDate = &d
	}
	return t, nil
}

func dueValue(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByOwner returns all tasks for a user, newest created first
func (db *DB) ListByOwner(ctx context.Context, owner string) ([]models.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Insert creates a new task owned by owner. The id and timestamps are
// assigned here.
func (db *DB) Insert(ctx context.Context, owner string, d models.Draft) (*models.Task, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	priority := d.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, completed, priority, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?)
	`, id, owner, d.Title, d.Description, priority, dueValue(d.DueDate), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return db.GetTask(ctx, id)
}

// Update applies the non-nil fields of p to a task owned by owner.
// updated_at never moves backwards.
func (db *DB) Update(ctx context.Context, owner, id string, p models.Patch, updatedAt time.Time) (*models.Task, error) {
	var sets []string
	var args []any

	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*p.Title))
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *p.Completed)
	}
	if p.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*p.Priority))
	}
	if p.ClearDueDate {
		sets = append(sets, "due_date = NULL")
	} else if p.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, dueValue(p.DueDate))
	}
	sets = append(sets, "updated_at = MAX(updated_at, ?)")
	args = append(args, updatedAt.UTC(), id, owner)

	result, err := db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return db.GetTask(ctx, id)
}

// Delete deletes a task owned by owner. Deleting a missing task is not an
// error.
func (db *DB) Delete(ctx context.Context, owner, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, owner)
	return err
}
