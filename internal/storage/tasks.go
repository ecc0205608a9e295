package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Sidyaa10/Task-Zen/internal/core"
)

const taskColumns = `id, owner_id, category, title, description, start_date, end_date, deadline,
	time_start, time_end, priority_level, manual_priority, progress, total_sessions,
	completed_sessions, reminder_settings, days_per_week, hours_per_day, status,
	completed_at, created_at, updated_at`

// InsertTask stores a new task document.
func (s *Store) InsertTask(ctx context.Context, task *core.Task) error {
	settingsJSON, _ := json.Marshal(task.ReminderSettings)

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.OwnerID, string(task.Category), task.Title, task.Description,
		task.StartDate, task.EndDate, task.Deadline, task.TimeStart, task.TimeEnd,
		task.PriorityLevel, task.ManualPriority, nullFloat(task.Progress),
		task.TotalSessions, task.CompletedSessions, string(settingsJSON),
		task.DaysPerWeek, task.HoursPerDay, string(task.Status),
		nullTime(task.CompletedAt), task.CreatedAt, task.UpdatedAt)
	return err
}

// GetTask retrieves a task by owner and ID.
func (s *Store) GetTask(ctx context.Context, ownerID, taskID string) (*core.Task, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? AND id = ?
	`, ownerID, taskID)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, &core.NotFoundError{Kind: "task", ID: taskID}
	}
	return task, err
}

// ListTasks retrieves an owner's tasks, optionally narrowed by status and
// categories, most recent first.
func (s *Store) ListTasks(ctx context.Context, ownerID string, filter core.TaskFilter) ([]*core.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if len(filter.Categories) > 0 {
		query += ` AND category IN (` + placeholders(len(filter.Categories)) + `)`
		for _, c := range filter.Categories {
			args = append(args, string(c))
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*core.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// SaveTask overwrites an existing task document.
func (s *Store) SaveTask(ctx context.Context, task *core.Task) error {
	settingsJSON, _ := json.Marshal(task.ReminderSettings)

	_, err := s.q.ExecContext(ctx, `
		UPDATE tasks SET category = ?, title = ?, description = ?, start_date = ?,
			end_date = ?, deadline = ?, time_start = ?, time_end = ?,
			priority_level = ?, manual_priority = ?, progress = ?,
			total_sessions = ?, completed_sessions = ?, reminder_settings = ?,
			days_per_week = ?, hours_per_day = ?, status = ?, completed_at = ?,
			updated_at = ?
		WHERE owner_id = ? AND id = ?
	`, string(task.Category), task.Title, task.Description, task.StartDate,
		task.EndDate, task.Deadline, task.TimeStart, task.TimeEnd,
		task.PriorityLevel, task.ManualPriority, nullFloat(task.Progress),
		task.TotalSessions, task.CompletedSessions, string(settingsJSON),
		task.DaysPerWeek, task.HoursPerDay, string(task.Status),
		nullTime(task.CompletedAt), task.UpdatedAt, task.OwnerID, task.ID)
	return err
}

// DeleteTask removes a task; children are deleted by the caller's cascade.
func (s *Store) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = ? AND id = ?`, ownerID, taskID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: "task", ID: taskID}
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*core.Task, error) {
	var task core.Task
	var category, status, settingsJSON string
	var progress sql.NullFloat64
	var completedAt sql.NullTime

	err := row.Scan(&task.ID, &task.OwnerID, &category, &task.Title, &task.Description,
		&task.StartDate, &task.EndDate, &task.Deadline, &task.TimeStart, &task.TimeEnd,
		&task.PriorityLevel, &task.ManualPriority, &progress, &task.TotalSessions,
		&task.CompletedSessions, &settingsJSON, &task.DaysPerWeek, &task.HoursPerDay,
		&status, &completedAt, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	task.Category = core.Category(category)
	task.Status = core.Status(status)
	if progress.Valid {
		task.Progress = &progress.Float64
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	json.Unmarshal([]byte(settingsJSON), &task.ReminderSettings)
	return &task, nil
}
