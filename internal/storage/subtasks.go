package storage

import (
	"context"
	"database/sql"

	"github.com/Sidyaa10/Task-Zen/internal/core"
)

const subtaskColumns = `id, owner_id, parent_task_id, title, scheduled_date, completed,
	completed_at, created_at, updated_at`

// InsertSubtask stores a new subtask document.
func (s *Store) InsertSubtask(ctx context.Context, sub *core.Subtask) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO subtasks (`+subtaskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.OwnerID, sub.ParentTaskID, sub.Title, sub.ScheduledDate,
		sub.Completed, nullTime(sub.CompletedAt), sub.CreatedAt, sub.UpdatedAt)
	return err
}

// GetSubtask retrieves a subtask scoped to its owner and parent task.
func (s *Store) GetSubtask(ctx context.Context, ownerID, taskID, subtaskID string) (*core.Subtask, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+subtaskColumns+` FROM subtasks
		WHERE owner_id = ? AND parent_task_id = ? AND id = ?
	`, ownerID, taskID, subtaskID)

	sub, err := scanSubtask(row)
	if err == sql.ErrNoRows {
		return nil, &core.NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	return sub, err
}

// ListSubtasks retrieves all subtasks of one task in creation order.
func (s *Store) ListSubtasks(ctx context.Context, ownerID, taskID string) ([]*core.Subtask, error) {
	return s.querySubtasks(ctx, `
		SELECT `+subtaskColumns+` FROM subtasks
		WHERE owner_id = ? AND parent_task_id = ?
		ORDER BY scheduled_date ASC, created_at ASC
	`, ownerID, taskID)
}

// ListSubtasksForTasks retrieves the subtasks of several tasks at once.
func (s *Store) ListSubtasksForTasks(ctx context.Context, ownerID string, taskIDs []string) ([]*core.Subtask, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	args := []any{ownerID}
	for _, id := range taskIDs {
		args = append(args, id)
	}
	return s.querySubtasks(ctx, `
		SELECT `+subtaskColumns+` FROM subtasks
		WHERE owner_id = ? AND parent_task_id IN (`+placeholders(len(taskIDs))+`)
		ORDER BY scheduled_date ASC, created_at ASC
	`, args...)
}

// SaveSubtask overwrites an existing subtask document.
func (s *Store) SaveSubtask(ctx context.Context, sub *core.Subtask) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE subtasks SET title = ?, scheduled_date = ?, completed = ?,
			completed_at = ?, updated_at = ?
		WHERE owner_id = ? AND parent_task_id = ? AND id = ?
	`, sub.Title, sub.ScheduledDate, sub.Completed, nullTime(sub.CompletedAt),
		sub.UpdatedAt, sub.OwnerID, sub.ParentTaskID, sub.ID)
	return err
}

// DeleteSubtask removes one subtask.
func (s *Store) DeleteSubtask(ctx context.Context, ownerID, taskID, subtaskID string) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM subtasks WHERE owner_id = ? AND parent_task_id = ? AND id = ?
	`, ownerID, taskID, subtaskID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	return nil
}

// DeleteSubtasksForTask removes every subtask under a task.
func (s *Store) DeleteSubtasksForTask(ctx context.Context, ownerID, taskID string) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM subtasks WHERE owner_id = ? AND parent_task_id = ?
	`, ownerID, taskID)
	return err
}

// CountSubtasks returns total and completed subtask counts for a task.
func (s *Store) CountSubtasks(ctx context.Context, ownerID, taskID string) (total, completed int, err error) {
	err = s.q.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM subtasks
		WHERE owner_id = ? AND parent_task_id = ?
	`, ownerID, taskID).Scan(&total, &completed)
	return total, completed, err
}

func (s *Store) querySubtasks(ctx context.Context, query string, args ...any) ([]*core.Subtask, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtasks []*core.Subtask
	for rows.Next() {
		sub, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, sub)
	}
	return subtasks, rows.Err()
}

func scanSubtask(row scanner) (*core.Subtask, error) {
	var sub core.Subtask
	var completedAt sql.NullTime

	err := row.Scan(&sub.ID, &sub.OwnerID, &sub.ParentTaskID, &sub.Title,
		&sub.ScheduledDate, &sub.Completed, &completedAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		sub.CompletedAt = &completedAt.Time
	}
	return &sub, nil
}
