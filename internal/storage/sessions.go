package storage

import (
	"context"
	"database/sql"

	"github.com/Sidyaa10/Task-Zen/internal/core"
)

const sessionColumns = `id, owner_id, parent_task_id, subtask_id, scheduled_date, time_start,
	time_end, duration, completed, completed_at, created_at, updated_at`

// InsertSession stores a new session document.
func (s *Store) InsertSession(ctx context.Context, sess *core.Session) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.OwnerID, sess.ParentTaskID, sess.SubtaskID, sess.ScheduledDate,
		sess.TimeStart, sess.TimeEnd, sess.Duration, sess.Completed,
		nullTime(sess.CompletedAt), sess.CreatedAt, sess.UpdatedAt)
	return err
}

// GetSession retrieves a session by owner and ID.
func (s *Store) GetSession(ctx context.Context, ownerID, sessionID string) (*core.Session, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ? AND id = ?
	`, ownerID, sessionID)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, &core.NotFoundError{Kind: "session", ID: sessionID}
	}
	return sess, err
}

// ListSessions retrieves all sessions of one task in date order.
func (s *Store) ListSessions(ctx context.Context, ownerID, taskID string) ([]*core.Session, error) {
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE owner_id = ? AND parent_task_id = ?
		ORDER BY scheduled_date ASC, created_at ASC
	`, ownerID, taskID)
}

// ListSessionsForTasks retrieves the sessions of several tasks at once.
func (s *Store) ListSessionsForTasks(ctx context.Context, ownerID string, taskIDs []string) ([]*core.Session, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	args := []any{ownerID}
	for _, id := range taskIDs {
		args = append(args, id)
	}
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE owner_id = ? AND parent_task_id IN (`+placeholders(len(taskIDs))+`)
		ORDER BY scheduled_date ASC, created_at ASC
	`, args...)
}

// ListSessionsInRange retrieves an owner's sessions scheduled within
// [fromDate, toDate].
func (s *Store) ListSessionsInRange(ctx context.Context, ownerID, fromDate, toDate string) ([]*core.Session, error) {
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE owner_id = ? AND scheduled_date >= ? AND scheduled_date <= ?
		ORDER BY scheduled_date ASC
	`, ownerID, fromDate, toDate)
}

// ListCompletedSessions retrieves all of an owner's completed sessions.
func (s *Store) ListCompletedSessions(ctx context.Context, ownerID string) ([]*core.Session, error) {
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE owner_id = ? AND completed = 1
		ORDER BY scheduled_date ASC
	`, ownerID)
}

// SaveSession overwrites an existing session document.
func (s *Store) SaveSession(ctx context.Context, sess *core.Session) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE sessions SET subtask_id = ?, scheduled_date = ?, time_start = ?,
			time_end = ?, duration = ?, completed = ?, completed_at = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?
	`, sess.SubtaskID, sess.ScheduledDate, sess.TimeStart, sess.TimeEnd,
		sess.Duration, sess.Completed, nullTime(sess.CompletedAt), sess.UpdatedAt,
		sess.OwnerID, sess.ID)
	return err
}

// DeleteSession removes one session.
func (s *Store) DeleteSession(ctx context.Context, ownerID, sessionID string) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM sessions WHERE owner_id = ? AND id = ?
	`, ownerID, sessionID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: "session", ID: sessionID}
	}
	return nil
}

// DeleteSessionsForTask removes every session under a task.
func (s *Store) DeleteSessionsForTask(ctx context.Context, ownerID, taskID string) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM sessions WHERE owner_id = ? AND parent_task_id = ?
	`, ownerID, taskID)
	return err
}

// CountSessions returns total and completed session counts for a task.
func (s *Store) CountSessions(ctx context.Context, ownerID, taskID string) (total, completed int, err error) {
	err = s.q.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM sessions
		WHERE owner_id = ? AND parent_task_id = ?
	`, ownerID, taskID).Scan(&total, &completed)
	return total, completed, err
}

func (s *Store) querySessions(ctx context.Context, query string, args ...any) ([]*core.Session, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*core.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func scanSession(row scanner) (*core.Session, error) {
	var sess core.Session
	var completedAt sql.NullTime

	err := row.Scan(&sess.ID, &sess.OwnerID, &sess.ParentTaskID, &sess.SubtaskID,
		&sess.ScheduledDate, &sess.TimeStart, &sess.TimeEnd, &sess.Duration,
		&sess.Completed, &completedAt, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		sess.CompletedAt = &completedAt.Time
	}
	return &sess, nil
}
