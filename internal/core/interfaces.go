package core

import (
	"context"
)

// TaskFilter narrows a task listing. Zero values match everything.
type TaskFilter struct {
	Status     Status
	Categories []Category
}

// Store is the persistence contract of the engine: three collections
// (tasks, subtasks, sessions) with indexed lookup by owner, category,
// status and date. Implementations: storage.Store (SQLite).
type Store interface {
	// Transact runs fn against a store view whose writes commit or roll
	// back together. Nested calls reuse the enclosing transaction.
	Transact(ctx context.Context, fn func(Store) error) error

	InsertTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, ownerID, taskID string) (*Task, error)
	ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]*Task, error)
	SaveTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, ownerID, taskID string) error

	InsertSubtask(ctx context.Context, subtask *Subtask) error
	GetSubtask(ctx context.Context, ownerID, taskID, subtaskID string) (*Subtask, error)
	ListSubtasks(ctx context.Context, ownerID, taskID string) ([]*Subtask, error)
	ListSubtasksForTasks(ctx context.Context, ownerID string, taskIDs []string) ([]*Subtask, error)
	SaveSubtask(ctx context.Context, subtask *Subtask) error
	DeleteSubtask(ctx context.Context, ownerID, taskID, subtaskID string) error
	DeleteSubtasksForTask(ctx context.Context, ownerID, taskID string) error
	CountSubtasks(ctx context.Context, ownerID, taskID string) (total, completed int, err error)

	InsertSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, ownerID, sessionID string) (*Session, error)
	ListSessions(ctx context.Context, ownerID, taskID string) ([]*Session, error)
	ListSessionsForTasks(ctx context.Context, ownerID string, taskIDs []string) ([]*Session, error)
	ListSessionsInRange(ctx context.Context, ownerID, fromDate, toDate string) ([]*Session, error)
	ListCompletedSessions(ctx context.Context, ownerID string) ([]*Session, error)
	SaveSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, ownerID, sessionID string) error
	DeleteSessionsForTask(ctx context.Context, ownerID, taskID string) error
	CountSessions(ctx context.Context, ownerID, taskID string) (total, completed int, err error)
}
