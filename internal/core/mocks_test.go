package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// mockStore is an in-memory Store for engine tests. Transact snapshots the
// maps and restores them on error, mimicking a transactional store; setting
// noRollback simulates a store whose cascades are independent writes.
type mockStore struct {
	mu       sync.Mutex
	tasks    map[string]*Task
	subtasks map[string]*Subtask
	sessions map[string]*Session

	noRollback bool

	// sessionInsertBudget fails InsertSession once the budget is used up.
	// Negative means unlimited.
	sessionInsertBudget int
}

func newMockStore() *mockStore {
	return &mockStore{
		tasks:               make(map[string]*Task),
		subtasks:            make(map[string]*Subtask),
		sessions:            make(map[string]*Session),
		sessionInsertBudget: -1,
	}
}

func (m *mockStore) Transact(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	tasks := snapshotMap(m.tasks)
	subtasks := snapshotMap(m.subtasks)
	sessions := snapshotMap(m.sessions)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		if !m.noRollback {
			m.mu.Lock()
			m.tasks = tasks
			m.subtasks = subtasks
			m.sessions = sessions
			m.mu.Unlock()
		}
		return err
	}
	return nil
}

func snapshotMap[T any](src map[string]*T) map[string]*T {
	out := make(map[string]*T, len(src))
	for k, v := range src {
		copied := *v
		out[k] = &copied
	}
	return out
}

// Tasks

func (m *mockStore) InsertTask(ctx context.Context, task *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockStore) GetTask(ctx context.Context, ownerID, taskID string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, &NotFoundError{Kind: "task", ID: taskID}
	}
	copied := *task
	return &copied, nil
}

func (m *mockStore) ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Task
	for _, task := range m.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if len(filter.Categories) > 0 && !containsCategory(filter.Categories, task.Category) {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) SaveTask(ctx context.Context, task *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return &NotFoundError{Kind: "task", ID: task.ID}
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockStore) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return &NotFoundError{Kind: "task", ID: taskID}
	}
	delete(m.tasks, taskID)
	return nil
}

// Subtasks

func (m *mockStore) InsertSubtask(ctx context.Context, sub *Subtask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sub
	m.subtasks[sub.ID] = &copied
	return nil
}

func (m *mockStore) GetSubtask(ctx context.Context, ownerID, taskID, subtaskID string) (*Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subtasks[subtaskID]
	if !ok || sub.OwnerID != ownerID || sub.ParentTaskID != taskID {
		return nil, &NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	copied := *sub
	return &copied, nil
}

func (m *mockStore) ListSubtasks(ctx context.Context, ownerID, taskID string) ([]*Subtask, error) {
	return m.ListSubtasksForTasks(ctx, ownerID, []string{taskID})
}

func (m *mockStore) ListSubtasksForTasks(ctx context.Context, ownerID string, taskIDs []string) ([]*Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Subtask
	for _, sub := range m.subtasks {
		if sub.OwnerID != ownerID || !containsString(taskIDs, sub.ParentTaskID) {
			continue
		}
		copied := *sub
		out = append(out, &copied)
	}
	sortSubtasks(out)
	return out, nil
}

func (m *mockStore) SaveSubtask(ctx context.Context, sub *Subtask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subtasks[sub.ID]; !ok {
		return &NotFoundError{Kind: "subtask", ID: sub.ID}
	}
	copied := *sub
	m.subtasks[sub.ID] = &copied
	return nil
}

func (m *mockStore) DeleteSubtask(ctx context.Context, ownerID, taskID, subtaskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subtasks[subtaskID]
	if !ok || sub.OwnerID != ownerID || sub.ParentTaskID != taskID {
		return &NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	delete(m.subtasks, subtaskID)
	return nil
}

func (m *mockStore) DeleteSubtasksForTask(ctx context.Context, ownerID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sub := range m.subtasks {
		if sub.OwnerID == ownerID && sub.ParentTaskID == taskID {
			delete(m.subtasks, id)
		}
	}
	return nil
}

func (m *mockStore) CountSubtasks(ctx context.Context, ownerID, taskID string) (total, completed int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subtasks {
		if sub.OwnerID != ownerID || sub.ParentTaskID != taskID {
			continue
		}
		total++
		if sub.Completed {
			completed++
		}
	}
	return total, completed, nil
}

// Sessions

func (m *mockStore) InsertSession(ctx context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessionInsertBudget == 0 {
		return fmt.Errorf("simulated session insert failure")
	}
	if m.sessionInsertBudget > 0 {
		m.sessionInsertBudget--
	}
	copied := *sess
	m.sessions[sess.ID] = &copied
	return nil
}

func (m *mockStore) GetSession(ctx context.Context, ownerID, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok || sess.OwnerID != ownerID {
		return nil, &NotFoundError{Kind: "session", ID: sessionID}
	}
	copied := *sess
	return &copied, nil
}

func (m *mockStore) ListSessions(ctx context.Context, ownerID, taskID string) ([]*Session, error) {
	return m.ListSessionsForTasks(ctx, ownerID, []string{taskID})
}

func (m *mockStore) ListSessionsForTasks(ctx context.Context, ownerID string, taskIDs []string) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, sess := range m.sessions {
		if sess.OwnerID != ownerID || !containsString(taskIDs, sess.ParentTaskID) {
			continue
		}
		copied := *sess
		out = append(out, &copied)
	}
	sortSessions(out)
	return out, nil
}

func (m *mockStore) ListSessionsInRange(ctx context.Context, ownerID, fromDate, toDate string) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, sess := range m.sessions {
		if sess.OwnerID != ownerID || sess.ScheduledDate < fromDate || sess.ScheduledDate > toDate {
			continue
		}
		copied := *sess
		out = append(out, &copied)
	}
	sortSessions(out)
	return out, nil
}

func (m *mockStore) ListCompletedSessions(ctx context.Context, ownerID string) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, sess := range m.sessions {
		if sess.OwnerID != ownerID || !sess.Completed {
			continue
		}
		copied := *sess
		out = append(out, &copied)
	}
	sortSessions(out)
	return out, nil
}

func (m *mockStore) SaveSession(ctx context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sess.ID]; !ok {
		return &NotFoundError{Kind: "session", ID: sess.ID}
	}
	copied := *sess
	m.sessions[sess.ID] = &copied
	return nil
}

func (m *mockStore) DeleteSession(ctx context.Context, ownerID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok || sess.OwnerID != ownerID {
		return &NotFoundError{Kind: "session", ID: sessionID}
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *mockStore) DeleteSessionsForTask(ctx context.Context, ownerID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if sess.OwnerID == ownerID && sess.ParentTaskID == taskID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *mockStore) CountSessions(ctx context.Context, ownerID, taskID string) (total, completed int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sess := range m.sessions {
		if sess.OwnerID != ownerID || sess.ParentTaskID != taskID {
			continue
		}
		total++
		if sess.Completed {
			completed++
		}
	}
	return total, completed, nil
}

// Helpers

func sortSubtasks(subs []*Subtask) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].ScheduledDate != subs[j].ScheduledDate {
			return subs[i].ScheduledDate < subs[j].ScheduledDate
		}
		return subs[i].ID < subs[j].ID
	})
}

func sortSessions(sessions []*Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].ScheduledDate != sessions[j].ScheduledDate {
			return sessions[i].ScheduledDate < sessions[j].ScheduledDate
		}
		return sessions[i].ID < sessions[j].ID
	})
}

func containsCategory(categories []Category, c Category) bool {
	for _, candidate := range categories {
		if candidate == c {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// engineFixture wires an engine to a mock store with a controllable clock
// and deterministic IDs.
type engineFixture struct {
	engine *Engine
	store  *mockStore
	now    time.Time
}

func newEngineFixture(t interface{ Helper() }) *engineFixture {
	t.Helper()
	f := &engineFixture{
		store: newMockStore(),
		now:   time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
	}
	n := 0
	f.engine = NewEngineWithDeps(EngineDeps{
		Store: f.store,
		Now:   func() time.Time { return f.now },
		NewID: func() string { n++; return fmt.Sprintf("id-%03d", n) },
	})
	return f
}
