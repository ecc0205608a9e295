package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine orchestrates task, subtask and session lifecycles over a Store,
// keeping the three collections consistent through reconcile. Every
// mutating operation runs inside one store transaction and returns the
// reconciled task with its children.
type Engine struct {
	store Store
	now   func() time.Time
	newID func() string
}

// EngineDeps holds explicit dependencies for constructing an Engine
// (for testing).
type EngineDeps struct {
	Store Store
	Now   func() time.Time
	NewID func() string
}

// NewEngine creates an engine over the given store.
func NewEngine(store Store) *Engine {
	return NewEngineWithDeps(EngineDeps{Store: store})
}

// NewEngineWithDeps creates an engine with explicit clock and ID seams.
func NewEngineWithDeps(deps EngineDeps) *Engine {
	e := &Engine{
		store: deps.Store,
		now:   deps.Now,
		newID: deps.NewID,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

// CreateTask validates the input, materializes the task and — for skill
// goals — its scheduled subtasks and sessions, then reconciles.
// priorityLevel is computed once from the creation-time clock and never
// re-derived.
func (e *Engine) CreateTask(ctx context.Context, ownerID string, input TaskCreateInput) (*TaskWithChildren, error) {
	input, err := validateTaskCreate(input)
	if err != nil {
		return nil, err
	}

	now := e.now()
	priorityLevel := 2
	if input.StartDate > formatDate(now) {
		priorityLevel = 1
	}

	settings := defaultReminderSettings(input.Category)
	for k, v := range input.ReminderSettings {
		settings[k] = v
	}

	task := &Task{
		ID:               e.newID(),
		OwnerID:          ownerID,
		Category:         input.Category,
		Title:            input.Title,
		Description:      input.Description,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		TimeStart:        input.TimeStart,
		TimeEnd:          input.TimeEnd,
		PriorityLevel:    priorityLevel,
		ManualPriority:   1000 + priorityLevel,
		ReminderSettings: settings,
		Status:           StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if input.Category.GoalBearing() {
		task.Progress = ptr(0.0)
	}
	if input.Category == CategoryDeadline {
		task.Deadline = task.EndDate
	}
	if input.Category == CategorySkillGoal {
		task.DaysPerWeek = clampInt(input.DaysPerWeek, 1, 7)
		task.HoursPerDay = input.HoursPerDay
	}

	var view *TaskWithChildren
	err = e.store.Transact(ctx, func(s Store) error {
		if err := s.InsertTask(ctx, task); err != nil {
			return err
		}

		switch input.Category {
		case CategorySkillGoal:
			dates, err := SpreadScheduleDates(task.StartDate, task.EndDate, task.DaysPerWeek, len(input.Subtasks))
			if err != nil {
				return err
			}
			duration := MinutesBetween(task.TimeStart, task.TimeEnd)
			for i, title := range input.Subtasks {
				sub := &Subtask{
					ID:            e.newID(),
					OwnerID:       ownerID,
					ParentTaskID:  task.ID,
					Title:         title,
					ScheduledDate: dates[i],
					CreatedAt:     now,
					UpdatedAt:     now,
				}
				if err := s.InsertSubtask(ctx, sub); err != nil {
					return err
				}
				// Fan-out sessions are date-matched; ad-hoc subtasks added
				// later get subtask-linked sessions instead.
				sess := &Session{
					ID:            e.newID(),
					OwnerID:       ownerID,
					ParentTaskID:  task.ID,
					ScheduledDate: dates[i],
					TimeStart:     task.TimeStart,
					TimeEnd:       task.TimeEnd,
					Duration:      duration,
					CreatedAt:     now,
					UpdatedAt:     now,
				}
				if err := s.InsertSession(ctx, sess); err != nil {
					return err
				}
			}
		case CategoryDeadline:
			for _, title := range input.Subtasks {
				sub := &Subtask{
					ID:            e.newID(),
					OwnerID:       ownerID,
					ParentTaskID:  task.ID,
					Title:         title,
					ScheduledDate: task.StartDate,
					CreatedAt:     now,
					UpdatedAt:     now,
				}
				if err := s.InsertSubtask(ctx, sub); err != nil {
					return err
				}
			}
		}

		if _, err := e.reconcile(ctx, s, ownerID, task.ID); err != nil {
			return err
		}
		var err error
		view, err = getWithChildren(ctx, s, ownerID, task.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetTask returns a task with its children. When the cached aggregates
// disagree with the children — the footprint of an interrupted cascade —
// it re-runs reconcile first so callers never observe a partial view.
func (e *Engine) GetTask(ctx context.Context, ownerID, taskID string) (*TaskWithChildren, error) {
	var view *TaskWithChildren
	err := e.store.Transact(ctx, func(s Store) error {
		v, err := getWithChildren(ctx, s, ownerID, taskID)
		if err != nil {
			return err
		}
		if !aggregatesConsistent(v) {
			if _, err := e.reconcile(ctx, s, ownerID, taskID); err != nil {
				return err
			}
			if v, err = getWithChildren(ctx, s, ownerID, taskID); err != nil {
				return err
			}
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateTask applies a partial update. Manual progress is only accepted
// for deadline projects; supplying it for a skill goal is rejected, and
// reconcile afterwards keeps goal-bearing aggregates consistent no matter
// what the patch contained.
func (e *Engine) UpdateTask(ctx context.Context, ownerID, taskID string, input TaskUpdateInput) (*TaskWithChildren, error) {
	var view *TaskWithChildren
	err := e.store.Transact(ctx, func(s Store) error {
		task, err := s.GetTask(ctx, ownerID, taskID)
		if err != nil {
			return err
		}

		now := e.now()
		if input.Title != nil {
			task.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			task.Description = strings.TrimSpace(*input.Description)
		}
		if input.StartDate != nil {
			if task.StartDate, err = NormalizeDate(*input.StartDate); err != nil {
				return err
			}
		}
		if input.EndDate != nil {
			if task.EndDate, err = NormalizeDate(*input.EndDate); err != nil {
				return err
			}
			if task.Category == CategoryDeadline {
				task.Deadline = task.EndDate
			}
		}
		if task.Category.SingleDay() {
			task.EndDate = task.StartDate
		}
		if input.TimeStart != nil {
			if task.TimeStart, err = NormalizeTime(*input.TimeStart); err != nil {
				return err
			}
		}
		if input.TimeEnd != nil {
			if task.TimeEnd, err = NormalizeTime(*input.TimeEnd); err != nil {
				return err
			}
		}
		if input.ManualPriority != nil {
			task.ManualPriority = *input.ManualPriority
			if task.ManualPriority < 1 {
				task.ManualPriority = 1
			}
		}
		if input.Progress != nil {
			switch task.Category {
			case CategoryDeadline:
				task.Progress = ptr(clampFloat(*input.Progress, 0, 100))
			case CategorySkillGoal:
				return validationf("progress is derived for skill development goals and cannot be set directly")
			}
		}
		if input.Status != nil {
			if *input.Status != StatusActive && *input.Status != StatusCompleted {
				return validationf("invalid status: %q", *input.Status)
			}
			task.Status = *input.Status
			if *input.Status == StatusCompleted {
				task.CompletedAt = &now
			} else {
				task.CompletedAt = nil
			}
			if task.Category.SingleDay() {
				task.Progress = nil
			}
		}
		if input.ReminderSettings != nil {
			if task.ReminderSettings == nil {
				task.ReminderSettings = ReminderSettings{}
			}
			for k, v := range input.ReminderSettings {
				task.ReminderSettings[k] = v
			}
		}
		task.UpdatedAt = now

		if err := s.SaveTask(ctx, task); err != nil {
			return err
		}
		if _, err := e.reconcile(ctx, s, ownerID, taskID); err != nil {
			return err
		}
		view, err = getWithChildren(ctx, s, ownerID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteTask removes a task and cascades deletion of all its subtasks and
// sessions.
func (e *Engine) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	return e.store.Transact(ctx, func(s Store) error {
		if _, err := s.GetTask(ctx, ownerID, taskID); err != nil {
			return err
		}
		if err := s.DeleteSubtasksForTask(ctx, ownerID, taskID); err != nil {
			return err
		}
		if err := s.DeleteSessionsForTask(ctx, ownerID, taskID); err != nil {
			return err
		}
		return s.DeleteTask(ctx, ownerID, taskID)
	})
}

// CreateSubtask adds a subtask to a goal-bearing task. On skill goals it
// also creates the 1:1 linked session inheriting the task's time slot.
func (e *Engine) CreateSubtask(ctx context.Context, ownerID, taskID string, input SubtaskCreateInput) (*TaskWithChildren, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	scheduledDate, err := NormalizeDate(input.ScheduledDate)
	if err != nil {
		return nil, err
	}

	var view *TaskWithChildren
	err = e.store.Transact(ctx, func(s Store) error {
		task, err := s.GetTask(ctx, ownerID, taskID)
		if err != nil {
			return err
		}
		if !task.Category.GoalBearing() {
			return &InvalidCategoryError{Category: task.Category, Op: "subtasks"}
		}

		now := e.now()
		sub := &Subtask{
			ID:            e.newID(),
			OwnerID:       ownerID,
			ParentTaskID:  taskID,
			Title:         title,
			ScheduledDate: scheduledDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.InsertSubtask(ctx, sub); err != nil {
			return err
		}

		if task.Category == CategorySkillGoal {
			sess := &Session{
				ID:            e.newID(),
				OwnerID:       ownerID,
				ParentTaskID:  taskID,
				SubtaskID:     sub.ID,
				ScheduledDate: scheduledDate,
				TimeStart:     task.TimeStart,
				TimeEnd:       task.TimeEnd,
				Duration:      MinutesBetween(task.TimeStart, task.TimeEnd),
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := s.InsertSession(ctx, sess); err != nil {
				return err
			}
		}

		if _, err := e.reconcile(ctx, s, ownerID, taskID); err != nil {
			return err
		}
		view, err = getWithChildren(ctx, s, ownerID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateSubtask applies a partial subtask update. Completion toggles and
// date changes cascade onto the sessions matched by the subtask's link —
// by subtask ID, or by the pre-update scheduled date for date-matched
// sessions.
func (e *Engine) UpdateSubtask(ctx context.Context, ownerID, taskID, subtaskID string, input SubtaskUpdateInput) (*TaskWithChildren, error) {
	var view *TaskWithChildren
	err := e.store.Transact(ctx, func(s Store) error {
		sub, err := s.GetSubtask(ctx, ownerID, taskID, subtaskID)
		if err != nil {
			return err
		}
		matchRef := *sub // sessions are matched against the pre-update state

		now := e.now()
		if input.Title != nil {
			sub.Title = strings.TrimSpace(*input.Title)
		}
		if input.ScheduledDate != nil {
			if sub.ScheduledDate, err = NormalizeDate(*input.ScheduledDate); err != nil {
				return err
			}
		}
		if input.Completed != nil {
			sub.Completed = *input.Completed
			if sub.Completed {
				sub.CompletedAt = &now
			} else {
				sub.CompletedAt = nil
			}
		}
		sub.UpdatedAt = now
		if err := s.SaveSubtask(ctx, sub); err != nil {
			return err
		}

		if input.Completed != nil || input.ScheduledDate != nil {
			sessions, err := s.ListSessions(ctx, ownerID, taskID)
			if err != nil {
				return err
			}
			for _, sess := range sessions {
				if !sess.MatchesSubtask(&matchRef) {
					continue
				}
				if input.Completed != nil {
					sess.Completed = sub.Completed
					sess.CompletedAt = sub.CompletedAt
				}
				if input.ScheduledDate != nil {
					sess.ScheduledDate = sub.ScheduledDate
				}
				sess.UpdatedAt = now
				if err := s.SaveSession(ctx, sess); err != nil {
					return err
				}
			}
		}

		if _, err := e.reconcile(ctx, s, ownerID, taskID); err != nil {
			return err
		}
		view, err = getWithChildren(ctx, s, ownerID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteSubtask removes a subtask along with its matched sessions.
func (e *Engine) DeleteSubtask(ctx context.Context, ownerID, taskID, subtaskID string) (*TaskWithChildren, error) {
	var view *TaskWithChildren
	err := e.store.Transact(ctx, func(s Store) error {
		sub, err := s.GetSubtask(ctx, ownerID, taskID, subtaskID)
		if err != nil {
			return err
		}
		if err := s.DeleteSubtask(ctx, ownerID, taskID, subtaskID); err != nil {
			return err
		}

		sessions, err := s.ListSessions(ctx, ownerID, taskID)
		if err != nil {
			return err
		}
		for _, sess := range sessions {
			if !sess.MatchesSubtask(sub) {
				continue
			}
			if err := s.DeleteSession(ctx, ownerID, sess.ID); err != nil {
				return err
			}
		}

		if _, err := e.reconcile(ctx, s, ownerID, taskID); err != nil {
			return err
		}
		view, err = getWithChildren(ctx, s, ownerID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// MarkSession toggles a session's completion. Subtask-linked sessions
// cascade the flag onto their subtask; date-matched sessions leave
// subtasks untouched.
func (e *Engine) MarkSession(ctx context.Context, ownerID, sessionID string, completed bool) (*TaskWithChildren, error) {
	var view *TaskWithChildren
	err := e.store.Transact(ctx, func(s Store) error {
		sess, err := s.GetSession(ctx, ownerID, sessionID)
		if err != nil {
			return err
		}

		now := e.now()
		sess.Completed = completed
		if completed {
			sess.CompletedAt = &now
		} else {
			sess.CompletedAt = nil
		}
		sess.UpdatedAt = now
		if err := s.SaveSession(ctx, sess); err != nil {
			return err
		}

		if link := sess.Link(); link.Kind == LinkSubtask {
			sub, err := s.GetSubtask(ctx, ownerID, sess.ParentTaskID, link.SubtaskID)
			if err == nil {
				sub.Completed = completed
				sub.CompletedAt = sess.CompletedAt
				sub.UpdatedAt = now
				if err := s.SaveSubtask(ctx, sub); err != nil {
					return err
				}
			}
		}

		if _, err := e.reconcile(ctx, s, ownerID, sess.ParentTaskID); err != nil {
			return err
		}
		view, err = getWithChildren(ctx, s, ownerID, sess.ParentTaskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// getWithChildren loads a task together with all of its subtasks and
// sessions from the same store view.
func getWithChildren(ctx context.Context, s Store, ownerID, taskID string) (*TaskWithChildren, error) {
	task, err := s.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	subtasks, err := s.ListSubtasks(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.ListSessions(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	return &TaskWithChildren{Task: *task, Subtasks: subtasks, Sessions: sessions}, nil
}
