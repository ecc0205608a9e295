package core

import (
	"context"
	"math"
)

// reconcile recomputes a task's cached aggregates (progress, session
// counters, status, completedAt) from its children and persists them. It
// is the single choke point deciding whether a task looks complete, it is
// idempotent, and it runs after every mutation that can affect completion.
func (e *Engine) reconcile(ctx context.Context, s Store, ownerID, taskID string) (*Task, error) {
	task, err := s.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	var progress *float64
	total, completed := 0, 0

	switch task.Category {
	case CategorySkillGoal:
		total, completed, err = s.CountSessions(ctx, ownerID, taskID)
		if err != nil {
			return nil, err
		}
		progress = ptr(ratioPercent(completed, total))
	case CategoryDeadline:
		total, completed, err = s.CountSubtasks(ctx, ownerID, taskID)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			// No subtasks: the stored value is a manual percentage, keep it.
			current := 0.0
			if task.Progress != nil {
				current = clampFloat(*task.Progress, 0, 100)
			}
			progress = &current
		} else {
			progress = ptr(ratioPercent(completed, total))
		}
	default:
		// event_reminder / daily_quick_task never aggregate.
	}

	status := task.Status
	if task.Category.GoalBearing() && progress != nil && *progress >= 100 {
		status = StatusCompleted
	} else if status != StatusCompleted {
		status = StatusActive
	}

	now := e.now()
	if status == StatusCompleted {
		if task.CompletedAt == nil {
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}

	task.Progress = progress
	task.TotalSessions = total
	task.CompletedSessions = completed
	task.Status = status
	task.UpdatedAt = now

	if err := s.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// aggregatesConsistent reports whether a task's cached counters agree with
// its loaded children. A false result means a cascade was interrupted and
// the read path should re-run reconcile before returning the view.
func aggregatesConsistent(v *TaskWithChildren) bool {
	switch v.Category {
	case CategorySkillGoal:
		return v.Progress != nil &&
			v.TotalSessions == len(v.Sessions) &&
			v.CompletedSessions == countCompletedSessions(v.Sessions)
	case CategoryDeadline:
		if len(v.Subtasks) == 0 {
			return v.Progress != nil
		}
		return v.Progress != nil &&
			v.TotalSessions == len(v.Subtasks) &&
			v.CompletedSessions == countCompletedSubtasks(v.Subtasks)
	default:
		return true
	}
}

func countCompletedSessions(sessions []*Session) int {
	n := 0
	for _, s := range sessions {
		if s.Completed {
			n++
		}
	}
	return n
}

func countCompletedSubtasks(subtasks []*Subtask) int {
	n := 0
	for _, s := range subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// ratioPercent is completed/total as a percentage rounded to 2 decimals,
// or 0 when total is 0.
func ratioPercent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(completed) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr[T any](v T) *T {
	return &v
}
