package core

import (
	"context"
	"sort"
	"time"
)

var goalBearingCategories = []Category{CategorySkillGoal, CategoryDeadline}

// ListTasksForDate returns the tasks visible on a calendar date. The
// scheduled tab lists active tasks, the completed tab lists completed
// goal-bearing tasks. The focus view is a category overview ignoring the
// date; the home view matches single-day tasks by startDate and
// goal-bearing tasks by any child scheduled on the date. Results are
// ordered by timeStart, then manualPriority.
func (e *Engine) ListTasksForDate(ctx context.Context, ownerID, date string, tab Tab, view ViewMode) ([]*TaskWithChildren, error) {
	selected := date
	if selected == "" {
		selected = formatDate(e.now())
	}
	selected, err := NormalizeDate(selected)
	if err != nil {
		return nil, err
	}

	filter := TaskFilter{Status: StatusActive}
	if tab == TabCompleted {
		filter.Status = StatusCompleted
		filter.Categories = goalBearingCategories
	}
	if view == ViewFocus {
		filter.Categories = goalBearingCategories
	}

	tasks, err := e.store.ListTasks(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []*TaskWithChildren{}, nil
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	subtasks, err := e.store.ListSubtasksForTasks(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}
	sessions, err := e.store.ListSessionsForTasks(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}

	subtasksByTask := make(map[string][]*Subtask)
	for _, s := range subtasks {
		subtasksByTask[s.ParentTaskID] = append(subtasksByTask[s.ParentTaskID], s)
	}
	sessionsByTask := make(map[string][]*Session)
	for _, s := range sessions {
		sessionsByTask[s.ParentTaskID] = append(sessionsByTask[s.ParentTaskID], s)
	}

	out := make([]*TaskWithChildren, 0, len(tasks))
	for _, task := range tasks {
		if view != ViewFocus && !taskVisibleOn(task, selected, subtasksByTask[task.ID], sessionsByTask[task.ID]) {
			continue
		}
		out = append(out, &TaskWithChildren{
			Task:     *task,
			Subtasks: orEmptySubtasks(subtasksByTask[task.ID]),
			Sessions: orEmptySessions(sessionsByTask[task.ID]),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimeStart != out[j].TimeStart {
			return out[i].TimeStart < out[j].TimeStart
		}
		return out[i].ManualPriority < out[j].ManualPriority
	})
	return out, nil
}

func taskVisibleOn(task *Task, date string, subtasks []*Subtask, sessions []*Session) bool {
	if task.Category.SingleDay() {
		return task.StartDate == date
	}
	for _, s := range sessions {
		if s.ScheduledDate == date {
			return true
		}
	}
	for _, s := range subtasks {
		if s.ScheduledDate == date {
			return true
		}
	}
	return false
}

// MonthPreview returns, per date of the given YYYY-MM month, up to four
// calendar entries for the owner's active tasks: single-day tasks on
// their start date and goal sessions on their scheduled dates. Entries
// are ordered by timeStart.
func (e *Engine) MonthPreview(ctx context.Context, ownerID, month string) (map[string][]MonthEntry, error) {
	if _, err := ParseMonth(month); err != nil {
		return nil, err
	}
	first, last, err := monthBounds(month)
	if err != nil {
		return nil, err
	}

	tasks, err := e.store.ListTasks(ctx, ownerID, TaskFilter{Status: StatusActive})
	if err != nil {
		return nil, err
	}
	sessions, err := e.store.ListSessionsInRange(ctx, ownerID, first, last)
	if err != nil {
		return nil, err
	}

	preview := make(map[string][]MonthEntry)
	byID := make(map[string]*Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
		if task.Category.SingleDay() && task.StartDate >= first && task.StartDate <= last {
			preview[task.StartDate] = append(preview[task.StartDate], monthEntry(task))
		}
	}
	for _, sess := range sessions {
		parent, ok := byID[sess.ParentTaskID]
		if !ok {
			continue
		}
		preview[sess.ScheduledDate] = append(preview[sess.ScheduledDate], monthEntry(parent))
	}

	for date, entries := range preview {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TimeStart < entries[j].TimeStart
		})
		if len(entries) > 4 {
			entries = entries[:4]
		}
		preview[date] = entries
	}
	return preview, nil
}

func monthEntry(task *Task) MonthEntry {
	return MonthEntry{ID: task.ID, Title: task.Title, TimeStart: task.TimeStart, Category: task.Category}
}

// ProfileStats aggregates the owner's productivity: completion counts and
// rate, completed-session histograms for the last 7 days and 6 calendar
// months, and the consecutive-day productivity streak.
func (e *Engine) ProfileStats(ctx context.Context, ownerID string) (*ProfileStats, error) {
	tasks, err := e.store.ListTasks(ctx, ownerID, TaskFilter{})
	if err != nil {
		return nil, err
	}
	sessions, err := e.store.ListCompletedSessions(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	completedTasks, goals := 0, 0
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			completedTasks++
		}
		if t.Category.GoalBearing() {
			goals++
		}
	}
	completionRate := 0.0
	if len(tasks) > 0 {
		completionRate = round2(float64(completedTasks) / float64(len(tasks)) * 100)
	}

	completedDates := make(map[string]int)
	for _, s := range sessions {
		if s.CompletedAt != nil {
			completedDates[formatDate(*s.CompletedAt)]++
		}
	}

	now := e.now().UTC()
	weekly := make([]HistogramBucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		weekly = append(weekly, HistogramBucket{
			Label: day.Format("Mon"),
			Value: completedDates[formatDate(day)],
		})
	}

	monthly := make([]HistogramBucket, 0, 6)
	for i := 5; i >= 0; i-- {
		anchor := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		value := 0
		for _, s := range sessions {
			if s.CompletedAt == nil {
				continue
			}
			done := s.CompletedAt.UTC()
			if done.Year() == anchor.Year() && done.Month() == anchor.Month() {
				value++
			}
		}
		monthly = append(monthly, HistogramBucket{Label: anchor.Format("Jan"), Value: value})
	}

	return &ProfileStats{
		TotalTasksCompleted: completedTasks,
		ActiveGoals:         goals,
		CompletionRate:      completionRate,
		ProductivityStreak:  streakFromDates(completedDates, now),
		Weekly:              weekly,
		Monthly:             monthly,
	}, nil
}

// streakFromDates counts consecutive days with a completed session,
// walking backward from today. A missing today does not break a streak
// accumulated from prior days; the first gap strictly before today ends
// the walk, capped at 365 days.
func streakFromDates(dates map[string]int, today time.Time) int {
	streak := 0
	for i := 0; i < 365; i++ {
		key := formatDate(today.AddDate(0, 0, -i))
		if dates[key] > 0 {
			streak++
		} else if i > 0 {
			break
		}
	}
	return streak
}

func orEmptySubtasks(s []*Subtask) []*Subtask {
	if s == nil {
		return []*Subtask{}
	}
	return s
}

func orEmptySessions(s []*Session) []*Session {
	if s == nil {
		return []*Session{}
	}
	return s
}
