package core

import (
	"time"
)

// Category classifies a task. The set is closed; a task's category is
// immutable after creation.
type Category string

const (
	CategoryEventReminder Category = "event_reminder"
	CategorySkillGoal     Category = "skill_development_goal"
	CategoryDeadline      Category = "deadline_project"
	CategoryDailyQuick    Category = "daily_quick_task"
)

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryEventReminder, CategorySkillGoal, CategoryDeadline, CategoryDailyQuick:
		return true
	}
	return false
}

// GoalBearing reports whether c tracks a numeric progress percentage.
func (c Category) GoalBearing() bool {
	return c == CategorySkillGoal || c == CategoryDeadline
}

// SingleDay reports whether c is pinned to a single calendar date
// (endDate is forced equal to startDate).
func (c Category) SingleDay() bool {
	return c == CategoryEventReminder || c == CategoryDailyQuick
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Tab selects which task list a date query returns.
type Tab string

const (
	TabScheduled Tab = "scheduled"
	TabCompleted Tab = "completed"
)

// ViewMode selects the filtering rules of a date query.
type ViewMode string

const (
	ViewHome  ViewMode = "home"
	ViewFocus ViewMode = "focus"
)

// ReminderSettings is a free-form flag bag. Settings are stored but not
// acted on; updates merge into the existing bag instead of replacing it.
type ReminderSettings map[string]any

// defaultReminderSettings returns the category-specific reminder defaults.
func defaultReminderSettings(category Category) ReminderSettings {
	switch category {
	case CategoryEventReminder:
		return ReminderSettings{"oneDayBefore": true, "twoHoursBefore": true, "oneHourBefore": true}
	case CategoryDailyQuick:
		return ReminderSettings{"sameDayReminder": true}
	case CategorySkillGoal:
		return ReminderSettings{"beforeSessionMinutes": 30}
	case CategoryDeadline:
		return ReminderSettings{"dailyBeforeDeadline": true, "extraNearDeadline": true}
	}
	return ReminderSettings{}
}

// Task is the top-level unit of commitment. Progress, status and the
// session counters are cached aggregates owned by reconcile; no other code
// path writes them for goal-bearing categories.
type Task struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"userId"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`

	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`
	Deadline  string `json:"deadline,omitempty"` // mirrors EndDate for deadline projects
	TimeStart string `json:"timeStart"`          // HH:MM
	TimeEnd   string `json:"timeEnd"`

	PriorityLevel  int `json:"priorityLevel"` // 1 = future start, 2 = today-or-past; frozen at creation
	ManualPriority int `json:"manualPriority"`

	Progress          *float64 `json:"progress"` // nil for non-goal-bearing categories
	TotalSessions     int      `json:"totalSessions"`
	CompletedSessions int      `json:"completedSessions"`

	ReminderSettings ReminderSettings `json:"reminderSettings"`

	DaysPerWeek int `json:"daysPerWeek,omitempty"` // skill goals only, 1..7
	HoursPerDay int `json:"hoursPerDay,omitempty"` // skill goals only, >= 1

	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Subtask is a schedulable unit of a goal or project, exclusively owned by
// its parent task.
type Subtask struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"userId"`
	ParentTaskID  string     `json:"parentTaskId"`
	Title         string     `json:"title"`
	ScheduledDate string     `json:"scheduledDate"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Session is a time-boxed occurrence of a skill goal subtask on a specific
// date, used for progress counting and calendar display.
type Session struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"userId"`
	ParentTaskID  string     `json:"parentTaskId"`
	SubtaskID     string     `json:"subtaskId,omitempty"` // empty for date-matched sessions
	ScheduledDate string     `json:"scheduledDate"`
	TimeStart     string     `json:"timeStart"`
	TimeEnd       string     `json:"timeEnd"`
	Duration      int        `json:"duration"` // minutes
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// LinkKind discriminates how a session is tied to a subtask.
type LinkKind int

const (
	// LinkDate sessions were created by the fan-out before any subtask ID
	// existed; they match subtasks by equal scheduled date.
	LinkDate LinkKind = iota
	// LinkSubtask sessions carry the ID of the subtask they belong to.
	LinkSubtask
)

// SessionLink is the explicit link variant of a session. Matching logic
// switches over Kind so both cases are always handled.
type SessionLink struct {
	Kind      LinkKind
	SubtaskID string
	Date      string
}

// Link returns the session's link variant.
func (s *Session) Link() SessionLink {
	if s.SubtaskID != "" {
		return SessionLink{Kind: LinkSubtask, SubtaskID: s.SubtaskID}
	}
	return SessionLink{Kind: LinkDate, Date: s.ScheduledDate}
}

// MatchesSubtask reports whether the session belongs to the given subtask.
// A date-matched session is ambiguous when two subtasks share a date; the
// first writer wins, same as the stored data allows.
func (s *Session) MatchesSubtask(sub *Subtask) bool {
	switch link := s.Link(); link.Kind {
	case LinkSubtask:
		return link.SubtaskID == sub.ID
	default:
		return link.Date == sub.ScheduledDate
	}
}

// TaskWithChildren is a task plus its subtasks and sessions, the unit every
// mutating operation returns.
type TaskWithChildren struct {
	Task
	Subtasks []*Subtask `json:"subtasks"`
	Sessions []*Session `json:"sessions"`
}

// TaskCreateInput is the payload for creating a task.
type TaskCreateInput struct {
	Category         Category         `json:"category"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	TimeStart        string           `json:"timeStart"`
	TimeEnd          string           `json:"timeEnd"`
	DaysPerWeek      int              `json:"daysPerWeek"`
	HoursPerDay      int              `json:"hoursPerDay"`
	Subtasks         []string         `json:"subtasks"`
	ReminderSettings ReminderSettings `json:"reminderSettings"`
}

// TaskUpdateInput is a partial update; only non-nil fields change.
type TaskUpdateInput struct {
	Title            *string          `json:"title"`
	Description      *string          `json:"description"`
	StartDate        *string          `json:"startDate"`
	EndDate          *string          `json:"endDate"`
	TimeStart        *string          `json:"timeStart"`
	TimeEnd          *string          `json:"timeEnd"`
	ManualPriority   *int             `json:"manualPriority"`
	Status           *Status          `json:"status"`
	Progress         *float64         `json:"progress"`
	ReminderSettings ReminderSettings `json:"reminderSettings"`
}

// SubtaskCreateInput is the payload for adding a subtask to a task.
type SubtaskCreateInput struct {
	Title         string `json:"title"`
	ScheduledDate string `json:"scheduledDate"`
}

// SubtaskUpdateInput is a partial subtask update.
type SubtaskUpdateInput struct {
	Title         *string `json:"title"`
	ScheduledDate *string `json:"scheduledDate"`
	Completed     *bool   `json:"completed"`
}

// MonthEntry is one calendar dot in the month preview.
type MonthEntry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	TimeStart string   `json:"timeStart"`
	Category  Category `json:"category"`
}

// HistogramBucket is one bar of a profile histogram.
type HistogramBucket struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ProfileStats is the aggregate productivity view of one owner.
type ProfileStats struct {
	TotalTasksCompleted int               `json:"totalTasksCompleted"`
	ActiveGoals         int               `json:"activeGoals"`
	CompletionRate      float64           `json:"completionRate"`
	ProductivityStreak  int               `json:"productivityStreak"`
	Weekly              []HistogramBucket `json:"weekly"`
	Monthly             []HistogramBucket `json:"monthly"`
}
