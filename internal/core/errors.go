package core

import "fmt"

// ValidationError indicates malformed, missing, or out-of-range input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a record is absent or not owned by the caller.
type NotFoundError struct {
	Kind string // "task", "subtask", "session"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InvalidCategoryError indicates an operation that does not apply to the
// task's category, e.g. subtasks on an event reminder.
type InvalidCategoryError struct {
	Category Category
	Op       string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("%s not supported for category %s", e.Op, e.Category)
}

// InvalidDateError indicates a date value that could not be parsed.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %q", e.Value)
}

// InvalidTimeError indicates a time-of-day value outside 24-hour HH:MM.
type InvalidTimeError struct {
	Value string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid time: %q", e.Value)
}

// ScheduleWindowError indicates the date range and weekly cadence cannot
// fit the requested number of subtasks.
type ScheduleWindowError struct {
	Need int
	Have int
}

func (e *ScheduleWindowError) Error() string {
	return fmt.Sprintf("date range and days/week are insufficient for all subtasks: need %d dates, have %d", e.Need, e.Have)
}
