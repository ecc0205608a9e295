package core

import (
	"regexp"
	"strings"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ParseTab normalizes a tab query value; anything but "completed" is the
// scheduled tab.
func ParseTab(value string) Tab {
	if value == string(TabCompleted) {
		return TabCompleted
	}
	return TabScheduled
}

// ParseViewMode normalizes a view query value; anything but "focus" is the
// home view.
func ParseViewMode(value string) ViewMode {
	if value == string(ViewFocus) {
		return ViewFocus
	}
	return ViewHome
}

// ParseMonth validates a YYYY-MM month string.
func ParseMonth(value string) (string, error) {
	if !monthPattern.MatchString(value) {
		return "", validationf("invalid month format, expected YYYY-MM: %q", value)
	}
	return value, nil
}

// validateTaskCreate normalizes a create payload and enforces the
// category-specific field rules. The returned copy carries ISO dates,
// validated times and trimmed text.
func validateTaskCreate(input TaskCreateInput) (TaskCreateInput, error) {
	if !input.Category.Valid() {
		return input, validationf("invalid task category: %q", input.Category)
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return input, validationf("title is required")
	}
	input.Description = strings.TrimSpace(input.Description)

	startDate, err := NormalizeDate(input.StartDate)
	if err != nil {
		return input, err
	}
	requestedEnd := input.EndDate
	if requestedEnd == "" {
		requestedEnd = input.StartDate
	}
	endDate, err := NormalizeDate(requestedEnd)
	if err != nil {
		return input, err
	}
	if input.Category.SingleDay() {
		endDate = startDate
	}
	input.StartDate = startDate
	input.EndDate = endDate

	if input.TimeStart, err = NormalizeTime(input.TimeStart); err != nil {
		return input, err
	}
	if input.TimeEnd, err = NormalizeTime(input.TimeEnd); err != nil {
		return input, err
	}
	if MinutesBetween(input.TimeStart, input.TimeEnd) <= 0 {
		return input, validationf("end time must be after start time")
	}
	if input.Category.GoalBearing() && endDate < startDate {
		return input, validationf("end date must be on or after start date")
	}

	if input.Category == CategorySkillGoal {
		if input.DaysPerWeek < 1 || input.DaysPerWeek > 7 {
			return input, validationf("days per week must be between 1 and 7")
		}
		if input.HoursPerDay < 1 {
			return input, validationf("hours per day must be at least 1")
		}
	}

	input.Subtasks = trimTitles(input.Subtasks)
	if input.Category == CategorySkillGoal && len(input.Subtasks) == 0 {
		return input, validationf("skill development goal requires upfront subtasks")
	}
	return input, nil
}

// trimTitles trims every entry and drops the empty ones.
func trimTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
