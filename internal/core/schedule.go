package core

import "time"

// SpreadScheduleDates fans count subtask dates across [startDate, endDate]
// at the given weekly cadence. The eligible weekdays are the first
// daysPerWeek ISO weekdays counting from Monday (daysPerWeek=3 selects
// Mon/Tue/Wed); this mapping is fixed, not the user's preferred days.
// Returns a strictly increasing list of exactly count dates, or a
// ScheduleWindowError when the range holds fewer qualifying days.
func SpreadScheduleDates(startDate, endDate string, daysPerWeek, count int) ([]string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, &InvalidDateError{Value: startDate}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, &InvalidDateError{Value: endDate}
	}
	if start.After(end) {
		return nil, validationf("start date must be before end date")
	}

	maxWeekday := clampInt(daysPerWeek, 1, 7)
	out := make([]string, 0, count)
	for d := start; !d.After(end) && len(out) < count; d = d.AddDate(0, 0, 1) {
		if isoWeekdayOf(d) <= maxWeekday {
			out = append(out, d.Format(dateLayout))
		}
	}
	if len(out) < count {
		return nil, &ScheduleWindowError{Need: count, Have: len(out)}
	}
	return out, nil
}

func isoWeekdayOf(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
