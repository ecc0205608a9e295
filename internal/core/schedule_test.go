package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestSpreadScheduleDates(t *testing.T) {
	tests := []struct {
		name        string
		startDate   string
		endDate     string
		daysPerWeek int
		count       int
		want        []string
	}{
		{
			name:        "Given three-week window at three days per week When spreading six subtasks Then first Mon-Wed slots of each week used",
			startDate:   "2024-07-01",
			endDate:     "2024-07-21",
			daysPerWeek: 3,
			count:       6,
			want:        []string{"2024-07-01", "2024-07-02", "2024-07-03", "2024-07-08", "2024-07-09", "2024-07-10"},
		},
		{
			name:        "Given seven days per week When spreading Then every consecutive day qualifies",
			startDate:   "2024-07-01",
			endDate:     "2024-07-07",
			daysPerWeek: 7,
			count:       7,
			want: []string{
				"2024-07-01", "2024-07-02", "2024-07-03", "2024-07-04",
				"2024-07-05", "2024-07-06", "2024-07-07",
			},
		},
		{
			name:        "Given one day per week When spreading Then only Mondays qualify",
			startDate:   "2024-07-01",
			endDate:     "2024-07-21",
			daysPerWeek: 1,
			count:       3,
			want:        []string{"2024-07-01", "2024-07-08", "2024-07-15"},
		},
		{
			name:        "Given start mid-week When spreading Then partial first week still honored",
			startDate:   "2024-07-03", // Wednesday
			endDate:     "2024-07-10",
			daysPerWeek: 3,
			count:       4,
			want:        []string{"2024-07-03", "2024-07-08", "2024-07-09", "2024-07-10"},
		},
		{
			name:        "Given out-of-range cadence When spreading Then clamped to seven",
			startDate:   "2024-07-01",
			endDate:     "2024-07-03",
			daysPerWeek: 9,
			count:       3,
			want:        []string{"2024-07-01", "2024-07-02", "2024-07-03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpreadScheduleDates(tt.startDate, tt.endDate, tt.daysPerWeek, tt.count)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					t.Errorf("dates not strictly increasing at %d: %v", i, got)
				}
			}
		})
	}
}

func TestSpreadScheduleDatesWindowTooShort(t *testing.T) {
	// Three weeks of Mon-Wed hold 9 qualifying days at most.
	_, err := SpreadScheduleDates("2024-07-01", "2024-07-21", 3, 10)
	var windowErr *ScheduleWindowError
	if !errors.As(err, &windowErr) {
		t.Fatalf("expected ScheduleWindowError, got %v", err)
	}
	if windowErr.Need != 10 || windowErr.Have != 9 {
		t.Errorf("got need=%d have=%d, want need=10 have=9", windowErr.Need, windowErr.Have)
	}
}

func TestSpreadScheduleDatesInvalidInput(t *testing.T) {
	if _, err := SpreadScheduleDates("2024-07-21", "2024-07-01", 3, 1); err == nil {
		t.Error("expected error when start date is after end date")
	}

	var dateErr *InvalidDateError
	if _, err := SpreadScheduleDates("bogus", "2024-07-01", 3, 1); !errors.As(err, &dateErr) {
		t.Errorf("expected InvalidDateError for start date, got %v", err)
	}
	if _, err := SpreadScheduleDates("2024-07-01", "bogus", 3, 1); !errors.As(err, &dateErr) {
		t.Errorf("expected InvalidDateError for end date, got %v", err)
	}
}

func TestSpreadScheduleDatesZeroCount(t *testing.T) {
	got, err := SpreadScheduleDates("2024-07-01", "2024-07-21", 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
