package timectx

import (
	"testing"
	"time"
)

func TestBuild_TimePeriods(t *testing.T) {
	tests := []struct {
		name       string
		hour       int
		wantPeriod string
	}{
		{name: "midnight is off-peak", hour: 0, wantPeriod: PeriodOffPeak},
		{name: "6am is off-peak", hour: 6, wantPeriod: PeriodOffPeak},
		{name: "7am starts morning rush", hour: 7, wantPeriod: PeriodMorningRush},
		{name: "9am is morning rush", hour: 9, wantPeriod: PeriodMorningRush},
		{name: "10am is still morning rush", hour: 10, wantPeriod: PeriodMorningRush},
		{name: "11am is off-peak", hour: 11, wantPeriod: PeriodOffPeak},
		{name: "3pm is off-peak", hour: 15, wantPeriod: PeriodOffPeak},
		{name: "4pm starts evening rush", hour: 16, wantPeriod: PeriodEveningRush},
		{name: "7pm is evening rush", hour: 19, wantPeriod: PeriodEveningRush},
		{name: "8pm is off-peak", hour: 20, wantPeriod: PeriodOffPeak},
		{name: "11pm is off-peak", hour: 23, wantPeriod: PeriodOffPeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange: Monday 2024-03-04 at the hour under test.
			now := time.Date(2024, 3, 4, tt.hour, 30, 0, 0, time.UTC)

			// Act
			got := Build(now)

			// Assert
			if got.TimePeriod != tt.wantPeriod {
				t.Errorf("TimePeriod = %q, want %q", got.TimePeriod, tt.wantPeriod)
			}
			if got.Hour != tt.hour {
				t.Errorf("Hour = %d, want %d", got.Hour, tt.hour)
			}
		})
	}
}

func TestBuild_Weekend(t *testing.T) {
	tests := []struct {
		name        string
		day         int
		wantWeekday string
		wantWeekend bool
	}{
		{name: "Friday is a weekday", day: 1, wantWeekday: "Friday", wantWeekend: false},
		{name: "Saturday is weekend", day: 2, wantWeekday: "Saturday", wantWeekend: true},
		{name: "Sunday is weekend", day: 3, wantWeekday: "Sunday", wantWeekend: true},
		{name: "Monday is a weekday", day: 4, wantWeekday: "Monday", wantWeekend: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange: March 2024 starts on a Friday.
			now := time.Date(2024, 3, tt.day, 12, 0, 0, 0, time.UTC)

			// Act
			got := Build(now)

			// Assert
			if got.Weekday != tt.wantWeekday {
				t.Errorf("Weekday = %q, want %q", got.Weekday, tt.wantWeekday)
			}
			if got.IsWeekend != tt.wantWeekend {
				t.Errorf("IsWeekend = %v, want %v", got.IsWeekend, tt.wantWeekend)
			}
		})
	}
}

func TestBuild_UsesInstantLocation(t *testing.T) {
	// Arrange: 02:30 UTC is 08:00 in Asia/Kolkata (+05:30).
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	now := time.Date(2024, 3, 4, 2, 30, 0, 0, time.UTC).In(loc)

	// Act
	got := Build(now)

	// Assert
	if got.Hour != 8 {
		t.Errorf("Hour = %d, want 8", got.Hour)
	}
	if got.TimePeriod != PeriodMorningRush {
		t.Errorf("TimePeriod = %q, want %q", got.TimePeriod, PeriodMorningRush)
	}
}

func TestCurrent(t *testing.T) {
	// Act
	got := Current(time.UTC)

	// Assert
	if got.Weekday == "" {
		t.Error("Weekday is empty")
	}
	if got.TimePeriod == "" {
		t.Error("TimePeriod is empty")
	}
	if got.Hour < 0 || got.Hour > 23 {
		t.Errorf("Hour = %d, out of range", got.Hour)
	}
}
