// Package timectx classifies a wall-clock instant into the coarse buckets
// the excuse prompt cares about: rush hour or not, weekend or not.
package timectx

import (
	"time"

	"github.com/relam-bot/Useless-Project-2.0/internal/models"
)

const (
	// PeriodMorningRush covers 07:00 through 10:59.
	PeriodMorningRush = "morning rush hour"
	// PeriodEveningRush covers 16:00 through 19:59.
	PeriodEveningRush = "evening rush hour"
	// PeriodOffPeak covers every other hour.
	PeriodOffPeak = "off-peak hours"
)

// Build classifies the given instant. The instant's location determines the
// local hour and weekday.
func Build(now time.Time) models.TimeContext {
	hour := now.Hour()
	weekday := now.Weekday()

	period := PeriodOffPeak
	switch {
	case hour >= 7 && hour <= 10:
		period = PeriodMorningRush
	case hour >= 16 && hour <= 19:
		period = PeriodEveningRush
	}

	return models.TimeContext{
		Hour:       hour,
		Weekday:    weekday.String(),
		TimePeriod: period,
		IsWeekend:  weekday == time.Saturday || weekday == time.Sunday,
	}
}

// Current classifies the present moment in the given location.
func Current(loc *time.Location) models.TimeContext {
	return Build(time.Now().In(loc))
}
