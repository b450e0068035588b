package domain

import (
	"time"
)

// BusinessHours is the operating calendar the response-time engine
// normalizes elapsed time against. Hours are local to the schedule's
// time zone; Days holds the weekdays the team works.
type BusinessHours struct {
	StartHour  int                   `json:"start_hour"`
	EndHour    int                   `json:"end_hour"`
	Days       map[time.Weekday]bool `json:"-"`
	SLAMinutes int                   `json:"sla_minutes"`
}

// DefaultBusinessHours returns the stock 8:00-18:00 Monday-Friday calendar
// with a ten minute SLA threshold.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		StartHour: 8,
		EndHour:   18,
		Days: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		SLAMinutes: 10,
	}
}

// Validate checks the calendar invariants
func (h BusinessHours) Validate() error {
	if h.StartHour < 0 || h.StartHour > 23 {
		return ErrInvalidStartHour
	}
	if h.EndHour < 1 || h.EndHour > 24 {
		return ErrInvalidEndHour
	}
	if h.StartHour >= h.EndHour {
		return ErrInvalidHourRange
	}
	if len(h.Days) == 0 {
		return ErrNoBusinessDays
	}
	if h.SLAMinutes <= 0 {
		return ErrInvalidSLAMinutes
	}
	return nil
}

// WeekdayList returns the configured business days as sorted ints
// (0=Sunday..6=Saturday), the shape the settings API exchanges.
func (h BusinessHours) WeekdayList() []int {
	days := make([]int, 0, len(h.Days))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if h.Days[d] {
			days = append(days, int(d))
		}
	}
	return days
}

// BusinessHoursFromWeekdays builds a Days set from 0..6 weekday numbers
func BusinessHoursFromWeekdays(startHour, endHour, slaMinutes int, weekdays []int) BusinessHours {
	days := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		if d >= 0 && d <= 6 {
			days[time.Weekday(d)] = true
		}
	}
	return BusinessHours{
		StartHour:  startHour,
		EndHour:    endHour,
		Days:       days,
		SLAMinutes: slaMinutes,
	}
}

// Schedule resolves absolute instants against a business-hours calendar in
// a concrete time zone. The location is injected so deployments in other
// regions are not baked into the arithmetic.
type Schedule struct {
	hours BusinessHours
	loc   *time.Location
}

// NewSchedule validates the calendar and binds it to a location.
// A nil location defaults to UTC.
func NewSchedule(hours BusinessHours, loc *time.Location) (*Schedule, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Schedule{hours: hours, loc: loc}, nil
}

// Hours returns the calendar the schedule was built from
func (s *Schedule) Hours() BusinessHours {
	return s.hours
}

// IsBusinessInstant reports whether t falls inside [StartHour, EndHour)
// on a configured business day.
func (s *Schedule) IsBusinessInstant(t time.Time) bool {
	local := t.In(s.loc)
	if !s.hours.Days[local.Weekday()] {
		return false
	}
	hour := local.Hour()
	return hour >= s.hours.StartHour && hour < s.hours.EndHour
}

// AdvanceToBusinessInstant returns t unchanged when it already falls inside
// business hours; otherwise it returns the next StartHour on a business
// day. The result is never before t, and applying the function twice gives
// the same instant as applying it once.
func (s *Schedule) AdvanceToBusinessInstant(t time.Time) time.Time {
	if s.IsBusinessInstant(t) {
		return t
	}

	local := t.In(s.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	// Before opening on a business day: jump to that day's StartHour.
	// Otherwise move to the next day and keep skipping non-business days.
	if !s.hours.Days[local.Weekday()] || local.Hour() >= s.hours.StartHour {
		day = day.AddDate(0, 0, 1)
	}
	for !s.hours.Days[day.Weekday()] {
		day = day.AddDate(0, 0, 1)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), s.hours.StartHour, 0, 0, 0, s.loc)
}
