/*
interval.go - Contribution interval arithmetic

PURPOSE:
  A tontine group's schedule is a start date advanced repeatedly by its
  interval. This file defines the interval enum and the date stepping
  used by both schedule generation and payout-date computation.

CALENDAR STEPPING:
  Month/year intervals use time.AddDate, so "monthly from Jan 31" lands on
  the calendar-normalized date (Mar 3 in a non-leap year), matching
  standard library semantics rather than banker's end-of-month rules.
*/
package tontine

import "time"

// Interval is how often members contribute.
type Interval string

const (
	Daily      Interval = "daily"
	Weekly     Interval = "weekly"
	TwoWeeks   Interval = "2-weeks"
	ThreeWeeks Interval = "3-weeks"
	Monthly    Interval = "monthly"
	TwoMonths  Interval = "2-months"
	Trimester  Interval = "trimester"
	Semester   Interval = "semester"
	Yearly     Interval = "yearly"
	// Custom advances by an explicit number of days (Group.CustomDays).
	Custom Interval = "custom"
)

// Valid reports whether the interval is one of the known values.
func (i Interval) Valid() bool {
	switch i {
	case Daily, Weekly, TwoWeeks, ThreeWeeks, Monthly, TwoMonths,
		Trimester, Semester, Yearly, Custom:
		return true
	}
	return false
}

// Next advances t by one interval step. customDays applies to Custom only;
// a non-positive customDays falls back to one day.
func (i Interval) Next(t time.Time, customDays int) time.Time {
	switch i {
	case Daily:
		return t.AddDate(0, 0, 1)
	case Weekly:
		return t.AddDate(0, 0, 7)
	case TwoWeeks:
		return t.AddDate(0, 0, 14)
	case ThreeWeeks:
		return t.AddDate(0, 0, 21)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case TwoMonths:
		return t.AddDate(0, 2, 0)
	case Trimester:
		return t.AddDate(0, 3, 0)
	case Semester:
		return t.AddDate(0, 6, 0)
	case Yearly:
		return t.AddDate(1, 0, 0)
	case Custom:
		if customDays <= 0 {
			customDays = 1
		}
		return t.AddDate(0, 0, customDays)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// PayoutDate is the due date of the position-th period: the group start
// date advanced position-1 steps. The first contribution is due at the
// start date itself, so position 1 pays out on the start date.
func PayoutDate(start time.Time, interval Interval, position, customDays int) time.Time {
	date := start
	for i := 1; i < position; i++ {
		date = interval.Next(date, customDays)
	}
	return date
}
