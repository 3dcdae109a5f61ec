package domain

import (
	"fmt"
	"time"
)

const maxRentalDays = 365

// RentalPeriod is the date range of a rental. Dates are calendar days
// (midnight UTC); the duration includes both endpoints.
type RentalPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func NewRentalPeriod(startDate, endDate time.Time) (RentalPeriod, error) {
	start := truncateToDay(startDate)
	end := truncateToDay(endDate)

	if start.After(end) {
		return RentalPeriod{}, NewValidationError("start date %s cannot be after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if start.Before(Today()) {
		return RentalPeriod{}, NewValidationError("start date %s cannot be in the past", start.Format("2006-01-02"))
	}
	if spanDays(start, end) > maxRentalDays {
		return RentalPeriod{}, NewValidationError("rental period cannot exceed %d days", maxRentalDays)
	}
	return RentalPeriod{StartDate: start, EndDate: end}, nil
}

// DurationDays is inclusive of both the start and the end date.
func (p RentalPeriod) DurationDays() int {
	return spanDays(p.StartDate, p.EndDate) + 1
}

func (p RentalPeriod) OverlapsWith(other RentalPeriod) bool {
	return !p.EndDate.Before(other.StartDate) && !p.StartDate.After(other.EndDate)
}

func (p RentalPeriod) IsPast() bool {
	return p.EndDate.Before(Today())
}

func (p RentalPeriod) IsCurrent() bool {
	today := Today()
	return !p.StartDate.After(today) && !p.EndDate.Before(today)
}

func (p RentalPeriod) IsFuture() bool {
	return p.StartDate.After(Today())
}

func (p RentalPeriod) String() string {
	return fmt.Sprintf("%s to %s (%d days)",
		p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"), p.DurationDays())
}

// Today returns the current calendar day at midnight UTC.
func Today() time.Time {
	return truncateToDay(time.Now().UTC())
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func spanDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
