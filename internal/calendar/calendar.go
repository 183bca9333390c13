// Package calendar merges a board's non-working day sources into one calendar.
package calendar

import (
	"fmt"
	"sort"

	"sprintboard/internal/models"
)

// Calendar is a sorted, duplicate-free set of non-working dates.
type Calendar struct {
	days []models.Date
	set  map[models.Date]struct{}
}

// New builds a calendar from dates in any order, dropping zero dates and repeats.
func New(dates ...[]models.Date) Calendar {
	set := make(map[models.Date]struct{})
	for _, group := range dates {
		for _, d := range group {
			if d.IsZero() {
				continue
			}
			set[d] = struct{}{}
		}
	}

	days := make([]models.Date, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	return Calendar{days: days, set: set}
}

// Days returns the free dates in ascending order.
func (c Calendar) Days() []models.Date {
	out := make([]models.Date, len(c.days))
	copy(out, c.days)
	return out
}

// Len returns the number of free dates.
func (c Calendar) Len() int { return len(c.days) }

// IsFree reports whether d is a non-working day.
func (c Calendar) IsFree(d models.Date) bool {
	_, ok := c.set[d]
	return ok
}

// WorkingDays counts the days in r that are not free.
func (c Calendar) WorkingDays(r models.DateRange) int {
	n := 0
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		if !c.IsFree(d) {
			n++
		}
	}
	return n
}

// ExpandWeekdays lists every date in r whose weekday is flagged non-working.
func ExpandWeekdays(r models.DateRange, rules models.WeekdayRules) []models.Date {
	var out []models.Date
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		if rules[d.Weekday()] {
			out = append(out, d)
		}
	}
	return out
}

// Aggregate builds the board's exception calendar from its explicit dates, its
// weekday rules over the board range and the active vacation, if any.
// Explicit and vacation dates outside the board range are kept.
func Aggregate(board models.Board, active *models.Vacation) (Calendar, error) {
	if err := board.Range().Validate(); err != nil {
		return Calendar{}, &models.Error{Op: "aggregate calendar", BoardID: board.ID, Err: err}
	}

	var vacationDates []models.Date
	if active != nil {
		vacationDates = active.VacationDates
	}

	weekly := ExpandWeekdays(board.Range(), board.WeekdayPattern())
	return New(board.NonWorkingDays, weekly, vacationDates), nil
}

// NonWorkingDays returns Aggregate's dates as a sorted slice.
func NonWorkingDays(board models.Board, active *models.Vacation) ([]models.Date, error) {
	cal, err := Aggregate(board, active)
	if err != nil {
		return nil, fmt.Errorf("non-working days: %w", err)
	}
	return cal.Days(), nil
}
