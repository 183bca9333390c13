package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Board is a fixed-duration project with its sprint schedule.
type Board struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	StartDate      Date          `json:"start_date"`
	EndDate        Date          `json:"end_date"`
	Sprints        []Sprint      `json:"sprints"`
	NonWorkingDays []Date        `json:"non_working_days"`
	Weekdays       *WeekdayRules `json:"weekdays,omitempty"`
	Columns        []Column      `json:"columns,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Range returns the board's inclusive date span.
func (b Board) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// WeekdayPattern returns the board's weekday rules, Saturday and Sunday when unset.
func (b Board) WeekdayPattern() WeekdayRules {
	if b.Weekdays == nil {
		return DefaultWeekdays()
	}
	return *b.Weekdays
}

// SprintStatus is the stored lifecycle state of a sprint.
type SprintStatus string

const (
	SprintInactive SprintStatus = "inactive"
	SprintPlanning SprintStatus = "planning"
	SprintActive   SprintStatus = "active"
	SprintLocked   SprintStatus = "locked"
	SprintChecked  SprintStatus = "checked"
)

// Valid reports whether s is one of the known sprint statuses.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintInactive, SprintPlanning, SprintActive, SprintLocked, SprintChecked:
		return true
	}
	return false
}

// Sprint is a contiguous slice of a board's timeline.
type Sprint struct {
	ID        int          `json:"id"`
	Title     string       `json:"title"`
	StartDate Date         `json:"start_date"`
	EndDate   Date         `json:"end_date"`
	Status    SprintStatus `json:"status"`
}

func (s Sprint) Range() DateRange {
	return DateRange{Start: s.StartDate, End: s.EndDate}
}

// ColumnStatus mirrors the board's current sprint onto a column.
type ColumnStatus string

const (
	ColumnActive  ColumnStatus = "active"
	ColumnLocked  ColumnStatus = "locked"
	ColumnChecked ColumnStatus = "checked"
)

// ColumnRole tags what a column is for, independent of its display title.
type ColumnRole string

const (
	RoleBacklog       ColumnRole = "backlog"
	RoleSprintBacklog ColumnRole = "sprint_backlog"
	RoleGeneric       ColumnRole = "generic"
	RoleDone          ColumnRole = "done"
)

func (r ColumnRole) Valid() bool {
	switch r {
	case RoleBacklog, RoleSprintBacklog, RoleGeneric, RoleDone:
		return true
	}
	return false
}

// Column belongs to a board and holds cards.
type Column struct {
	ID        int64        `db:"id" json:"id"`
	BoardID   int64        `db:"board_id" json:"board_id"`
	Title     string       `db:"title" json:"title"`
	Role      ColumnRole   `db:"role" json:"role"`
	Status    ColumnStatus `db:"status" json:"status"`
	Position  int64        `db:"position" json:"position"`
	Cards     []Card       `db:"-" json:"cards"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// IsDone reports whether cards in the column count as completed.
func (c Column) IsDone() bool { return c.Role == RoleDone }

// ToggleLock flips a manually locked column; checked columns stay checked.
func (c Column) ToggleLock() ColumnStatus {
	switch c.Status {
	case ColumnActive:
		return ColumnLocked
	case ColumnChecked:
		return ColumnChecked
	default:
		return ColumnActive
	}
}

// DefaultColumns is the column set every new board starts with.
func DefaultColumns() []Column {
	return []Column{
		{Title: "Project Backlog", Role: RoleBacklog, Status: ColumnActive},
		{Title: "Sprint Backlog", Role: RoleSprintBacklog, Status: ColumnActive},
		{Title: "In Progress", Role: RoleGeneric, Status: ColumnActive},
		{Title: "Done", Role: RoleDone, Status: ColumnActive},
	}
}

// Card is a unit of work worth a number of points.
type Card struct {
	ID              int64      `db:"id" json:"id"`
	ColumnID        int64      `db:"column_id" json:"column_id"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	Points          float64    `db:"points" json:"points"`
	Position        int64      `db:"position" json:"position"`
	StatusUpdatedAt *time.Time `db:"status_updated_at" json:"status_updated_at"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// CompletedAt is the time the card last changed column, or its creation time.
func (c Card) CompletedAt() time.Time {
	if c.StatusUpdatedAt != nil {
		return *c.StatusUpdatedAt
	}
	return c.CreatedAt
}

// CardChanges holds the optional fields of a card edit.
type CardChanges struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Points      *float64 `json:"points"`
}

// VacationStatus marks the single vacation calendar in effect.
type VacationStatus string

const (
	VacationActive   VacationStatus = "active"
	VacationInactive VacationStatus = "inactive"
)

// Vacation is an organization-wide list of free dates for a school year.
type Vacation struct {
	ID            int64          `json:"id"`
	SchoolYear    string         `json:"school_year"`
	VacationDates []Date         `json:"vacation_dates"`
	Status        VacationStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// RoleAdmin is the actor role allowed to override sprint statuses.
const RoleAdmin = "admin"

// Actor is the identity a request is made on behalf of.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// StatusChange records one sprint status transition.
type StatusChange struct {
	SprintID  int          `json:"sprint_id"`
	Title     string       `json:"title"`
	OldStatus SprintStatus `json:"old_status"`
	NewStatus SprintStatus `json:"new_status"`
	StartDate Date         `json:"start_date"`
	EndDate   Date         `json:"end_date"`
}

// BoardChanges groups the sweep's transitions for one board.
type BoardChanges struct {
	BoardID    int64          `json:"board_id"`
	BoardTitle string         `json:"board_title"`
	Changes    []StatusChange `json:"changes"`
}

// SweepLog persists the outcome of a sweep that changed something.
type SweepLog struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Data        string    `db:"data" json:"data"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// WeekdayRules flags which weekdays are non-working, indexed by time.Weekday.
type WeekdayRules [7]bool

// DefaultWeekdays marks Saturday and Sunday as non-working.
func DefaultWeekdays() WeekdayRules {
	var w WeekdayRules
	w[time.Saturday] = true
	w[time.Sunday] = true
	return w
}

var weekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func (w WeekdayRules) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, len(weekdayKeys))
	for i, key := range weekdayKeys {
		m[key] = w[i]
	}
	return json.Marshal(m)
}

func (w *WeekdayRules) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: weekdays: %w", ErrInvalidInput, err)
	}
	var rules WeekdayRules
	for key, v := range m {
		idx := -1
		for i, k := range weekdayKeys {
			if strings.EqualFold(key, k) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, key)
		}
		rules[idx] = v
	}
	*w = rules
	return nil
}
