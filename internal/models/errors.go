package models

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNotFound reports an unresolvable board, sprint, column or card id.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized reports an operation the acting identity may not perform.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidRange reports a date range or sprint count that cannot be scheduled.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInconsistentState reports a stored sprint list that breaks contiguous coverage.
	ErrInconsistentState = errors.New("inconsistent state")
	// ErrInvalidInput reports a malformed field such as an unknown status.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLocked reports a card write against a locked column.
	ErrLocked = errors.New("column is locked")
)

// Error carries the board and sprint an operation failed for.
//
// Use [errors.Is] against the sentinels above to classify it:
//
//	if errors.Is(err, models.ErrNotFound) { ... }
type Error struct {
	Op       string
	BoardID  int64
	SprintID int
	Err      error
}

// Error formats as "<op>: <cause> (board_id=X sprint_id=Y)".
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}

	var parts []string
	if e.BoardID != 0 {
		parts = append(parts, "board_id="+strconv.FormatInt(e.BoardID, 10))
	}
	if e.SprintID != 0 {
		parts = append(parts, "sprint_id="+strconv.Itoa(e.SprintID))
	}
	if len(parts) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, " "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
