// Package burndown computes actual and ideal remaining-points series for a
// board or a single sprint.
package burndown

import (
	"fmt"
	"math"
	"sort"
	"time"

	"sprintboard/internal/calendar"
	"sprintboard/internal/models"
)

// epsilon is the remaining-points value below which the ideal line is zero.
const epsilon = 1e-9

// Completion is a finished card's points and the date it was finished.
type Completion struct {
	Points float64
	On     models.Date
}

// Params describes one burndown window.
type Params struct {
	Window      models.DateRange
	TotalPoints float64
	Completed   []Completion
	Calendar    calendar.Calendar

	// StartPoints and EndPoints are the ideal remaining points at the window's
	// first and last working day.
	StartPoints float64
	EndPoints   float64

	// BoardEnd is the last day of the whole board. When the window ends on it
	// the ideal line is pinned to EndPoints on that day.
	BoardEnd models.Date
}

// Series holds one value per calendar day of the window.
type Series struct {
	Labels      []models.Date `json:"labels"`
	Actual      []float64     `json:"actual"`
	Ideal       []float64     `json:"ideal"`
	TotalPoints float64       `json:"total_points"`
	StartPoints float64       `json:"start_points"`
	EndPoints   float64       `json:"end_points"`
}

// Compute builds the actual and ideal series for p.
func Compute(p Params) (Series, error) {
	if err := p.Window.Validate(); err != nil {
		return Series{}, fmt.Errorf("burndown window: %w", err)
	}
	if p.TotalPoints < 0 {
		return Series{}, fmt.Errorf("%w: total points %v is negative", models.ErrInvalidInput, p.TotalPoints)
	}

	days := p.Window.Days()
	s := Series{
		Labels:      make([]models.Date, 0, days),
		Actual:      make([]float64, 0, days),
		Ideal:       make([]float64, 0, days),
		TotalPoints: p.TotalPoints,
		StartPoints: p.StartPoints,
		EndPoints:   p.EndPoints,
	}

	working := p.Calendar.WorkingDays(p.Window)
	rate := (p.StartPoints - p.EndPoints) / float64(max(working-1, 1))

	seen := 0
	zeroed := false
	for day := p.Window.Start; !day.After(p.Window.End); day = day.AddDays(1) {
		last := day == p.Window.End

		s.Labels = append(s.Labels, day)
		s.Actual = append(s.Actual, remaining(p.TotalPoints, p.Completed, day, last))

		if !p.Calendar.IsFree(day) {
			seen++
		}
		ideal := p.StartPoints - rate*float64(max(seen-1, 0))
		if last && day == p.BoardEnd {
			ideal = p.EndPoints
		}
		if zeroed || ideal <= epsilon {
			zeroed = true
			ideal = 0
		}
		s.Ideal = append(s.Ideal, ideal)
	}

	return s, nil
}

// remaining subtracts the points of cards finished by day; on the window's
// last day every finished card counts regardless of its date.
func remaining(total float64, completed []Completion, day models.Date, last bool) float64 {
	left := total
	for _, c := range completed {
		if last || !c.On.After(day) {
			left -= c.Points
		}
	}
	return math.Max(0, left)
}

// TotalPoints sums the points of every card on the board.
func TotalPoints(columns []models.Column) float64 {
	var total float64
	for _, col := range columns {
		for _, card := range col.Cards {
			total += card.Points
		}
	}
	return total
}

// Completions lists the cards sitting in done columns, dated in loc.
func Completions(columns []models.Column, loc *time.Location) []Completion {
	if loc == nil {
		loc = time.UTC
	}
	var out []Completion
	for _, col := range columns {
		if !col.IsDone() {
			continue
		}
		for _, card := range col.Cards {
			out = append(out, Completion{
				Points: card.Points,
				On:     models.DateOf(card.CompletedAt().In(loc)),
			})
		}
	}
	return out
}

// ForBoard computes the burndown of the whole board: the ideal line runs from
// the total to zero across the board's working days.
func ForBoard(board models.Board, cal calendar.Calendar, loc *time.Location) (Series, error) {
	total := TotalPoints(board.Columns)
	return Compute(Params{
		Window:      board.Range(),
		TotalPoints: total,
		Completed:   Completions(board.Columns, loc),
		Calendar:    cal,
		StartPoints: total,
		EndPoints:   0,
		BoardEnd:    board.EndDate,
	})
}

// ForSprint computes the burndown of one sprint. Its ideal line covers the
// sprint's share of the total, weighted by working days across all sprints.
func ForSprint(board models.Board, cal calendar.Calendar, sprintID int, loc *time.Location) (Series, error) {
	total := TotalPoints(board.Columns)

	sprint, start, end, err := Allocate(board.Sprints, cal, sprintID, total)
	if err != nil {
		return Series{}, &models.Error{Op: "sprint burndown", BoardID: board.ID, SprintID: sprintID, Err: err}
	}

	return Compute(Params{
		Window:      sprint.Range(),
		TotalPoints: total,
		Completed:   Completions(board.Columns, loc),
		Calendar:    cal,
		StartPoints: start,
		EndPoints:   end,
		BoardEnd:    board.EndDate,
	})
}

// Allocate returns the sprint with sprintID and the ideal remaining points at
// its start and end. Points burned by earlier sprints, in proportion to their
// working days, are subtracted from the total.
func Allocate(sprints []models.Sprint, cal calendar.Calendar, sprintID int, total float64) (models.Sprint, float64, float64, error) {
	ordered := make([]models.Sprint, len(sprints))
	copy(ordered, sprints)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartDate.Before(ordered[j].StartDate)
	})

	idx := -1
	weights := make([]int, len(ordered))
	sum := 0
	for i, s := range ordered {
		weights[i] = cal.WorkingDays(s.Range())
		sum += weights[i]
		if s.ID == sprintID {
			idx = i
		}
	}
	if idx < 0 {
		return models.Sprint{}, 0, 0, models.ErrNotFound
	}

	// A schedule made only of free days still needs a share per sprint.
	if sum == 0 {
		for i, s := range ordered {
			weights[i] = s.Range().Days()
			sum += weights[i]
		}
	}
	if sum == 0 {
		return models.Sprint{}, 0, 0, models.ErrInconsistentState
	}

	before := 0
	for i := 0; i < idx; i++ {
		before += weights[i]
	}
	through := before + weights[idx]

	start := total - total*float64(before)/float64(sum)
	end := total - total*float64(through)/float64(sum)
	if idx == len(ordered)-1 {
		end = 0
	}
	return ordered[idx], start, end, nil
}
