// Package sprints partitions a board's timeline into sprints and drives their
// status transitions.
package sprints

import (
	"fmt"
	"sort"
	"strings"

	"sprintboard/internal/models"
)

// Op is a change to a board's sprint list that requires redistribution.
type Op interface {
	apply(r models.DateRange, existing []models.Sprint) ([]models.Sprint, error)
	name() string
}

// Initialize replaces the sprint list with count fresh sprints.
func Initialize(count int) Op { return initializeOp{count: count} }

// Add appends a sprint and redistributes all of them.
func Add(title string) Op { return addOp{title: title} }

// Remove deletes the sprint with the given id and redistributes the rest.
func Remove(id int) Op { return removeOp{id: id} }

// EndDateChanged recomputes dates for a new board end; statuses are untouched.
func EndDateChanged(newEnd models.Date) Op { return endDateOp{end: newEnd} }

// Redistribute applies op to the sprints of a board spanning r. The input slice
// is never modified; on error no sprint list is returned.
func Redistribute(r models.DateRange, existing []models.Sprint, op Op) ([]models.Sprint, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op.name(), err)
	}
	out, err := op.apply(r, existing)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.name(), err)
	}
	return out, nil
}

// Partition splits r into count contiguous sprints of floor(days/count) days;
// the last sprint absorbs the remainder and ends on r.End.
func Partition(r models.DateRange, count int) ([]models.DateRange, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: sprint count %d is negative", models.ErrInvalidRange, count)
	}
	if count == 0 {
		return nil, nil
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	totalDays := r.Days()
	duration := totalDays / count
	if duration < 1 {
		return nil, fmt.Errorf("%w: %d days cannot hold %d sprints", models.ErrInvalidRange, totalDays, count)
	}

	out := make([]models.DateRange, count)
	for i := range out {
		out[i] = models.DateRange{
			Start: r.Start.AddDays(i * duration),
			End:   r.Start.AddDays((i+1)*duration - 1),
		}
	}
	out[count-1].End = r.End
	return out, nil
}

// Validate checks that sprints cover r contiguously without gaps or overlaps.
func Validate(r models.DateRange, sprints []models.Sprint) error {
	if len(sprints) == 0 {
		return nil
	}

	sorted := sortedByStart(sprints)
	if sorted[0].StartDate != r.Start {
		return fmt.Errorf("%w: first sprint starts %s, board starts %s",
			models.ErrInconsistentState, sorted[0].StartDate, r.Start)
	}
	for i, s := range sorted {
		if s.EndDate.Before(s.StartDate) {
			return fmt.Errorf("%w: sprint %d ends before it starts", models.ErrInconsistentState, s.ID)
		}
		if i > 0 && sorted[i-1].EndDate.AddDays(1) != s.StartDate {
			return fmt.Errorf("%w: sprint %d does not follow sprint %d",
				models.ErrInconsistentState, s.ID, sorted[i-1].ID)
		}
	}
	if last := sorted[len(sorted)-1]; last.EndDate != r.End {
		return fmt.Errorf("%w: last sprint ends %s, board ends %s",
			models.ErrInconsistentState, last.EndDate, r.End)
	}
	return nil
}

// DefaultTitle names the sprint at 1-based position n.
func DefaultTitle(n int) string {
	return fmt.Sprintf("Sprint %d", n)
}

// assign lays the sprints, already in their final order, over the partition of
// r and renumbers them 1..N. Title and status travel with each sprint.
func assign(r models.DateRange, ordered []models.Sprint) ([]models.Sprint, error) {
	ranges, err := Partition(r, len(ordered))
	if err != nil {
		return nil, err
	}

	out := make([]models.Sprint, len(ordered))
	for i, s := range ordered {
		out[i] = models.Sprint{
			ID:        i + 1,
			Title:     s.Title,
			StartDate: ranges[i].Start,
			EndDate:   ranges[i].End,
			Status:    s.Status,
		}
	}
	return out, nil
}

func sortedByStart(sprints []models.Sprint) []models.Sprint {
	out := make([]models.Sprint, len(sprints))
	copy(out, sprints)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

type initializeOp struct{ count int }

func (op initializeOp) name() string { return "initialize sprints" }

func (op initializeOp) apply(r models.DateRange, _ []models.Sprint) ([]models.Sprint, error) {
	if op.count < 0 {
		return nil, fmt.Errorf("%w: sprint count %d is negative", models.ErrInvalidRange, op.count)
	}
	fresh := make([]models.Sprint, op.count)
	for i := range fresh {
		fresh[i] = models.Sprint{Title: DefaultTitle(i + 1), Status: initialStatus(i)}
	}
	out, err := assign(r, fresh)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Sprint{}
	}
	return out, nil
}

type addOp struct{ title string }

func (op addOp) name() string { return "add sprint" }

func (op addOp) apply(r models.DateRange, existing []models.Sprint) ([]models.Sprint, error) {
	if err := Validate(r, existing); err != nil {
		return nil, err
	}

	ordered := sortedByStart(existing)
	title := strings.TrimSpace(op.title)
	if title == "" {
		title = DefaultTitle(len(ordered) + 1)
	}
	ordered = append(ordered, models.Sprint{Title: title, Status: initialStatus(len(ordered))})

	return assign(r, ordered)
}

type removeOp struct{ id int }

func (op removeOp) name() string { return "remove sprint" }

func (op removeOp) apply(r models.DateRange, existing []models.Sprint) ([]models.Sprint, error) {
	if err := Validate(r, existing); err != nil {
		return nil, err
	}

	ordered := sortedByStart(existing)
	kept := make([]models.Sprint, 0, len(ordered))
	found := false
	for _, s := range ordered {
		if s.ID == op.id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return nil, &models.Error{Op: "find sprint", SprintID: op.id, Err: models.ErrNotFound}
	}

	out, err := assign(r, kept)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Sprint{}
	}
	return out, nil
}

type endDateOp struct{ end models.Date }

func (op endDateOp) name() string { return "change end date" }

// apply expects r to be the board range before the change.
func (op endDateOp) apply(r models.DateRange, existing []models.Sprint) ([]models.Sprint, error) {
	next := models.DateRange{Start: r.Start, End: op.end}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return existing, nil
	}
	if err := Validate(r, existing); err != nil {
		return nil, err
	}
	return assign(next, sortedByStart(existing))
}

func initialStatus(index int) models.SprintStatus {
	if index == 0 {
		return models.SprintPlanning
	}
	return models.SprintInactive
}
