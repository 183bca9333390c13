package sprints

import (
	"fmt"
	"strings"

	"sprintboard/internal/models"
)

// currentPriority is the order in which stored statuses claim "current".
var currentPriority = []models.SprintStatus{
	models.SprintActive,
	models.SprintLocked,
	models.SprintPlanning,
}

// Current resolves the sprint in effect. Stored status wins over dates: the
// first active sprint, else the first locked, else the first planning one.
// Only when none of those exist does the sprint containing today count.
func Current(sprints []models.Sprint, today models.Date) (models.Sprint, bool) {
	for _, status := range currentPriority {
		for _, s := range sprints {
			if s.Status == status {
				return s, true
			}
		}
	}
	for _, s := range sprints {
		if s.Range().Contains(today) {
			return s, true
		}
	}
	return models.Sprint{}, false
}

// AutoLock locks every active sprint whose end date is before today. Other
// statuses are never touched. The input slice is not modified.
func AutoLock(sprints []models.Sprint, today models.Date) ([]models.Sprint, []models.StatusChange) {
	out := cloneSprints(sprints)

	var changes []models.StatusChange
	for i := range out {
		s := &out[i]
		if s.Status != models.SprintActive || !today.After(s.EndDate) {
			continue
		}
		changes = append(changes, change(*s, models.SprintLocked))
		s.Status = models.SprintLocked
	}
	return out, changes
}

// SetStatus applies an admin override. Signing off a locked sprint (locked to
// checked) moves the next later locked sprint back to planning.
func SetStatus(sprints []models.Sprint, id int, status models.SprintStatus, actor models.Actor) ([]models.Sprint, []models.StatusChange, error) {
	if !actor.IsAdmin() {
		return nil, nil, &models.Error{Op: "set sprint status", SprintID: id, Err: models.ErrUnauthorized}
	}
	if !status.Valid() {
		return nil, nil, &models.Error{
			Op:       "set sprint status",
			SprintID: id,
			Err:      fmt.Errorf("%w: unknown sprint status %q", models.ErrInvalidInput, status),
		}
	}

	out := sortedByStart(sprints)
	idx := indexOf(out, id)
	if idx < 0 {
		return nil, nil, &models.Error{Op: "set sprint status", SprintID: id, Err: models.ErrNotFound}
	}

	old := out[idx].Status
	if old == status {
		return out, nil, nil
	}

	changes := []models.StatusChange{change(out[idx], status)}
	out[idx].Status = status

	if old == models.SprintLocked && status == models.SprintChecked {
		for j := idx + 1; j < len(out); j++ {
			if out[j].Status == models.SprintLocked {
				changes = append(changes, change(out[j], models.SprintPlanning))
				out[j].Status = models.SprintPlanning
				break
			}
		}
	}
	return out, changes, nil
}

// Rename sets the title of the sprint with the given id.
func Rename(sprints []models.Sprint, id int, title string) ([]models.Sprint, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &models.Error{
			Op:       "rename sprint",
			SprintID: id,
			Err:      fmt.Errorf("%w: sprint title must not be empty", models.ErrInvalidInput),
		}
	}

	out := cloneSprints(sprints)
	idx := indexOf(out, id)
	if idx < 0 {
		return nil, &models.Error{Op: "rename sprint", SprintID: id, Err: models.ErrNotFound}
	}
	out[idx].Title = title
	return out, nil
}

// ColumnUpdate is a column whose status must change.
type ColumnUpdate struct {
	ColumnID  int64               `json:"column_id"`
	OldStatus models.ColumnStatus `json:"old_status"`
	NewStatus models.ColumnStatus `json:"new_status"`
}

// ColumnStatusFor returns the status a column with the given role should have
// while current is the board's current sprint.
func ColumnStatusFor(role models.ColumnRole, current models.Sprint, ok bool) models.ColumnStatus {
	if !ok {
		return models.ColumnActive
	}
	switch current.Status {
	case models.SprintLocked:
		return models.ColumnLocked
	case models.SprintPlanning:
		if role == models.RoleBacklog || role == models.RoleSprintBacklog {
			return models.ColumnActive
		}
		return models.ColumnLocked
	default:
		return models.ColumnActive
	}
}

// CascadeColumns lists the columns whose status disagrees with the board's
// current sprint. An empty result means nothing needs writing.
func CascadeColumns(columns []models.Column, sprints []models.Sprint, today models.Date) []ColumnUpdate {
	current, ok := Current(sprints, today)

	var updates []ColumnUpdate
	for _, c := range columns {
		want := ColumnStatusFor(c.Role, current, ok)
		if c.Status == want {
			continue
		}
		updates = append(updates, ColumnUpdate{ColumnID: c.ID, OldStatus: c.Status, NewStatus: want})
	}
	return updates
}

func change(s models.Sprint, to models.SprintStatus) models.StatusChange {
	return models.StatusChange{
		SprintID:  s.ID,
		Title:     s.Title,
		OldStatus: s.Status,
		NewStatus: to,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}

func indexOf(sprints []models.Sprint, id int) int {
	for i, s := range sprints {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func cloneSprints(sprints []models.Sprint) []models.Sprint {
	if sprints == nil {
		return nil
	}
	out := make([]models.Sprint, len(sprints))
	copy(out, sprints)
	return out
}
