package boards

import (
	"context"
	"fmt"

	"sprintboard/internal/models"
	"sprintboard/internal/sprints"
)

// ListColumns returns the board's columns with their cards.
func (s *Service) ListColumns(ctx context.Context, boardID int64) ([]models.Column, error) {
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return b.Columns, nil
}

// CreateColumn appends a column whose status already matches the board's
// current sprint. A board has at most one done column.
func (s *Service) CreateColumn(ctx context.Context, boardID int64, title string, role models.ColumnRole) (models.Column, error) {
	if role == "" {
		role = models.RoleGeneric
	}
	if !role.Valid() {
		return models.Column{}, fmt.Errorf("%w: unknown column role %q", models.ErrInvalidInput, role)
	}

	unlock := s.locks.lock(boardID)
	defer unlock()

	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return models.Column{}, err
	}
	if err := checkDoneColumn(b, 0, role); err != nil {
		return models.Column{}, err
	}
	current, ok := sprints.Current(b.Sprints, s.Today())

	return s.store.CreateColumn(ctx, models.Column{
		BoardID: boardID,
		Title:   title,
		Role:    role,
		Status:  sprints.ColumnStatusFor(role, current, ok),
	})
}

// UpdateColumn renames a column and sets its role. A new role brings the
// status in line with the current sprint.
func (s *Service) UpdateColumn(ctx context.Context, id int64, title string, role models.ColumnRole) (models.Column, error) {
	c, err := s.store.GetColumn(ctx, id)
	if err != nil {
		return models.Column{}, err
	}

	unlock := s.locks.lock(c.BoardID)
	defer unlock()

	b, err := s.store.GetBoard(ctx, c.BoardID)
	if err != nil {
		return models.Column{}, err
	}
	if c, err = s.store.GetColumn(ctx, id); err != nil {
		return models.Column{}, err
	}
	if role == "" {
		role = c.Role
	}
	if role != c.Role {
		if err := checkDoneColumn(b, id, role); err != nil {
			return models.Column{}, err
		}
	}

	updated, err := s.store.UpdateColumn(ctx, id, title, role)
	if err != nil || role == c.Role {
		return updated, err
	}

	current, ok := sprints.Current(b.Sprints, s.Today())
	want := sprints.ColumnStatusFor(role, current, ok)
	if want == updated.Status {
		return updated, nil
	}
	s.metrics.RecordColumnUpdates(1)
	return s.store.SetColumnStatus(ctx, id, want)
}

// DeleteColumn removes a column and its cards. The done column stays.
func (s *Service) DeleteColumn(ctx context.Context, id int64) error {
	c, err := s.store.GetColumn(ctx, id)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(c.BoardID)
	defer unlock()

	if c.IsDone() {
		return fmt.Errorf("%w: column %d is the board's done column", models.ErrInvalidInput, id)
	}
	return s.store.DeleteColumn(ctx, id)
}

// checkDoneColumn rejects giving column id the done role when another
// column of b already has it, and taking the role away from the done column.
func checkDoneColumn(b models.Board, id int64, role models.ColumnRole) error {
	for _, col := range b.Columns {
		if !col.IsDone() {
			continue
		}
		if col.ID == id {
			return fmt.Errorf("%w: column %d is the board's done column", models.ErrInvalidInput, id)
		}
		if role == models.RoleDone {
			return fmt.Errorf("%w: board %d already has done column %d", models.ErrInvalidInput, b.ID, col.ID)
		}
	}
	return nil
}

// ToggleColumnLock flips a column between active and locked by hand.
func (s *Service) ToggleColumnLock(ctx context.Context, id int64) (models.Column, error) {
	c, err := s.store.GetColumn(ctx, id)
	if err != nil {
		return models.Column{}, err
	}

	unlock := s.locks.lock(c.BoardID)
	defer unlock()

	// Re-read under the board lock; a cascade may have just run.
	if c, err = s.store.GetColumn(ctx, id); err != nil {
		return models.Column{}, err
	}
	next := c.ToggleLock()
	if next == c.Status {
		return c, nil
	}

	s.logger.Info("column lock toggled", "board_id", c.BoardID, "column_id", id, "from", c.Status, "to", next)
	return s.store.SetColumnStatus(ctx, id, next)
}

// CreateCard adds a card to an unlocked column.
func (s *Service) CreateCard(ctx context.Context, columnID int64, card models.Card) (models.Card, error) {
	col, err := s.store.GetColumn(ctx, columnID)
	if err != nil {
		return models.Card{}, err
	}
	if err := writable(col); err != nil {
		return models.Card{}, err
	}

	card.ColumnID = columnID
	return s.store.CreateCard(ctx, card)
}

// UpdateCard edits a card outside a locked column.
func (s *Service) UpdateCard(ctx context.Context, id int64, changes models.CardChanges) (models.Card, error) {
	if _, err := s.writableCard(ctx, id); err != nil {
		return models.Card{}, err
	}
	return s.store.UpdateCard(ctx, id, changes)
}

// DeleteCard removes a card outside a locked column.
func (s *Service) DeleteCard(ctx context.Context, id int64) error {
	if _, err := s.writableCard(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteCard(ctx, id)
}

// MoveCard moves a card to another column of the same board and stamps the
// move time, which burndown uses as the completion date.
func (s *Service) MoveCard(ctx context.Context, id, toColumnID int64) (models.Card, error) {
	from, err := s.writableCard(ctx, id)
	if err != nil {
		return models.Card{}, err
	}
	to, err := s.store.GetColumn(ctx, toColumnID)
	if err != nil {
		return models.Card{}, err
	}
	if to.BoardID != from.BoardID {
		return models.Card{}, fmt.Errorf("%w: column %d is on another board", models.ErrInvalidInput, toColumnID)
	}
	if err := writable(to); err != nil {
		return models.Card{}, err
	}

	return s.store.MoveCard(ctx, id, toColumnID, s.now())
}

// writableCard returns the column holding card id, or ErrLocked.
func (s *Service) writableCard(ctx context.Context, id int64) (models.Column, error) {
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return models.Column{}, err
	}
	col, err := s.store.GetColumn(ctx, card.ColumnID)
	if err != nil {
		return models.Column{}, err
	}
	return col, writable(col)
}

func writable(col models.Column) error {
	if col.Status == models.ColumnLocked {
		return fmt.Errorf("column %d: %w", col.ID, models.ErrLocked)
	}
	return nil
}
