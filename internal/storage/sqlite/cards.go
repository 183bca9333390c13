package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"sprintboard/internal/models"
)

const (
	cardFields          = `id, column_id, title, description, points, position, status_updated_at, created_at, updated_at`
	cardFieldsQualified = `cards.id, cards.column_id, cards.title, cards.description, cards.points, cards.position,
        cards.status_updated_at, cards.created_at, cards.updated_at`
)

// CreateCard appends a card to the end of its column.
func (s *Store) CreateCard(ctx context.Context, c models.Card) (models.Card, error) {
	if strings.TrimSpace(c.Title) == "" {
		return models.Card{}, fmt.Errorf("%w: card title must not be empty", models.ErrInvalidInput)
	}
	if c.Points < 0 {
		return models.Card{}, fmt.Errorf("%w: card points must not be negative", models.ErrInvalidInput)
	}

	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		pos, err := nextCardPosition(ctx, tx, c.ColumnID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO cards(column_id, title, description, points, position) VALUES(?, ?, ?, ?, ?)`,
			c.ColumnID, strings.TrimSpace(c.Title), strings.TrimSpace(c.Description), c.Points, pos)
		if err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("card id: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Card{}, err
	}
	return s.GetCard(ctx, id)
}

// GetCard retrieves a card by id.
func (s *Store) GetCard(ctx context.Context, id int64) (models.Card, error) {
	var c models.Card
	err := s.db.GetContext(ctx, &c, `SELECT `+cardFields+` FROM cards WHERE id = ?`, id)
	if isNoRows(err) {
		return models.Card{}, fmt.Errorf("card %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Card{}, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

// UpdateCard applies the non-nil fields of changes.
func (s *Store) UpdateCard(ctx context.Context, id int64, changes models.CardChanges) (models.Card, error) {
	current, err := s.GetCard(ctx, id)
	if err != nil {
		return models.Card{}, err
	}

	title := current.Title
	description := current.Description
	points := current.Points

	if changes.Title != nil {
		if strings.TrimSpace(*changes.Title) == "" {
			return models.Card{}, fmt.Errorf("%w: card title must not be empty", models.ErrInvalidInput)
		}
		title = strings.TrimSpace(*changes.Title)
	}
	if changes.Description != nil {
		description = strings.TrimSpace(*changes.Description)
	}
	if changes.Points != nil {
		if *changes.Points < 0 {
			return models.Card{}, fmt.Errorf("%w: card points must not be negative", models.ErrInvalidInput)
		}
		points = *changes.Points
	}

	_, err = s.db.ExecContext(ctx, `UPDATE cards SET title = ?, description = ?, points = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, description, points, id)
	if err != nil {
		return models.Card{}, fmt.Errorf("update card: %w", err)
	}
	return s.GetCard(ctx, id)
}

// MoveCard puts a card at the end of another column and stamps the move time.
func (s *Store) MoveCard(ctx context.Context, id, columnID int64, at time.Time) (models.Card, error) {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		pos, err := nextCardPosition(ctx, tx, columnID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE cards SET column_id = ?, position = ?, status_updated_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			columnID, pos, at.UTC(), id)
		if err != nil {
			return fmt.Errorf("move card: %w", err)
		}
		return expectOne(res, fmt.Errorf("card %d: %w", id, models.ErrNotFound))
	})
	if err != nil {
		return models.Card{}, err
	}
	return s.GetCard(ctx, id)
}

// DeleteCard removes a card by id.
func (s *Store) DeleteCard(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return expectOne(res, fmt.Errorf("card %d: %w", id, models.ErrNotFound))
}

func nextCardPosition(ctx context.Context, q sqlx.QueryerContext, columnID int64) (int64, error) {
	var position sql.NullInt64
	if err := sqlx.GetContext(ctx, q, &position, `SELECT MAX(position) FROM cards WHERE column_id = ?`, columnID); err != nil {
		return 0, fmt.Errorf("select position: %w", err)
	}
	if position.Valid {
		return position.Int64 + 1, nil
	}
	return 0, nil
}
