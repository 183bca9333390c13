package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sprintboard/internal/models"
)

const columnFields = `id, board_id, title, role, status, position, created_at, updated_at`

// ListColumns returns the board's columns ordered by position, each with its cards.
func (s *Store) ListColumns(ctx context.Context, boardID int64) ([]models.Column, error) {
	columns := []models.Column{}
	if err := s.db.SelectContext(ctx, &columns, `SELECT `+columnFields+` FROM columns WHERE board_id = ? ORDER BY position, id`, boardID); err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}

	var cards []models.Card
	err := s.db.SelectContext(ctx, &cards, `SELECT `+cardFieldsQualified+` FROM cards
        JOIN columns ON columns.id = cards.column_id
        WHERE columns.board_id = ? ORDER BY cards.position, cards.id`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	index := make(map[int64]int, len(columns))
	for i := range columns {
		columns[i].Cards = []models.Card{}
		index[columns[i].ID] = i
	}
	for _, c := range cards {
		if i, ok := index[c.ColumnID]; ok {
			columns[i].Cards = append(columns[i].Cards, c)
		}
	}
	return columns, nil
}

// CreateColumn appends a column to the end of the board.
func (s *Store) CreateColumn(ctx context.Context, c models.Column) (models.Column, error) {
	if strings.TrimSpace(c.Title) == "" {
		return models.Column{}, fmt.Errorf("%w: column title must not be empty", models.ErrInvalidInput)
	}
	if !c.Role.Valid() {
		c.Role = models.RoleGeneric
	}
	if c.Status == "" {
		c.Status = models.ColumnActive
	}

	var position sql.NullInt64
	if err := s.db.GetContext(ctx, &position, `SELECT MAX(position) FROM columns WHERE board_id = ?`, c.BoardID); err != nil {
		return models.Column{}, fmt.Errorf("select position: %w", err)
	}
	if position.Valid {
		c.Position = position.Int64 + 1
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO columns(board_id, title, role, status, position) VALUES(?, ?, ?, ?, ?)`,
		c.BoardID, strings.TrimSpace(c.Title), c.Role, c.Status, c.Position)
	if err != nil {
		return models.Column{}, fmt.Errorf("insert column: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Column{}, fmt.Errorf("column id: %w", err)
	}
	return s.GetColumn(ctx, id)
}

// GetColumn fetches a column without its cards.
func (s *Store) GetColumn(ctx context.Context, id int64) (models.Column, error) {
	var c models.Column
	err := s.db.GetContext(ctx, &c, `SELECT `+columnFields+` FROM columns WHERE id = ?`, id)
	if isNoRows(err) {
		return models.Column{}, fmt.Errorf("column %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Column{}, fmt.Errorf("get column: %w", err)
	}
	return c, nil
}

// UpdateColumn renames a column and changes its role.
func (s *Store) UpdateColumn(ctx context.Context, id int64, title string, role models.ColumnRole) (models.Column, error) {
	if strings.TrimSpace(title) == "" {
		return models.Column{}, fmt.Errorf("%w: column title must not be empty", models.ErrInvalidInput)
	}
	if !role.Valid() {
		return models.Column{}, fmt.Errorf("%w: unknown column role %q", models.ErrInvalidInput, role)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE columns SET title = ?, role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		strings.TrimSpace(title), role, id)
	if err != nil {
		return models.Column{}, fmt.Errorf("update column: %w", err)
	}
	if err := expectOne(res, fmt.Errorf("column %d: %w", id, models.ErrNotFound)); err != nil {
		return models.Column{}, err
	}
	return s.GetColumn(ctx, id)
}

// SetColumnStatus stores a column's lock state.
func (s *Store) SetColumnStatus(ctx context.Context, id int64, status models.ColumnStatus) (models.Column, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE columns SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return models.Column{}, fmt.Errorf("update column status: %w", err)
	}
	if err := expectOne(res, fmt.Errorf("column %d: %w", id, models.ErrNotFound)); err != nil {
		return models.Column{}, err
	}
	return s.GetColumn(ctx, id)
}

// DeleteColumn removes a column and its cards.
func (s *Store) DeleteColumn(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM columns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete column: %w", err)
	}
	return expectOne(res, fmt.Errorf("column %d: %w", id, models.ErrNotFound))
}
