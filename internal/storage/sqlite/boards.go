package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"sprintboard/internal/models"
)

const boardColumns = `id, title, description, start_date, end_date, sprints, non_working_days, weekdays, created_at, updated_at`

type boardRow struct {
	ID             int64          `db:"id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	StartDate      models.Date    `db:"start_date"`
	EndDate        models.Date    `db:"end_date"`
	Sprints        string         `db:"sprints"`
	NonWorkingDays string         `db:"non_working_days"`
	Weekdays       sql.NullString `db:"weekdays"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r boardRow) toModel() (models.Board, error) {
	b := models.Board{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.Sprints), &b.Sprints); err != nil {
		return models.Board{}, fmt.Errorf("decode sprints of board %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.NonWorkingDays), &b.NonWorkingDays); err != nil {
		return models.Board{}, fmt.Errorf("decode non-working days of board %d: %w", r.ID, err)
	}
	if r.Weekdays.Valid && r.Weekdays.String != "" {
		var w models.WeekdayRules
		if err := json.Unmarshal([]byte(r.Weekdays.String), &w); err != nil {
			return models.Board{}, fmt.Errorf("decode weekdays of board %d: %w", r.ID, err)
		}
		b.Weekdays = &w
	}
	if b.Sprints == nil {
		b.Sprints = []models.Sprint{}
	}
	if b.NonWorkingDays == nil {
		b.NonWorkingDays = []models.Date{}
	}
	return b, nil
}

// encodeSchedule renders the JSON-backed board fields.
func encodeSchedule(b models.Board) (sprints, nonWorking string, weekdays sql.NullString, err error) {
	list := b.Sprints
	if list == nil {
		list = []models.Sprint{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "", "", weekdays, fmt.Errorf("encode sprints: %w", err)
	}
	sprints = string(raw)

	days := b.NonWorkingDays
	if days == nil {
		days = []models.Date{}
	}
	raw, err = json.Marshal(days)
	if err != nil {
		return "", "", weekdays, fmt.Errorf("encode non-working days: %w", err)
	}
	nonWorking = string(raw)

	if b.Weekdays != nil {
		raw, err = json.Marshal(b.Weekdays)
		if err != nil {
			return "", "", weekdays, fmt.Errorf("encode weekdays: %w", err)
		}
		weekdays = sql.NullString{String: string(raw), Valid: true}
	}
	return sprints, nonWorking, weekdays, nil
}

// ListBoards retrieves all boards ordered by creation date, without columns.
func (s *Store) ListBoards(ctx context.Context) ([]models.Board, error) {
	var rows []boardRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+boardColumns+` FROM boards ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards := make([]models.Board, 0, len(rows))
	for _, r := range rows {
		b, err := r.toModel()
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, nil
}

// CreateBoard persists a board and its initial columns in one transaction.
func (s *Store) CreateBoard(ctx context.Context, b models.Board, columns []models.Column) (models.Board, error) {
	if strings.TrimSpace(b.Title) == "" {
		return models.Board{}, fmt.Errorf("%w: board title must not be empty", models.ErrInvalidInput)
	}

	sprints, nonWorking, weekdays, err := encodeSchedule(b)
	if err != nil {
		return models.Board{}, err
	}

	var id int64
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO boards(title, description, start_date, end_date, sprints, non_working_days, weekdays)
            VALUES(?, ?, ?, ?, ?, ?, ?)`,
			strings.TrimSpace(b.Title), strings.TrimSpace(b.Description), b.StartDate, b.EndDate, sprints, nonWorking, weekdays)
		if err != nil {
			return fmt.Errorf("insert board: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("board id: %w", err)
		}

		for i, c := range columns {
			if _, err := tx.ExecContext(ctx, `INSERT INTO columns(board_id, title, role, status, position) VALUES(?, ?, ?, ?, ?)`,
				id, c.Title, c.Role, c.Status, i); err != nil {
				return fmt.Errorf("insert column %q: %w", c.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Board{}, err
	}

	s.logger.Debug("board created", "board_id", id, "sprints", len(b.Sprints))
	return s.GetBoard(ctx, id)
}

// GetBoard fetches a board together with its columns and their cards.
func (s *Store) GetBoard(ctx context.Context, id int64) (models.Board, error) {
	var row boardRow
	err := s.db.GetContext(ctx, &row, `SELECT `+boardColumns+` FROM boards WHERE id = ?`, id)
	if isNoRows(err) {
		return models.Board{}, fmt.Errorf("board %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Board{}, fmt.Errorf("get board: %w", err)
	}

	b, err := row.toModel()
	if err != nil {
		return models.Board{}, err
	}

	b.Columns, err = s.ListColumns(ctx, id)
	if err != nil {
		return models.Board{}, err
	}
	return b, nil
}

// SaveBoard writes the board's fields and schedule, and applies column status
// changes, in one transaction.
func (s *Store) SaveBoard(ctx context.Context, b models.Board, columnStatus map[int64]models.ColumnStatus) (models.Board, error) {
	if strings.TrimSpace(b.Title) == "" {
		return models.Board{}, fmt.Errorf("%w: board title must not be empty", models.ErrInvalidInput)
	}

	sprints, nonWorking, weekdays, err := encodeSchedule(b)
	if err != nil {
		return models.Board{}, err
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE boards SET title = ?, description = ?, start_date = ?, end_date = ?,
            sprints = ?, non_working_days = ?, weekdays = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			strings.TrimSpace(b.Title), strings.TrimSpace(b.Description), b.StartDate, b.EndDate,
			sprints, nonWorking, weekdays, b.ID)
		if err != nil {
			return fmt.Errorf("update board: %w", err)
		}
		if err := expectOne(res, fmt.Errorf("board %d: %w", b.ID, models.ErrNotFound)); err != nil {
			return err
		}

		for columnID, status := range columnStatus {
			res, err := tx.ExecContext(ctx, `UPDATE columns SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND board_id = ?`,
				status, columnID, b.ID)
			if err != nil {
				return fmt.Errorf("update column status: %w", err)
			}
			if err := expectOne(res, fmt.Errorf("column %d: %w", columnID, models.ErrNotFound)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Board{}, err
	}
	return s.GetBoard(ctx, b.ID)
}

// DeleteBoard removes a board along with its columns and cards.
func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	return expectOne(res, fmt.Errorf("board %d: %w", id, models.ErrNotFound))
}
