package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"sprintboard/internal/models"
)

type vacationRow struct {
	ID            int64     `db:"id"`
	SchoolYear    string    `db:"school_year"`
	VacationDates string    `db:"vacation_dates"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r vacationRow) toModel() (models.Vacation, error) {
	v := models.Vacation{
		ID:         r.ID,
		SchoolYear: r.SchoolYear,
		Status:     models.VacationStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.VacationDates), &v.VacationDates); err != nil {
		return models.Vacation{}, fmt.Errorf("decode vacation %d: %w", r.ID, err)
	}
	return v, nil
}

const vacationFields = `id, school_year, vacation_dates, status, created_at, updated_at`

// ActiveVacation returns the vacation calendar in effect, or nil when none is.
func (s *Store) ActiveVacation(ctx context.Context) (*models.Vacation, error) {
	var row vacationRow
	err := s.db.GetContext(ctx, &row, `SELECT `+vacationFields+` FROM vacations WHERE status = ? ORDER BY updated_at DESC, id DESC LIMIT 1`,
		models.VacationActive)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active vacation: %w", err)
	}
	v, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVacation stores an inactive vacation calendar.
func (s *Store) CreateVacation(ctx context.Context, v models.Vacation) (models.Vacation, error) {
	if strings.TrimSpace(v.SchoolYear) == "" {
		return models.Vacation{}, fmt.Errorf("%w: school year must not be empty", models.ErrInvalidInput)
	}
	dates := v.VacationDates
	if dates == nil {
		dates = []models.Date{}
	}
	raw, err := json.Marshal(dates)
	if err != nil {
		return models.Vacation{}, fmt.Errorf("encode vacation dates: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO vacations(school_year, vacation_dates, status) VALUES(?, ?, ?)`,
		strings.TrimSpace(v.SchoolYear), string(raw), models.VacationInactive)
	if err != nil {
		return models.Vacation{}, fmt.Errorf("insert vacation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Vacation{}, fmt.Errorf("vacation id: %w", err)
	}
	return s.getVacation(ctx, id)
}

// ActivateVacation makes id the only active vacation calendar.
func (s *Store) ActivateVacation(ctx context.Context, id int64) (models.Vacation, error) {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE vacations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, models.VacationActive, id)
		if err != nil {
			return fmt.Errorf("activate vacation: %w", err)
		}
		if err := expectOne(res, fmt.Errorf("vacation %d: %w", id, models.ErrNotFound)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE vacations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id != ? AND status = ?`,
			models.VacationInactive, id, models.VacationActive); err != nil {
			return fmt.Errorf("deactivate vacations: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Vacation{}, err
	}
	return s.getVacation(ctx, id)
}

// ListVacations returns every vacation calendar, newest first.
func (s *Store) ListVacations(ctx context.Context) ([]models.Vacation, error) {
	var rows []vacationRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+vacationFields+` FROM vacations ORDER BY id DESC`); err != nil {
		return nil, fmt.Errorf("list vacations: %w", err)
	}
	out := make([]models.Vacation, 0, len(rows))
	for _, r := range rows {
		v, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) getVacation(ctx context.Context, id int64) (models.Vacation, error) {
	var row vacationRow
	err := s.db.GetContext(ctx, &row, `SELECT `+vacationFields+` FROM vacations WHERE id = ?`, id)
	if isNoRows(err) {
		return models.Vacation{}, fmt.Errorf("vacation %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Vacation{}, fmt.Errorf("get vacation: %w", err)
	}
	return row.toModel()
}

// InsertSweepLog records a sweep that changed at least one sprint.
func (s *Store) InsertSweepLog(ctx context.Context, l models.SweepLog) (models.SweepLog, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO sweep_logs(name, description, data) VALUES(?, ?, ?)`, l.Name, l.Description, l.Data)
	if err != nil {
		return models.SweepLog{}, fmt.Errorf("insert sweep log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.SweepLog{}, fmt.Errorf("sweep log id: %w", err)
	}

	var out models.SweepLog
	if err := s.db.GetContext(ctx, &out, `SELECT id, name, description, data, created_at FROM sweep_logs WHERE id = ?`, id); err != nil {
		return models.SweepLog{}, fmt.Errorf("get sweep log: %w", err)
	}
	return out, nil
}

// ListSweepLogs returns the most recent sweep logs, newest first.
func (s *Store) ListSweepLogs(ctx context.Context, limit int) ([]models.SweepLog, error) {
	if limit <= 0 {
		limit = 50
	}
	logs := []models.SweepLog{}
	if err := s.db.SelectContext(ctx, &logs, `SELECT id, name, description, data, created_at FROM sweep_logs ORDER BY id DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list sweep logs: %w", err)
	}
	return logs, nil
}
