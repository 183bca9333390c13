// Package boards runs the sprint scheduling engine against stored boards.
//
// Every operation that rewrites a board's sprint list or column statuses
// holds that board's lock, computes the full result in memory and persists it
// with a single store call, so a rejected mutation leaves nothing behind.
package boards

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"sprintboard/internal/burndown"
	"sprintboard/internal/calendar"
	"sprintboard/internal/metrics"
	"sprintboard/internal/models"
	"sprintboard/internal/sprints"
)

// Store is the persistence the service needs.
type Store interface {
	ListBoards(ctx context.Context) ([]models.Board, error)
	CreateBoard(ctx context.Context, b models.Board, columns []models.Column) (models.Board, error)
	GetBoard(ctx context.Context, id int64) (models.Board, error)
	SaveBoard(ctx context.Context, b models.Board, columnStatus map[int64]models.ColumnStatus) (models.Board, error)
	DeleteBoard(ctx context.Context, id int64) error

	CreateColumn(ctx context.Context, c models.Column) (models.Column, error)
	GetColumn(ctx context.Context, id int64) (models.Column, error)
	UpdateColumn(ctx context.Context, id int64, title string, role models.ColumnRole) (models.Column, error)
	SetColumnStatus(ctx context.Context, id int64, status models.ColumnStatus) (models.Column, error)
	DeleteColumn(ctx context.Context, id int64) error

	CreateCard(ctx context.Context, c models.Card) (models.Card, error)
	GetCard(ctx context.Context, id int64) (models.Card, error)
	UpdateCard(ctx context.Context, id int64, changes models.CardChanges) (models.Card, error)
	MoveCard(ctx context.Context, id, columnID int64, at time.Time) (models.Card, error)
	DeleteCard(ctx context.Context, id int64) error

	ActiveVacation(ctx context.Context) (*models.Vacation, error)
	CreateVacation(ctx context.Context, v models.Vacation) (models.Vacation, error)
	ActivateVacation(ctx context.Context, id int64) (models.Vacation, error)
	ListVacations(ctx context.Context) ([]models.Vacation, error)

	InsertSweepLog(ctx context.Context, l models.SweepLog) (models.SweepLog, error)
	ListSweepLogs(ctx context.Context, limit int) ([]models.SweepLog, error)

	Ping(ctx context.Context) error
}

// Service coordinates the store with the calendar, sprint and burndown logic.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	loc     *time.Location
	locks   keyedMutex
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone "today" and card completion dates are taken in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithMetrics records transitions and sweeps on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds a Service over store.
func New(store Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Today is the current calendar date in the service's location.
func (s *Service) Today() models.Date {
	return models.DateOf(s.now().In(s.loc))
}

// CreateBoardInput describes a new board.
type CreateBoardInput struct {
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	StartDate      models.Date          `json:"start_date"`
	EndDate        models.Date          `json:"end_date"`
	SprintCount    int                  `json:"sprint_count"`
	NonWorkingDays []models.Date        `json:"non_working_days"`
	Weekdays       *models.WeekdayRules `json:"weekdays"`
}

// UpdateBoardInput holds the optional fields of a board edit. A changed end
// date redistributes the sprints.
type UpdateBoardInput struct {
	Title          *string              `json:"title"`
	Description    *string              `json:"description"`
	EndDate        *models.Date         `json:"end_date"`
	NonWorkingDays *[]models.Date       `json:"non_working_days"`
	Weekdays       *models.WeekdayRules `json:"weekdays"`
}

// SprintUpdate holds the optional fields of a sprint edit.
type SprintUpdate struct {
	Title  *string              `json:"title"`
	Status *models.SprintStatus `json:"status"`
}

// ListBoards returns every board without columns.
func (s *Service) ListBoards(ctx context.Context) ([]models.Board, error) {
	return s.store.ListBoards(ctx)
}

// GetBoard returns a board with its columns and cards.
func (s *Service) GetBoard(ctx context.Context, id int64) (models.Board, error) {
	return s.store.GetBoard(ctx, id)
}

// CreateBoard partitions the range into sprints and stores the board with the
// default columns, their statuses already matching the current sprint.
func (s *Service) CreateBoard(ctx context.Context, in CreateBoardInput) (models.Board, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Board{}, &models.Error{Op: "create board", Err: fmt.Errorf("%w: title must not be empty", models.ErrInvalidInput)}
	}

	r := models.DateRange{Start: in.StartDate, End: in.EndDate}
	list, err := sprints.Redistribute(r, nil, sprints.Initialize(in.SprintCount))
	if err != nil {
		return models.Board{}, &models.Error{Op: "create board", Err: err}
	}

	current, ok := sprints.Current(list, s.Today())
	columns := models.DefaultColumns()
	for i := range columns {
		columns[i].Status = sprints.ColumnStatusFor(columns[i].Role, current, ok)
	}

	b, err := s.store.CreateBoard(ctx, models.Board{
		Title:          in.Title,
		Description:    in.Description,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Sprints:        list,
		NonWorkingDays: in.NonWorkingDays,
		Weekdays:       in.Weekdays,
	}, columns)
	if err != nil {
		return models.Board{}, err
	}

	s.logger.Info("board created", "board_id", b.ID, "sprints", len(b.Sprints), "start", b.StartDate, "end", b.EndDate)
	return b, nil
}

// UpdateBoard applies in to the board.
func (s *Service) UpdateBoard(ctx context.Context, id int64, in UpdateBoardInput) (models.Board, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	b, err := s.store.GetBoard(ctx, id)
	if err != nil {
		return models.Board{}, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return models.Board{}, &models.Error{Op: "update board", BoardID: id, Err: fmt.Errorf("%w: title must not be empty", models.ErrInvalidInput)}
		}
		b.Title = *in.Title
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.NonWorkingDays != nil {
		b.NonWorkingDays = *in.NonWorkingDays
	}
	if in.Weekdays != nil {
		w := *in.Weekdays
		b.Weekdays = &w
	}

	rescheduled := false
	if in.EndDate != nil && !in.EndDate.Equal(b.EndDate) {
		list, err := sprints.Redistribute(b.Range(), b.Sprints, sprints.EndDateChanged(*in.EndDate))
		if err != nil {
			return models.Board{}, &models.Error{Op: "update board", BoardID: id, Err: err}
		}
		b.Sprints = list
		b.EndDate = *in.EndDate
		rescheduled = true
	}

	return s.save(ctx, b, rescheduled)
}

// DeleteBoard removes a board with its columns and cards.
func (s *Service) DeleteBoard(ctx context.Context, id int64) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.store.DeleteBoard(ctx, id); err != nil {
		return err
	}
	s.logger.Info("board deleted", "board_id", id)
	return nil
}

// ListSprints returns the board's sprints in stored order.
func (s *Service) ListSprints(ctx context.Context, boardID int64) ([]models.Sprint, error) {
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return b.Sprints, nil
}

// AddSprint appends a sprint and redistributes the schedule.
func (s *Service) AddSprint(ctx context.Context, boardID int64, title string) (models.Board, error) {
	return s.reschedule(ctx, boardID, sprints.Add(strings.TrimSpace(title)))
}

// RemoveSprint deletes a sprint and redistributes the schedule.
func (s *Service) RemoveSprint(ctx context.Context, boardID int64, sprintID int) (models.Board, error) {
	return s.reschedule(ctx, boardID, sprints.Remove(sprintID))
}

func (s *Service) reschedule(ctx context.Context, boardID int64, op sprints.Op) (models.Board, error) {
	unlock := s.locks.lock(boardID)
	defer unlock()

	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return models.Board{}, err
	}

	list, err := sprints.Redistribute(b.Range(), b.Sprints, op)
	if err != nil {
		return models.Board{}, withBoard(err, boardID)
	}
	b.Sprints = list
	return s.save(ctx, b, true)
}

// UpdateSprint renames a sprint and, for admins, overrides its status. The
// board is returned with the status changes the override caused.
func (s *Service) UpdateSprint(ctx context.Context, boardID int64, sprintID int, in SprintUpdate, actor models.Actor) (models.Board, []models.StatusChange, error) {
	unlock := s.locks.lock(boardID)
	defer unlock()

	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return models.Board{}, nil, err
	}

	list := b.Sprints
	if in.Title != nil {
		if list, err = sprints.Rename(list, sprintID, *in.Title); err != nil {
			return models.Board{}, nil, withBoard(err, boardID)
		}
	}

	var changes []models.StatusChange
	if in.Status != nil {
		if list, changes, err = sprints.SetStatus(list, sprintID, *in.Status, actor); err != nil {
			s.logger.Warn("sprint status override rejected",
				"board_id", boardID, "sprint_id", sprintID, "actor", actor.ID, slog.String("error", err.Error()))
			return models.Board{}, nil, withBoard(err, boardID)
		}
	}

	b.Sprints = list
	saved, err := s.save(ctx, b, len(changes) > 0)
	if err != nil {
		return models.Board{}, nil, err
	}

	if len(changes) > 0 {
		s.metrics.RecordTransitions(changes[:1], metrics.SourceOverride)
		s.metrics.RecordTransitions(changes[1:], metrics.SourceCascade)
		s.logger.Info("sprint status overridden",
			"board_id", boardID, "sprint_id", sprintID, "actor", actor.ID,
			"from", changes[0].OldStatus, "to", changes[0].NewStatus, "cascaded", len(changes)-1)
	}
	return saved, changes, nil
}

// CurrentSprint resolves the board's current sprint for today.
func (s *Service) CurrentSprint(ctx context.Context, boardID int64) (models.Sprint, bool, error) {
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return models.Sprint{}, false, err
	}
	current, ok := sprints.Current(b.Sprints, s.Today())
	return current, ok, nil
}

// NonWorkingDays returns the board's aggregated exception calendar.
func (s *Service) NonWorkingDays(ctx context.Context, boardID int64) ([]models.Date, error) {
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	active, err := s.store.ActiveVacation(ctx)
	if err != nil {
		return nil, err
	}
	days, err := calendar.NonWorkingDays(b, active)
	if err != nil {
		return nil, withBoard(err, boardID)
	}
	return days, nil
}

// Burndown computes the board's burndown, or one sprint's when sprintID is
// not zero.
func (s *Service) Burndown(ctx context.Context, boardID int64, sprintID int) (burndown.Series, error) {
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return burndown.Series{}, err
	}
	active, err := s.store.ActiveVacation(ctx)
	if err != nil {
		return burndown.Series{}, err
	}
	cal, err := calendar.Aggregate(b, active)
	if err != nil {
		return burndown.Series{}, withBoard(err, boardID)
	}

	if sprintID == 0 {
		series, err := burndown.ForBoard(b, cal, s.loc)
		if err != nil {
			return burndown.Series{}, &models.Error{Op: "board burndown", BoardID: boardID, Err: err}
		}
		return series, nil
	}
	return burndown.ForSprint(b, cal, sprintID, s.loc)
}

// save persists b, cascading column statuses when its schedule changed.
func (s *Service) save(ctx context.Context, b models.Board, cascade bool) (models.Board, error) {
	var statuses map[int64]models.ColumnStatus
	if cascade {
		updates := sprints.CascadeColumns(b.Columns, b.Sprints, s.Today())
		if len(updates) > 0 {
			statuses = make(map[int64]models.ColumnStatus, len(updates))
			for _, u := range updates {
				statuses[u.ColumnID] = u.NewStatus
			}
		}
		s.metrics.RecordColumnUpdates(len(updates))
	}

	saved, err := s.store.SaveBoard(ctx, b, statuses)
	if err != nil {
		return models.Board{}, err
	}
	if len(statuses) > 0 {
		s.logger.Debug("column statuses cascaded", "board_id", b.ID, "columns", len(statuses))
	}
	return saved, nil
}

// withBoard fills in the board id of a structured error.
func withBoard(err error, boardID int64) error {
	var me *models.Error
	if errors.As(err, &me) && me.BoardID == 0 {
		me.BoardID = boardID
		return err
	}
	if me == nil {
		return &models.Error{BoardID: boardID, Err: err}
	}
	return err
}
