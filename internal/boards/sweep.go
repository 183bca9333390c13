package boards

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"sprintboard/internal/metrics"
	"sprintboard/internal/models"
	"sprintboard/internal/sprints"
)

// SweepLogName names the log row a sweep with changes leaves behind.
const SweepLogName = "SprintCheck"

// SweepReport is the outcome of one sweep run.
type SweepReport struct {
	Date   models.Date           `json:"date"`
	Boards []models.BoardChanges `json:"boards"`
	Errors []SweepError          `json:"errors,omitempty"`
}

// SweepError is a board the sweep could not process.
type SweepError struct {
	BoardID int64  `json:"board_id"`
	Error   string `json:"error"`
}

// Changed reports whether any sprint changed status.
func (r SweepReport) Changed() bool { return len(r.Boards) > 0 }

// Sweep locks every active sprint that has ended and cascades the columns of
// the affected boards. A failing board is recorded and the sweep moves on.
func (s *Service) Sweep(ctx context.Context) (SweepReport, error) {
	started := time.Now()
	today := s.Today()
	report := SweepReport{Date: today, Boards: []models.BoardChanges{}}

	list, err := s.store.ListBoards(ctx)
	if err != nil {
		s.metrics.RecordSweep("failed", time.Since(started))
		return report, fmt.Errorf("sweep: %w", err)
	}

	for _, b := range list {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		changes, err := s.sweepBoard(ctx, b.ID, today)
		if err != nil {
			s.logger.Error("sweep board failed", "board_id", b.ID, slog.String("error", err.Error()))
			report.Errors = append(report.Errors, SweepError{BoardID: b.ID, Error: err.Error()})
			continue
		}
		if len(changes.Changes) > 0 {
			report.Boards = append(report.Boards, changes)
		}
	}

	if report.Changed() {
		if err := s.logSweep(ctx, report); err != nil {
			s.metrics.RecordSweep("failed", time.Since(started))
			return report, err
		}
	}

	result := "unchanged"
	switch {
	case len(report.Errors) > 0:
		result = "partial"
	case report.Changed():
		result = "changed"
	}
	s.metrics.RecordSweep(result, time.Since(started))
	s.logger.Info("sweep finished", "date", today, "boards", len(list), "changed", len(report.Boards), "errors", len(report.Errors))
	return report, nil
}

func (s *Service) sweepBoard(ctx context.Context, id int64, today models.Date) (models.BoardChanges, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	b, err := s.store.GetBoard(ctx, id)
	if err != nil {
		return models.BoardChanges{}, err
	}

	out := models.BoardChanges{BoardID: b.ID, BoardTitle: b.Title}
	locked, changes := sprints.AutoLock(b.Sprints, today)
	if len(changes) == 0 {
		return out, nil
	}

	b.Sprints = locked
	if _, err := s.save(ctx, b, true); err != nil {
		return models.BoardChanges{}, err
	}

	s.metrics.RecordTransitions(changes, metrics.SourceSweep)
	out.Changes = changes
	return out, nil
}

func (s *Service) logSweep(ctx context.Context, report SweepReport) error {
	data, err := json.Marshal(report.Boards)
	if err != nil {
		return fmt.Errorf("encode sweep log: %w", err)
	}
	if _, err := s.store.InsertSweepLog(ctx, models.SweepLog{
		Name:        SweepLogName,
		Description: "Sprint status changes detected and updated",
		Data:        string(data),
	}); err != nil {
		return fmt.Errorf("sweep log: %w", err)
	}
	return nil
}

// SweepLogs returns the most recent sweep logs, newest first.
func (s *Service) SweepLogs(ctx context.Context, limit int) ([]models.SweepLog, error) {
	return s.store.ListSweepLogs(ctx, limit)
}
