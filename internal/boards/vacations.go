package boards

import (
	"context"

	"sprintboard/internal/models"
)

// ActiveVacation returns the vacation calendar in effect, or nil.
func (s *Service) ActiveVacation(ctx context.Context) (*models.Vacation, error) {
	return s.store.ActiveVacation(ctx)
}

// ListVacations returns every stored vacation calendar, newest first.
func (s *Service) ListVacations(ctx context.Context) ([]models.Vacation, error) {
	return s.store.ListVacations(ctx)
}

// ImportVacation stores a vacation calendar, inactive until activated.
func (s *Service) ImportVacation(ctx context.Context, v models.Vacation) (models.Vacation, error) {
	created, err := s.store.CreateVacation(ctx, v)
	if err != nil {
		return models.Vacation{}, err
	}
	s.logger.Info("vacation imported", "vacation_id", created.ID, "school_year", created.SchoolYear, "dates", len(created.VacationDates))
	return created, nil
}

// ActivateVacation makes id the vacation every board's calendar uses. Column
// statuses do not depend on free days, so nothing cascades.
func (s *Service) ActivateVacation(ctx context.Context, id int64) (models.Vacation, error) {
	v, err := s.store.ActivateVacation(ctx, id)
	if err != nil {
		return models.Vacation{}, err
	}
	s.logger.Info("vacation activated", "vacation_id", v.ID, "school_year", v.SchoolYear)
	return v, nil
}
