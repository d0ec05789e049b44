package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository"
)

// AddPolice registers an officer cases can be assigned to.
func (s *Service) AddPolice(ctx context.Context, p models.Police) (*models.Police, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.BadgeNumber = strings.TrimSpace(p.BadgeNumber)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Station = strings.TrimSpace(p.Station)

	var errs []apperr.FieldError
	if p.Name == "" {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "Name is required"})
	}
	if p.BadgeNumber == "" {
		errs = append(errs, apperr.FieldError{Field: "badge_number", Message: "Badge number is required"})
	}
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	id, err := s.police.CreatePolice(ctx, &p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Badge number already registered")
		}
		return nil, apperr.Server("Failed to add police", fmt.Errorf("create police: %w", err))
	}
	p.ID = id

	s.logger.Info("police added", "police_id", id)
	return &p, nil
}

func (s *Service) ListPolice(ctx context.Context) ([]models.Police, error) {
	list, err := s.police.ListPolice(ctx)
	if err != nil {
		return nil, apperr.Server("Failed to fetch police", fmt.Errorf("list police: %w", err))
	}
	if list == nil {
		list = []models.Police{}
	}
	return list, nil
}
