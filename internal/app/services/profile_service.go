package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
)

// ProfileService handles student self-service profile reads and updates.
type ProfileService interface {
	GetProfile(ctx context.Context, ident models.Identity) (*models.Student, error)
	UpdateProfile(ctx context.Context, ident models.Identity, name, phone string) error
}

type profileServiceImpl struct {
	students StudentStore
}

// NewProfileService creates a new ProfileService
func NewProfileService(students StudentStore) ProfileService {
	return &profileServiceImpl{students: students}
}

// GetProfile returns the caller's own student record.
func (s *profileServiceImpl) GetProfile(ctx context.Context, ident models.Identity) (*models.Student, error) {
	student, err := s.students.GetByUserID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error loading student profile: %w", err)
	}
	return student, nil
}

// UpdateProfile updates the caller's student record and cascades the name to
// the linked user account. The store performs both writes in one transaction.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, ident models.Identity, name, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}

	var phonePtr *string
	if trimmed := strings.TrimSpace(phone); trimmed != "" {
		phonePtr = &trimmed
	}

	if err := s.students.UpdateProfile(ctx, ident.UserID, name, phonePtr); err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return apperrors.ErrProfileNotFound
		}
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}
