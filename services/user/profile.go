package user

import (
	"fmt"

	"roamly/models"
	"roamly/utils"

	"go.uber.org/zap"
)

// GetProfile returns the stored profile for a traveller.
func (s *DefaultUserService) GetProfile(id string) (*models.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return u, nil
}

// UpdateProfile applies a partial update. Callers treat this as best-effort;
// the wizard never blocks on its outcome.
func (s *DefaultUserService) UpdateProfile(id string, update models.ProfileUpdate) error {
	logger := utils.GetLogger()

	if update.Name == nil && update.Phone == nil {
		return nil
	}

	if err := s.Repo.UpdateProfile(id, update); err != nil {
		logger.Warn("profile update failed", zap.String("userID", id), zap.Error(err))
		return fmt.Errorf("failed to update profile: %w", err)
	}

	logger.Debug("profile updated", zap.String("userID", id))
	return nil
}
