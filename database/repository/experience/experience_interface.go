package experienceRepo

import (
	"roamly/models"
)

// ExperienceRepository provides read access to the experience catalog and the
// provider availability patterns attached to it.
type ExperienceRepository interface {
	GetByID(id string) (*models.Experience, error)
	GetAvailability(experienceID string) (*models.ProviderAvailability, error)
}
