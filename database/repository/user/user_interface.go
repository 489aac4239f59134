package userRepo

import (
	"roamly/models"
)

// UserRepository provides access to traveller profiles.
type UserRepository interface {
	GetByID(id string) (*models.User, error)
	UpdateProfile(id string, update models.ProfileUpdate) error
}
