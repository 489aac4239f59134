package user

import (
	userRepo "roamly/database/repository/user"
	"roamly/models"
)

// UserService exposes the traveller profile operations the booking wizard
// relies on.
type UserService interface {
	GetProfile(id string) (*models.User, error)
	UpdateProfile(id string, update models.ProfileUpdate) error
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
