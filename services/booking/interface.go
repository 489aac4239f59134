package booking

import (
	"context"
	"time"

	experienceRepo "roamly/database/repository/experience"
	"roamly/models"
	"roamly/services/tasks"
	"roamly/services/user"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// BookingWizardService drives the booking wizard: a linear step machine
// (details -> user info -> payment) over a cached draft, ending in a payment
// gateway handoff.
type BookingWizardService interface {
	CreateDraft(ctx context.Context, experienceID, userID string) (*models.BookingDraft, error)
	GetDraft(ctx context.Context, draftID string) (*models.BookingDraft, error)
	Calendar(ctx context.Context, draftID string, year int, month time.Month) (*models.CalendarMonth, error)
	Quote(ctx context.Context, draftID string) (*Quote, error)
	UpdateDetails(ctx context.Context, draftID, selectedDate string, participants int) (*models.BookingDraft, error)
	ApplyCoupon(ctx context.Context, draftID, code string) (*models.BookingDraft, error)
	SubmitGuestInfo(ctx context.Context, draftID string, guest models.GuestInfo) (*models.BookingDraft, error)
	Back(ctx context.Context, draftID string) (*models.BookingDraft, bool, error)
	Submit(ctx context.Context, draftID string) (*models.PaymentSession, error)
}

// DefaultBookingWizardService implements BookingWizardService.
type DefaultBookingWizardService struct {
	ExperienceRepo experienceRepo.ExperienceRepository
	Users          user.UserService
	Availability   *AvailabilityService
	Gateway        PaymentGateway
	Drafts         *redis.Client
	Tasks          tasks.Enqueuer
	Logger         *zap.Logger

	// Now is swappable for tests.
	Now func() time.Time
}

// NewBookingWizardService wires the default implementation.
func NewBookingWizardService(
	expRepo experienceRepo.ExperienceRepository,
	users user.UserService,
	availability *AvailabilityService,
	gateway PaymentGateway,
	drafts *redis.Client,
	enqueuer tasks.Enqueuer,
	logger *zap.Logger,
) *DefaultBookingWizardService {
	return &DefaultBookingWizardService{
		ExperienceRepo: expRepo,
		Users:          users,
		Availability:   availability,
		Gateway:        gateway,
		Drafts:         drafts,
		Tasks:          enqueuer,
		Logger:         logger,
		Now:            time.Now,
	}
}
