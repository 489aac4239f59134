package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	experienceRepo "roamly/database/repository/experience"
	"roamly/models"
	"roamly/services/tasks"
	"roamly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// emailRe accepts a basic local@domain shape.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)
	// phoneRe accepts a loose E.164-like number.
	phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// redirectedDraftTTL is how long a handed-off draft remains readable before
// it is reaped.
const redirectedDraftTTL = 5 * time.Minute

func draftKey(draftID string) string {
	return utils.DraftKeyPrefix + draftID
}

func submitLockKey(draftID string) string {
	return utils.SubmitLockPrefix + draftID
}

func (s *DefaultBookingWizardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingWizardService) loadDraft(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	raw, err := s.Drafts.Get(ctx, draftKey(draftID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load booking draft: %w", err)
	}
	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse booking draft: %w", err)
	}
	return &draft, nil
}

func (s *DefaultBookingWizardService) saveDraft(ctx context.Context, draft *models.BookingDraft, ttl time.Duration) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal booking draft: %w", err)
	}
	if err := s.Drafts.Set(ctx, draftKey(draft.DraftID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking draft: %w", err)
	}
	return nil
}

// guardMutable rejects mutations on drafts that are mid-submission or already
// handed off.
func guardMutable(draft *models.BookingDraft) error {
	switch draft.Submission {
	case models.SubmissionSubmitting:
		return ErrSubmissionInFlight
	case models.SubmissionRedirected:
		return ErrDraftRedirected
	}
	return nil
}

// CreateDraft starts a wizard session for an experience. Entering the details
// step triggers the per-experience cached availability fetch; the traveller's
// waitlist reward is resolved once here.
func (s *DefaultBookingWizardService) CreateDraft(ctx context.Context, experienceID, userID string) (*models.BookingDraft, error) {
	if _, err := s.ExperienceRepo.GetByID(experienceID); err != nil {
		return nil, err
	}

	draft := &models.BookingDraft{
		DraftID:      uuid.New().String(),
		ExperienceID: experienceID,
		UserID:       userID,
		Step:         models.StepDetails,
		Submission:   models.SubmissionIdle,
		Participants: 1,
		CreatedAt:    s.now(),
	}

	if userID != "" && s.Users != nil {
		profile, err := s.Users.GetProfile(userID)
		if err != nil {
			s.Logger.Warn("could not resolve waitlist reward",
				zap.String("userID", userID), zap.Error(err))
		} else {
			draft.HasReward = profile.WaitlistReward
		}
	}

	if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
		return nil, err
	}

	if err := s.refreshAvailability(ctx, draft.DraftID); err != nil {
		return nil, err
	}
	return s.loadDraft(ctx, draft.DraftID)
}

// refreshAvailability snapshots the provider's weekday pattern onto the
// draft. Each refresh bumps a generation counter; a fetch that lands after a
// newer one started is discarded instead of applied.
func (s *DefaultBookingWizardService) refreshAvailability(ctx context.Context, draftID string) error {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return err
	}

	gen := draft.AvailabilityGeneration + 1
	draft.AvailabilityGeneration = gen
	if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
		return err
	}

	avail, availErr := s.Availability.FetchWeekdays(ctx, draft.ExperienceID)

	current, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return err
	}
	if current.AvailabilityGeneration != gen {
		s.Logger.Debug("discarding stale availability response",
			zap.String("draftID", draftID),
			zap.Int64("generation", gen),
			zap.Int64("current", current.AvailabilityGeneration))
		return nil
	}

	current.AvailableWeekdays = avail.Weekdays
	current.AvailabilityError = availErr
	return s.saveDraft(ctx, current, utils.DraftTTL)
}

// GetDraft returns the current wizard state.
func (s *DefaultBookingWizardService) GetDraft(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	return s.loadDraft(ctx, draftID)
}

// Calendar recomputes the month grid from the draft's availability snapshot.
// It never refetches; month navigation is a pure recomputation.
func (s *DefaultBookingWizardService) Calendar(ctx context.Context, draftID string, year int, month time.Month) (*models.CalendarMonth, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	grid := BuildCalendarMonth(year, month, s.now(), draft.SelectedDate, draft.Availability(), draft.AvailabilityError)
	return &grid, nil
}

// Quote recomputes the live price breakdown for the draft.
func (s *DefaultBookingWizardService) Quote(ctx context.Context, draftID string) (*Quote, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	exp, err := s.ExperienceRepo.GetByID(draft.ExperienceID)
	if err != nil {
		return nil, err
	}
	q := ComputeQuote(exp.UnitPrice, draft.Participants, draft.HasReward, draft.CouponApplied, draft.CouponDiscountPct)
	return &q, nil
}

// UpdateDetails validates the details step and, on success, advances the
// wizard to the user-info step. On failure the step does not advance and the
// draft carries a field-keyed error map.
func (s *DefaultBookingWizardService) UpdateDetails(ctx context.Context, draftID, selectedDate string, participants int) (*models.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(draft); err != nil {
		return nil, err
	}

	fields := map[string]string{}

	if selectedDate == "" {
		fields["date"] = "select a date to continue"
	} else if parsed, perr := time.ParseInLocation(dateLayout, selectedDate, s.now().Location()); perr != nil {
		fields["date"] = "invalid date"
	} else {
		today := dateOnly(s.now())
		switch {
		case !parsed.After(today):
			fields["date"] = "selected date must be after today"
		case draft.AvailabilityError:
			fields["date"] = "dates are currently unavailable for this experience"
		case !draft.Availability().Unrestricted() && !weekdaySet(draft.AvailableWeekdays)[parsed.Weekday()]:
			fields["date"] = "this experience is not available on that day"
		}
	}

	if participants < 1 || participants > 10 {
		fields["participants"] = "participants must be between 1 and 10"
	}

	if len(fields) > 0 {
		draft.FieldErrors = fields
		if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
			return nil, err
		}
		return draft, NewValidationError(fields)
	}

	draft.SelectedDate = selectedDate
	draft.Participants = participants
	draft.FieldErrors = nil
	draft.Step = models.StepUserInfo
	if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
		return nil, err
	}
	return draft, nil
}

// ApplyCoupon resolves a coupon code against the fixed table. Re-entering a
// code always overwrites prior coupon state; an unmatched code clears the
// discount and flags the code invalid for UI feedback.
func (s *DefaultBookingWizardService) ApplyCoupon(ctx context.Context, draftID, code string) (*models.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(draft); err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	draft.CouponCode = code

	if code == "" {
		draft.CouponApplied = false
		draft.CouponDiscountPct = 0
		draft.CouponInvalid = false
	} else if pct, ok := ResolveCoupon(code); ok {
		draft.CouponApplied = true
		draft.CouponDiscountPct = pct
		draft.CouponInvalid = false
	} else {
		draft.CouponApplied = false
		draft.CouponDiscountPct = 0
		draft.CouponInvalid = true
	}

	if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
		return nil, err
	}
	return draft, nil
}

// SubmitGuestInfo validates the user-info step and advances to payment. When
// the stored profile's name or phone differ from the form values, a
// best-effort profile sync is queued; its failure never blocks the wizard.
func (s *DefaultBookingWizardService) SubmitGuestInfo(ctx context.Context, draftID string, guest models.GuestInfo) (*models.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(draft); err != nil {
		return nil, err
	}
	if draft.Step == models.StepDetails {
		return nil, NewValidationError(map[string]string{"step": "complete booking details first"})
	}

	guest.Name = strings.TrimSpace(guest.Name)
	guest.Email = strings.TrimSpace(guest.Email)
	guest.Phone = strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(guest.Phone), " ", ""), "-", "")

	fields := map[string]string{}
	if guest.Name == "" {
		fields["name"] = "name is required"
	}
	if guest.Email == "" {
		fields["email"] = "email is required"
	} else if !emailRe.MatchString(guest.Email) {
		fields["email"] = "enter a valid email address"
	}
	if guest.Phone == "" {
		fields["phone"] = "phone is required"
	} else if !phoneRe.MatchString(guest.Phone) {
		fields["phone"] = "enter a valid phone number"
	}

	if len(fields) > 0 {
		draft.FieldErrors = fields
		if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
			return nil, err
		}
		return draft, NewValidationError(fields)
	}

	draft.Guest = guest
	draft.FieldErrors = nil
	draft.Step = models.StepPayment
	if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
		return nil, err
	}

	s.syncProfileIfChanged(ctx, draft)
	return draft, nil
}

// syncProfileIfChanged queues a profile update when form values diverge from
// the stored profile. Strictly best-effort.
func (s *DefaultBookingWizardService) syncProfileIfChanged(ctx context.Context, draft *models.BookingDraft) {
	if draft.UserID == "" || s.Users == nil || s.Tasks == nil {
		return
	}

	profile, err := s.Users.GetProfile(draft.UserID)
	if err != nil {
		s.Logger.Warn("profile lookup failed, skipping sync",
			zap.String("userID", draft.UserID), zap.Error(err))
		return
	}
	if profile.Name == draft.Guest.Name && profile.Phone == draft.Guest.Phone {
		return
	}

	payload := tasks.ProfileSyncPayload{
		UserID: draft.UserID,
		Name:   draft.Guest.Name,
		Phone:  draft.Guest.Phone,
	}
	if err := s.Tasks.EnqueueProfileSync(ctx, payload); err != nil {
		s.Logger.Warn("profile sync enqueue failed",
			zap.String("userID", draft.UserID), zap.Error(err))
	}
}

// Back navigates one step backwards without re-validating previously entered
// data. Backing out of the details step exits the wizard and discards the
// draft; the second return value reports that exit.
func (s *DefaultBookingWizardService) Back(ctx context.Context, draftID string) (*models.BookingDraft, bool, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, false, err
	}
	if err := guardMutable(draft); err != nil {
		return nil, false, err
	}

	switch draft.Step {
	case models.StepPayment:
		draft.Step = models.StepUserInfo
	case models.StepUserInfo:
		draft.Step = models.StepDetails
	case models.StepDetails:
		if err := s.Drafts.Del(ctx, draftKey(draftID)).Err(); err != nil {
			return nil, false, fmt.Errorf("failed to discard booking draft: %w", err)
		}
		return nil, true, nil
	}

	if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
		return nil, false, err
	}

	// Re-entering the details step refreshes the (cached) availability snapshot.
	if draft.Step == models.StepDetails {
		if err := s.refreshAvailability(ctx, draftID); err != nil {
			return nil, false, err
		}
		draft, err = s.loadDraft(ctx, draftID)
		if err != nil {
			return nil, false, err
		}
	}
	return draft, false, nil
}

// Submit performs the payment handoff for a draft on the payment step.
//
// Single-flight: re-entry is blocked twice over. The stored SubmissionState
// rejects any draft already Submitting, and the idle->submitting transition
// itself is guarded by a SETNX lock keyed by draft id. The state check
// matters because the gateway call is not wrapped in a client-side timeout
// and can outlast the lock TTL; the draft stays Submitting until the attempt
// resolves, so a second submit is rejected even after the lock expires.
// A failed attempt clears both and leaves the draft resubmittable; a
// redirected draft is terminal and rejects every further attempt.
func (s *DefaultBookingWizardService) Submit(ctx context.Context, draftID string) (*models.PaymentSession, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Submission == models.SubmissionRedirected {
		return nil, ErrDraftRedirected
	}
	if draft.Submission == models.SubmissionSubmitting {
		return nil, ErrSubmissionInFlight
	}
	if draft.Step != models.StepPayment {
		return nil, NewValidationError(map[string]string{"step": "complete guest information first"})
	}

	acquired, err := s.Drafts.SetNX(ctx, submitLockKey(draftID), "1", utils.SubmitLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !acquired {
		return nil, ErrSubmissionInFlight
	}

	draft.Submission = models.SubmissionSubmitting
	if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
		s.Drafts.Del(ctx, submitLockKey(draftID))
		return nil, err
	}

	exp, err := s.ExperienceRepo.GetByID(draft.ExperienceID)
	if err != nil {
		// A vanished catalog entry is the caller's problem, not the gateway's.
		if errors.Is(err, experienceRepo.ErrExperienceNotFound) {
			return nil, s.failSubmission(ctx, draft, err)
		}
		return nil, s.failSubmission(ctx, draft, NewPaymentSessionError(""))
	}

	payload := BuildBookingPayload(draft, exp)
	session, err := s.Gateway.CreateCheckoutSession(ctx, payload)
	if err != nil {
		return nil, s.failSubmission(ctx, draft, err)
	}

	draft.Submission = models.SubmissionRedirected
	if err := s.saveDraft(ctx, draft, redirectedDraftTTL); err != nil {
		s.Logger.Error("failed to mark draft redirected", zap.String("draftID", draftID), zap.Error(err))
	}

	s.Logger.Info("payment handoff complete",
		zap.String("draftID", draftID),
		zap.String("experienceID", draft.ExperienceID),
		zap.String("sessionID", session.SessionID))
	return session, nil
}

// failSubmission records the failed attempt and releases the submit lock so
// the traveller can manually resubmit. No automatic retries.
func (s *DefaultBookingWizardService) failSubmission(ctx context.Context, draft *models.BookingDraft, cause error) error {
	draft.Submission = models.SubmissionFailed
	if err := s.saveDraft(ctx, draft, utils.DraftTTL); err != nil {
		s.Logger.Error("failed to record submission failure",
			zap.String("draftID", draft.DraftID), zap.Error(err))
	}
	if err := s.Drafts.Del(ctx, submitLockKey(draft.DraftID)).Err(); err != nil {
		s.Logger.Error("failed to release submit lock",
			zap.String("draftID", draft.DraftID), zap.Error(err))
	}
	s.Logger.Warn("payment handoff failed",
		zap.String("draftID", draft.DraftID), zap.Error(cause))
	return cause
}
