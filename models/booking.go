package models

import "time"

// WizardStep identifies the current step of the booking wizard.
type WizardStep string

const (
	StepDetails  WizardStep = "details"
	StepUserInfo WizardStep = "userInfo"
	StepPayment  WizardStep = "payment"
)

// SubmissionState makes illegal re-entrant submissions unrepresentable:
// only an Idle or Failed draft may start a new payment attempt.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionFailed     SubmissionState = "failed"
	SubmissionRedirected SubmissionState = "redirected"
)

// GuestInfo holds the traveller contact details collected by the wizard.
type GuestInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingDraft holds wizard state between steps. Drafts live in the draft
// cache under a 30 minute TTL and are discarded after a successful handoff.
type BookingDraft struct {
	DraftID      string `json:"draftId"`
	ExperienceID string `json:"experienceId"`
	UserID       string `json:"userId"`

	Step       WizardStep      `json:"step"`
	Submission SubmissionState `json:"submission"`

	SelectedDate string `json:"selectedDate,omitempty"` // "2006-01-02", strictly after today
	Participants int    `json:"participants"`

	CouponCode        string  `json:"couponCode,omitempty"`
	CouponApplied     bool    `json:"couponApplied"`
	CouponDiscountPct float64 `json:"couponDiscountPct"`
	CouponInvalid     bool    `json:"couponInvalid"`

	HasReward bool `json:"hasReward"`

	Guest GuestInfo `json:"guestInfo"`

	// Snapshot of the provider's weekday pattern taken when the draft entered
	// the details step. Month navigation recomputes over this snapshot and
	// never refetches.
	AvailableWeekdays      []string `json:"availableWeekdays,omitempty"`
	AvailabilityError      bool     `json:"availabilityError"`
	AvailabilityGeneration int64    `json:"availabilityGeneration"`

	// FieldErrors holds the last failed transition's field-keyed messages.
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Availability returns the draft's availability snapshot as a
// ProviderAvailability value.
func (d *BookingDraft) Availability() ProviderAvailability {
	return ProviderAvailability{ExperienceID: d.ExperienceID, Weekdays: d.AvailableWeekdays}
}

// BookingPayload is the wire shape handed to the payment session API.
// Monetary fields are rounded to two decimals here and nowhere else.
type BookingPayload struct {
	ProductID    string    `json:"productId"`
	Title        string    `json:"title"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	SelectedDate string    `json:"selectedDate"`
	Participants int       `json:"participants"`
	GuestInfo    GuestInfo `json:"guestInfo"`
	TotalPrice   float64   `json:"totalPrice"`
	GST          float64   `json:"gst"` // currently always 0
	Discount     float64   `json:"discount"`
}

// PaymentSession is the opaque, single-use gateway session authorizing one
// checkout attempt. The sessionId field name is part of the external vendor
// contract and must not be renamed.
type PaymentSession struct {
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}
