package handlers

import (
	"errors"
	"net/http"
	"time"

	experienceRepo "roamly/database/repository/experience"
	"roamly/models"
	"roamly/services/booking"
	"roamly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking wizard over HTTP.
type BookingHandler struct {
	Svc    booking.BookingWizardService
	Logger *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingWizardService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// respondBookingError maps the service error taxonomy onto HTTP statuses.
func respondBookingError(c *gin.Context, err error) {
	var vErr *booking.ValidationError
	var pErr *booking.PaymentSessionError
	var gErr *booking.GatewayLoadError

	switch {
	case errors.Is(err, booking.ErrDraftNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking draft not found or expired", "")
	case errors.Is(err, experienceRepo.ErrExperienceNotFound):
		utils.JSONError(c, http.StatusNotFound, "experience not found", "")
	case errors.Is(err, booking.ErrSubmissionInFlight):
		utils.JSONError(c, http.StatusConflict, "a payment attempt is already in progress", "")
	case errors.Is(err, booking.ErrDraftRedirected):
		utils.JSONError(c, http.StatusConflict, "booking has already been handed off", "")
	case errors.As(err, &vErr):
		utils.JSONFieldErrors(c, http.StatusUnprocessableEntity, "validation failed", vErr.Fields)
	case errors.As(err, &pErr):
		utils.JSONError(c, http.StatusBadGateway, pErr.Message, "")
	case errors.As(err, &gErr):
		utils.JSONError(c, http.StatusBadGateway, "payment could not be initiated, please try again", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}

// CreateDraft starts a new wizard session.
func (h *BookingHandler) CreateDraft(c *gin.Context) {
	var input struct {
		ExperienceID string `json:"experienceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	userID := c.GetHeader("X-User-ID")
	draft, err := h.Svc.CreateDraft(c.Request.Context(), input.ExperienceID, userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": draft})
}

// GetDraft returns the current wizard state.
func (h *BookingHandler) GetDraft(c *gin.Context) {
	draft, err := h.Svc.GetDraft(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// GetCalendar returns the 42-cell grid for the requested month, computed over
// the draft's availability snapshot.
func (h *BookingHandler) GetCalendar(c *gin.Context) {
	monthParam := c.DefaultQuery("month", time.Now().Format("2006-01"))
	parsed, err := time.Parse("2006-01", monthParam)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid month", "expected YYYY-MM")
		return
	}

	grid, err := h.Svc.Calendar(c.Request.Context(), c.Param("draftID"), parsed.Year(), parsed.Month())
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calendar": grid})
}

// GetQuote returns the live price breakdown.
func (h *BookingHandler) GetQuote(c *gin.Context) {
	quote, err := h.Svc.Quote(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// UpdateDetails advances the details step.
func (h *BookingHandler) UpdateDetails(c *gin.Context) {
	var input struct {
		SelectedDate string `json:"selectedDate"`
		Participants int    `json:"participants"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	draft, err := h.Svc.UpdateDetails(c.Request.Context(), c.Param("draftID"), input.SelectedDate, input.Participants)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// ApplyCoupon resolves a coupon code for the draft.
func (h *BookingHandler) ApplyCoupon(c *gin.Context) {
	var input struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	draft, err := h.Svc.ApplyCoupon(c.Request.Context(), c.Param("draftID"), input.Code)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// SubmitGuestInfo advances the user-info step.
func (h *BookingHandler) SubmitGuestInfo(c *gin.Context) {
	var input models.GuestInfo
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	draft, err := h.Svc.SubmitGuestInfo(c.Request.Context(), c.Param("draftID"), input)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Back navigates one step backwards; backing out of the first step discards
// the draft.
func (h *BookingHandler) Back(c *gin.Context) {
	draft, exited, err := h.Svc.Back(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	if exited {
		c.JSON(http.StatusOK, gin.H{"exited": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Submit performs the payment handoff and redirects to the gateway's hosted
// checkout page.
func (h *BookingHandler) Submit(c *gin.Context) {
	session, err := h.Svc.Submit(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if session.RedirectURL != "" {
		c.Redirect(http.StatusSeeOther, session.RedirectURL)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
