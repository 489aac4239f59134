package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	experienceRepo "roamly/database/repository/experience"
	"roamly/models"
	"roamly/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWizard struct {
	createDraft func(ctx context.Context, experienceID, userID string) (*models.BookingDraft, error)
	getDraft    func(ctx context.Context, draftID string) (*models.BookingDraft, error)
	calendar    func(ctx context.Context, draftID string, year int, month time.Month) (*models.CalendarMonth, error)
	quote       func(ctx context.Context, draftID string) (*booking.Quote, error)
	details     func(ctx context.Context, draftID, selectedDate string, participants int) (*models.BookingDraft, error)
	coupon      func(ctx context.Context, draftID, code string) (*models.BookingDraft, error)
	guest       func(ctx context.Context, draftID string, guest models.GuestInfo) (*models.BookingDraft, error)
	back        func(ctx context.Context, draftID string) (*models.BookingDraft, bool, error)
	submit      func(ctx context.Context, draftID string) (*models.PaymentSession, error)
}

func (s *stubWizard) CreateDraft(ctx context.Context, experienceID, userID string) (*models.BookingDraft, error) {
	return s.createDraft(ctx, experienceID, userID)
}
func (s *stubWizard) GetDraft(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	return s.getDraft(ctx, draftID)
}
func (s *stubWizard) Calendar(ctx context.Context, draftID string, year int, month time.Month) (*models.CalendarMonth, error) {
	return s.calendar(ctx, draftID, year, month)
}
func (s *stubWizard) Quote(ctx context.Context, draftID string) (*booking.Quote, error) {
	return s.quote(ctx, draftID)
}
func (s *stubWizard) UpdateDetails(ctx context.Context, draftID, selectedDate string, participants int) (*models.BookingDraft, error) {
	return s.details(ctx, draftID, selectedDate, participants)
}
func (s *stubWizard) ApplyCoupon(ctx context.Context, draftID, code string) (*models.BookingDraft, error) {
	return s.coupon(ctx, draftID, code)
}
func (s *stubWizard) SubmitGuestInfo(ctx context.Context, draftID string, guest models.GuestInfo) (*models.BookingDraft, error) {
	return s.guest(ctx, draftID, guest)
}
func (s *stubWizard) Back(ctx context.Context, draftID string) (*models.BookingDraft, bool, error) {
	return s.back(ctx, draftID)
}
func (s *stubWizard) Submit(ctx context.Context, draftID string) (*models.PaymentSession, error) {
	return s.submit(ctx, draftID)
}

func newBookingRouter(svc *stubWizard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/api/booking/draft", h.CreateDraft)
	r.GET("/api/booking/draft/:draftID", h.GetDraft)
	r.GET("/api/booking/draft/:draftID/calendar", h.GetCalendar)
	r.PUT("/api/booking/draft/:draftID/details", h.UpdateDetails)
	r.POST("/api/booking/draft/:draftID/submit", h.Submit)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateDraftEndpoint(t *testing.T) {
	svc := &stubWizard{
		createDraft: func(ctx context.Context, experienceID, userID string) (*models.BookingDraft, error) {
			assert.Equal(t, "exp-1", experienceID)
			assert.Equal(t, "user-1", userID)
			return &models.BookingDraft{DraftID: "d-1", ExperienceID: experienceID, Step: models.StepDetails}, nil
		},
	}
	r := newBookingRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/booking/draft", strings.NewReader(`{"experienceId":"exp-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"draftId":"d-1"`)
}

func TestCreateDraftRequiresExperienceID(t *testing.T) {
	r := newBookingRouter(&stubWizard{})
	w := doRequest(r, http.MethodPost, "/api/booking/draft", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"draft not found", booking.ErrDraftNotFound, http.StatusNotFound},
		{"experience not found", experienceRepo.ErrExperienceNotFound, http.StatusNotFound},
		{"submission in flight", booking.ErrSubmissionInFlight, http.StatusConflict},
		{"draft redirected", booking.ErrDraftRedirected, http.StatusConflict},
		{"validation", booking.NewValidationError(map[string]string{"date": "select a date to continue"}), http.StatusUnprocessableEntity},
		{"payment session", booking.NewPaymentSessionError("gateway said no"), http.StatusBadGateway},
		{"gateway load", &booking.GatewayLoadError{Err: errors.New("no key")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubWizard{
				getDraft: func(ctx context.Context, draftID string) (*models.BookingDraft, error) {
					return nil, tt.err
				},
			}
			r := newBookingRouter(svc)
			w := doRequest(r, http.MethodGet, "/api/booking/draft/d-1", "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestValidationErrorsExposeFieldMap(t *testing.T) {
	svc := &stubWizard{
		details: func(ctx context.Context, draftID, selectedDate string, participants int) (*models.BookingDraft, error) {
			return nil, booking.NewValidationError(map[string]string{
				"date":         "select a date to continue",
				"participants": "participants must be between 1 and 10",
			})
		},
	}
	r := newBookingRouter(svc)
	w := doRequest(r, http.MethodPut, "/api/booking/draft/d-1/details", `{"selectedDate":"","participants":0}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "select a date to continue", resp.Fields["date"])
	assert.Contains(t, resp.Fields, "participants")
}

func TestPaymentErrorMessagePassesThrough(t *testing.T) {
	svc := &stubWizard{
		submit: func(ctx context.Context, draftID string) (*models.PaymentSession, error) {
			return nil, booking.NewPaymentSessionError("Your card was declined.")
		},
	}
	r := newBookingRouter(svc)
	w := doRequest(r, http.MethodPost, "/api/booking/draft/d-1/submit", "")

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Your card was declined.")
}

func TestCalendarRejectsBadMonth(t *testing.T) {
	r := newBookingRouter(&stubWizard{})
	w := doRequest(r, http.MethodGet, "/api/booking/draft/d-1/calendar?month=nonsense", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRedirectsToGateway(t *testing.T) {
	svc := &stubWizard{
		submit: func(ctx context.Context, draftID string) (*models.PaymentSession, error) {
			return &models.PaymentSession{SessionID: "cs_1", RedirectURL: "https://pay.example/cs_1"}, nil
		},
	}
	r := newBookingRouter(svc)
	w := doRequest(r, http.MethodPost, "/api/booking/draft/d-1/submit", "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "https://pay.example/cs_1", w.Header().Get("Location"))
}

func TestSubmitWithoutRedirectReturnsSession(t *testing.T) {
	svc := &stubWizard{
		submit: func(ctx context.Context, draftID string) (*models.PaymentSession, error) {
			return &models.PaymentSession{SessionID: "cs_2"}, nil
		},
	}
	r := newBookingRouter(svc)
	w := doRequest(r, http.MethodPost, "/api/booking/draft/d-1/submit", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sessionId":"cs_2"`)
}
