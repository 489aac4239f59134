package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"roamly/config"
	"roamly/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// PaymentGateway creates a single-use checkout session for one payment
// attempt with the external gateway.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, payload models.BookingPayload) (*models.PaymentSession, error)
}

// StripeGateway implements PaymentGateway against Stripe Checkout. The mode
// ("sandbox" or "production") selects which API key is installed.
type StripeGateway struct {
	Mode   string
	logger *zap.Logger

	loadOnce sync.Once
	loadErr  error
}

// NewStripeGateway constructs the gateway; the Stripe client is set up lazily
// on first use.
func NewStripeGateway(mode string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{Mode: mode, logger: logger}
}

// load installs the API key once. A failure here is a GatewayLoadError for
// every subsequent attempt; the process must be restarted with a fixed key.
func (g *StripeGateway) load() error {
	g.loadOnce.Do(func() {
		key := config.AppConfig.StripeTestKey
		if g.Mode == "production" {
			key = config.AppConfig.StripeLiveKey
		}
		if key == "" {
			g.loadErr = fmt.Errorf("no stripe key configured for mode %q", g.Mode)
			return
		}
		stripe.Key = key
	})
	return g.loadErr
}

// CreateCheckoutSession exchanges the booking payload for a gateway session.
// Failure taxonomy:
//   - client setup failure -> GatewayLoadError;
//   - gateway rejection -> PaymentSessionError carrying the gateway message;
//   - response without a session id -> invalid-session PaymentSessionError.
//
// No retries and no extra timeout; the HTTP transport's behavior applies.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, payload models.BookingPayload) (*models.PaymentSession, error) {
	if err := g.load(); err != nil {
		return nil, &GatewayLoadError{Err: err}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(config.AppConfig.CheckoutSuccessURL),
		CancelURL:     stripe.String(config.AppConfig.CheckoutCancelURL),
		CustomerEmail: stripe.String(payload.GuestInfo.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("inr"),
					UnitAmount: stripe.Int64(int64(math.Round(payload.TotalPrice * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(payload.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("productId", payload.ProductID)
	params.AddMetadata("selectedDate", payload.SelectedDate)
	params.AddMetadata("participants", fmt.Sprintf("%d", payload.Participants))
	params.AddMetadata("city", payload.City)
	params.AddMetadata("state", payload.State)

	sess, err := session.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			g.logger.Error("gateway rejected session creation",
				zap.String("productID", payload.ProductID), zap.Error(err))
			return nil, NewPaymentSessionError(stripeErr.Msg)
		}
		g.logger.Error("session creation failed",
			zap.String("productID", payload.ProductID), zap.Error(err))
		return nil, NewPaymentSessionError("")
	}

	if sess.ID == "" {
		g.logger.Error("gateway returned session without id",
			zap.String("productID", payload.ProductID))
		return nil, NewInvalidSessionError()
	}

	return &models.PaymentSession{SessionID: sess.ID, RedirectURL: sess.URL}, nil
}

// BuildBookingPayload assembles the wire payload for a draft. This is the
// only place monetary amounts are rounded.
func BuildBookingPayload(draft *models.BookingDraft, exp *models.Experience) models.BookingPayload {
	q := ComputeQuote(exp.UnitPrice, draft.Participants, draft.HasReward, draft.CouponApplied, draft.CouponDiscountPct)
	return models.BookingPayload{
		ProductID:    exp.ID,
		Title:        exp.Title,
		City:         exp.City,
		State:        exp.State,
		SelectedDate: draft.SelectedDate,
		Participants: draft.Participants,
		GuestInfo:    draft.Guest,
		TotalPrice:   RoundMoney(q.Total),
		GST:          0,
		Discount:     RoundMoney(q.Discount()),
	}
}
