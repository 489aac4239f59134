package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCoupon(t *testing.T) {
	tests := []struct {
		code    string
		wantPct float64
		wantOK  bool
	}{
		{"SAVE10", 10, true},
		{"save10", 10, true},
		{"  Save10  ", 10, true},
		{"EXPLORE20", 20, true},
		{"WANDER15", 15, true},
		{"FESTIVE25", 25, true},
		{"BOGUS", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		pct, ok := ResolveCoupon(tt.code)
		assert.Equal(t, tt.wantOK, ok, "code=%q", tt.code)
		assert.Equal(t, tt.wantPct, pct, "code=%q", tt.code)
	}
}

func TestComputeQuoteNoDiscounts(t *testing.T) {
	q := ComputeQuote(100, 2, false, false, 0)

	assert.Equal(t, 200.0, q.BasePrice)
	assert.Equal(t, 0.0, q.RewardDiscount)
	assert.Equal(t, 0.0, q.CouponDiscount)
	assert.Equal(t, 0.0, q.Discount())
	assert.Equal(t, 200.0, q.Total)
}

func TestComputeQuoteRewardAndCouponStack(t *testing.T) {
	// 200 base, 10% reward (20) + 10% coupon (20) = 160
	q := ComputeQuote(100, 2, true, true, 10)

	assert.Equal(t, 200.0, q.BasePrice)
	assert.InDelta(t, 20.0, q.RewardDiscount, 1e-9)
	assert.InDelta(t, 20.0, q.CouponDiscount, 1e-9)
	assert.InDelta(t, 40.0, q.Discount(), 1e-9)
	assert.InDelta(t, 160.0, q.Total, 1e-9)
}

func TestComputeQuoteRewardOnly(t *testing.T) {
	q := ComputeQuote(250, 3, true, false, 0)

	assert.Equal(t, 750.0, q.BasePrice)
	assert.InDelta(t, 75.0, q.RewardDiscount, 1e-9)
	assert.Equal(t, 0.0, q.CouponDiscount)
	assert.InDelta(t, 675.0, q.Total, 1e-9)
}

func TestComputeQuoteCouponNotAppliedIgnoresPct(t *testing.T) {
	// an invalid coupon keeps its pct out of the math entirely
	q := ComputeQuote(100, 1, false, false, 25)

	assert.Equal(t, 0.0, q.CouponDiscount)
	assert.Equal(t, 100.0, q.Total)
}

func TestQuoteDiscountsUncapped(t *testing.T) {
	// Discounts stack without a floor. A hypothetical 95% coupon plus the
	// reward pushes the total below zero and the engine does not clamp it.
	q := ComputeQuote(100, 1, true, true, 95)

	assert.InDelta(t, 10.0, q.RewardDiscount, 1e-9)
	assert.InDelta(t, 95.0, q.CouponDiscount, 1e-9)
	assert.InDelta(t, -5.0, q.Total, 1e-9)
	assert.Less(t, q.Total, 0.0)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.56, RoundMoney(10.556))
	assert.Equal(t, 10.55, RoundMoney(10.554))
	assert.Equal(t, 0.0, RoundMoney(0))
	assert.Equal(t, -2.35, RoundMoney(-2.346))
	assert.Equal(t, 199.0, RoundMoney(198.99999999999997))
}
