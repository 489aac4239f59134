package booking

import (
	"math"
	"strings"
)

// waitlistRewardRate is the loyalty subsystem's promotional discount.
const waitlistRewardRate = 0.10

// couponTable maps coupon codes to discount percentages. Codes match
// case-insensitively.
var couponTable = map[string]float64{
	"SAVE10":    10,
	"EXPLORE20": 20,
	"WANDER15":  15,
	"FESTIVE25": 25,
}

// ResolveCoupon matches an entered code against the coupon table.
func ResolveCoupon(code string) (float64, bool) {
	pct, ok := couponTable[strings.ToUpper(strings.TrimSpace(code))]
	return pct, ok
}

// Quote is an unrounded price breakdown. Rounding happens only when the
// wire payload or a display string is built.
type Quote struct {
	BasePrice      float64 `json:"basePrice"`
	RewardDiscount float64 `json:"rewardDiscount"`
	CouponDiscount float64 `json:"couponDiscount"`
	Total          float64 `json:"total"`
}

// Discount returns the combined discount amount.
func (q Quote) Discount() float64 {
	return q.RewardDiscount + q.CouponDiscount
}

// ComputeQuote derives the price breakdown for a booking.
//
// Reward and coupon discounts stack additively and are not capped against the
// base price, so the total can go negative for low-priced experiences with
// both discounts active. That matches the product's current behavior and is
// pinned by tests; do not "fix" it here without a product decision.
func ComputeQuote(unitPrice float64, participants int, hasReward bool, couponApplied bool, couponPct float64) Quote {
	base := unitPrice * float64(participants)

	var reward float64
	if hasReward {
		reward = base * waitlistRewardRate
	}

	var coupon float64
	if couponApplied {
		coupon = base * couponPct / 100
	}

	return Quote{
		BasePrice:      base,
		RewardDiscount: reward,
		CouponDiscount: coupon,
		Total:          base - reward - coupon,
	}
}

// RoundMoney rounds to two decimals for serialization boundaries.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
