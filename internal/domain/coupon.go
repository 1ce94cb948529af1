package domain

import (
	"errors"
	"strings"
	"time"
)

type CouponType string

const (
	CouponFixed   CouponType = "fixed"
	CouponPercent CouponType = "percent"
)

var (
	ErrCouponInactive = errors.New("coupon is not active")
	ErrCouponExpired  = errors.New("coupon has expired")
)

// Coupon codes are case-normalized upper. A percent coupon interprets
// Value as 0-100; a fixed coupon interprets it as a currency amount.
type Coupon struct {
	ID        uint64     `json:"id"`
	Code      string     `json:"code"`
	Type      CouponType `json:"type"`
	Value     float64    `json:"value"`
	IsActive  bool       `json:"isActive"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate rejects inactive and expired coupons. Expiry is wall-clock at
// the moment of use; an expired coupon is refused even when IsActive.
func (c Coupon) Validate(now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if !c.ExpiresAt.After(now) {
		return ErrCouponExpired
	}
	return nil
}

// Discount computes the amount taken off the given subtotal. A fixed
// coupon discounts its value regardless of subtotal; the result is never
// negative.
func (c Coupon) Discount(subtotal float64) float64 {
	var d float64
	switch c.Type {
	case CouponPercent:
		d = subtotal * c.Value / 100
	case CouponFixed:
		d = c.Value
	}
	if d < 0 {
		return 0
	}
	return d
}
