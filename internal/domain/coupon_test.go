package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoupon_Validate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		coupon      Coupon
		expectedErr error
	}{
		{
			name:   "active and unexpired",
			coupon: Coupon{Code: "BOLO10", IsActive: true, ExpiresAt: now.Add(24 * time.Hour)},
		},
		{
			name:        "inactive",
			coupon:      Coupon{Code: "BOLO10", IsActive: false, ExpiresAt: now.Add(24 * time.Hour)},
			expectedErr: ErrCouponInactive,
		},
		{
			name:        "expired",
			coupon:      Coupon{Code: "BOLO10", IsActive: true, ExpiresAt: now.Add(-time.Minute)},
			expectedErr: ErrCouponExpired,
		},
		{
			name:        "expiring exactly now counts as expired",
			coupon:      Coupon{Code: "BOLO10", IsActive: true, ExpiresAt: now},
			expectedErr: ErrCouponExpired,
		},
		{
			name:        "inactive wins over expired",
			coupon:      Coupon{Code: "BOLO10", IsActive: false, ExpiresAt: now.Add(-time.Minute)},
			expectedErr: ErrCouponInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coupon.Validate(now)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCoupon_Discount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   Coupon
		subtotal float64
		expected float64
	}{
		{name: "ten percent", coupon: Coupon{Type: CouponPercent, Value: 10}, subtotal: 150, expected: 15},
		{name: "hundred percent", coupon: Coupon{Type: CouponPercent, Value: 100}, subtotal: 80, expected: 80},
		{name: "fixed amount", coupon: Coupon{Type: CouponFixed, Value: 20}, subtotal: 150, expected: 20},
		{name: "fixed above subtotal is not clamped here", coupon: Coupon{Type: CouponFixed, Value: 200}, subtotal: 150, expected: 200},
		{name: "negative value clamps to zero", coupon: Coupon{Type: CouponFixed, Value: -5}, subtotal: 150, expected: 0},
		{name: "unknown type discounts nothing", coupon: Coupon{Type: "bogus", Value: 10}, subtotal: 150, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.coupon.Discount(tt.subtotal))
		})
	}
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "BOLO10", NormalizeCouponCode("  bolo10 "))
	assert.Equal(t, "PIX5", NormalizeCouponCode("Pix5"))
	assert.Equal(t, "", NormalizeCouponCode("   "))
}
