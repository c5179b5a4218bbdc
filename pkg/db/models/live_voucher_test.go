package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

func TestLiveVoucherIsValid(t *testing.T) {
	start := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 10, 21, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		active bool
		now    time.Time
		want   bool
	}{
		{"inside window", true, start.Add(time.Hour), true},
		{"exactly at start", true, start, true},
		{"exactly at end", true, end, true},
		{"before start", true, start.Add(-time.Second), false},
		{"after end", true, end.Add(time.Second), false},
		{"inactive inside window", false, start.Add(time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			voucher := &LiveVoucher{IsActive: tc.active, StartTime: start, EndTime: end}
			assert.Equal(t, tc.want, voucher.IsValid(tc.now))
		})
	}
}

func TestLiveVoucherDiscount(t *testing.T) {
	total := decimal.NewFromInt(200000)

	percentage := &LiveVoucher{Type: enums.VoucherTypePercentage, Value: decimal.NewFromInt(10)}
	assert.True(t, decimal.NewFromInt(20000).Equal(percentage.Discount(total)))

	amount := &LiveVoucher{Type: enums.VoucherTypeAmount, Value: decimal.NewFromInt(50000)}
	assert.True(t, decimal.NewFromInt(50000).Equal(amount.Discount(total)))

	// A fixed amount larger than the total is capped, never negative.
	oversized := &LiveVoucher{Type: enums.VoucherTypeAmount, Value: decimal.NewFromInt(500000)}
	assert.True(t, total.Equal(oversized.Discount(total)))
}
