package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransitions(t *testing.T) {
	t.Run("支付完成", func(t *testing.T) {
		o := &AuctionOrder{Status: OrderStatusProcessing}
		require.NoError(t, o.Complete())
		assert.Equal(t, OrderStatusSuccess, o.Status)

		assert.ErrorIs(t, o.Complete(), ErrOrderStatusInvalid)
		assert.ErrorIs(t, o.Fail(), ErrOrderStatusInvalid)
	})

	t.Run("超时失败", func(t *testing.T) {
		o := &AuctionOrder{Status: OrderStatusProcessing}
		require.NoError(t, o.Fail())
		assert.Equal(t, OrderStatusFailed, o.Status)
	})

	t.Run("只有已付款订单能退款", func(t *testing.T) {
		o := &AuctionOrder{Status: OrderStatusProcessing}
		assert.ErrorIs(t, o.Refund(), ErrOrderStatusInvalid)

		require.NoError(t, o.Complete())
		require.NoError(t, o.Refund())
		assert.Equal(t, OrderStatusFailed, o.Status)
	})
}

func TestPaymentDeadline(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	o := &AuctionOrder{Status: OrderStatusProcessing, CreatedAt: created}

	deadline := o.PaymentDeadline(3 * 24 * time.Hour)
	assert.Equal(t, created.AddDate(0, 0, 3), deadline)
}
