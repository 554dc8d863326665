package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletHold(t *testing.T) {
	t.Run("冻结只占用不扣款", func(t *testing.T) {
		w := &Wallet{MemberID: 1, Balance: 50000}
		require.NoError(t, w.Hold(5000))

		assert.Equal(t, int64(50000), w.Balance)
		assert.Equal(t, int64(5000), w.HoldingAmount)
		assert.Equal(t, int64(45000), w.Available())
	})

	t.Run("可支配余额不足时拒绝冻结", func(t *testing.T) {
		w := &Wallet{MemberID: 1, Balance: 10000, HoldingAmount: 8000}
		assert.ErrorIs(t, w.Hold(3000), ErrInsufficientBalance)
		assert.Equal(t, int64(8000), w.HoldingAmount)
	})
}

func TestWalletRelease(t *testing.T) {
	t.Run("解冻恢复可支配余额", func(t *testing.T) {
		w := &Wallet{MemberID: 1, Balance: 50000, HoldingAmount: 5000}
		require.NoError(t, w.Release(5000))

		assert.Equal(t, int64(50000), w.Balance)
		assert.Equal(t, int64(0), w.HoldingAmount)
	})

	t.Run("冻结金额不足时拒绝", func(t *testing.T) {
		w := &Wallet{MemberID: 1, Balance: 50000, HoldingAmount: 1000}
		assert.ErrorIs(t, w.Release(5000), ErrInsufficientHolding)
	})
}

func TestWalletUseDeposit(t *testing.T) {
	// 抵扣同时减少占用和余额
	w := &Wallet{MemberID: 1, Balance: 50000, HoldingAmount: 5000}
	require.NoError(t, w.UseDeposit(5000))

	assert.Equal(t, int64(45000), w.Balance)
	assert.Equal(t, int64(0), w.HoldingAmount)
}

func TestWalletForfeit(t *testing.T) {
	w := &Wallet{MemberID: 1, Balance: 50000, HoldingAmount: 5000}
	require.NoError(t, w.Forfeit(5000))

	assert.Equal(t, int64(45000), w.Balance)
	assert.Equal(t, int64(0), w.HoldingAmount)
}

func TestWalletPay(t *testing.T) {
	t.Run("支付只动可支配余额", func(t *testing.T) {
		w := &Wallet{MemberID: 1, Balance: 50000, HoldingAmount: 5000}
		require.NoError(t, w.Pay(45000))

		assert.Equal(t, int64(5000), w.Balance)
		assert.Equal(t, int64(5000), w.HoldingAmount)
	})

	t.Run("冻结部分不能用来支付", func(t *testing.T) {
		w := &Wallet{MemberID: 1, Balance: 50000, HoldingAmount: 5000}
		assert.ErrorIs(t, w.Pay(46000), ErrInsufficientBalance)
		assert.Equal(t, int64(50000), w.Balance)
	})
}

// 尾款支付全流程的钱包侧账务：中拍价 50000，保证金 5000
func TestWalletFinalPaymentFlow(t *testing.T) {
	w := &Wallet{MemberID: 1, Balance: 60000}

	require.NoError(t, w.Hold(5000))
	require.NoError(t, w.UseDeposit(5000))
	require.NoError(t, w.Pay(45000))

	assert.Equal(t, int64(10000), w.Balance)
	assert.Equal(t, int64(0), w.HoldingAmount)
}
