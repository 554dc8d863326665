package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettlementFeeSplit(t *testing.T) {
	tests := []struct {
		name           string
		salesAmount    int64
		feeRatePercent int
		wantFee        int64
		wantSettlement int64
	}{
		{"整除", 50000, 10, 5000, 45000},
		{"向下取整", 10005, 10, 1000, 9005},
		{"零手续费", 50000, 0, 0, 50000},
		{"保证金没收额结算", 5000, 10, 500, 4500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettlement("STL001", 100, 10, tt.salesAmount, tt.feeRatePercent)

			assert.Equal(t, tt.wantFee, s.FeeAmount)
			assert.Equal(t, tt.wantSettlement, s.SettlementAmount)
			assert.Equal(t, tt.salesAmount, s.FeeAmount+s.SettlementAmount)
			assert.Equal(t, SettlementStatusReady, s.Status)
		})
	}
}

func TestSettlementTransitions(t *testing.T) {
	t.Run("打款完成", func(t *testing.T) {
		s := NewSettlement("STL001", 100, 10, 50000, 10)
		require.NoError(t, s.Complete())
		assert.Equal(t, SettlementStatusDone, s.Status)

		// 打款后不能再退款作废
		assert.ErrorIs(t, s.Fail(), ErrSettlementNotReady)
	})

	t.Run("退款作废", func(t *testing.T) {
		s := NewSettlement("STL001", 100, 10, 50000, 10)
		require.NoError(t, s.Fail())
		assert.Equal(t, SettlementStatusFailed, s.Status)

		assert.ErrorIs(t, s.Complete(), ErrSettlementNotReady)
	})
}
