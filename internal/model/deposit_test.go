package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositTransitions(t *testing.T) {
	tests := []struct {
		name       string
		transition func(d *Deposit) error
		wantStatus string
	}{
		{"抵扣", func(d *Deposit) error { return d.Use() }, DepositStatusUsed},
		{"退还", func(d *Deposit) error { return d.Release() }, DepositStatusReleased},
		{"没收", func(d *Deposit) error { return d.Forfeit() }, DepositStatusForfeited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeposit(1, 100, 5000)
			assert.Equal(t, DepositStatusHold, d.Status)

			require.NoError(t, tt.transition(d))
			assert.Equal(t, tt.wantStatus, d.Status)

			// 终态后任何流转都被拒绝
			assert.ErrorIs(t, d.Use(), ErrDepositNotHold)
			assert.ErrorIs(t, d.Release(), ErrDepositNotHold)
			assert.ErrorIs(t, d.Forfeit(), ErrDepositNotHold)
			assert.Equal(t, tt.wantStatus, d.Status)
		})
	}
}
