package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWinningBid(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		bids   []*Bid
		wantID int64
	}{
		{
			name: "金额最高者胜出",
			bids: []*Bid{
				{ID: 1, BidderID: 1, BidAmount: 12000, BidTime: base},
				{ID: 2, BidderID: 2, BidAmount: 15000, BidTime: base.Add(time.Minute)},
				{ID: 3, BidderID: 3, BidAmount: 13000, BidTime: base.Add(2 * time.Minute)},
			},
			wantID: 2,
		},
		{
			name: "同额时间早者胜出",
			bids: []*Bid{
				{ID: 1, BidderID: 1, BidAmount: 15000, BidTime: base.Add(time.Minute)},
				{ID: 2, BidderID: 2, BidAmount: 15000, BidTime: base},
			},
			wantID: 2,
		},
		{
			name: "同额同时间按先写入",
			bids: []*Bid{
				{ID: 7, BidderID: 1, BidAmount: 15000, BidTime: base},
				{ID: 3, BidderID: 2, BidAmount: 15000, BidTime: base},
			},
			wantID: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner := WinningBid(tt.bids)
			assert.NotNil(t, winner)
			assert.Equal(t, tt.wantID, winner.ID)
		})
	}

	t.Run("无出价返回nil", func(t *testing.T) {
		assert.Nil(t, WinningBid(nil))
	})
}
