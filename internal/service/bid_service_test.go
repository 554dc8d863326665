package service

import (
	"testing"
	"time"

	"auctionhouse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdmissionAuction() *model.Auction {
	now := time.Now()
	return &model.Auction{
		ID:         1,
		ProductID:  100,
		SellerID:   10,
		StartPrice: 10000,
		TickSize:   1000,
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(time.Hour),
		Status:     model.AuctionStatusInProgress,
	}
}

// 完整出价序列：12000 通过 -> 同人 13000 被拒 -> 他人 12500 低于线被拒 -> 他人 13500 通过
func TestCheckBidAdmissionSequence(t *testing.T) {
	now := time.Now()
	auction := newAdmissionAuction()

	// 首次出价，最低为起拍价
	require.NoError(t, checkBidAdmission(auction, nil, 1, 12000, now))
	require.NoError(t, auction.UpdateCurrentPrice(12000))
	lastBid := &model.Bid{AuctionID: auction.ID, BidderID: 1, BidAmount: 12000, BidTime: now}

	// 当前最高出价者不能连续加价
	assert.ErrorIs(t, checkBidAdmission(auction, lastBid, 1, 13000, now), ErrSelfOutbid)

	// 低于当前价+加价单位
	assert.ErrorIs(t, checkBidAdmission(auction, lastBid, 2, 12500, now), ErrBidTooLow)

	// 达到最低加价线
	require.NoError(t, checkBidAdmission(auction, lastBid, 2, 13500, now))
	require.NoError(t, auction.UpdateCurrentPrice(13500))

	// 被超过后原买家可以再次出价
	lastBid = &model.Bid{AuctionID: auction.ID, BidderID: 2, BidAmount: 13500, BidTime: now}
	require.NoError(t, checkBidAdmission(auction, lastBid, 1, 14500, now))
}

func TestCheckBidAdmissionRejections(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		mutate  func(a *model.Auction)
		lastBid *model.Bid
		bidder  int64
		amount  int64
		at      time.Time
		wantErr error
	}{
		{
			name:    "拍卖未开始",
			mutate:  func(a *model.Auction) { a.Status = model.AuctionStatusScheduled },
			bidder:  1,
			amount:  10000,
			at:      now,
			wantErr: model.ErrAuctionNotInProgress,
		},
		{
			name:    "拍卖已结束",
			mutate:  func(a *model.Auction) { a.Status = model.AuctionStatusEnded },
			bidder:  1,
			amount:  10000,
			at:      now,
			wantErr: model.ErrAuctionNotInProgress,
		},
		{
			name:    "早于开拍时间",
			mutate:  func(a *model.Auction) {},
			bidder:  1,
			amount:  10000,
			at:      now.Add(-2 * time.Hour),
			wantErr: ErrOutsideBiddingWindow,
		},
		{
			name:    "晚于结束时间",
			mutate:  func(a *model.Auction) {},
			bidder:  1,
			amount:  10000,
			at:      now.Add(2 * time.Hour),
			wantErr: ErrOutsideBiddingWindow,
		},
		{
			name:    "卖家不能出价",
			mutate:  func(a *model.Auction) {},
			bidder:  10,
			amount:  10000,
			at:      now,
			wantErr: ErrSellerCannotBid,
		},
		{
			name:    "首次出价低于起拍价",
			mutate:  func(a *model.Auction) {},
			bidder:  1,
			amount:  9999,
			at:      now,
			wantErr: ErrBidTooLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auction := newAdmissionAuction()
			tt.mutate(auction)

			err := checkBidAdmission(auction, tt.lastBid, tt.bidder, tt.amount, tt.at)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
