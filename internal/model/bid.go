package model

import (
	"time"
)

// Bid 出价记录表
// 只追加，不修改，不删除；同一拍卖的胜出出价 = 金额最高、时间最早的一条
type Bid struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuctionID int64     `gorm:"index;not null" json:"auction_id"`
	BidderID  int64     `gorm:"index;not null" json:"bidder_id"`
	BidAmount int64     `gorm:"not null" json:"bid_amount"`
	BidTime   time.Time `gorm:"index;not null" json:"bid_time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Bid) TableName() string {
	return "auction_bid"
}

// Beats 胜出比较：金额高者胜；同额时间早者胜；仍相同按先写入
func (b *Bid) Beats(other *Bid) bool {
	if b.BidAmount != other.BidAmount {
		return b.BidAmount > other.BidAmount
	}
	if !b.BidTime.Equal(other.BidTime) {
		return b.BidTime.Before(other.BidTime)
	}
	return b.ID < other.ID
}

// WinningBid 从全量出价里选出胜出者，无出价返回 nil
func WinningBid(bids []*Bid) *Bid {
	var best *Bid
	for _, bid := range bids {
		if best == nil || bid.Beats(best) {
			best = bid
		}
	}
	return best
}
