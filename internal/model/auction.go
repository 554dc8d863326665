package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	AuctionStatusScheduled  = "SCHEDULED"
	AuctionStatusInProgress = "IN_PROGRESS"
	AuctionStatusEnded      = "ENDED"
	AuctionStatusWithdrawn  = "WITHDRAWN"
)

var (
	ErrAuctionNotScheduled  = errors.New("拍卖不在待开始状态")
	ErrAuctionNotInProgress = errors.New("拍卖不在进行中状态")
	ErrAuctionAlreadyEnded  = errors.New("拍卖已结束")
	ErrAuctionNotEnded      = errors.New("拍卖尚未结束，不能撤拍")
	ErrCurrentPriceRollback = errors.New("当前价只能上涨")
)

// Auction 拍卖表
// 状态机：SCHEDULED -> IN_PROGRESS -> ENDED -> WITHDRAWN（仅限流拍/未付款）
// 状态只进不退；记录不做物理删除，撤下的拍卖走软删除标记
type Auction struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID      int64          `gorm:"index;not null" json:"product_id"`
	SellerID       int64          `gorm:"index;not null" json:"seller_id"`
	StartPrice     int64          `gorm:"not null" json:"start_price"`
	TickSize       int64          `gorm:"not null" json:"tick_size"`       // 最小加价单位
	CurrentPrice   *int64         `json:"current_price"`                   // 首次出价前为 NULL
	StartTime      time.Time      `gorm:"not null" json:"start_time"`
	EndTime        time.Time      `gorm:"index;not null" json:"end_time"`
	Status         string         `gorm:"type:varchar(20);index;not null" json:"status"`
	ExtensionCount int            `gorm:"not null;default:0" json:"extension_count"` // 防狙击延长次数 0..5
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Auction) TableName() string {
	return "auction"
}

// Start 开拍：仅允许 SCHEDULED -> IN_PROGRESS
func (a *Auction) Start() error {
	if a.Status != AuctionStatusScheduled {
		return ErrAuctionNotScheduled
	}
	a.Status = AuctionStatusInProgress
	return nil
}

// End 落锤：仅允许 IN_PROGRESS -> ENDED
// 已经是 ENDED 时返回 ErrAuctionAlreadyEnded，调用方据此区分
// "重复触发"（定时器和兜底扫描同分钟触发）与真正的非法状态
func (a *Auction) End() error {
	if a.Status == AuctionStatusEnded {
		return ErrAuctionAlreadyEnded
	}
	if a.Status != AuctionStatusInProgress {
		return ErrAuctionNotInProgress
	}
	a.Status = AuctionStatusEnded
	return nil
}

// Withdraw 撤拍：仅允许 ENDED -> WITHDRAWN，且调用方需确认无成交订单
func (a *Auction) Withdraw() error {
	if a.Status != AuctionStatusEnded {
		return ErrAuctionNotEnded
	}
	a.Status = AuctionStatusWithdrawn
	return nil
}

// UpdateCurrentPrice 更新当前价，金额未变化时不动
func (a *Auction) UpdateCurrentPrice(amount int64) error {
	if a.CurrentPrice != nil {
		if *a.CurrentPrice == amount {
			return nil
		}
		if amount < *a.CurrentPrice {
			return ErrCurrentPriceRollback
		}
	}
	a.CurrentPrice = &amount
	return nil
}

// NextMinBid 下一次出价的最低金额：首次为起拍价，之后为当前价+加价单位
func (a *Auction) NextMinBid() int64 {
	if a.CurrentPrice == nil {
		return a.StartPrice
	}
	return *a.CurrentPrice + a.TickSize
}

// ExtendEndTimeIfClose 防狙击延长
// now 距离 endTime 不足 window 时把 endTime 推后 increment 并累计次数；
// 达到 maxCount 次后拒绝延长，返回 false 且不做任何修改
func (a *Auction) ExtendEndTimeIfClose(now time.Time, window, increment time.Duration, maxCount int) bool {
	if a.EndTime.Sub(now) > window {
		return false
	}
	if a.ExtensionCount >= maxCount {
		return false
	}
	a.EndTime = a.EndTime.Add(increment)
	a.ExtensionCount++
	return true
}

// InBiddingWindow 是否在可出价时间内
func (a *Auction) InBiddingWindow(now time.Time) bool {
	return !now.Before(a.StartTime) && !now.After(a.EndTime)
}

func (a *Auction) IsExpired(now time.Time) bool {
	return now.After(a.EndTime)
}
