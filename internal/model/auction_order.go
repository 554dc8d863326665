package model

import (
	"errors"
	"time"
)

const (
	OrderStatusProcessing = "PROCESSING"
	OrderStatusSuccess    = "SUCCESS"
	OrderStatusFailed     = "FAILED"
)

var ErrOrderStatusInvalid = errors.New("订单状态不合法")

// AuctionOrder 成交订单表
// 每场拍卖至多一单（auction_id 唯一），只在结算时存在胜出出价才创建
// PROCESSING -> SUCCESS（尾款支付）/ FAILED（支付超时或退款）
type AuctionOrder struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`
	AuctionID  int64     `gorm:"uniqueIndex;not null" json:"auction_id"`
	SellerID   int64     `gorm:"index;not null" json:"seller_id"`
	BidderID   int64     `gorm:"index;not null" json:"bidder_id"`
	FinalPrice int64     `gorm:"not null" json:"final_price"`
	Status     string    `gorm:"type:varchar(20);index;not null" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AuctionOrder) TableName() string {
	return "auction_order"
}

func (o *AuctionOrder) Complete() error {
	if o.Status != OrderStatusProcessing {
		return ErrOrderStatusInvalid
	}
	o.Status = OrderStatusSuccess
	return nil
}

func (o *AuctionOrder) Fail() error {
	if o.Status != OrderStatusProcessing {
		return ErrOrderStatusInvalid
	}
	o.Status = OrderStatusFailed
	return nil
}

// Refund 退款：已付款的订单转为 FAILED
func (o *AuctionOrder) Refund() error {
	if o.Status != OrderStatusSuccess {
		return ErrOrderStatusInvalid
	}
	o.Status = OrderStatusFailed
	return nil
}

// PaymentDeadline 尾款支付截止时间
func (o *AuctionOrder) PaymentDeadline(window time.Duration) time.Time {
	return o.CreatedAt.Add(window)
}
