package model

import (
	"errors"
	"time"
)

const (
	SettlementStatusReady  = "READY"
	SettlementStatusDone   = "DONE"
	SettlementStatusFailed = "FAILED"
)

var ErrSettlementNotReady = errors.New("结算单不在待处理状态")

// Settlement 卖家结算表
// 订单付款（或保证金没收）后生成，由结算打款批次消费一次：READY -> DONE
// 退款时 READY -> FAILED
type Settlement struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SettlementNo     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"settlement_no"`
	AuctionID        int64     `gorm:"uniqueIndex;not null" json:"auction_id"`
	SellerID         int64     `gorm:"index;not null" json:"seller_id"`
	SalesAmount      int64     `gorm:"not null" json:"sales_amount"`
	FeeAmount        int64     `gorm:"not null" json:"fee_amount"`
	SettlementAmount int64     `gorm:"not null" json:"settlement_amount"`
	Status           string    `gorm:"type:varchar(20);index;not null" json:"status"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Settlement) TableName() string {
	return "payment_settlement"
}

// NewSettlement 按销售额和手续费率拆分结算金额
func NewSettlement(settlementNo string, auctionID, sellerID, salesAmount int64, feeRatePercent int) *Settlement {
	feeAmount := salesAmount * int64(feeRatePercent) / 100
	return &Settlement{
		SettlementNo:     settlementNo,
		AuctionID:        auctionID,
		SellerID:         sellerID,
		SalesAmount:      salesAmount,
		FeeAmount:        feeAmount,
		SettlementAmount: salesAmount - feeAmount,
		Status:           SettlementStatusReady,
	}
}

func (s *Settlement) Complete() error {
	if s.Status != SettlementStatusReady {
		return ErrSettlementNotReady
	}
	s.Status = SettlementStatusDone
	return nil
}

func (s *Settlement) Fail() error {
	if s.Status != SettlementStatusReady {
		return ErrSettlementNotReady
	}
	s.Status = SettlementStatusFailed
	return nil
}
