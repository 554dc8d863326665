package model

import (
	"errors"
	"time"
)

const (
	DepositStatusHold      = "HOLD"
	DepositStatusUsed      = "USED"
	DepositStatusReleased  = "RELEASED"
	DepositStatusForfeited = "FORFEITED"
)

var ErrDepositNotHold = errors.New("保证金不在冻结状态")

// Deposit 保证金表
// 一个会员对一场拍卖只有一笔保证金（member_id + auction_id 唯一）
// HOLD 是唯一入口状态，USED/RELEASED/FORFEITED 均为终态，单向流转
type Deposit struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID  int64     `gorm:"not null;uniqueIndex:uk_deposit_member_auction" json:"member_id"`
	AuctionID int64     `gorm:"not null;uniqueIndex:uk_deposit_member_auction;index" json:"auction_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Status    string    `gorm:"type:varchar(20);index;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Deposit) TableName() string {
	return "payment_deposit"
}

func NewDeposit(memberID, auctionID, amount int64) *Deposit {
	return &Deposit{
		MemberID:  memberID,
		AuctionID: auctionID,
		Amount:    amount,
		Status:    DepositStatusHold,
	}
}

func (d *Deposit) Use() error {
	if d.Status != DepositStatusHold {
		return ErrDepositNotHold
	}
	d.Status = DepositStatusUsed
	return nil
}

func (d *Deposit) Release() error {
	if d.Status != DepositStatusHold {
		return ErrDepositNotHold
	}
	d.Status = DepositStatusReleased
	return nil
}

func (d *Deposit) Forfeit() error {
	if d.Status != DepositStatusHold {
		return ErrDepositNotHold
	}
	d.Status = DepositStatusForfeited
	return nil
}
