package model

import (
	"errors"
	"time"
)

var (
	ErrInsufficientBalance = errors.New("可用余额不足")
	ErrInsufficientHolding = errors.New("冻结金额不足")
)

// Wallet 会员钱包表
// balance 为总余额，holdingAmount 为其中被保证金占用的部分，
// 任何可观察时点都满足 balance >= 0 且 holdingAmount >= 0
type Wallet struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID      int64     `gorm:"uniqueIndex;not null" json:"member_id"`
	Balance       int64     `gorm:"not null;default:0" json:"balance"`
	HoldingAmount int64     `gorm:"not null;default:0" json:"holding_amount"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "payment_wallet"
}

// Available 可支配余额（扣除已冻结部分）
func (w *Wallet) Available() int64 {
	return w.Balance - w.HoldingAmount
}

// Hold 冻结保证金：不动 balance，只增加 holdingAmount
// 可支配余额不足时拒绝，保证后续 forfeit 不会把 balance 扣成负数
func (w *Wallet) Hold(amount int64) error {
	if w.Available() < amount {
		return ErrInsufficientBalance
	}
	w.HoldingAmount += amount
	return nil
}

// Release 解冻（落败方退还保证金）：钱本来就没离开钱包，只解除占用
func (w *Wallet) Release(amount int64) error {
	if w.HoldingAmount < amount {
		return ErrInsufficientHolding
	}
	w.HoldingAmount -= amount
	return nil
}

// UseDeposit 保证金抵扣尾款：解除占用的同时真正扣款
func (w *Wallet) UseDeposit(amount int64) error {
	if w.HoldingAmount < amount || w.Balance < amount {
		return ErrInsufficientHolding
	}
	w.HoldingAmount -= amount
	w.Balance -= amount
	return nil
}

// Forfeit 没收保证金：解除占用并实际扣款
func (w *Wallet) Forfeit(amount int64) error {
	if w.HoldingAmount < amount || w.Balance < amount {
		return ErrInsufficientHolding
	}
	w.HoldingAmount -= amount
	w.Balance -= amount
	return nil
}

// Pay 普通扣款（尾款部分），只能动可支配余额
func (w *Wallet) Pay(amount int64) error {
	if w.Available() < amount {
		return ErrInsufficientBalance
	}
	w.Balance -= amount
	return nil
}

func (w *Wallet) AddBalance(amount int64) {
	w.Balance += amount
}
