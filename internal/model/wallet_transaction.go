package model

import (
	"time"
)

const (
	TransactionTypeTopup            = "TOPUP_DONE"        // 充值
	TransactionTypeDepositHold      = "DEPOSIT_HOLD"      // 保证金冻结
	TransactionTypeDepositRelease   = "DEPOSIT_RELEASE"   // 保证金解冻
	TransactionTypeDepositUsed      = "DEPOSIT_USED"      // 保证金抵扣
	TransactionTypeDepositForfeited = "DEPOSIT_FORFEITED" // 保证金没收
	TransactionTypeAuctionPayment   = "AUCTION_PAYMENT"   // 尾款支付
	TransactionTypeRefund           = "REFUND_DONE"       // 退款
	TransactionTypeSettlementPaid   = "SETTLEMENT_PAID"   // 结算打款
	TransactionTypeSettlementFee    = "SETTLEMENT_FEE"    // 平台手续费
)

const (
	ReferenceTypeDeposit      = "DEPOSIT"
	ReferenceTypeAuctionOrder = "AUCTION_ORDER"
	ReferenceTypeSettlement   = "SETTLEMENT"
	ReferenceTypeTopup        = "TOPUP"
)

// WalletTransaction 钱包流水表
// 每一笔资金变动写一行，是对账的唯一依据
//
// 流水表设计原则：
// 1. 只追加，不修改，不删除 —— 保证审计可追溯
// 2. 同时记录 balance 与 holding 两个维度的变化量
// 3. 记录变动后余额，便于校验余额一致性
type WalletTransaction struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionNo string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_no"`
	MemberID      int64     `gorm:"index;not null" json:"member_id"`
	WalletID      int64     `gorm:"index;not null" json:"wallet_id"`
	Type          string    `gorm:"type:varchar(32);not null" json:"type"`
	BalanceDelta  int64     `gorm:"not null" json:"balance_delta"`
	HoldingDelta  int64     `gorm:"not null" json:"holding_delta"`
	BalanceAfter  int64     `gorm:"not null" json:"balance_after"`
	ReferenceType string    `gorm:"type:varchar(32);not null" json:"reference_type"`
	ReferenceID   int64     `gorm:"index;not null" json:"reference_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transaction"
}
