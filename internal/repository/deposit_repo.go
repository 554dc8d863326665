package repository

import (
	"context"
	"errors"

	"auctionhouse/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDepositNotFound = errors.New("保证金记录不存在")

type DepositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

func (r *DepositRepository) Create(ctx context.Context, tx *gorm.DB, deposit *model.Deposit) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(deposit).Error
}

// GetByMemberAndAuction 幂等查询：已存在即返回，不存在返回 nil
func (r *DepositRepository) GetByMemberAndAuction(ctx context.Context, tx *gorm.DB, memberID, auctionID int64) (*model.Deposit, error) {
	if tx == nil {
		tx = r.db
	}
	var deposit model.Deposit
	err := tx.WithContext(ctx).
		Where("member_id = ? AND auction_id = ?", memberID, auctionID).
		First(&deposit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deposit, nil
}

func (r *DepositRepository) GetHoldByMemberAndAuctionForUpdate(ctx context.Context, tx *gorm.DB, memberID, auctionID int64) (*model.Deposit, error) {
	var deposit model.Deposit
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("member_id = ? AND auction_id = ? AND status = ?", memberID, auctionID, model.DepositStatusHold).
		First(&deposit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

// FindHoldByAuctionForUpdate 结算后退还落败方保证金用
// winnerID 为 0 表示流拍，全部退还
func (r *DepositRepository) FindHoldByAuctionForUpdate(ctx context.Context, tx *gorm.DB, auctionID, winnerID int64) ([]*model.Deposit, error) {
	var deposits []*model.Deposit
	query := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auction_id = ? AND status = ?", auctionID, model.DepositStatusHold)
	if winnerID != 0 {
		query = query.Where("member_id <> ?", winnerID)
	}
	err := query.Order("member_id ASC").Find(&deposits).Error
	return deposits, err
}

func (r *DepositRepository) Save(ctx context.Context, tx *gorm.DB, deposit *model.Deposit) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(deposit).Error
}
