package repository

import (
	"context"
	"errors"

	"auctionhouse/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettlementNotFound = errors.New("结算单不存在")

type SettlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) Create(ctx context.Context, tx *gorm.DB, settlement *model.Settlement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(settlement).Error
}

func (r *SettlementRepository) GetByAuctionID(ctx context.Context, auctionID int64) (*model.Settlement, error) {
	var settlement model.Settlement
	err := r.db.WithContext(ctx).Where("auction_id = ?", auctionID).First(&settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *SettlementRepository) GetByAuctionIDForUpdate(ctx context.Context, tx *gorm.DB, auctionID int64) (*model.Settlement, error) {
	var settlement model.Settlement
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auction_id = ?", auctionID).
		First(&settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettlementNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

// FindReadyForUpdate 锁定待打款结算单
// SKIP LOCKED 让并发批次各拿各的，互不等待，也不会重复处理同一单
func (r *SettlementRepository) FindReadyForUpdate(ctx context.Context, tx *gorm.DB, limit int) ([]*model.Settlement, error) {
	var settlements []*model.Settlement
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", model.SettlementStatusReady).
		Order("id ASC").
		Limit(limit).
		Find(&settlements).Error
	return settlements, err
}

func (r *SettlementRepository) Save(ctx context.Context, tx *gorm.DB, settlement *model.Settlement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(settlement).Error
}

func (r *SettlementRepository) ListBySellerID(ctx context.Context, sellerID int64, status string, page, pageSize int) ([]*model.Settlement, int64, error) {
	var settlements []*model.Settlement
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Settlement{}).Where("seller_id = ?", sellerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&settlements).Error

	return settlements, total, err
}
