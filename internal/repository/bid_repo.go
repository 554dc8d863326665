package repository

import (
	"context"
	"errors"

	"auctionhouse/internal/model"

	"gorm.io/gorm"
)

type BidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Create(ctx context.Context, tx *gorm.DB, bid *model.Bid) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(bid).Error
}

// GetLastBid 时间上最近的一笔出价（连续自我加价校验用），无出价时返回 nil
func (r *BidRepository) GetLastBid(ctx context.Context, tx *gorm.DB, auctionID int64) (*model.Bid, error) {
	if tx == nil {
		tx = r.db
	}
	var bid model.Bid
	err := tx.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("bid_time DESC, id DESC").
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

// FindByAuctionID 结算时取全量出价，胜出者由 model.WinningBid 选定
func (r *BidRepository) FindByAuctionID(ctx context.Context, tx *gorm.DB, auctionID int64) ([]*model.Bid, error) {
	if tx == nil {
		tx = r.db
	}
	var bids []*model.Bid
	err := tx.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Find(&bids).Error
	return bids, err
}

func (r *BidRepository) ListByAuctionID(ctx context.Context, auctionID int64, page, pageSize int) ([]*model.Bid, int64, error) {
	var bids []*model.Bid
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Bid{}).Where("auction_id = ?", auctionID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("bid_time DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bids).Error

	return bids, total, err
}
