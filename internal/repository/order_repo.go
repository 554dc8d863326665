package repository

import (
	"context"
	"errors"
	"time"

	"auctionhouse/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOrderNotFound = errors.New("成交订单不存在")

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, tx *gorm.DB, order *model.AuctionOrder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(order).Error
}

// GetByAuctionID 无订单时返回 nil（流拍场景正常存在无订单的拍卖）
func (r *OrderRepository) GetByAuctionID(ctx context.Context, tx *gorm.DB, auctionID int64) (*model.AuctionOrder, error) {
	if tx == nil {
		tx = r.db
	}
	var order model.AuctionOrder
	err := tx.WithContext(ctx).Where("auction_id = ?", auctionID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) GetByAuctionIDForUpdate(ctx context.Context, tx *gorm.DB, auctionID int64) (*model.AuctionOrder, error) {
	var order model.AuctionOrder
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auction_id = ?", auctionID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindTimeoutOrders 尾款超时扫描：创建时间早于截止线且仍在 PROCESSING 的订单
func (r *OrderRepository) FindTimeoutOrders(ctx context.Context, deadline time.Time, limit int) ([]*model.AuctionOrder, error) {
	var orders []*model.AuctionOrder
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.OrderStatusProcessing, deadline).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Save(ctx context.Context, tx *gorm.DB, order *model.AuctionOrder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(order).Error
}
