package repository

import (
	"context"
	"errors"
	"time"

	"auctionhouse/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAuctionNotFound = errors.New("拍卖不存在")

type AuctionRepository struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) Create(ctx context.Context, auction *model.Auction) error {
	return r.db.WithContext(ctx).Create(auction).Error
}

func (r *AuctionRepository) GetByID(ctx context.Context, id int64) (*model.Auction, error) {
	var auction model.Auction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

// GetByIDForUpdate 行锁读取，串行化同一场拍卖上的并发出价
func (r *AuctionRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*model.Auction, error) {
	var auction model.Auction
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

// FindExpiredInProgress 兜底扫描的候选集：已过结束时间的进行中拍卖
// 这里只取候选，真正结算时再按单场加行锁，避免一把大锁拖住整批
func (r *AuctionRepository) FindExpiredInProgress(ctx context.Context, now time.Time, limit int) ([]*model.Auction, error) {
	var auctions []*model.Auction
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_time < ?", model.AuctionStatusInProgress, now).
		Order("end_time ASC").
		Limit(limit).
		Find(&auctions).Error
	return auctions, err
}

// FindInProgress 进程重启后恢复定时器用
// id 游标分页，调用方循环取到空为止，保证进行中的拍卖一场不漏
func (r *AuctionRepository) FindInProgress(ctx context.Context, afterID int64, limit int) ([]*model.Auction, error) {
	var auctions []*model.Auction
	err := r.db.WithContext(ctx).
		Where("status = ? AND id > ?", model.AuctionStatusInProgress, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&auctions).Error
	return auctions, err
}

// FindDueScheduled 开拍扫描：到达开始时间的待开始拍卖
func (r *AuctionRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]*model.Auction, error) {
	var auctions []*model.Auction
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time <= ?", model.AuctionStatusScheduled, now).
		Limit(limit).
		Find(&auctions).Error
	return auctions, err
}

func (r *AuctionRepository) Save(ctx context.Context, tx *gorm.DB, auction *model.Auction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(auction).Error
}

// SoftDelete 软删除，保留流水可追溯性
func (r *AuctionRepository) SoftDelete(ctx context.Context, tx *gorm.DB, id int64) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Delete(&model.Auction{}, id).Error
}
