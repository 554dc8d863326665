package repository

import (
	"context"
	"errors"
	"sort"

	"auctionhouse/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWalletNotFound   = errors.New("钱包不存在")
	ErrSystemWalletMiss = errors.New("系统钱包缺失或配置错误")
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByMemberID(ctx context.Context, memberID int64) (*model.Wallet, error) {
	var wallet model.Wallet
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *WalletRepository) GetByMemberIDForUpdate(ctx context.Context, tx *gorm.DB, memberID int64) (*model.Wallet, error) {
	var wallet model.Wallet
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("member_id = ?", memberID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// GetByMemberIDsForUpdate 按 member_id 升序一次性批量加锁
// 所有多钱包操作都必须走这里：全局统一的加锁顺序是避免互相等待死锁的前提。
// 不存在的钱包不在返回的 map 里，由调用方判定
func (r *WalletRepository) GetByMemberIDsForUpdate(ctx context.Context, tx *gorm.DB, memberIDs []int64) (map[int64]*model.Wallet, error) {
	ids := sortedUniqueIDs(memberIDs)
	if len(ids) == 0 {
		return map[int64]*model.Wallet{}, nil
	}

	var rows []*model.Wallet
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("member_id IN ?", ids).
		Order("member_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	wallets := make(map[int64]*model.Wallet, len(rows))
	for _, wallet := range rows {
		wallets[wallet.MemberID] = wallet
	}
	return wallets, nil
}

// sortedUniqueIDs 升序去重，决定批量加锁的顺序
func sortedUniqueIDs(ids []int64) []int64 {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	unique := sorted[:0]
	for _, id := range sorted {
		if len(unique) == 0 || unique[len(unique)-1] != id {
			unique = append(unique, id)
		}
	}
	return unique
}

func (r *WalletRepository) GetOrCreate(ctx context.Context, memberID int64) (*model.Wallet, error) {
	wallet, err := r.GetByMemberID(ctx, memberID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}

	newWallet := &model.Wallet{MemberID: memberID}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}},
			DoNothing: true,
		}).
		Create(newWallet).Error
	if err != nil {
		return nil, err
	}

	return r.GetByMemberID(ctx, memberID)
}

func (r *WalletRepository) Save(ctx context.Context, tx *gorm.DB, wallet *model.Wallet) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(wallet).Error
}

// AddBalanceOnce 单条 UPDATE 入账（平台手续费汇总入账用）
// 影响行数为 0 说明系统钱包缺失，调用方必须让整个事务回滚
func (r *WalletRepository) AddBalanceOnce(ctx context.Context, tx *gorm.DB, memberID int64, amount int64) error {
	result := tx.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("member_id = ?", memberID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSystemWalletMiss
	}
	return nil
}
