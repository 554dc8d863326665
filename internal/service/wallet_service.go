package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auctionhouse/internal/config"
	"auctionhouse/internal/infrastructure/lock"
	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"
	"auctionhouse/pkg/idgen"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidTopupAmount = errors.New("充值金额必须大于零")

// WalletService 钱包充值与查询
type WalletService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config

	walletRepo *repository.WalletRepository
	transRepo  *repository.TransactionRepository
}

func NewWalletService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *WalletService {
	return &WalletService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		walletRepo:  repository.NewWalletRepository(db),
		transRepo:   repository.NewTransactionRepository(db),
	}
}

type TopupResponse struct {
	MemberID      int64 `json:"member_id"`
	Amount        int64 `json:"amount"`
	Balance       int64 `json:"balance"`
	HoldingAmount int64 `json:"holding_amount"`
}

// Topup 充值
// 首次充值顺带建钱包；Redis 锁拦截同一会员的重复提交
func (s *WalletService) Topup(ctx context.Context, memberID, amount int64) (*TopupResponse, error) {
	if amount <= 0 {
		return nil, ErrInvalidTopupAmount
	}

	topupLock := lock.NewTopupLock(s.redisClient, memberID)
	if err := topupLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer topupLock.Unlock(ctx)

	if _, err := s.walletRepo.GetOrCreate(ctx, memberID); err != nil {
		return nil, err
	}

	var resp *TopupResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := s.walletRepo.GetByMemberIDForUpdate(ctx, tx, memberID)
		if err != nil {
			return err
		}

		wallet.AddBalance(amount)
		if err := s.walletRepo.Save(ctx, tx, wallet); err != nil {
			return err
		}

		trans := &model.WalletTransaction{
			TransactionNo: idgen.GenerateTransactionNo(),
			MemberID:      wallet.MemberID,
			WalletID:      wallet.ID,
			Type:          model.TransactionTypeTopup,
			BalanceDelta:  amount,
			HoldingDelta:  0,
			BalanceAfter:  wallet.Balance,
			ReferenceType: model.ReferenceTypeTopup,
			ReferenceID:   wallet.ID,
		}
		if err := s.transRepo.Create(ctx, tx, trans); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		resp = &TopupResponse{
			MemberID:      wallet.MemberID,
			Amount:        amount,
			Balance:       wallet.Balance,
			HoldingAmount: wallet.HoldingAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("充值成功: memberId=%d, amount=%d, balance=%d", memberID, amount, resp.Balance)
	return resp, nil
}

// GetWallet 查询钱包，不存在时创建零余额钱包
func (s *WalletService) GetWallet(ctx context.Context, memberID int64) (*model.Wallet, error) {
	return s.walletRepo.GetOrCreate(ctx, memberID)
}

func (s *WalletService) ListTransactions(ctx context.Context, memberID int64, page, pageSize int) ([]*model.WalletTransaction, int64, error) {
	return s.transRepo.ListByMemberID(ctx, memberID, page, pageSize)
}
