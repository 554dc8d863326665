package service

import (
	"context"
	"fmt"

	"auctionhouse/internal/config"
	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"
	"auctionhouse/pkg/idgen"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DistributionService 结算打款批次
// READY 结算单按批锁定后给卖家入账、平台收手续费，
// 整批一个事务：要么全部到账，要么全部回滚重来
type DistributionService struct {
	db  *gorm.DB
	cfg *config.Config

	settlementRepo *repository.SettlementRepository
	walletRepo     *repository.WalletRepository
	transRepo      *repository.TransactionRepository
}

func NewDistributionService(db *gorm.DB, cfg *config.Config) *DistributionService {
	return &DistributionService{
		db:             db,
		cfg:            cfg,
		settlementRepo: repository.NewSettlementRepository(db),
		walletRepo:     repository.NewWalletRepository(db),
		transRepo:      repository.NewTransactionRepository(db),
	}
}

// ProcessSettlements 处理一批待打款结算单，返回处理数量
// SKIP LOCKED 拿单，多实例并发各拿各的；
// 卖家钱包按统一升序加锁；手续费汇总后单条 UPDATE 入平台钱包
func (s *DistributionService) ProcessSettlements(ctx context.Context) (int, error) {
	processed := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		settlements, err := s.settlementRepo.FindReadyForUpdate(ctx, tx, s.cfg.Auction.DistributeBatchSize)
		if err != nil {
			return fmt.Errorf("锁定待打款结算单失败: %w", err)
		}
		if len(settlements) == 0 {
			return nil
		}

		sellerIDs := make([]int64, 0, len(settlements))
		for _, st := range settlements {
			sellerIDs = append(sellerIDs, st.SellerID)
		}

		wallets, err := s.walletRepo.GetByMemberIDsForUpdate(ctx, tx, sellerIDs)
		if err != nil {
			return err
		}

		var totalFee int64
		transactions := make([]*model.WalletTransaction, 0, len(settlements)+1)

		for _, settlement := range settlements {
			wallet := wallets[settlement.SellerID]
			if wallet == nil {
				return repository.ErrWalletNotFound
			}

			if err := settlement.Complete(); err != nil {
				return err
			}
			wallet.AddBalance(settlement.SettlementAmount)
			totalFee += settlement.FeeAmount

			if err := s.settlementRepo.Save(ctx, tx, settlement); err != nil {
				return err
			}
			if err := s.walletRepo.Save(ctx, tx, wallet); err != nil {
				return err
			}

			transactions = append(transactions, &model.WalletTransaction{
				TransactionNo: idgen.GenerateTransactionNo(),
				MemberID:      wallet.MemberID,
				WalletID:      wallet.ID,
				Type:          model.TransactionTypeSettlementPaid,
				BalanceDelta:  settlement.SettlementAmount,
				HoldingDelta:  0,
				BalanceAfter:  wallet.Balance,
				ReferenceType: model.ReferenceTypeSettlement,
				ReferenceID:   settlement.ID,
			})
		}

		// 手续费汇总入平台钱包；平台钱包缺失时整批回滚，
		// 结算单留在 READY 等配置修复后重试
		if totalFee > 0 {
			systemMemberID := s.cfg.Auction.SystemWalletMemberID
			if err := s.walletRepo.AddBalanceOnce(ctx, tx, systemMemberID, totalFee); err != nil {
				return err
			}

			systemWallet, err := s.walletRepo.GetByMemberIDForUpdate(ctx, tx, systemMemberID)
			if err != nil {
				return err
			}
			transactions = append(transactions, &model.WalletTransaction{
				TransactionNo: idgen.GenerateTransactionNo(),
				MemberID:      systemWallet.MemberID,
				WalletID:      systemWallet.ID,
				Type:          model.TransactionTypeSettlementFee,
				BalanceDelta:  totalFee,
				HoldingDelta:  0,
				BalanceAfter:  systemWallet.Balance,
				ReferenceType: model.ReferenceTypeSettlement,
				ReferenceID:   0,
			})
		}

		if err := s.transRepo.CreateBatch(ctx, tx, transactions); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		processed = len(settlements)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if processed > 0 {
		log.Infof("结算打款批次完成: %d 单", processed)
	}
	return processed, nil
}

// ListSettlements 卖家结算单查询，status 为空查全部
func (s *DistributionService) ListSettlements(ctx context.Context, sellerID int64, status string, page, pageSize int) ([]*model.Settlement, int64, error) {
	return s.settlementRepo.ListBySellerID(ctx, sellerID, status, page, pageSize)
}
