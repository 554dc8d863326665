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

var (
	ErrNotAuctionWinner    = errors.New("只有中拍买家可以支付尾款")
	ErrOrderNotProcessing  = errors.New("订单不在待支付状态")
	ErrPaymentDeadlinePast = errors.New("已超过尾款支付期限")
)

// PaymentService 钱包与保证金账本
// 保证金全生命周期（冻结/抵扣/退还/没收）、尾款支付和退款都在这里，
// 每一次资金变动都在同一事务内落一行钱包流水
type PaymentService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config

	walletRepo     *repository.WalletRepository
	depositRepo    *repository.DepositRepository
	transRepo      *repository.TransactionRepository
	settlementRepo *repository.SettlementRepository
	orderRepo      *repository.OrderRepository
	outboxRepo     *repository.OutboxRepository
}

func NewPaymentService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *PaymentService {
	return &PaymentService{
		db:             db,
		redisClient:    redisClient,
		cfg:            cfg,
		walletRepo:     repository.NewWalletRepository(db),
		depositRepo:    repository.NewDepositRepository(db),
		transRepo:      repository.NewTransactionRepository(db),
		settlementRepo: repository.NewSettlementRepository(db),
		orderRepo:      repository.NewOrderRepository(db),
		outboxRepo:     repository.NewOutboxRepository(db),
	}
}

// HoldDeposit 冻结保证金，随出价事务一起提交
// 按 (member, auction) 幂等：同一买家在同一场拍卖只冻结一次
func (s *PaymentService) HoldDeposit(ctx context.Context, tx *gorm.DB, memberID, auctionID, amount int64) (*model.Deposit, error) {
	existing, err := s.depositRepo.GetByMemberAndAuction(ctx, tx, memberID, auctionID)
	if err != nil {
		return nil, fmt.Errorf("查询保证金失败: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	wallet, err := s.walletRepo.GetByMemberIDForUpdate(ctx, tx, memberID)
	if err != nil {
		return nil, err
	}

	if err := wallet.Hold(amount); err != nil {
		return nil, err
	}
	if err := s.walletRepo.Save(ctx, tx, wallet); err != nil {
		return nil, fmt.Errorf("更新钱包失败: %w", err)
	}

	deposit := model.NewDeposit(memberID, auctionID, amount)
	if err := s.depositRepo.Create(ctx, tx, deposit); err != nil {
		return nil, fmt.Errorf("创建保证金记录失败: %w", err)
	}

	if err := s.recordTransaction(ctx, tx, wallet, model.TransactionTypeDepositHold,
		0, amount, model.ReferenceTypeDeposit, deposit.ID); err != nil {
		return nil, err
	}

	return deposit, nil
}

// ReleaseDeposits 结算后退还落败方保证金
// winnerID 为 0 表示流拍，全部退还；钱包按 member_id 升序加锁
func (s *PaymentService) ReleaseDeposits(ctx context.Context, auctionID, winnerID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		deposits, err := s.depositRepo.FindHoldByAuctionForUpdate(ctx, tx, auctionID, winnerID)
		if err != nil {
			return fmt.Errorf("查询待退保证金失败: %w", err)
		}
		if len(deposits) == 0 {
			return nil
		}

		memberIDs := make([]int64, 0, len(deposits))
		for _, d := range deposits {
			memberIDs = append(memberIDs, d.MemberID)
		}

		wallets, err := s.walletRepo.GetByMemberIDsForUpdate(ctx, tx, memberIDs)
		if err != nil {
			return err
		}

		transactions := make([]*model.WalletTransaction, 0, len(deposits))
		for _, deposit := range deposits {
			wallet := wallets[deposit.MemberID]
			if wallet == nil {
				return repository.ErrWalletNotFound
			}

			if err := deposit.Release(); err != nil {
				return err
			}
			if err := wallet.Release(deposit.Amount); err != nil {
				return err
			}

			if err := s.depositRepo.Save(ctx, tx, deposit); err != nil {
				return err
			}
			if err := s.walletRepo.Save(ctx, tx, wallet); err != nil {
				return err
			}

			transactions = append(transactions, &model.WalletTransaction{
				TransactionNo: idgen.GenerateTransactionNo(),
				MemberID:      wallet.MemberID,
				WalletID:      wallet.ID,
				Type:          model.TransactionTypeDepositRelease,
				BalanceDelta:  0,
				HoldingDelta:  -deposit.Amount,
				BalanceAfter:  wallet.Balance,
				ReferenceType: model.ReferenceTypeDeposit,
				ReferenceID:   deposit.ID,
			})
		}

		if err := s.transRepo.CreateBatch(ctx, tx, transactions); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		log.Infof("拍卖 %d 保证金退还完成: %d 人", auctionID, len(deposits))
		return nil
	})
}

type FinalPaymentResponse struct {
	OrderNo       string `json:"order_no"`
	AuctionID     int64  `json:"auction_id"`
	FinalPrice    int64  `json:"final_price"`
	DepositAmount int64  `json:"deposit_amount"`
	PaidAmount    int64  `json:"paid_amount"`
	Balance       int64  `json:"balance"`
}

// FinalPayment 尾款支付
// 校验订单归属/状态/期限后：保证金 HOLD->USED 抵扣，余额扣除差额，
// 订单 PROCESSING->SUCCESS，并生成 READY 结算单，全部在一个事务内
func (s *PaymentService) FinalPayment(ctx context.Context, auctionID, payerID int64) (*FinalPaymentResponse, error) {
	// 重复提交拦截
	payLock := lock.NewPaymentLock(s.redisClient, auctionID, payerID)
	if err := payLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer payLock.Unlock(ctx)

	var resp *FinalPaymentResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByAuctionIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if order.BidderID != payerID {
			return ErrNotAuctionWinner
		}
		if order.Status != model.OrderStatusProcessing {
			return ErrOrderNotProcessing
		}
		if time.Now().After(order.PaymentDeadline(s.cfg.Auction.PaymentDeadline())) {
			return ErrPaymentDeadlinePast
		}

		deposit, err := s.depositRepo.GetHoldByMemberAndAuctionForUpdate(ctx, tx, payerID, auctionID)
		if err != nil {
			return err
		}

		wallet, err := s.walletRepo.GetByMemberIDForUpdate(ctx, tx, payerID)
		if err != nil {
			return err
		}

		paymentAmount := order.FinalPrice - deposit.Amount

		// 保证金抵扣
		if err := deposit.Use(); err != nil {
			return err
		}
		if err := wallet.UseDeposit(deposit.Amount); err != nil {
			return err
		}
		if err := s.recordTransaction(ctx, tx, wallet, model.TransactionTypeDepositUsed,
			-deposit.Amount, -deposit.Amount, model.ReferenceTypeDeposit, deposit.ID); err != nil {
			return err
		}

		// 尾款扣款
		if err := wallet.Pay(paymentAmount); err != nil {
			return err
		}
		if err := s.recordTransaction(ctx, tx, wallet, model.TransactionTypeAuctionPayment,
			-paymentAmount, 0, model.ReferenceTypeAuctionOrder, order.ID); err != nil {
			return err
		}

		if err := s.depositRepo.Save(ctx, tx, deposit); err != nil {
			return err
		}
		if err := s.walletRepo.Save(ctx, tx, wallet); err != nil {
			return err
		}

		// 订单完成
		if err := order.Complete(); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, tx, order); err != nil {
			return err
		}

		// 卖家结算单（READY，等待打款批次消费）
		settlement := model.NewSettlement(idgen.GenerateSettlementNo(),
			auctionID, order.SellerID, order.FinalPrice, s.cfg.Auction.FeeRatePercent)
		if err := s.settlementRepo.Create(ctx, tx, settlement); err != nil {
			return fmt.Errorf("创建结算单失败: %w", err)
		}

		resp = &FinalPaymentResponse{
			OrderNo:       order.OrderNo,
			AuctionID:     auctionID,
			FinalPrice:    order.FinalPrice,
			DepositAmount: deposit.Amount,
			PaidAmount:    paymentAmount,
			Balance:       wallet.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("尾款支付完成: auctionId=%d, payerId=%d, finalPrice=%d, paid=%d",
		auctionID, payerID, resp.FinalPrice, resp.PaidAmount)

	return resp, nil
}

// ProcessTimeout 尾款超时处理
// 没收买家保证金（真实扣款），订单转 FAILED，
// 没收金额作为销售额生成卖家结算单，并发出超时事件
func (s *PaymentService) ProcessTimeout(ctx context.Context, auctionID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByAuctionIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusProcessing {
			return ErrOrderNotProcessing
		}

		deposit, err := s.depositRepo.GetHoldByMemberAndAuctionForUpdate(ctx, tx, order.BidderID, auctionID)
		if err != nil {
			return err
		}

		wallet, err := s.walletRepo.GetByMemberIDForUpdate(ctx, tx, order.BidderID)
		if err != nil {
			return err
		}

		if err := deposit.Forfeit(); err != nil {
			return err
		}
		if err := wallet.Forfeit(deposit.Amount); err != nil {
			return err
		}
		if err := s.recordTransaction(ctx, tx, wallet, model.TransactionTypeDepositForfeited,
			-deposit.Amount, -deposit.Amount, model.ReferenceTypeDeposit, deposit.ID); err != nil {
			return err
		}

		if err := s.depositRepo.Save(ctx, tx, deposit); err != nil {
			return err
		}
		if err := s.walletRepo.Save(ctx, tx, wallet); err != nil {
			return err
		}

		if err := order.Fail(); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, tx, order); err != nil {
			return err
		}

		// 没收的保证金归卖家结算
		settlement := model.NewSettlement(idgen.GenerateSettlementNo(),
			auctionID, order.SellerID, deposit.Amount, s.cfg.Auction.FeeRatePercent)
		if err := s.settlementRepo.Create(ctx, tx, settlement); err != nil {
			return fmt.Errorf("创建结算单失败: %w", err)
		}

		msg := newOutboxMessage(s.cfg.Kafka.Topic.PaymentTimeout, order.OrderNo, map[string]interface{}{
			"auction_id":     auctionID,
			"buyer_id":       order.BidderID,
			"seller_id":      order.SellerID,
			"penalty_amount": deposit.Amount,
			"occurred_at":    time.Now().Format(time.RFC3339),
		})
		if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
			return fmt.Errorf("写入消息失败: %w", err)
		}

		log.Infof("尾款超时处理完成: auctionId=%d, bidderId=%d, penalty=%d",
			auctionID, order.BidderID, deposit.Amount)
		return nil
	})
}

// Refund 退款：已付款订单转 FAILED，结算单 READY->FAILED，全额退回买家
// 结算单已被打款批次消费（DONE）后不允许退款
func (s *PaymentService) Refund(ctx context.Context, auctionID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByAuctionIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if err := order.Refund(); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, tx, order); err != nil {
			return err
		}

		settlement, err := s.settlementRepo.GetByAuctionIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if err := settlement.Fail(); err != nil {
			return err
		}
		if err := s.settlementRepo.Save(ctx, tx, settlement); err != nil {
			return err
		}

		wallet, err := s.walletRepo.GetByMemberIDForUpdate(ctx, tx, order.BidderID)
		if err != nil {
			return err
		}
		wallet.AddBalance(order.FinalPrice)
		if err := s.walletRepo.Save(ctx, tx, wallet); err != nil {
			return err
		}

		if err := s.recordTransaction(ctx, tx, wallet, model.TransactionTypeRefund,
			order.FinalPrice, 0, model.ReferenceTypeAuctionOrder, order.ID); err != nil {
			return err
		}

		log.Infof("退款完成: auctionId=%d, bidderId=%d, amount=%d",
			auctionID, order.BidderID, order.FinalPrice)
		return nil
	})
}

func (s *PaymentService) recordTransaction(ctx context.Context, tx *gorm.DB, wallet *model.Wallet,
	transType string, balanceDelta, holdingDelta int64, refType string, refID int64) error {
	trans := &model.WalletTransaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		MemberID:      wallet.MemberID,
		WalletID:      wallet.ID,
		Type:          transType,
		BalanceDelta:  balanceDelta,
		HoldingDelta:  holdingDelta,
		BalanceAfter:  wallet.Balance,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if err := s.transRepo.Create(ctx, tx, trans); err != nil {
		return fmt.Errorf("记录流水失败: %w", err)
	}
	return nil
}
