package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auctionhouse/internal/config"
	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"
	"auctionhouse/pkg/idgen"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettlementService 拍卖结算
// 定时器到点和兜底扫描走同一个 SettleOne，幂等性由状态机保证：
// 拍卖已 ENDED 就直接返回，同一场拍卖至多成交一次
type SettlementService struct {
	db  *gorm.DB
	cfg *config.Config

	auctionRepo *repository.AuctionRepository
	bidRepo     *repository.BidRepository
	orderRepo   *repository.OrderRepository
	outboxRepo  *repository.OutboxRepository
	payment     *PaymentService
}

func NewSettlementService(db *gorm.DB, cfg *config.Config, payment *PaymentService) *SettlementService {
	return &SettlementService{
		db:          db,
		cfg:         cfg,
		auctionRepo: repository.NewAuctionRepository(db),
		bidRepo:     repository.NewBidRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
		payment:     payment,
	}
}

// SettleOne 结算单场拍卖
// 行锁 + ENDED 检查保证定时器和扫描并发触发时只有一方生效；
// 有出价则按最高价（同价先到先得）定中拍者并生成待支付订单，
// 无出价则流拍。落败方保证金在事务提交后单独退还
func (s *SettlementService) SettleOne(ctx context.Context, auctionID int64) error {
	var winnerID int64
	settled := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		auction, err := s.auctionRepo.GetByIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, repository.ErrAuctionNotFound) {
				// 已撤拍（软删除）的拍卖定时器可能还在，直接放过
				log.Warnf("结算时拍卖 %d 不存在，跳过", auctionID)
				return nil
			}
			return err
		}

		if auction.Status == model.AuctionStatusEnded || auction.Status == model.AuctionStatusWithdrawn {
			return nil
		}
		if auction.Status != model.AuctionStatusInProgress {
			log.Warnf("拍卖 %d 状态 %s，无法结算", auctionID, auction.Status)
			return nil
		}
		// 防狙击延长后旧定时器可能提前触发，没到点不结算
		if !auction.IsExpired(time.Now()) {
			return nil
		}

		if err := auction.End(); err != nil {
			return err
		}
		if err := s.auctionRepo.Save(ctx, tx, auction); err != nil {
			return fmt.Errorf("更新拍卖状态失败: %w", err)
		}

		bids, err := s.bidRepo.FindByAuctionID(ctx, tx, auctionID)
		if err != nil {
			return fmt.Errorf("查询出价记录失败: %w", err)
		}
		winningBid := model.WinningBid(bids)

		if winningBid == nil {
			// 流拍
			msg := newOutboxMessage(s.cfg.Kafka.Topic.AuctionFailed, fmt.Sprintf("%d", auctionID), map[string]interface{}{
				"auction_id": auctionID,
				"product_id": auction.ProductID,
				"seller_id":  auction.SellerID,
				"ended_at":   time.Now().Format(time.RFC3339),
			})
			if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
				return fmt.Errorf("写入消息失败: %w", err)
			}
			settled = true
			return nil
		}

		winnerID = winningBid.BidderID
		order := &model.AuctionOrder{
			OrderNo:    idgen.GenerateOrderNo(),
			AuctionID:  auctionID,
			SellerID:   auction.SellerID,
			BidderID:   winningBid.BidderID,
			FinalPrice: winningBid.BidAmount,
			Status:     model.OrderStatusProcessing,
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("创建成交订单失败: %w", err)
		}

		msg := newOutboxMessage(s.cfg.Kafka.Topic.AuctionEnded, order.OrderNo, map[string]interface{}{
			"auction_id":  auctionID,
			"product_id":  auction.ProductID,
			"order_no":    order.OrderNo,
			"seller_id":   auction.SellerID,
			"winner_id":   winningBid.BidderID,
			"final_price": winningBid.BidAmount,
			"ended_at":    time.Now().Format(time.RFC3339),
		})
		if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
			return fmt.Errorf("写入消息失败: %w", err)
		}

		settled = true
		return nil
	})
	if err != nil {
		return err
	}
	if !settled {
		return nil
	}

	if winnerID > 0 {
		log.Infof("拍卖 %d 结算完成: winnerId=%d", auctionID, winnerID)
	} else {
		log.Infof("拍卖 %d 流拍", auctionID)
	}

	// 保证金退还放在结算事务之外：退还失败不影响已生效的结算结果，
	// 留在 HOLD 的保证金可重试退还
	if err := s.payment.ReleaseDeposits(ctx, auctionID, winnerID); err != nil {
		log.Errorf("拍卖 %d 保证金退还失败: %v", auctionID, err)
	}
	return nil
}

// SettleExpired 兜底扫描：定时器丢失（进程重启、宕机）时补结算
// 单场失败不阻塞整批
func (s *SettlementService) SettleExpired(ctx context.Context) int {
	auctions, err := s.auctionRepo.FindExpiredInProgress(ctx, time.Now(), s.cfg.Auction.SettleBatchSize)
	if err != nil {
		log.Errorf("扫描过期拍卖失败: %v", err)
		return 0
	}

	count := 0
	for _, auction := range auctions {
		if err := s.SettleOne(ctx, auction.ID); err != nil {
			log.Errorf("拍卖 %d 兜底结算失败: %v", auction.ID, err)
			continue
		}
		count++
	}
	if count > 0 {
		log.Infof("兜底结算完成: %d 场", count)
	}
	return count
}
