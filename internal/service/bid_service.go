package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auctionhouse/internal/config"
	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrOutsideBiddingWindow = errors.New("不在可出价时间内")
	ErrSelfOutbid           = errors.New("当前最高出价者不能连续加价")
	ErrSellerCannotBid      = errors.New("卖家不能参与自己的拍卖")
	ErrBidTooLow            = errors.New("出价低于最低加价金额")
)

// TimerScheduler 结算定时器入口
// 出价触发防狙击延长后需要重新预约结算时间
type TimerScheduler interface {
	ScheduleSettlement(auctionID int64, endTime time.Time)
	CancelSchedule(auctionID int64)
}

// BidService 出价准入
// 同一场拍卖的并发出价靠拍卖行的 FOR UPDATE 行锁串行化，
// 后到的并发出价一定看到更新后的当前价
type BidService struct {
	db        *gorm.DB
	cfg       *config.Config
	scheduler TimerScheduler

	auctionRepo *repository.AuctionRepository
	bidRepo     *repository.BidRepository
	outboxRepo  *repository.OutboxRepository
	payment     *PaymentService
}

func NewBidService(db *gorm.DB, cfg *config.Config, scheduler TimerScheduler, payment *PaymentService) *BidService {
	return &BidService{
		db:          db,
		cfg:         cfg,
		scheduler:   scheduler,
		auctionRepo: repository.NewAuctionRepository(db),
		bidRepo:     repository.NewBidRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
		payment:     payment,
	}
}

type PlaceBidResponse struct {
	BidID        int64     `json:"bid_id"`
	AuctionID    int64     `json:"auction_id"`
	CurrentPrice int64     `json:"current_price"`
	BidTime      time.Time `json:"bid_time"`
	Extended     bool      `json:"extended"`
	EndTime      time.Time `json:"end_time"`
}

// PlaceBid 出价
// 准入校验、价格更新、保证金冻结、出价落库和事件写入在一个事务内，
// 任何一步失败整体回滚，不留半截状态
func (s *BidService) PlaceBid(ctx context.Context, auctionID, bidderID, bidAmount int64) (*PlaceBidResponse, error) {
	var (
		resp     *PlaceBidResponse
		extended bool
		endTime  time.Time
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 行锁串行化同一场拍卖上的所有出价
		auction, err := s.auctionRepo.GetByIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := s.validateBid(ctx, tx, auction, bidderID, bidAmount, now); err != nil {
			return err
		}

		// 首次出价冻结保证金（起拍价的固定比例，按人幂等）
		depositAmount := auction.StartPrice * int64(s.cfg.Auction.DepositRatePercent) / 100
		if _, err := s.payment.HoldDeposit(ctx, tx, bidderID, auctionID, depositAmount); err != nil {
			return err
		}

		if err := auction.UpdateCurrentPrice(bidAmount); err != nil {
			return err
		}

		// 临近结束则防狙击延长
		extended = auction.ExtendEndTimeIfClose(now,
			s.cfg.Auction.ExtensionWindow(),
			s.cfg.Auction.ExtensionIncrement(),
			s.cfg.Auction.MaxExtensionCount)
		endTime = auction.EndTime

		if err := s.auctionRepo.Save(ctx, tx, auction); err != nil {
			return fmt.Errorf("更新拍卖失败: %w", err)
		}

		bid := &model.Bid{
			AuctionID: auctionID,
			BidderID:  bidderID,
			BidAmount: bidAmount,
			BidTime:   now,
		}
		if err := s.bidRepo.Create(ctx, tx, bid); err != nil {
			return fmt.Errorf("保存出价失败: %w", err)
		}

		msg := newOutboxMessage(s.cfg.Kafka.Topic.BidAccepted, fmt.Sprintf("%d", auctionID), map[string]interface{}{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
			"amount":     bidAmount,
			"bid_time":   now.Format(time.RFC3339),
		})
		if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
			return fmt.Errorf("写入消息失败: %w", err)
		}

		resp = &PlaceBidResponse{
			BidID:        bid.ID,
			AuctionID:    auctionID,
			CurrentPrice: bidAmount,
			BidTime:      now,
			Extended:     extended,
			EndTime:      endTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 延长后重新预约结算定时器（提交之后再动定时器，回滚时不影响原预约）
	if extended {
		s.scheduler.ScheduleSettlement(auctionID, endTime)
		log.Infof("拍卖 %d 防狙击延长至 %s", auctionID, endTime.Format(time.RFC3339))
	}

	log.Infof("出价成功: auctionId=%d, bidderId=%d, amount=%d", auctionID, bidderID, bidAmount)
	return resp, nil
}

func (s *BidService) validateBid(ctx context.Context, tx *gorm.DB, auction *model.Auction, bidderID, bidAmount int64, now time.Time) error {
	lastBid, err := s.bidRepo.GetLastBid(ctx, tx, auction.ID)
	if err != nil {
		return fmt.Errorf("查询最近出价失败: %w", err)
	}
	return checkBidAdmission(auction, lastBid, bidderID, bidAmount, now)
}

// checkBidAdmission 出价准入校验
// 1. 拍卖进行中且在出价时间窗口内
// 2. 上一笔出价不是本人（防连续自我加价）
// 3. 出价人不是卖家
// 4. 金额不低于最低加价线（首次=起拍价，之后=当前价+加价单位）
func checkBidAdmission(auction *model.Auction, lastBid *model.Bid, bidderID, bidAmount int64, now time.Time) error {
	if auction.Status != model.AuctionStatusInProgress {
		return model.ErrAuctionNotInProgress
	}
	if !auction.InBiddingWindow(now) {
		return ErrOutsideBiddingWindow
	}
	if lastBid != nil && lastBid.BidderID == bidderID {
		return ErrSelfOutbid
	}
	if auction.SellerID == bidderID {
		return ErrSellerCannotBid
	}
	if bidAmount < auction.NextMinBid() {
		return ErrBidTooLow
	}
	return nil
}
