package service

import (
	"context"
	"errors"
	"time"

	"auctionhouse/internal/config"
	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidPrice       = errors.New("起拍价和加价单位必须大于零")
	ErrInvalidAuctionTime = errors.New("结束时间必须晚于开始时间且在未来")
	ErrWithdrawNotAllowed = errors.New("存在待支付或已成交订单，不能撤拍")
)

// AuctionService 拍卖生命周期：创建、开拍、撤拍、查询
type AuctionService struct {
	db        *gorm.DB
	cfg       *config.Config
	scheduler TimerScheduler

	auctionRepo *repository.AuctionRepository
	bidRepo     *repository.BidRepository
	orderRepo   *repository.OrderRepository
}

func NewAuctionService(db *gorm.DB, cfg *config.Config, scheduler TimerScheduler) *AuctionService {
	return &AuctionService{
		db:          db,
		cfg:         cfg,
		scheduler:   scheduler,
		auctionRepo: repository.NewAuctionRepository(db),
		bidRepo:     repository.NewBidRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
	}
}

type CreateAuctionRequest struct {
	ProductID  int64     `json:"product_id" binding:"required"`
	SellerID   int64     `json:"seller_id" binding:"required"`
	StartPrice int64     `json:"start_price" binding:"required"`
	TickSize   int64     `json:"tick_size" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

// CreateAuction 创建拍卖
// 开始时间已到则直接进入进行中并预约结算定时器，
// 否则登记为待开始，由开拍扫描接手
func (s *AuctionService) CreateAuction(ctx context.Context, req *CreateAuctionRequest) (*model.Auction, error) {
	if req.StartPrice <= 0 || req.TickSize <= 0 {
		return nil, ErrInvalidPrice
	}
	now := time.Now()
	if !req.EndTime.After(req.StartTime) || !req.EndTime.After(now) {
		return nil, ErrInvalidAuctionTime
	}

	auction := &model.Auction{
		ProductID:  req.ProductID,
		SellerID:   req.SellerID,
		StartPrice: req.StartPrice,
		TickSize:   req.TickSize,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     model.AuctionStatusScheduled,
	}
	if !req.StartTime.After(now) {
		auction.Status = model.AuctionStatusInProgress
	}

	if err := s.auctionRepo.Create(ctx, auction); err != nil {
		return nil, err
	}

	if auction.Status == model.AuctionStatusInProgress {
		s.scheduler.ScheduleSettlement(auction.ID, auction.EndTime)
	}

	log.Infof("拍卖创建成功: auctionId=%d, sellerId=%d, status=%s",
		auction.ID, auction.SellerID, auction.Status)
	return auction, nil
}

// StartDueAuctions 开拍扫描：把到点的待开始拍卖推进到进行中并预约结算
func (s *AuctionService) StartDueAuctions(ctx context.Context) int {
	auctions, err := s.auctionRepo.FindDueScheduled(ctx, time.Now(), s.cfg.Auction.SettleBatchSize)
	if err != nil {
		log.Errorf("扫描待开始拍卖失败: %v", err)
		return 0
	}

	count := 0
	for _, candidate := range auctions {
		var started *model.Auction
		err := s.db.Transaction(func(tx *gorm.DB) error {
			auction, err := s.auctionRepo.GetByIDForUpdate(ctx, tx, candidate.ID)
			if err != nil {
				return err
			}
			if err := auction.Start(); err != nil {
				// 别的实例先开拍了
				if errors.Is(err, model.ErrAuctionNotScheduled) {
					return nil
				}
				return err
			}
			started = auction
			return s.auctionRepo.Save(ctx, tx, auction)
		})
		if err != nil {
			log.Errorf("拍卖 %d 开拍失败: %v", candidate.ID, err)
			continue
		}
		if started == nil {
			continue
		}

		s.scheduler.ScheduleSettlement(started.ID, started.EndTime)
		count++
	}
	if count > 0 {
		log.Infof("开拍扫描完成: %d 场", count)
	}
	return count
}

// Withdraw 撤拍
// 仅限已结束且没有待支付/已成交订单的拍卖（流拍或买家弃拍后），
// 记录软删除，流水保持可追溯
func (s *AuctionService) Withdraw(ctx context.Context, auctionID, sellerID int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		auction, err := s.auctionRepo.GetByIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if auction.SellerID != sellerID {
			return repository.ErrAuctionNotFound
		}

		order, err := s.orderRepo.GetByAuctionID(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if order != nil &&
			(order.Status == model.OrderStatusProcessing || order.Status == model.OrderStatusSuccess) {
			return ErrWithdrawNotAllowed
		}

		if err := auction.Withdraw(); err != nil {
			return err
		}
		if err := s.auctionRepo.Save(ctx, tx, auction); err != nil {
			return err
		}
		return s.auctionRepo.SoftDelete(ctx, tx, auctionID)
	})
	if err != nil {
		return err
	}

	s.scheduler.CancelSchedule(auctionID)
	log.Infof("拍卖 %d 撤拍完成", auctionID)
	return nil
}

func (s *AuctionService) GetAuction(ctx context.Context, auctionID int64) (*model.Auction, error) {
	return s.auctionRepo.GetByID(ctx, auctionID)
}

func (s *AuctionService) ListBids(ctx context.Context, auctionID int64, page, pageSize int) ([]*model.Bid, int64, error) {
	if _, err := s.auctionRepo.GetByID(ctx, auctionID); err != nil {
		return nil, 0, err
	}
	return s.bidRepo.ListByAuctionID(ctx, auctionID, page, pageSize)
}
