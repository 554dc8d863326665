package job

import (
	"context"
	"time"

	"auctionhouse/internal/config"
	"auctionhouse/internal/repository"
	"auctionhouse/internal/service"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PaymentTimeoutJob 尾款超时扫描
// 超过支付期限仍未付款的订单：没收保证金、订单转失败。
// 单个订单处理失败只记日志，不影响同批其他订单
type PaymentTimeoutJob struct {
	db         *gorm.DB
	orderRepo  *repository.OrderRepository
	paymentSvc *service.PaymentService
	cfg        *config.Config
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewPaymentTimeoutJob(db *gorm.DB, paymentSvc *service.PaymentService, cfg *config.Config) *PaymentTimeoutJob {
	return &PaymentTimeoutJob{
		db:         db,
		orderRepo:  repository.NewOrderRepository(db),
		paymentSvc: paymentSvc,
		cfg:        cfg,
		stopCh:     make(chan struct{}),
		interval:   time.Duration(cfg.Auction.TimeoutSweepHours) * time.Hour,
		batchSize:  100,
	}
}

func (j *PaymentTimeoutJob) Start(ctx context.Context) {
	log.Info("[PaymentTimeout] 尾款超时扫描任务启动")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// 启动时先扫一轮，停机期间堆积的超时订单不用等下个周期
	j.processTimeoutOrders(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("[PaymentTimeout] 收到停止信号，任务退出")
			return
		case <-j.stopCh:
			log.Info("[PaymentTimeout] 任务停止")
			return
		case <-ticker.C:
			j.processTimeoutOrders(ctx)
		}
	}
}

func (j *PaymentTimeoutJob) Stop() {
	close(j.stopCh)
}

func (j *PaymentTimeoutJob) processTimeoutOrders(ctx context.Context) {
	deadline := time.Now().Add(-j.cfg.Auction.PaymentDeadline())
	orders, err := j.orderRepo.FindTimeoutOrders(ctx, deadline, j.batchSize)
	if err != nil {
		log.Errorf("[PaymentTimeout] 查询超时订单失败: %v", err)
		return
	}

	if len(orders) == 0 {
		return
	}

	log.Infof("[PaymentTimeout] 发现 %d 个超时订单", len(orders))

	processed := 0
	for _, order := range orders {
		if err := j.paymentSvc.ProcessTimeout(ctx, order.AuctionID); err != nil {
			log.Errorf("[PaymentTimeout] 订单超时处理失败: orderNo=%s, err=%v", order.OrderNo, err)
			continue
		}
		processed++
	}

	log.Infof("[PaymentTimeout] 本次处理 %d 个超时订单", processed)
}
