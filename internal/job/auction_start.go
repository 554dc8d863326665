package job

import (
	"context"
	"time"

	"auctionhouse/internal/service"

	log "github.com/sirupsen/logrus"
)

// AuctionStartJob 开拍扫描
// 把到达开始时间的待开始拍卖推进到进行中并挂上结算定时器
type AuctionStartJob struct {
	auctionSvc *service.AuctionService
	stopCh     chan struct{}
	interval   time.Duration
}

func NewAuctionStartJob(auctionSvc *service.AuctionService) *AuctionStartJob {
	return &AuctionStartJob{
		auctionSvc: auctionSvc,
		stopCh:     make(chan struct{}),
		interval:   10 * time.Second,
	}
}

func (j *AuctionStartJob) Start(ctx context.Context) {
	log.Info("[AuctionStart] 开拍扫描任务启动")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("[AuctionStart] 收到停止信号，任务退出")
			return
		case <-j.stopCh:
			log.Info("[AuctionStart] 任务停止")
			return
		case <-ticker.C:
			j.auctionSvc.StartDueAuctions(ctx)
		}
	}
}

func (j *AuctionStartJob) Stop() {
	close(j.stopCh)
}
