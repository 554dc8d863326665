package job

import (
	"context"
	"time"

	"auctionhouse/internal/service"

	log "github.com/sirupsen/logrus"
)

// DistributionJob 结算打款批次任务
// 周期性消费 READY 结算单给卖家入账；一批处理满说明还有积压，立刻再跑一批
type DistributionJob struct {
	distributionSvc *service.DistributionService
	stopCh          chan struct{}
	interval        time.Duration
}

func NewDistributionJob(distributionSvc *service.DistributionService) *DistributionJob {
	return &DistributionJob{
		distributionSvc: distributionSvc,
		stopCh:          make(chan struct{}),
		interval:        time.Minute,
	}
}

func (j *DistributionJob) Start(ctx context.Context) {
	log.Info("[Distribution] 结算打款任务启动")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("[Distribution] 收到停止信号，任务退出")
			return
		case <-j.stopCh:
			log.Info("[Distribution] 任务停止")
			return
		case <-ticker.C:
			j.drain(ctx)
		}
	}
}

func (j *DistributionJob) Stop() {
	close(j.stopCh)
}

func (j *DistributionJob) drain(ctx context.Context) {
	for {
		processed, err := j.distributionSvc.ProcessSettlements(ctx)
		if err != nil {
			log.Errorf("[Distribution] 结算打款批次失败: %v", err)
			return
		}
		if processed == 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
