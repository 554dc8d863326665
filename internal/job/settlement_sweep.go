package job

import (
	"context"
	"time"

	"auctionhouse/internal/config"
	"auctionhouse/internal/service"

	log "github.com/sirupsen/logrus"
)

// SettlementSweepJob 结算兜底扫描
// 定时器是快路径，进程重启或宕机会丢；这里按分钟扫过期未结算的拍卖补结算。
// 定时器和扫描同时触发同一场时靠拍卖状态机幂等，互不干扰
type SettlementSweepJob struct {
	settlementSvc *service.SettlementService
	stopCh        chan struct{}
	interval      time.Duration
}

func NewSettlementSweepJob(settlementSvc *service.SettlementService, cfg *config.Config) *SettlementSweepJob {
	return &SettlementSweepJob{
		settlementSvc: settlementSvc,
		stopCh:        make(chan struct{}),
		interval:      time.Duration(cfg.Auction.SettleSweepSeconds) * time.Second,
	}
}

func (j *SettlementSweepJob) Start(ctx context.Context) {
	log.Info("[SettlementSweep] 结算兜底扫描任务启动")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("[SettlementSweep] 收到停止信号，任务退出")
			return
		case <-j.stopCh:
			log.Info("[SettlementSweep] 任务停止")
			return
		case <-ticker.C:
			j.settlementSvc.SettleExpired(ctx)
		}
	}
}

func (j *SettlementSweepJob) Stop() {
	close(j.stopCh)
}
