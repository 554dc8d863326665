package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auctionhouse/internal/config"
	"auctionhouse/internal/handler"
	"auctionhouse/internal/infrastructure/cache"
	"auctionhouse/internal/infrastructure/database"
	"auctionhouse/internal/infrastructure/mq"
	"auctionhouse/internal/job"
	"auctionhouse/internal/repository"
	"auctionhouse/internal/scheduler"
	"auctionhouse/internal/service"
	"auctionhouse/pkg/idgen"

	log "github.com/sirupsen/logrus"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig("config/config.yaml")

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// 初始化 ID 生成器
	idgen.Init(1)

	// 初始化 MySQL
	db := database.InitMySQL(&cfg.MySQL)

	// 初始化 Redis
	redisClient := cache.InitRedis(&cfg.Redis)

	// 初始化 Kafka
	mq.InitKafka(&cfg.Kafka)
	defer mq.CloseKafka()

	// 创建上下文（用于优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 组装服务：结算服务先建，定时器回调它，出价/拍卖服务再依赖定时器
	paymentSvc := service.NewPaymentService(db, redisClient, cfg)
	settlementSvc := service.NewSettlementService(db, cfg, paymentSvc)
	auctionScheduler := scheduler.NewAuctionScheduler(settlementSvc)
	auctionSvc := service.NewAuctionService(db, cfg, auctionScheduler)
	bidSvc := service.NewBidService(db, cfg, auctionScheduler, paymentSvc)
	walletSvc := service.NewWalletService(db, redisClient, cfg)
	distributionSvc := service.NewDistributionService(db, cfg)

	// 重启后恢复进行中拍卖的结算定时器
	auctionScheduler.Recover(ctx, repository.NewAuctionRepository(db), cfg.Auction.SettleBatchSize)
	defer auctionScheduler.Stop()

	// 启动后台任务
	outboxSender := job.NewOutboxSender(db, cfg)
	go outboxSender.Start(ctx)

	settlementSweep := job.NewSettlementSweepJob(settlementSvc, cfg)
	go settlementSweep.Start(ctx)

	paymentTimeout := job.NewPaymentTimeoutJob(db, paymentSvc, cfg)
	go paymentTimeout.Start(ctx)

	auctionStart := job.NewAuctionStartJob(auctionSvc)
	go auctionStart.Start(ctx)

	distribution := job.NewDistributionJob(distributionSvc)
	go distribution.Start(ctx)

	// 设置路由
	h := handler.NewHandler(auctionSvc, bidSvc, walletSvc, paymentSvc, distributionSvc)
	router := handler.SetupRouter(h)

	// 启动 HTTP 服务
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Infof("服务启动，监听端口: %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务...")

	// 取消上下文，停止后台任务
	cancel()

	// 关闭 HTTP 服务（等待最多5秒）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("服务关闭异常: %v", err)
	}

	log.Info("服务已关闭")
}
