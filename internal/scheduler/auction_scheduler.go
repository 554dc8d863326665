package scheduler

import (
	"context"
	"sync"
	"time"

	"auctionhouse/internal/model"

	log "github.com/sirupsen/logrus"
)

// Settler 结算入口，定时器到点后回调
type Settler interface {
	SettleOne(ctx context.Context, auctionID int64) error
}

// AuctionLister 恢复扫描的数据来源
type AuctionLister interface {
	FindInProgress(ctx context.Context, afterID int64, limit int) ([]*model.Auction, error)
}

// AuctionScheduler 进程内结算定时器
// 每场进行中的拍卖持有一个定时器，到点触发结算；
// 防狙击延长时重新预约（先取消旧的再建新的）。
// 定时器只是低延迟的快路径，丢了也没关系：兜底扫描会补结算
type AuctionScheduler struct {
	settler Settler

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

func NewAuctionScheduler(settler Settler) *AuctionScheduler {
	return &AuctionScheduler{
		settler: settler,
		timers:  make(map[int64]*time.Timer),
	}
}

// ScheduleSettlement 预约结算
// 已有定时器先取消再替换；结束时间已过则当场结算
func (s *AuctionScheduler) ScheduleSettlement(auctionID int64, endTime time.Time) {
	s.mu.Lock()

	if old, ok := s.timers[auctionID]; ok {
		old.Stop()
		delete(s.timers, auctionID)
	}

	delay := time.Until(endTime)
	if delay <= 0 {
		s.mu.Unlock()
		s.fire(auctionID)
		return
	}

	s.timers[auctionID] = time.AfterFunc(delay, func() {
		s.fire(auctionID)
	})
	s.mu.Unlock()

	log.Debugf("拍卖 %d 结算已预约: %s", auctionID, endTime.Format(time.RFC3339))
}

// CancelSchedule 取消预约（撤拍时调用）
func (s *AuctionScheduler) CancelSchedule(auctionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[auctionID]; ok {
		timer.Stop()
		delete(s.timers, auctionID)
	}
}

func (s *AuctionScheduler) fire(auctionID int64) {
	s.mu.Lock()
	delete(s.timers, auctionID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 失败不重试，兜底扫描会再碰到这场拍卖
	if err := s.settler.SettleOne(ctx, auctionID); err != nil {
		log.Errorf("拍卖 %d 定时结算失败: %v", auctionID, err)
	}
}

// Recover 进程重启后恢复定时器
// 按 id 游标翻页把所有进行中的拍卖重新挂上定时器，
// 已过期的当场结算，进行中的数量不受单批大小限制
func (s *AuctionScheduler) Recover(ctx context.Context, lister AuctionLister, batchSize int) {
	var afterID int64
	total := 0

	for {
		auctions, err := lister.FindInProgress(ctx, afterID, batchSize)
		if err != nil {
			log.Errorf("恢复结算定时器失败: %v", err)
			return
		}
		if len(auctions) == 0 {
			break
		}

		for _, auction := range auctions {
			s.ScheduleSettlement(auction.ID, auction.EndTime)
		}
		total += len(auctions)
		afterID = auctions[len(auctions)-1].ID

		if len(auctions) < batchSize {
			break
		}
	}

	if total > 0 {
		log.Infof("结算定时器恢复完成: %d 场", total)
	}
}

// Stop 停掉所有定时器（优雅停机用）
func (s *AuctionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
