package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"auctionhouse/internal/model"

	"github.com/stretchr/testify/assert"
)

type fakeSettler struct {
	mu    sync.Mutex
	calls []int64
	fired chan int64
}

func newFakeSettler() *fakeSettler {
	return &fakeSettler{fired: make(chan int64, 16)}
}

func (f *fakeSettler) SettleOne(ctx context.Context, auctionID int64) error {
	f.mu.Lock()
	f.calls = append(f.calls, auctionID)
	f.mu.Unlock()
	f.fired <- auctionID
	return nil
}

func (f *fakeSettler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func waitFired(t *testing.T, f *fakeSettler, timeout time.Duration) int64 {
	t.Helper()
	select {
	case id := <-f.fired:
		return id
	case <-time.After(timeout):
		t.Fatal("结算回调未触发")
		return 0
	}
}

func TestScheduleSettlementFires(t *testing.T) {
	settler := newFakeSettler()
	s := NewAuctionScheduler(settler)
	defer s.Stop()

	s.ScheduleSettlement(1, time.Now().Add(30*time.Millisecond))

	assert.Equal(t, int64(1), waitFired(t, settler, time.Second))
}

func TestScheduleSettlementPastDueFiresImmediately(t *testing.T) {
	settler := newFakeSettler()
	s := NewAuctionScheduler(settler)
	defer s.Stop()

	s.ScheduleSettlement(2, time.Now().Add(-time.Minute))

	assert.Equal(t, int64(2), waitFired(t, settler, time.Second))
}

func TestCancelSchedule(t *testing.T) {
	settler := newFakeSettler()
	s := NewAuctionScheduler(settler)
	defer s.Stop()

	s.ScheduleSettlement(3, time.Now().Add(50*time.Millisecond))
	s.CancelSchedule(3)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, settler.callCount())
}

func TestRescheduleReplacesTimer(t *testing.T) {
	settler := newFakeSettler()
	s := NewAuctionScheduler(settler)
	defer s.Stop()

	// 防狙击延长：旧定时器被替换，只有新时间点触发一次
	s.ScheduleSettlement(4, time.Now().Add(40*time.Millisecond))
	s.ScheduleSettlement(4, time.Now().Add(120*time.Millisecond))

	waitFired(t, settler, time.Second)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, settler.callCount())
}

type fakeLister struct {
	auctions []*model.Auction
}

func (f *fakeLister) FindInProgress(ctx context.Context, afterID int64, limit int) ([]*model.Auction, error) {
	var out []*model.Auction
	for _, a := range f.auctions {
		if a.ID > afterID {
			out = append(out, a)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func TestRecoverPagesThroughAllInProgress(t *testing.T) {
	settler := newFakeSettler()
	s := NewAuctionScheduler(settler)
	defer s.Stop()

	// 进行中的拍卖数量超过单批大小，游标翻页一场不漏
	lister := &fakeLister{}
	for i := int64(1); i <= 5; i++ {
		lister.auctions = append(lister.auctions, &model.Auction{
			ID:      i,
			Status:  model.AuctionStatusInProgress,
			EndTime: time.Now().Add(-time.Minute),
		})
	}

	s.Recover(context.Background(), lister, 2)

	assert.Equal(t, 5, settler.callCount())
	seen := make(map[int64]bool)
	for _, id := range settler.calls {
		seen[id] = true
	}
	assert.Len(t, seen, 5)
}

func TestStopCancelsAllTimers(t *testing.T) {
	settler := newFakeSettler()
	s := NewAuctionScheduler(settler)

	s.ScheduleSettlement(5, time.Now().Add(50*time.Millisecond))
	s.ScheduleSettlement(6, time.Now().Add(50*time.Millisecond))
	s.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, settler.callCount())
}
