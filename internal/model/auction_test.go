package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuction(status string) *Auction {
	now := time.Now()
	return &Auction{
		ID:         1,
		ProductID:  100,
		SellerID:   10,
		StartPrice: 10000,
		TickSize:   1000,
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(time.Hour),
		Status:     status,
	}
}

func TestAuctionStatusTransitions(t *testing.T) {
	t.Run("从待开始到进行中", func(t *testing.T) {
		a := newTestAuction(AuctionStatusScheduled)
		require.NoError(t, a.Start())
		assert.Equal(t, AuctionStatusInProgress, a.Status)
	})

	t.Run("进行中不能再次开拍", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		assert.ErrorIs(t, a.Start(), ErrAuctionNotScheduled)
	})

	t.Run("从进行中到已结束", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		require.NoError(t, a.End())
		assert.Equal(t, AuctionStatusEnded, a.Status)
	})

	t.Run("重复落锤返回已结束错误", func(t *testing.T) {
		a := newTestAuction(AuctionStatusEnded)
		assert.ErrorIs(t, a.End(), ErrAuctionAlreadyEnded)
		assert.Equal(t, AuctionStatusEnded, a.Status)
	})

	t.Run("待开始的拍卖不能落锤", func(t *testing.T) {
		a := newTestAuction(AuctionStatusScheduled)
		assert.ErrorIs(t, a.End(), ErrAuctionNotInProgress)
	})

	t.Run("已结束才能撤拍", func(t *testing.T) {
		a := newTestAuction(AuctionStatusEnded)
		require.NoError(t, a.Withdraw())
		assert.Equal(t, AuctionStatusWithdrawn, a.Status)
	})

	t.Run("进行中不能撤拍", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		assert.ErrorIs(t, a.Withdraw(), ErrAuctionNotEnded)
	})
}

func TestUpdateCurrentPrice(t *testing.T) {
	t.Run("首次出价设置当前价", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		require.NoError(t, a.UpdateCurrentPrice(12000))
		require.NotNil(t, a.CurrentPrice)
		assert.Equal(t, int64(12000), *a.CurrentPrice)
	})

	t.Run("当前价只能上涨", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		require.NoError(t, a.UpdateCurrentPrice(12000))
		assert.ErrorIs(t, a.UpdateCurrentPrice(11000), ErrCurrentPriceRollback)
		assert.Equal(t, int64(12000), *a.CurrentPrice)
	})

	t.Run("等额更新不报错不改值", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		require.NoError(t, a.UpdateCurrentPrice(12000))
		require.NoError(t, a.UpdateCurrentPrice(12000))
		assert.Equal(t, int64(12000), *a.CurrentPrice)
	})
}

func TestNextMinBid(t *testing.T) {
	a := newTestAuction(AuctionStatusInProgress)

	// 无人出价时最低为起拍价
	assert.Equal(t, int64(10000), a.NextMinBid())

	// 有当前价后最低为当前价+加价单位
	require.NoError(t, a.UpdateCurrentPrice(12000))
	assert.Equal(t, int64(13000), a.NextMinBid())
}

func TestExtendEndTimeIfClose(t *testing.T) {
	window := 3 * time.Minute
	increment := 3 * time.Minute

	t.Run("临近结束触发延长", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		a.EndTime = time.Now().Add(2 * time.Minute)
		before := a.EndTime

		extended := a.ExtendEndTimeIfClose(time.Now(), window, increment, 5)

		assert.True(t, extended)
		assert.Equal(t, before.Add(increment), a.EndTime)
		assert.Equal(t, 1, a.ExtensionCount)
	})

	t.Run("距结束尚远不延长", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		a.EndTime = time.Now().Add(30 * time.Minute)
		before := a.EndTime

		extended := a.ExtendEndTimeIfClose(time.Now(), window, increment, 5)

		assert.False(t, extended)
		assert.Equal(t, before, a.EndTime)
		assert.Equal(t, 0, a.ExtensionCount)
	})

	t.Run("达到次数上限后不再延长", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		a.EndTime = time.Now().Add(time.Minute)
		a.ExtensionCount = 5
		before := a.EndTime

		extended := a.ExtendEndTimeIfClose(time.Now(), window, increment, 5)

		assert.False(t, extended)
		assert.Equal(t, before, a.EndTime)
		assert.Equal(t, 5, a.ExtensionCount)
	})

	t.Run("连续延长累计次数", func(t *testing.T) {
		a := newTestAuction(AuctionStatusInProgress)
		a.EndTime = time.Now().Add(time.Minute)

		for i := 0; i < 5; i++ {
			now := a.EndTime.Add(-time.Minute)
			assert.True(t, a.ExtendEndTimeIfClose(now, window, increment, 5))
		}
		assert.Equal(t, 5, a.ExtensionCount)

		now := a.EndTime.Add(-time.Minute)
		assert.False(t, a.ExtendEndTimeIfClose(now, window, increment, 5))
	})
}

func TestBiddingWindow(t *testing.T) {
	a := newTestAuction(AuctionStatusInProgress)

	assert.True(t, a.InBiddingWindow(time.Now()))
	assert.False(t, a.InBiddingWindow(a.StartTime.Add(-time.Second)))
	assert.False(t, a.InBiddingWindow(a.EndTime.Add(time.Second)))

	assert.False(t, a.IsExpired(a.EndTime.Add(-time.Second)))
	assert.True(t, a.IsExpired(a.EndTime.Add(time.Second)))
}
