package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ============================================================================
// 分布式锁
// ============================================================================
//
// 拍卖行内同一场拍卖的出价靠数据库行锁串行化；这里的 Redis 锁只用来
// 拦截交互式资金操作（尾款支付、充值）的重复提交：
//
//   加锁：SET key value NX EX timeout
//     - NX: 只有 key 不存在时才设置（保证互斥）
//     - EX: 设置过期时间（防止死锁）
//     - value: 锁持有者标识（释放时验证，防止误删别人的锁）
//
//   释放锁：Lua 脚本保证"检查+删除"原子执行
//
// ============================================================================

var (
	ErrLockFailed  = errors.New("获取分布式锁失败")
	ErrLockExpired = errors.New("锁已过期")
)

// DistributedLock 分布式锁
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

// NewDistributedLock 创建分布式锁
func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock 尝试获取锁（非阻塞）
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock 阻塞式获取锁（带重试）
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock 释放锁
// value 不匹配时不删除，避免删掉别人持有的锁
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewPaymentLock 尾款支付锁（按拍卖+买家维度）
// 同一买家对同一场拍卖的并发付款请求互斥，不同拍卖互不影响
func NewPaymentLock(client *redis.Client, auctionID, payerID int64) *DistributedLock {
	key := fmt.Sprintf("auction:pay:lock:%d:%d", auctionID, payerID)
	value := fmt.Sprintf("%d", time.Now().UnixNano())
	return NewDistributedLock(client, key, value, 30*time.Second)
}

// NewTopupLock 充值锁（按会员维度）
func NewTopupLock(client *redis.Client, memberID int64) *DistributedLock {
	key := fmt.Sprintf("wallet:topup:lock:%d", memberID)
	value := fmt.Sprintf("%d", time.Now().UnixNano())
	return NewDistributedLock(client, key, value, 30*time.Second)
}
