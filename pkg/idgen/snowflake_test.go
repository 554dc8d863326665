package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextIDUnique(t *testing.T) {
	Init(1)

	const goroutines = 10
	const perGoroutine = 1000

	var mu sync.Mutex
	seen := make(map[int64]bool, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int64, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				ids = append(ids, NextID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				assert.False(t, seen[id], "发现重复ID: %d", id)
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestBusinessNoPrefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateOrderNo(), "AUC"))
	assert.True(t, strings.HasPrefix(GenerateTransactionNo(), "TXN"))
	assert.True(t, strings.HasPrefix(GenerateSettlementNo(), "STL"))
}

func TestBusinessNoLength(t *testing.T) {
	// 前缀3 + 时间戳14 + 序列8
	assert.Len(t, GenerateOrderNo(), 25)
	assert.Len(t, GenerateTransactionNo(), 25)
	assert.Len(t, GenerateSettlementNo(), 25)
}
