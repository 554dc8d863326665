package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedUniqueIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
		want []int64
	}{
		{"乱序去重", []int64{5, 3, 5, 1, 3}, []int64{1, 3, 5}},
		{"已排序", []int64{1, 2, 3}, []int64{1, 2, 3}},
		{"单个", []int64{7}, []int64{7}},
		{"全部重复", []int64{4, 4, 4}, []int64{4}},
		{"空输入", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := make([]int64, len(tt.in))
			copy(before, tt.in)

			got := sortedUniqueIDs(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)

			// 输入切片不被改动
			assert.Equal(t, before, tt.in)
		})
	}
}
