package objbus

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestCache_GetOrBuild 测试缓存命中复用同一实例
func TestCache_GetOrBuild(t *testing.T) {
	c := NewCache[any]()
	builds := 0
	build := func(i *Interface[any]) *Interface[any] {
		builds++
		return i
	}

	a := c.GetOrBuild("com.example.x", build)
	b := c.GetOrBuild("com.example.x", build)
	assert.Same(t, a, b)
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, c.Len())

	other := c.GetOrBuild("com.example.y", build)
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, c.Len())
}

// TestCache_ConcurrentBuild 测试并发首次访问最多构建一次
func TestCache_ConcurrentBuild(t *testing.T) {
	c := NewCache[any]()
	var builds atomic.Int32

	results := make([]*Interface[any], 16)
	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			results[i] = c.GetOrBuild("com.example.shared", func(iface *Interface[any]) *Interface[any] {
				builds.Add(1)
				return iface
			})
			if results[i] == nil {
				return fmt.Errorf("goroutine %d got nil interface", i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), builds.Load())
	for _, r := range results[1:] {
		assert.Same(t, results[0], r)
	}
}
