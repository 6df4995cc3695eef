package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	n := 1000
	seen := make([]int32, n)
	For(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	}, cfg)

	for i, c := range seen {
		assert.Equal(t, int32(1), c, "index %d visited %d times", i, c)
	}
}

func TestFor_Sequential(t *testing.T) {
	var calls int64
	For(100, func(start, end int) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 100, end)
	}, Sequential())

	assert.Equal(t, int64(1), calls)
}

func TestFor_SmallInput(t *testing.T) {
	// Below two chunks the work stays on the calling goroutine.
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}

	var calls int64
	For(cfg.MinChunkSize, func(_, _ int) {
		atomic.AddInt64(&calls, 1)
	}, cfg)
	assert.Equal(t, int64(1), calls)
	assert.Equal(t, 1, Chunks(cfg.MinChunkSize, cfg))
}

func TestFor_Empty(t *testing.T) {
	For(0, func(_, _ int) {
		t.Fatal("f must not be called for n == 0")
	}, DefaultConfig())
	assert.Equal(t, 0, Chunks(0, DefaultConfig()))
}

func TestFor_RangesAreDisjoint(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 10}

	var mu sync.Mutex
	var ranges [][2]int
	For(95, func(start, end int) {
		mu.Lock()
		ranges = append(ranges, [2]int{start, end})
		mu.Unlock()
	}, cfg)

	assert.Len(t, ranges, Chunks(95, cfg))
	total := 0
	for _, r := range ranges {
		assert.Less(t, r[0], r[1])
		total += r[1] - r[0]
	}
	assert.Equal(t, 95, total)
}

func BenchmarkFor(b *testing.B) {
	n := 1 << 20
	data := make([]float64, n)

	b.Run("parallel", func(b *testing.B) {
		cfg := DefaultConfig()
		for i := 0; i < b.N; i++ {
			For(n, func(start, end int) {
				for j := start; j < end; j++ {
					data[j] = float64(j) * 0.5
				}
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfg := Sequential()
		for i := 0; i < b.N; i++ {
			For(n, func(start, end int) {
				for j := start; j < end; j++ {
					data[j] = float64(j) * 0.5
				}
			}, cfg)
		}
	})
}
