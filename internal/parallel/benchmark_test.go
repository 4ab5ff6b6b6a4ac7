package parallel

import (
	"math"
	"strconv"
	"testing"
)

// =============================================================================
// Component Benchmarks - WorkerPool
// =============================================================================

// BenchmarkWorkerPool_Create benchmarks creating and closing a worker pool.
func BenchmarkWorkerPool_Create(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		pool := NewWorkerPool(4)
		pool.Close()
	}
}

// BenchmarkWorkerPool_ExecuteAll benchmarks dispatching one batch per worker.
func BenchmarkWorkerPool_ExecuteAll(b *testing.B) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	work := make([]func(), pool.Workers())
	for i := range work {
		work[i] = func() {}
	}

	b.ReportAllocs()
	for b.Loop() {
		pool.ExecuteAll(work)
	}
}

// =============================================================================
// Component Benchmarks - RowExecutor
// =============================================================================

// BenchmarkForRows_HD benchmarks a cheap per-pixel function over an HD frame
// for several pool sizes.
func BenchmarkForRows_HD(b *testing.B) {
	const width, height = 1920, 1080
	buf := make([]float32, width*height)

	for _, workers := range []int{1, 2, 4, 8} {
		b.Run("workers="+strconv.Itoa(workers), func(b *testing.B) {
			ex := NewRowExecutor(workers)
			defer ex.Close()

			b.ReportAllocs()
			for b.Loop() {
				ex.ForRows(height, func(y int) {
					row := buf[y*width : (y+1)*width]
					for x := range row {
						row[x] = float32(math.Sin(float64(x * y)))
					}
				})
			}
		})
	}
}
