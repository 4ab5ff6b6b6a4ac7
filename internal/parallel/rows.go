package parallel

import (
	"errors"
	"sync/atomic"
)

// ErrReentrant is the panic value raised when ForRows is called on an
// executor that is already running a ForRows call.
var ErrReentrant = errors.New("parallel: ForRows called while already in use")

// RowRange is a half-open range of rows [Start, End).
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return r.End - r.Start
}

// SplitRows divides [0, numRows) into numChunks contiguous ranges of equal
// size. Rows that do not divide evenly go to the last range.
// numChunks is clamped to [1, numRows]. It returns nil if numRows <= 0.
func SplitRows(numRows, numChunks int) []RowRange {
	if numRows <= 0 {
		return nil
	}
	numChunks = min(max(numChunks, 1), numRows)

	chunkSize := numRows / numChunks
	leftover := numRows - numChunks*chunkSize

	ranges := make([]RowRange, numChunks)
	for i := range numChunks {
		start := i * chunkSize
		end := start + chunkSize
		if i == numChunks-1 {
			end += leftover
		}
		ranges[i] = RowRange{Start: start, End: end}
	}
	return ranges
}

// RowExecutor runs a per-row function over a row range using a fixed pool
// of workers, one contiguous chunk of rows per worker, and returns only
// after every row has been processed.
//
// A RowExecutor is owned by a single caller: ForRows must not be entered
// again, from the same or another goroutine, before the previous call has
// returned. Doing so panics with ErrReentrant.
type RowExecutor struct {
	pool  *WorkerPool
	inUse atomic.Bool
}

// NewRowExecutor creates an executor backed by a pool of the given size.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewRowExecutor(workers int) *RowExecutor {
	return &RowExecutor{pool: NewWorkerPool(workers)}
}

// Workers returns the number of pool workers.
func (e *RowExecutor) Workers() int {
	return e.pool.Workers()
}

// ForRows calls rowFunc(y) exactly once for every y in [0, numRows).
//
// With a single worker, or fewer rows than workers, the rows run in order
// on the calling goroutine. Otherwise each worker gets one chunk from
// SplitRows and rows within a chunk run in ascending order.
func (e *RowExecutor) ForRows(numRows int, rowFunc func(y int)) {
	if !e.inUse.CompareAndSwap(false, true) {
		panic(ErrReentrant)
	}
	defer e.inUse.Store(false)

	if numRows <= 0 {
		return
	}

	workers := e.pool.Workers()
	if workers == 1 || numRows < workers {
		for y := range numRows {
			rowFunc(y)
		}
		return
	}

	chunks := SplitRows(numRows, workers)
	work := make([]func(), len(chunks))
	for i, r := range chunks {
		work[i] = func() {
			for y := r.Start; y < r.End; y++ {
				rowFunc(y)
			}
		}
	}

	e.pool.ExecuteAll(work)
}

// Close releases the worker goroutines. ForRows keeps working after Close
// but runs sequentially on the calling goroutine.
func (e *RowExecutor) Close() {
	e.pool.Close()
}
