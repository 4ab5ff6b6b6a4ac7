package goom

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/glk1001/visualization.goom--sub005/coords"
	"github.com/glk1001/visualization.goom--sub005/internal/parallel"
)

// ZoomPointFunction maps a coordinate, relative to the zoom midpoint, to a
// displacement. GetDisplacement is called concurrently from the row
// workers and must not mutate shared state.
type ZoomPointFunction interface {
	GetDisplacement(c coords.NormalizedCoords) coords.NormalizedCoords
}

// ZoomPointFunc adapts an ordinary function to ZoomPointFunction.
type ZoomPointFunc func(c coords.NormalizedCoords) coords.NormalizedCoords

// GetDisplacement calls f(c).
func (f ZoomPointFunc) GetDisplacement(c coords.NormalizedCoords) coords.NormalizedCoords {
	return f(c)
}

// passObserver is implemented by zoom functions that need to know when a
// pass starts and ends. effects.ZoomVector uses it to reject settings
// changes during a pass.
type passObserver interface {
	BeginPass()
	EndPass()
}

// Producer owns a transform buffer and a worker goroutine that fills it.
//
// The state machine cycles AtStart -> InProgress -> AtEnd -> HasBeenCopied
// -> AtStart. Start, MarkCopied and ResetToStart drive it; calling them from
// any other state panics with a *ContractError. The mutex guards the state
// only. The buffer, converter, midpoint and zoom function are owned by the
// worker while InProgress and by the caller otherwise.
type Producer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	state    BufferState
	shutdown bool
	passes   uint64
	lastPass time.Duration

	done chan struct{}

	conv     *coords.Converter
	buffer   *TransformBuffer
	midpoint image.Point
	zoom     ZoomPointFunction
	rows     *parallel.RowExecutor
	clock    func() time.Time
	minStep  float32
}

// NewProducer creates a producer for a width x height screen and starts its
// worker goroutine. The midpoint defaults to the screen centre. Call Finish
// and then Wait to stop it.
func NewProducer(width, height int, zoom ZoomPointFunction, opts ...Option) (*Producer, error) {
	if zoom == nil {
		return nil, ErrNilZoomFunction
	}

	o := applyOptions(opts)

	p := &Producer{
		done:    make(chan struct{}),
		zoom:    zoom,
		clock:   o.clock,
		minStep: o.minStep,
	}
	p.cond = sync.NewCond(&p.mu)

	if err := p.allocate(width, height); err != nil {
		return nil, err
	}
	p.midpoint = image.Pt(width/2, height/2)
	p.rows = parallel.NewRowExecutor(o.workers)

	go p.run()

	componentLogger("producer").Debug("producer started",
		"width", width, "height", height, "workers", p.rows.Workers())

	return p, nil
}

func (p *Producer) allocate(width, height int) error {
	conv, err := coords.NewConverter(width, height, p.minStep)
	if err != nil {
		return fmt.Errorf("goom: producer: %w", err)
	}
	buf, err := NewTransformBuffer(width, height)
	if err != nil {
		return fmt.Errorf("goom: producer: %w", err)
	}
	p.conv, p.buffer = conv, buf
	return nil
}

// =============================================================================
// Worker
// =============================================================================

func (p *Producer) run() {
	defer close(p.done)

	log := componentLogger("producer")

	for {
		p.mu.Lock()
		for !p.shutdown && p.state != InProgress {
			p.cond.Wait()
		}
		if p.shutdown {
			p.mu.Unlock()
			log.Debug("worker exiting")
			return
		}
		p.mu.Unlock()

		start := p.clock()
		p.fill()
		elapsed := p.clock().Sub(start)

		p.mu.Lock()
		// Finish may have forced AtStart while the pass was running.
		if !p.shutdown && p.state == InProgress {
			p.state = AtEnd
			p.passes++
			p.lastPass = elapsed
		}
		p.cond.Broadcast()
		p.mu.Unlock()

		log.Debug("pass complete", "elapsed", elapsed)
	}
}

// fill computes every cell of the buffer. For each row the centred
// coordinate of column 0 is computed once and then advanced one column at a
// time; each cell stores midpoint + centred coordinate + displacement.
func (p *Producer) fill() {
	if obs, ok := p.zoom.(passObserver); ok {
		obs.BeginPass()
		defer obs.EndPass()
	}

	conv, buf, zoom := p.conv, p.buffer, p.zoom
	mid := conv.ToNormalized(p.midpoint)

	p.rows.ForRows(buf.Height(), func(y int) {
		row := buf.Row(y)
		c := conv.ToNormalized(image.Pt(0, y)).Sub(mid)
		for x := range row {
			row[x] = mid.Add(c).Add(zoom.GetDisplacement(c))
			c = conv.IncX(c)
		}
	})
}

// =============================================================================
// State transitions
// =============================================================================

// Start requests a pass. It is legal only from AtStart.
func (p *Producer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		violate("Start", p.state, "producer is finished")
	}
	if p.state != AtStart {
		violate("Start", p.state, "want AT_START")
	}
	p.state = InProgress
	p.cond.Broadcast()
}

// MarkCopied records that the consumer has taken the buffer. It is legal
// only from AtEnd.
func (p *Producer) MarkCopied() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != AtEnd {
		violate("MarkCopied", p.state, "want AT_END")
	}
	p.state = HasBeenCopied
	p.cond.Broadcast()
}

// ResetToStart returns the producer to AtStart. It is legal from
// HasBeenCopied, and from any state once Finish has been called.
func (p *Producer) ResetToStart() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.shutdown && p.state != HasBeenCopied {
		violate("ResetToStart", p.state, "want HAS_BEEN_COPIED")
	}
	p.state = AtStart
	p.cond.Broadcast()
}

// Finish tells the worker to exit and forces the state to AtStart. A pass
// that is already running completes first. Finish is idempotent.
func (p *Producer) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.shutdown = true
	p.state = AtStart
	p.cond.Broadcast()
}

// Wait blocks until the worker goroutine has exited and then releases the
// row workers. It must be called after Finish.
func (p *Producer) Wait() {
	<-p.done
	p.rows.Close()
}

// Done returns a channel that is closed when the worker goroutine exits.
func (p *Producer) Done() <-chan struct{} {
	return p.done
}

// State returns the current state.
func (p *Producer) State() BufferState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// WaitForPass blocks while a pass is in progress. It returns the state
// observed afterwards, or ctx's error if ctx ends first.
func (p *Producer) WaitForPass(ctx context.Context) (BufferState, error) {
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.cond.Broadcast()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	for p.state == InProgress && !p.shutdown {
		if err := ctx.Err(); err != nil {
			return p.state, err
		}
		p.cond.Wait()
	}
	return p.state, nil
}

// PassStats returns the number of completed passes and the duration of the
// most recent one.
func (p *Producer) PassStats() (passes uint64, last time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.passes, p.lastPass
}

// =============================================================================
// Configuration (caller-owned outside a pass)
// =============================================================================

// requireIdle panics unless the caller currently owns the configuration.
// p.mu must be held.
func (p *Producer) requireIdle(op string) {
	if p.shutdown {
		violate(op, p.state, "producer is finished")
	}
	if p.state == InProgress {
		violate(op, p.state, "pass in progress")
	}
}

// SetZoomMidpoint sets the screen pixel the warp is centred on. It panics
// while a pass is in progress.
func (p *Producer) SetZoomMidpoint(pt image.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requireIdle("SetZoomMidpoint")
	p.midpoint = pt
}

// ZoomMidpoint returns the current midpoint.
func (p *Producer) ZoomMidpoint() image.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.midpoint
}

// SetZoomFunction replaces the zoom point function. It panics while a pass
// is in progress.
func (p *Producer) SetZoomFunction(zoom ZoomPointFunction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requireIdle("SetZoomFunction")
	if zoom == nil {
		violate("SetZoomFunction", p.state, "nil zoom point function")
	}
	p.zoom = zoom
}

// Resize recreates the buffer and converter for a width x height screen.
// A midpoint that falls outside the new screen is moved to its centre. It
// panics while a pass is in progress.
func (p *Producer) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requireIdle("Resize")
	if err := p.allocate(width, height); err != nil {
		return err
	}
	if !p.conv.Contains(p.midpoint) {
		p.midpoint = image.Pt(width/2, height/2)
	}

	componentLogger("producer").Info("resized", "width", width, "height", height)

	return nil
}

// Converter returns the coordinate converter for the current dimensions.
func (p *Producer) Converter() *coords.Converter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conv
}

// Buffer returns the transform buffer. Its contents are complete only in
// AtEnd and are stable until the next Start.
func (p *Producer) Buffer() *TransformBuffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer
}
