package goom

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/glk1001/visualization.goom--sub005/coords"
	"github.com/glk1001/visualization.goom--sub005/effects"
)

// Coordinator accepts filter-effect settings and screen-size changes from
// any goroutine and commits them to its Producer only at the safe point,
// when the consumer has copied the last buffer.
//
// Start, Update, CopyTransformBuffer and Shutdown must be called from a
// single goroutine, normally the render loop.
type Coordinator struct {
	producer *Producer
	zoom     *effects.ZoomVector
	clock    func() time.Time
	minStep  float32

	mu            sync.Mutex
	pending       bool
	staged        effects.Settings
	resizePending bool
	stagedSize    image.Point

	started   bool
	stopped   bool
	stats     Stats
	lastPass  uint64
	lastReset time.Time
	active    effects.Settings
}

// NewCoordinator creates a coordinator for a width x height screen, with an
// effects.ZoomVector as its zoom point function and DefaultSettings staged
// with the midpoint at the screen centre. It also installs the process-wide
// coordinate converter.
func NewCoordinator(width, height int, opts ...Option) (*Coordinator, error) {
	o := applyOptions(opts)

	if err := coords.SetScreenDimensions(width, height, o.minStep); err != nil {
		return nil, fmt.Errorf("goom: coordinator: %w", err)
	}

	zoom := effects.NewZoomVector(o.rng)
	producer, err := NewProducer(width, height, zoom, opts...)
	if err != nil {
		return nil, err
	}
	zoom.SetConverter(producer.Converter())

	staged := effects.DefaultSettings()
	staged.ZoomMidpoint = image.Pt(width/2, height/2)

	return &Coordinator{
		producer: producer,
		zoom:     zoom,
		clock:    o.clock,
		minStep:  o.minStep,
		pending:  true,
		staged:   staged,
	}, nil
}

// Producer returns the underlying producer.
func (c *Coordinator) Producer() *Producer { return c.producer }

// SetFilterEffectsSettings stages s. It is applied at the next safe point.
// Staging again before then replaces the earlier settings. Safe for
// concurrent use.
func (c *Coordinator) SetFilterEffectsSettings(s effects.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.staged = s
	c.pending = true
}

// HasPendingChange reports whether settings or a resize are staged.
func (c *Coordinator) HasPendingChange() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending || c.resizePending
}

// SetScreenDimensions stages a resize. The buffer and converters are
// recreated at the next safe point. Safe for concurrent use.
func (c *Coordinator) SetScreenDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stagedSize = image.Pt(width, height)
	c.resizePending = true
	return nil
}

// Start commits the staged settings and starts the first pass. It must be
// called once, before Update.
func (c *Coordinator) Start() error {
	if c.started || c.stopped {
		violate("Coordinator.Start", c.producer.State(), "already started")
	}

	if err := c.commit(); err != nil {
		return err
	}
	c.started = true
	c.lastReset = c.clock()
	c.producer.Start()

	componentLogger("coordinator").Info("started", "primary", c.active.Primary)

	return nil
}

// Update is called once per frame. When the consumer has copied the last
// buffer it records the pass and, if a change is pending, commits it and
// starts the next pass. Without a pending change the producer stays in
// HasBeenCopied and the consumer keeps using the copy it has.
func (c *Coordinator) Update() error {
	if c.stopped {
		componentLogger("coordinator").Warn("Update called after Shutdown")
		return nil
	}
	if !c.started {
		violate("Coordinator.Update", c.producer.State(), "Start not called")
	}

	if c.producer.State() != HasBeenCopied {
		return nil
	}

	c.recordPass()

	if !c.HasPendingChange() {
		return nil
	}

	if err := c.commit(); err != nil {
		return err
	}

	now := c.clock()
	c.stats.recordReset(now.Sub(c.lastReset))
	c.lastReset = now

	c.producer.ResetToStart()
	c.producer.Start()

	return nil
}

func (c *Coordinator) recordPass() {
	passes, last := c.producer.PassStats()
	if passes == c.lastPass {
		return
	}
	c.lastPass = passes
	c.stats.recordPass(last)
}

// commit applies staged changes. The producer must not be InProgress.
func (c *Coordinator) commit() error {
	c.mu.Lock()
	pending, settings := c.pending, c.staged
	resize, size := c.resizePending, c.stagedSize
	c.pending, c.resizePending = false, false
	c.mu.Unlock()

	log := componentLogger("coordinator")

	if resize {
		if err := c.producer.Resize(size.X, size.Y); err != nil {
			return err
		}
		if err := coords.SetScreenDimensions(size.X, size.Y, c.minStep); err != nil {
			return fmt.Errorf("goom: coordinator: %w", err)
		}
		c.zoom.SetConverter(c.producer.Converter())
	}

	if pending {
		c.zoom.SetSettings(settings)
		c.active = settings
		log.Info("settings committed", "primary", settings.Primary, "midpoint", settings.ZoomMidpoint)
	}

	if pending || resize {
		mid := c.active.ZoomMidpoint
		conv := c.producer.Converter()
		if !conv.Contains(mid) {
			mid = image.Pt(conv.Width()/2, conv.Height()/2)
		}
		c.producer.SetZoomMidpoint(mid)
	}

	return nil
}

// Settings returns the settings most recently committed.
func (c *Coordinator) Settings() effects.Settings {
	return c.active
}

// IsTransformBufferReady reports whether a completed buffer is available.
func (c *Coordinator) IsTransformBufferReady() bool {
	return c.producer.State() == AtEnd
}

// TransformBuffer returns the completed buffer and true if one is ready.
// The buffer must be treated as read-only and is valid until
// CopyTransformBuffer is called.
func (c *Coordinator) TransformBuffer() (*TransformBuffer, bool) {
	if !c.IsTransformBufferReady() {
		return nil, false
	}
	return c.producer.Buffer(), true
}

// CopyTransformBuffer copies a completed buffer into dst and marks it
// copied. It returns false, leaving dst unchanged, if no buffer is ready.
func (c *Coordinator) CopyTransformBuffer(dst *TransformBuffer) bool {
	if !c.IsTransformBufferReady() {
		return false
	}
	c.producer.Buffer().CopyTo(dst)
	c.producer.MarkCopied()
	return true
}

// Stats returns a snapshot of the timing statistics.
func (c *Coordinator) Stats() Stats {
	return c.stats
}

// NameValues returns the coordinator statistics, the producer state and
// the active zoom vector parameters as diagnostics.
func (c *Coordinator) NameValues() []effects.NameValue {
	const group = "Coordinator"

	nv := c.stats.NameValues(group)
	nv = append(nv,
		effects.Pair(group, "state", c.producer.State()),
		effects.Pair(group, "midpoint", c.producer.ZoomMidpoint().String()),
	)

	// Effect parameters change only in commit, on this goroutine.
	return append(nv, c.zoom.NameValueParams("ZoomVector")...)
}

// Shutdown stops the producer and waits for its worker to exit. Later
// calls to Update log a warning and do nothing.
func (c *Coordinator) Shutdown() {
	if c.stopped {
		return
	}
	c.stopped = true

	c.producer.Finish()
	c.producer.Wait()

	componentLogger("coordinator").Info("shutdown",
		"passes", c.stats.Passes, "resets", c.stats.Resets)
}
