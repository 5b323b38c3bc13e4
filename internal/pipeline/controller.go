// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline drives one contract through upload, analysis and
// completion. Every run ends in Complete with a result: the remote payload
// when it is usable, the bundled fallback otherwise.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"legallens/internal/analysis"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Analyzer submits a document for analysis.
type Analyzer interface {
	Analyze(ctx context.Context, upload analysis.Upload) (*analysis.Result, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, upload analysis.Upload) (*analysis.Result, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, upload analysis.Upload) (*analysis.Result, error) {
	return f(ctx, upload)
}

type outcome struct {
	result *analysis.Result
	err    error
}

// run is the bookkeeping for one Start. Only the controller that created it
// may mutate state on its behalf, and only while it is still c.run.
type run struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	ticker Ticker

	stop     chan struct{} // closed by Reset
	done     chan struct{} // closed on Complete or Reset
	stopTick sync.Once
	finish   sync.Once
}

func (r *run) stopTicker() {
	r.stopTick.Do(r.ticker.Stop)
}

func (r *run) close() {
	r.finish.Do(func() { close(r.done) })
}

type subscriber struct {
	id int
	fn func(State)
}

// Controller is the analysis pipeline state machine. It is safe for
// concurrent use.
type Controller struct {
	analyzer Analyzer
	opts     Options
	logger   *zap.Logger

	mu    sync.Mutex
	state State
	run   *run

	// snapshot is the last committed state. State reads it without c.mu so
	// subscribers may call State while a transition is being published.
	snapshot atomic.Pointer[State]

	// pubMu keeps notifications in mutation order.
	pubMu     sync.Mutex
	subs      []subscriber
	nextSubID int
}

// New returns an idle controller.
func New(analyzer Analyzer, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		analyzer: analyzer,
		opts:     opts,
		logger:   opts.Logger.Named("pipeline"),
		state:    State{Status: Idle},
	}
	c.snapshot.Store(&State{Status: Idle})
	return c
}

// State returns the current snapshot. It never blocks.
func (c *Controller) State() State {
	return *c.snapshot.Load()
}

// Subscribe registers fn for every subsequent snapshot and returns a func
// that removes it. fn runs synchronously on the goroutine that made the
// transition. It may call State but must not call Start, Reset or Wait.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.nextSubID++
	id := c.nextSubID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.pubMu.Lock()
		defer c.pubMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// commit publishes snap and releases c.mu. The caller must hold c.mu.
// Taking pubMu before dropping c.mu keeps notifications in mutation order.
func (c *Controller) commit(snap State) {
	c.snapshot.Store(&snap)
	c.pubMu.Lock()
	c.mu.Unlock()
	defer c.pubMu.Unlock()
	for _, s := range c.subs {
		s.fn(snap)
	}
}

// Start begins a run for upload. A completed run is reset first. Starting
// while a run is uploading or analyzing returns ErrRunInProgress.
func (c *Controller) Start(ctx context.Context, upload analysis.Upload) error {
	c.mu.Lock()
	if c.state.Status.Busy() {
		status := c.state.Status
		c.mu.Unlock()
		return fmt.Errorf("%w: pipeline is %s", ErrRunInProgress, status)
	}
	c.clearSelection()

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		id:     uuid.NewString(),
		ctx:    runCtx,
		cancel: cancel,
		ticker: c.opts.Clock.NewTicker(c.opts.TickInterval),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	c.run = r
	c.state = State{Status: Uploading, RunID: r.id}

	c.logger.Info("Analysis run started",
		zap.String("run_id", r.id),
		zap.String("file_name", upload.FileName),
		zap.Int("bytes", len(upload.Content)))

	go c.loop(r, upload)
	c.commit(c.state)
	return nil
}

// Reset returns the pipeline to Idle from any state. An in-flight run is
// cancelled and its late events are ignored.
func (c *Controller) Reset() {
	c.mu.Lock()
	if r := c.run; r != nil {
		c.run = nil
		r.cancel()
		r.stopTicker()
		close(r.stop)
		r.close()
		c.logger.Debug("Analysis run reset", zap.String("run_id", r.id))
	}
	c.clearSelection()
	c.state = State{Status: Idle}
	c.commit(c.state)
}

// Wait blocks until the current run completes or is reset, and returns the
// snapshot at that point. With no run it returns immediately.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	c.mu.Lock()
	r := c.run
	c.mu.Unlock()

	if r != nil {
		select {
		case <-r.done:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
	return c.State(), nil
}

func (c *Controller) clearSelection() {
	if c.opts.Selection != nil {
		c.opts.Selection.Clear()
	}
}

// loop owns every state transition of r after Start.
func (c *Controller) loop(r *run, upload analysis.Upload) {
	defer r.stopTicker()

	settled := make(chan outcome, 1)
	go func() {
		result, err := c.analyzer.Analyze(r.ctx, upload)
		settled <- outcome{result: result, err: err}
	}()

	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.C():
			c.tick(r)
		case out := <-settled:
			r.stopTicker()
			if !c.settle(r) {
				return
			}
			select {
			case <-r.stop:
				return
			case <-c.opts.Clock.After(c.opts.AnalyzingDelay):
			}
			c.complete(r, out)
			return
		}
	}
}

func (c *Controller) tick(r *run) {
	c.mu.Lock()
	if c.run != r || c.state.Status != Uploading {
		c.mu.Unlock()
		return
	}
	next := min(c.state.Progress+c.opts.increment(), c.opts.Ceiling)
	if next <= c.state.Progress {
		c.mu.Unlock()
		return
	}
	c.state.Progress = next
	c.commit(c.state)
}

func (c *Controller) settle(r *run) bool {
	c.mu.Lock()
	if c.run != r {
		c.mu.Unlock()
		return false
	}
	c.state.Status = Analyzing
	c.state.Progress = 100
	c.commit(c.state)
	return true
}

func (c *Controller) complete(r *run, out outcome) {
	result, err := out.result, out.err
	if err == nil {
		if result == nil {
			err = fmt.Errorf("%w: empty result", analysis.ErrMalformedResponse)
		} else {
			err = result.Validate()
		}
	}
	fellBack := err != nil
	if fellBack {
		c.logger.Warn("Remote analysis unusable, using bundled result",
			zap.String("run_id", r.id),
			zap.Error(err))
		result = analysis.Fallback()
	}

	c.mu.Lock()
	if c.run != r {
		c.mu.Unlock()
		return
	}
	c.run = nil
	r.cancel()
	c.state = State{
		Status:   Complete,
		Progress: 100,
		Result:   result,
		Err:      err,
		FellBack: fellBack,
		RunID:    r.id,
	}
	r.close()
	c.logger.Info("Analysis run complete",
		zap.String("run_id", r.id),
		zap.Bool("fell_back", fellBack),
		zap.Int("risks", len(result.Risks)),
		zap.Duration("analyzing_delay", c.opts.AnalyzingDelay.Round(time.Millisecond)))
	c.commit(c.state)
}
