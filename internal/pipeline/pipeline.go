// Package pipeline runs one review exchange at a time and publishes its outcome.
//
// The pipeline moves through Idle -> Submitting -> Success|Failed and back to
// Submitting on the next Submit. The current (state, review) pair lives in a
// single immutable Snapshot swapped with compare-and-set, so a second Submit
// while an exchange is in flight is a no-op no matter which goroutine calls it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tildaslashalef/snapreview/internal/extractor"
	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/review"
	"github.com/tildaslashalef/snapreview/internal/ulid"
)

// Completer sends a request payload to the completion endpoint and returns the raw text
type Completer interface {
	Complete(ctx context.Context, payload review.RequestPayload) (string, error)
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithBaseContext sets the context every exchange runs under. The pipeline
// never cancels it; callers that cancel it abort in-flight exchanges, which
// then settle as Failed.
func WithBaseContext(ctx context.Context) Option {
	return func(p *Pipeline) {
		if ctx != nil {
			p.baseCtx = ctx
		}
	}
}

// Pipeline owns the current review and the state of the exchange producing it
type Pipeline struct {
	completer Completer
	builder   *review.PromptBuilder
	extractor *extractor.Extractor
	logger    *loggy.Logger
	baseCtx   context.Context

	current atomic.Pointer[Snapshot]

	subMu       sync.Mutex
	subscribers map[uint64]chan Snapshot
	nextSubID   uint64
}

// New creates an idle pipeline
func New(completer Completer, builder *review.PromptBuilder, ext *extractor.Extractor, logger *loggy.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = loggy.GetGlobalLogger()
	}
	p := &Pipeline{
		completer:   completer,
		builder:     builder,
		extractor:   ext,
		logger:      logger.With("component", "pipeline"),
		baseCtx:     context.Background(),
		subscribers: make(map[uint64]chan Snapshot),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.current.Store(&Snapshot{State: StateIdle})
	return p
}

// State returns the current lifecycle state
func (p *Pipeline) State() State {
	return p.current.Load().State
}

// Review returns the published review, nil while Idle or Submitting
func (p *Pipeline) Review() *review.Review {
	return p.current.Load().Review
}

// Snapshot returns the current state and review as one consistent pair
func (p *Pipeline) Snapshot() Snapshot {
	return *p.current.Load()
}

// Submit starts a review of sourceCode tagged with languageTag and returns
// immediately. It does nothing when sourceCode is blank or an exchange is
// already in flight. Entering Submitting clears the published review.
func (p *Pipeline) Submit(sourceCode, languageTag string) {
	if strings.TrimSpace(sourceCode) == "" {
		p.logger.Debug("Ignoring submit of blank source")
		return
	}

	var submitting *Snapshot
	for {
		cur := p.current.Load()
		if cur.State == StateSubmitting {
			p.logger.Debug("Ignoring submit while an exchange is in flight", "cycle_id", cur.Cycle)
			return
		}
		next := &Snapshot{State: StateSubmitting, Cycle: ulid.CycleID()}
		if p.current.CompareAndSwap(cur, next) {
			submitting = next
			break
		}
	}

	p.logger.Info("Review cycle started",
		"cycle_id", submitting.Cycle,
		"language", languageTag,
		"source_length", len(sourceCode))
	p.publish()

	go p.run(submitting, sourceCode, languageTag)
}

// run performs the exchange for one cycle and settles it exactly once
func (p *Pipeline) run(submitting *Snapshot, sourceCode, languageTag string) {
	ctx := loggy.WithCycleID(loggy.WithLogger(p.baseCtx, p.logger), submitting.Cycle)
	state, result := p.exchange(ctx, sourceCode, languageTag)

	settled := &Snapshot{State: state, Review: result, Cycle: submitting.Cycle}
	if !p.current.CompareAndSwap(submitting, settled) {
		// Only the goroutine of the in-flight cycle moves the pipeline out of Submitting
		loggy.FromContext(ctx).Error("Review cycle settled out of order", "state", p.State())
		return
	}
	p.publish()
}

// exchange builds the request, calls the endpoint and extracts the review.
// Every failure, including a panic, becomes Failed with the pipeline-error review.
func (p *Pipeline) exchange(ctx context.Context, sourceCode, languageTag string) (state State, result *review.Review) {
	logger := loggy.FromContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			logger.WithError(fmt.Errorf("panic: %v", rec)).Error("Review exchange panicked")
			state, result = StateFailed, review.NewPipelineErrorReview()
		}
	}()

	payload, err := p.builder.Build(sourceCode, languageTag)
	if err != nil {
		logger.WithError(err).Error("Failed to build review request")
		return StateFailed, review.NewPipelineErrorReview()
	}

	text, err := p.completer.Complete(ctx, payload)
	if err != nil {
		logger.WithError(err).Warn("Completion request failed")
		return StateFailed, review.NewPipelineErrorReview()
	}

	extracted, err := p.extractor.Extract(text)
	if err != nil {
		var parseErr *extractor.ParseError
		kind := extractor.ParseErrorKind("unknown")
		if errors.As(err, &parseErr) {
			kind = parseErr.Kind
		}
		logger.WithError(err).Warn("Failed to extract review from response",
			"kind", kind,
			"raw_length", len(text))
		return StateFailed, review.NewPipelineErrorReview()
	}

	logger.Info("Review completed",
		"score", extracted.Score.String(),
		"issues", len(extracted.Issues),
		"positives", len(extracted.Positives),
		"suggestions", len(extracted.Suggestions))
	return StateSuccess, extracted
}

// Subscribe returns a channel that receives the current snapshot and then the
// latest snapshot after each transition. Delivery never blocks the pipeline:
// a slow reader only sees the most recent snapshot. The returned func
// unsubscribes and closes the channel.
func (p *Pipeline) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	p.subMu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = ch
	ch <- *p.current.Load()
	p.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subscribers, id)
			close(ch)
			p.subMu.Unlock()
		})
	}
}

// Await blocks until the pipeline is not Submitting and returns that snapshot.
// Cancelling ctx stops the wait only; the exchange carries on.
func (p *Pipeline) Await(ctx context.Context) (Snapshot, error) {
	updates, unsubscribe := p.Subscribe()
	defer unsubscribe()

	for {
		if snap := p.Snapshot(); snap.State != StateSubmitting {
			return snap, nil
		}
		select {
		case <-ctx.Done():
			return p.Snapshot(), ctx.Err()
		case <-updates:
		}
	}
}

// publish offers the current snapshot to every subscriber. Reading the
// snapshot under the lock keeps the last delivered value equal to the latest state.
func (p *Pipeline) publish() {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	snap := *p.current.Load()
	for _, ch := range p.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
