package strategy

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/graham/internal/execution"
	"github.com/wonny/graham/pkg/logger"
)

// Event types published by the host
const (
	EventInitialized      = "initialized"
	EventSelectionUpdated = "selection_updated"
	EventRebalanced       = "rebalanced"
	EventError            = "error"
)

// Event is one hook outcome
type Event struct {
	Type string      `json:"type"`
	Hook string      `json:"hook"`
	Time time.Time   `json:"time"`
	Data interface{} `json:"data,omitempty"`
}

// EventSink receives hook outcomes
type EventSink interface {
	Publish(event Event)
}

// Host owns the State across hook invocations. Hooks are serialized;
// readers get copies.
type Host struct {
	mu         sync.Mutex
	strategy   *Strategy
	state      *State
	lastResult *execution.Result
	sinks      []EventSink
	logger     *logger.Logger
	now        func() time.Time
}

// NewHost creates a host around s
func NewHost(s *Strategy, log *logger.Logger, sinks ...EventSink) *Host {
	return &Host{
		strategy: s,
		sinks:    sinks,
		logger:   log,
		now:      time.Now,
	}
}

// Initialize runs the initialize hook, optionally followed by one selection pass
func (h *Host) Initialize(ctx context.Context, screen bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = h.strategy.Initialize(ctx)
	h.publish(Event{Type: EventInitialized, Hook: "initialize", Data: h.state.Clone()})

	if !screen {
		return nil
	}
	return h.beforeTradingStart(ctx)
}

// BeforeTradingStart runs the daily selection hook
func (h *Host) BeforeTradingStart(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		h.state = h.strategy.Initialize(ctx)
	}
	return h.beforeTradingStart(ctx)
}

func (h *Host) beforeTradingStart(ctx context.Context) error {
	if err := h.strategy.BeforeTradingStart(ctx, h.state); err != nil {
		h.publishError("before_trading_start", err)
		return err
	}

	h.publish(Event{Type: EventSelectionUpdated, Hook: "before_trading_start", Data: h.state.Clone()})
	return nil
}

// HandleData runs the bar hook
func (h *Host) HandleData(ctx context.Context, bar Bar) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		h.state = h.strategy.Initialize(ctx)
	}

	result, err := h.strategy.HandleData(ctx, h.state, bar)
	if err != nil {
		h.publishError("handle_data", err)
		return err
	}

	if result.Skipped {
		return nil
	}

	h.lastResult = result
	h.publish(Event{Type: EventRebalanced, Hook: "handle_data", Data: result})
	return nil
}

// State returns a copy of the current state, nil before Initialize
func (h *Host) State() *State {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		return nil
	}
	return h.state.Clone()
}

// LastResult returns the most recent rebalance result, if any
func (h *Host) LastResult() *execution.Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastResult
}

func (h *Host) publishError(hook string, err error) {
	h.logger.WithError(err).WithField("hook", hook).Error("Hook failed")
	h.publish(Event{Type: EventError, Hook: hook, Data: map[string]string{"error": err.Error()}})
}

func (h *Host) publish(event Event) {
	event.Time = h.now()
	for _, sink := range h.sinks {
		sink.Publish(event)
	}
}
