package validation

import (
	"context"
	"sync"
	"time"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"go.uber.org/zap"
)

// DefaultDebounce is the trailing-edge delay between the last cart change and
// the validation call it triggers.
const DefaultDebounce = 1500 * time.Millisecond

// Validator is the pricing call the coordinator drives. *Client satisfies it.
type Validator interface {
	ValidatePrices(ctx context.Context, items []Item) (*domain.PriceValidationResponse, error)
}

// Coordinator owns the timing and de-duplication around price validation for
// one cart/session. It guarantees:
//
//   - at most one pending timer: a genuine item-set change cancels and
//     replaces the previous schedule;
//   - at most one in-flight call, never queued;
//   - a fired timer skips the call when the content key equals the last
//     successfully resolved key (Refresh bypasses this, not the in-flight
//     guard);
//   - a response computed for a superseded item set is dropped on arrival and
//     its context cancelled, so it can never overwrite newer state;
//   - an emptied cart clears state immediately with no call.
//
// State changes are observable through Snapshot and the optional onChange
// callback, which is invoked outside the coordinator's lock.
type Coordinator struct {
	validator Validator
	delay     time.Duration
	logger    *zap.Logger
	onChange  func(domain.ValidationState)

	mu             sync.Mutex
	timer          *time.Timer
	currentKey     string // key of the most recent non-empty item set
	lastKey        string // key of the last successfully resolved validation
	seq            uint64 // bumped on every genuine item-set change
	inFlight       bool
	inFlightCancel context.CancelFunc
	state          domain.ValidationState
	closed         bool
}

// NewCoordinator builds a Coordinator. A non-positive delay falls back to
// DefaultDebounce. onChange may be nil; when set it must not call back into
// the coordinator synchronously.
func NewCoordinator(v Validator, delay time.Duration, logger *zap.Logger, onChange func(domain.ValidationState)) *Coordinator {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Coordinator{
		validator: v,
		delay:     delay,
		logger:    logger,
		onChange:  onChange,
	}
}

// ItemsChanged is the debounced trigger. Calling it again with an item set
// that serializes to the same content key is a no-op, so unrelated re-renders
// do not reset the timer. An empty set clears validation state immediately.
func (c *Coordinator) ItemsChanged(items []Item) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if len(items) == 0 {
		c.seq++
		c.cancelLocked()
		c.currentKey = ""
		c.lastKey = ""
		c.state = domain.ValidationState{}
		st := c.state
		c.mu.Unlock()
		c.notify(st)
		return
	}

	key := ContentKey(items)
	if key == c.currentKey {
		c.mu.Unlock()
		return
	}

	c.currentKey = key
	c.seq++
	c.cancelLocked()

	seq := c.seq
	scheduled := make([]Item, len(items))
	copy(scheduled, items)
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(key, seq, scheduled, false)
	})
	c.mu.Unlock()
}

// Refresh is the manual retry: it validates immediately, bypassing the
// content-equality skip but still honoring the in-flight guard. An empty set
// behaves like ItemsChanged.
func (c *Coordinator) Refresh(items []Item) {
	if len(items) == 0 {
		c.ItemsChanged(items)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	key := ContentKey(items)
	if key != c.currentKey {
		c.currentKey = key
		c.seq++
		c.cancelInFlightLocked()
	}
	c.stopTimerLocked()
	seq := c.seq
	c.mu.Unlock()

	c.fire(key, seq, items, true)
}

// Snapshot returns the current UI-facing validation state.
func (c *Coordinator) Snapshot() domain.ValidationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close cancels any pending timer and in-flight call. Further triggers are
// no-ops.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancelLocked()
}

// fire runs when the debounce timer elapses, or directly for Refresh.
func (c *Coordinator) fire(key string, seq uint64, items []Item, force bool) {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	if c.inFlight {
		// Never two outstanding calls. The next item change reschedules.
		c.mu.Unlock()
		return
	}
	if !force && key == c.lastKey {
		c.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.inFlight = true
	c.inFlightCancel = cancel
	c.state.IsValidating = true
	c.state.Err = nil
	st := c.state
	c.mu.Unlock()
	c.notify(st)

	go c.run(ctx, key, seq, items)
}

func (c *Coordinator) run(ctx context.Context, key string, seq uint64, items []Item) {
	resp, err := c.validator.ValidatePrices(ctx, items)

	c.mu.Lock()
	c.inFlight = false
	c.inFlightCancel = nil
	if c.closed || seq != c.seq {
		// The item set changed while this call was outstanding; its result
		// describes a cart that no longer exists. Drop it, but stop claiming
		// a validation is running.
		c.state.IsValidating = false
		st := c.state
		c.mu.Unlock()
		if c.logger != nil {
			c.logger.Debug("dropped stale validation response", zap.String("content_key", key))
		}
		c.notify(st)
		return
	}

	if err != nil {
		// Fail closed: no validity is retained, lastKey stays so a retry
		// with the same items goes back to the server.
		c.state = domain.ValidationState{Err: err}
	} else {
		c.lastKey = key
		c.state = domain.ValidationState{Response: resp}
	}
	st := c.state
	c.mu.Unlock()
	c.notify(st)
}

func (c *Coordinator) notify(st domain.ValidationState) {
	if c.onChange != nil {
		c.onChange(st)
	}
}

func (c *Coordinator) cancelLocked() {
	c.stopTimerLocked()
	c.cancelInFlightLocked()
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) cancelInFlightLocked() {
	if c.inFlightCancel != nil {
		c.inFlightCancel()
	}
}
