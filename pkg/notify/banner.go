// Package notify shows transient, self-dismissing error banners to the user.
package notify

import (
	"sync"
	"time"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/timeutil"
)

// DefaultTimeout is how long a banner stays visible.
const DefaultTimeout = 5 * time.Second

// Message is a banner as delivered to listeners.
type Message struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
	// DismissAfterMs lets the front-end run its own dismiss timer.
	DismissAfterMs int64 `json:"dismiss_after_ms"`
}

// Listener receives every banner when it is shown.
type Listener func(msg Message)

// Banner holds at most one visible message. A newer message replaces the
// current one and restarts the timeout.
type Banner struct {
	clock   timeutil.Clock
	timeout time.Duration
	logger  customlog.Logger

	mu        sync.Mutex
	current   *Message
	nextID    uint64
	listeners []Listener
}

// NewBanner creates a banner with the given timeout (<= 0 selects DefaultTimeout).
func NewBanner(clock timeutil.Clock, timeout time.Duration, logger customlog.Logger) *Banner {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &Banner{clock: clock, timeout: timeout, logger: logger}
}

// Subscribe registers l for future banners.
func (b *Banner) Subscribe(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Show displays text and notifies listeners.
func (b *Banner) Show(text string) Message {
	now := b.clock.Now()

	b.mu.Lock()
	b.nextID++
	msg := Message{
		ID:             b.nextID,
		Text:           text,
		ShownAt:        now,
		ExpiresAt:      now.Add(b.timeout),
		DismissAfterMs: b.timeout.Milliseconds(),
	}
	b.current = &msg
	listeners := b.listeners
	b.mu.Unlock()

	b.logger.Warnf("Banner: %s", text)
	for _, l := range listeners {
		l(msg)
	}
	return msg
}

// ShowError is Show(err.Error()) with a nil guard.
func (b *Banner) ShowError(err error) {
	if err == nil {
		return
	}
	b.Show(err.Error())
}

// Active returns the visible message, if any. Expired messages are dropped.
func (b *Banner) Active() (Message, bool) {
	now := b.clock.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Message{}, false
	}
	if !now.Before(b.current.ExpiresAt) {
		b.current = nil
		return Message{}, false
	}
	return *b.current, true
}

// Dismiss clears the visible message early.
func (b *Banner) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}
