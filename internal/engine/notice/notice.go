// Package notice keeps the short-lived status messages shown over the scene.
package notice

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// DefaultTTL is how long a notice stays on screen.
const DefaultTTL = 10 * time.Second

// Notice is one on-screen message.
type Notice struct {
	ID      uint64
	Text    string
	Shown   time.Time
	Expires time.Time
}

// Board holds the notices currently visible. It is owned by the frame loop.
type Board struct {
	ttl    time.Duration
	now    func() time.Time
	items  []Notice
	nextID uint64
	log    *zap.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(b *Board) { b.ttl = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// NewBoard creates an empty board.
func NewBoard(opts ...Option) *Board {
	b := &Board{ttl: DefaultTTL, now: time.Now, log: logger.Named("notice")}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Show posts text. Notices are advisory; they are also written to the log.
func (b *Board) Show(text string) {
	now := b.now()
	b.nextID++
	b.items = append(b.items, Notice{ID: b.nextID, Text: text, Shown: now, Expires: now.Add(b.ttl)})
	b.log.Info(text)
}

// Dismiss removes a notice early.
func (b *Board) Dismiss(id uint64) {
	for i, n := range b.items {
		if n.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Prune drops expired notices.
func (b *Board) Prune() {
	now := b.now()
	kept := b.items[:0]
	for _, n := range b.items {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	b.items = kept
}

// Active returns the visible notices, oldest first.
func (b *Board) Active() []Notice {
	b.Prune()
	return append([]Notice(nil), b.items...)
}
