package giftid

import (
	"sync"
	"time"

	"giftid/internal/clock"
)

// DefaultEpochMs is the workshop floor's opening day: 2024-01-01T00:00:00Z
// in milliseconds since the Unix epoch. Every identifier's timestamp is
// relative to this constant. Changing it invalidates every id minted
// under the old value.
const DefaultEpochMs int64 = 1704067200000

// DefaultMaxBackwardMs is the tolerance for a backward clock jump (e.g. an
// NTP step correction) before the engine refuses to mint an id rather than
// wait for the clock to catch up.
const DefaultMaxBackwardMs int64 = 5

// waitPollInterval bounds how often the engine re-reads the clock while
// waiting out a tolerable regression or a millisecond rollover. It keeps
// the busy-wait from pinning a core at 100% while still resolving well
// under a millisecond once the clock actually advances.
const waitPollInterval = 50 * time.Microsecond

// Generator is the sequence engine: the only piece of mutable shared state
// in the service. One Generator is constructed per process and lives for
// its lifetime; it holds no persistent state across restarts.
type Generator struct {
	mu sync.Mutex

	workshopID    uint16
	epochMs       int64
	maxBackwardMs int64
	clk           clock.Clock

	lastTimestamp int64
	sequence      uint16
}

// Option configures a Generator at construction time.
type Option func(*Generator)

// WithClock overrides the generator's time source. Tests use this to
// inject a clock.Fake.
func WithClock(c clock.Clock) Option {
	return func(g *Generator) { g.clk = c }
}

// WithEpochMs overrides DefaultEpochMs.
func WithEpochMs(epochMs int64) Option {
	return func(g *Generator) { g.epochMs = epochMs }
}

// WithMaxBackwardMs overrides DefaultMaxBackwardMs.
func WithMaxBackwardMs(ms int64) Option {
	return func(g *Generator) { g.maxBackwardMs = ms }
}

// NewGenerator constructs a Generator bound to workshopID, which must lie
// in [0, 1024). It fails with ErrWorkshopIDInvalid otherwise.
func NewGenerator(workshopID uint16, opts ...Option) (*Generator, error) {
	if int(workshopID) > maxWorkshop {
		return nil, ErrWorkshopIDInvalid
	}

	g := &Generator{
		workshopID:    workshopID,
		epochMs:       DefaultEpochMs,
		maxBackwardMs: DefaultMaxBackwardMs,
		clk:           clock.System{},
		lastTimestamp: -1,
		sequence:      0,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// WorkshopID returns the generator's immutable workshop id.
func (g *Generator) WorkshopID() uint16 {
	return g.workshopID
}

// EpochMs returns the generator's epoch, in ms since the Unix epoch.
func (g *Generator) EpochMs() int64 {
	return g.epochMs
}

// Generate returns the next gift id for giftClass. It serialises all
// callers through a single mutex; the critical section never performs
// I/O, only reads the clock and mutates (lastTimestamp, sequence). On any
// failure path the generator's state is left untouched.
func (g *Generator) Generate(giftClass GiftClass) (uint64, error) {
	if int(giftClass) > maxGiftClass {
		return 0, ErrFieldOutOfRange
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	nowRel := g.clk.NowMs() - g.epochMs

	if nowRel < 0 {
		return 0, ErrClockBeforeEpoch
	}
	if nowRel > maxTimestamp {
		return 0, ErrEpochOverflow
	}

	if nowRel < g.lastTimestamp {
		delta := g.lastTimestamp - nowRel
		if delta > g.maxBackwardMs {
			return 0, &ClockRegressionError{DeltaMs: delta}
		}
		g.waitUntilAtLeast(g.lastTimestamp)
		nowRel = g.lastTimestamp
	}

	var sequenceUsed uint16

	switch {
	case nowRel == g.lastTimestamp:
		if g.sequence < maxSequence {
			g.sequence++
			sequenceUsed = g.sequence
		} else {
			g.lastTimestamp = g.waitUntilAfter(g.lastTimestamp)
			g.sequence = 0
			sequenceUsed = 0
		}
	default: // nowRel > g.lastTimestamp
		g.lastTimestamp = nowRel
		g.sequence = 0
		sequenceUsed = 0
	}

	return Encode(g.lastTimestamp, g.workshopID, sequenceUsed, giftClass)
}

// waitUntilAtLeast spins, yielding between polls, until the clock reports
// a relative time no earlier than target.
func (g *Generator) waitUntilAtLeast(target int64) {
	for {
		if g.clk.NowMs()-g.epochMs >= target {
			return
		}
		time.Sleep(waitPollInterval)
	}
}

// waitUntilAfter spins until the clock reports a relative time strictly
// later than after, and returns that new relative time.
func (g *Generator) waitUntilAfter(after int64) int64 {
	for {
		rel := g.clk.NowMs() - g.epochMs
		if rel > after {
			return rel
		}
		time.Sleep(waitPollInterval)
	}
}
