package giftid

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"giftid/internal/clock"
)

func newTestGenerator(t *testing.T, fc *clock.Fake, opts ...Option) *Generator {
	t.Helper()
	allOpts := append([]Option{WithClock(fc), WithEpochMs(0)}, opts...)
	gen, err := NewGenerator(1, allOpts...)
	require.NoError(t, err)
	return gen
}

func TestWorkshopIDValidation(t *testing.T) {
	_, err := NewGenerator(1024)
	require.ErrorIs(t, err, ErrWorkshopIDInvalid)

	_, err = NewGenerator(1023)
	require.NoError(t, err)
}

func TestGenerateSameMillisecondIncrements(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc)

	var sequences []uint16
	var timestamps []int64
	for i := 0; i < 4; i++ {
		id, err := gen.Generate(GiftClassToy)
		require.NoError(t, err)
		decoded, err := Decode(id, 0)
		require.NoError(t, err)
		sequences = append(sequences, decoded.Sequence)
		timestamps = append(timestamps, decoded.TimestampRelMs)
	}

	require.Equal(t, []uint16{0, 1, 2, 3}, sequences)
	require.Equal(t, []int64{1000, 1000, 1000, 1000}, timestamps)
}

func TestGenerateAdvanceResetsSequence(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc)

	var sequences []uint16
	clockSchedule := []int64{1000, 1000, 1001}
	for _, now := range clockSchedule {
		fc.Set(now)
		id, err := gen.Generate(GiftClassToy)
		require.NoError(t, err)
		decoded, err := Decode(id, 0)
		require.NoError(t, err)
		sequences = append(sequences, decoded.Sequence)
	}

	require.Equal(t, []uint16{0, 1, 0}, sequences)
}

func TestGenerateSequenceExhaustionWaits(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc)

	for i := 0; i < 2048; i++ {
		_, err := gen.Generate(GiftClassToy)
		require.NoError(t, err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		fc.Set(1001)
	}()

	id, err := gen.Generate(GiftClassToy)
	require.NoError(t, err)
	decoded, err := Decode(id, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, decoded.Sequence)
	require.EqualValues(t, 1001, decoded.TimestampRelMs)
}

func TestGenerateRegressionWithinTolerance(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc, WithMaxBackwardMs(5))

	_, err := gen.Generate(GiftClassToy)
	require.NoError(t, err)

	fc.Set(998)
	go func() {
		time.Sleep(20 * time.Millisecond)
		fc.Set(1000)
	}()

	id, err := gen.Generate(GiftClassToy)
	require.NoError(t, err)
	decoded, err := Decode(id, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, decoded.TimestampRelMs, int64(1000))
}

func TestGenerateRegressionBeyondTolerance(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc, WithMaxBackwardMs(5))

	_, err := gen.Generate(GiftClassToy)
	require.NoError(t, err)

	fc.Set(900)
	_, err = gen.Generate(GiftClassToy)
	var regression *ClockRegressionError
	require.ErrorAs(t, err, &regression)
	require.EqualValues(t, 100, regression.DeltaMs)

	fc.Set(1000)
	id, err := gen.Generate(GiftClassToy)
	require.NoError(t, err)
	decoded, err := Decode(id, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, decoded.Sequence)
}

func TestGenerateClockBeforeEpoch(t *testing.T) {
	fc := clock.NewFake(-1)
	gen := newTestGenerator(t, fc)

	_, err := gen.Generate(GiftClassToy)
	require.ErrorIs(t, err, ErrClockBeforeEpoch)
}

func TestGenerateEpochOverflow(t *testing.T) {
	fc := clock.NewFake(maxTimestamp + 1)
	gen := newTestGenerator(t, fc)

	_, err := gen.Generate(GiftClassToy)
	require.ErrorIs(t, err, ErrEpochOverflow)
}

// TestGenerateUniquenessAndMonotonicity exercises Property 1 and Property 2
// on a single generator under an advancing clock.
func TestGenerateUniquenessAndMonotonicity(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc)

	const n = 5000
	ids := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		if i%7 == 0 {
			fc.Advance(1)
		}
		id, err := gen.Generate(GiftClassToy)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	seen := make(map[uint64]struct{}, n)
	for i, id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id at index %d", i)
		seen[id] = struct{}{}
		if i > 0 {
			require.Less(t, ids[i-1], ids[i], "ids must be strictly increasing")
		}
	}
}

// TestGenerateWorkshopEmbedding exercises Property 4.
func TestGenerateWorkshopEmbedding(t *testing.T) {
	fc := clock.NewFake(1000)
	gen, err := NewGenerator(777, WithClock(fc), WithEpochMs(0))
	require.NoError(t, err)

	id, err := gen.Generate(GiftClassToy)
	require.NoError(t, err)

	decoded, err := Decode(id, 0)
	require.NoError(t, err)
	require.EqualValues(t, 777, decoded.WorkshopID)
}

// TestGenerateReservedBitClear exercises Property 5.
func TestGenerateReservedBitClear(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc)

	id, err := gen.Generate(GiftClassCoal)
	require.NoError(t, err)
	require.Zero(t, id&reservedBitMask)
}

// TestGenerateSequenceResetOnAdvance exercises Property 6.
func TestGenerateSequenceResetOnAdvance(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc)

	var prev Decoded
	for i, now := range []int64{1000, 1000, 1001, 1001, 1002} {
		fc.Set(now)
		id, err := gen.Generate(GiftClassToy)
		require.NoError(t, err)
		decoded, err := Decode(id, 0)
		require.NoError(t, err)
		if i > 0 && decoded.TimestampRelMs > prev.TimestampRelMs {
			require.Zero(t, decoded.Sequence)
		}
		prev = decoded
	}
}

// TestGenerateConcurrent exercises Property 7: T concurrent callers, N
// calls each, checked for uniqueness and for monotonicity in
// completion order.
func TestGenerateConcurrent(t *testing.T) {
	fc := clock.NewFake(1000)
	gen := newTestGenerator(t, fc)

	const callers = 16
	const perCaller = 200

	// callers*perCaller exceeds the 2048 ids one millisecond can hold, so
	// the fake clock is advanced in the background; otherwise the engine
	// would wait forever for the next millisecond once the sequence is
	// exhausted.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(time.Millisecond):
				fc.Advance(1)
			}
		}
	}()

	// mu only guards completionOrder; Generate itself is called outside
	// the lock so all 16 goroutines genuinely race for the generator's
	// own mutex instead of being serialized by the test.
	var (
		mu              sync.Mutex
		completionOrder []uint64
	)

	var wg sync.WaitGroup
	wg.Add(callers)
	for c := 0; c < callers; c++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perCaller; i++ {
				id, err := gen.Generate(GiftClassToy)
				require.NoError(t, err)

				mu.Lock()
				completionOrder = append(completionOrder, id)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, completionOrder, callers*perCaller)

	seen := make(map[uint64]struct{}, len(completionOrder))
	for i, id := range completionOrder {
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
		if i > 0 {
			require.Less(t, completionOrder[i-1], id)
		}
	}
}
