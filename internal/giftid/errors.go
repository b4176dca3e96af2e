package giftid

import (
	"errors"
	"fmt"
)

// Sentinel errors produced by the codec and the sequence engine, following
// the teacher's apperrors convention of package-level errors.New values.
var (
	// ErrFieldOutOfRange is returned by Encode when a field value falls
	// outside the bit width reserved for it.
	ErrFieldOutOfRange = errors.New("giftid: field out of range")

	// ErrReservedBitSet is returned by Decode when bit 63 of the
	// identifier is set.
	ErrReservedBitSet = errors.New("giftid: reserved bit set")

	// ErrClockBeforeEpoch is returned when the clock reports a time
	// earlier than the generator's epoch.
	ErrClockBeforeEpoch = errors.New("giftid: clock before epoch")

	// ErrEpochOverflow is returned when the 41-bit timestamp field has
	// been exhausted.
	ErrEpochOverflow = errors.New("giftid: epoch overflow, 41-bit timestamp field exhausted")

	// ErrWorkshopIDInvalid is returned at construction time when the
	// workshop id falls outside [0, 1024).
	ErrWorkshopIDInvalid = errors.New("giftid: workshop id invalid, must be in [0, 1024)")
)

// ClockRegressionError reports a backward clock jump that exceeded the
// generator's tolerance. It carries the magnitude of the jump so callers
// and operators can judge severity.
type ClockRegressionError struct {
	DeltaMs int64
}

func (e *ClockRegressionError) Error() string {
	return fmt.Sprintf("giftid: clock regressed by %dms, exceeds tolerance", e.DeltaMs)
}
