package giftid

// Bit widths and shifts for the 64-bit gift id layout. Bit 63 is always
// zero, bits 62..22 hold the epoch-relative timestamp, bits 21..12 the
// workshop id, bits 11..1 the per-millisecond sequence, and bit 0 the gift
// class. The layout is authoritative over any prose that speaks of a wider
// sequence field: one bit of the counter is spent on GiftClass.
const (
	timestampBits = 41
	workshopBits  = 10
	sequenceBits  = 11
	giftClassBits = 1

	giftClassShift = 0
	sequenceShift  = giftClassShift + giftClassBits
	workshopShift  = sequenceShift + sequenceBits
	timestampShift = workshopShift + workshopBits

	maxTimestamp = (int64(1) << timestampBits) - 1
	maxWorkshop  = (1 << workshopBits) - 1
	maxSequence  = (1 << sequenceBits) - 1
	maxGiftClass = (1 << giftClassBits) - 1

	reservedBitMask = uint64(1) << 63
)

// GiftClass tags the downstream routing of a gift id: 0 routes to toys, 1
// to coal.
type GiftClass uint8

const (
	GiftClassToy  GiftClass = 0
	GiftClassCoal GiftClass = 1
)

// Decoded holds every field recoverable from a gift id, plus the
// reconstructed absolute timestamp.
type Decoded struct {
	TimestampRelMs int64
	WorkshopID     uint16
	Sequence       uint16
	GiftClass      GiftClass
	TimestampAbsMs int64
}

// Encode packs a relative timestamp, workshop id, sequence, and gift class
// into a 64-bit identifier. It fails with ErrFieldOutOfRange if any field
// does not fit the bit width reserved for it in the layout.
func Encode(timestampRelMs int64, workshopID uint16, sequence uint16, giftClass GiftClass) (uint64, error) {
	if timestampRelMs < 0 || timestampRelMs > maxTimestamp {
		return 0, ErrFieldOutOfRange
	}
	if int(workshopID) > maxWorkshop {
		return 0, ErrFieldOutOfRange
	}
	if int(sequence) > maxSequence {
		return 0, ErrFieldOutOfRange
	}
	if int(giftClass) > maxGiftClass {
		return 0, ErrFieldOutOfRange
	}

	id := uint64(timestampRelMs)<<timestampShift |
		uint64(workshopID)<<workshopShift |
		uint64(sequence)<<sequenceShift |
		uint64(giftClass)<<giftClassShift

	return id, nil
}

// Decode unpacks a 64-bit gift id into its fields. It is total on any id
// with bit 63 clear and fails with ErrReservedBitSet otherwise. epochMs is
// added to the relative timestamp to recover the absolute wall-clock time
// the id was minted at.
func Decode(id uint64, epochMs int64) (Decoded, error) {
	if id&reservedBitMask != 0 {
		return Decoded{}, ErrReservedBitSet
	}

	timestampRel := int64(id >> timestampShift)
	workshopID := uint16((id >> workshopShift) & uint64(maxWorkshop))
	sequence := uint16((id >> sequenceShift) & uint64(maxSequence))
	giftClass := GiftClass((id >> giftClassShift) & uint64(maxGiftClass))

	return Decoded{
		TimestampRelMs: timestampRel,
		WorkshopID:     workshopID,
		Sequence:       sequence,
		GiftClass:      giftClass,
		TimestampAbsMs: timestampRel + epochMs,
	}, nil
}
