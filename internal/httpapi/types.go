package httpapi

import "giftid/internal/giftid"

// generateRequest is the body of POST /api/v1/gift-id/generate.
type generateRequest struct {
	GiftClass string `json:"gift_class"`
}

// generateResponse is returned on a successful generate call. The id is a
// decimal string, not a JSON number: ids near 2^63 exceed the 53-bit
// mantissa of an IEEE-754 double, so any consumer parsing this as a
// float64 would silently lose precision.
type generateResponse struct {
	ID          string `json:"id"`
	WorkshopID  uint16 `json:"workshop_id"`
	TimestampMs int64  `json:"timestamp_ms"`
	Sequence    uint16 `json:"sequence"`
	GiftClass   string `json:"gift_class"`
}

// decodeResponse is returned on a successful decode call.
type decodeResponse struct {
	ID             string `json:"id"`
	TimestampRelMs int64  `json:"timestamp_rel_ms"`
	TimestampMs    int64  `json:"timestamp_ms"`
	WorkshopID     uint16 `json:"workshop_id"`
	Sequence       uint16 `json:"sequence"`
	GiftClass      string `json:"gift_class"`
}

// healthResponse is returned by GET /health.
type healthResponse struct {
	Status     string `json:"status"`
	WorkshopID uint16 `json:"workshop_id"`
}

// errorResponse is the body of any non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func giftClassName(c giftid.GiftClass) string {
	if c == giftid.GiftClassCoal {
		return "coal"
	}
	return "toy"
}

func parseGiftClass(name string) (giftid.GiftClass, bool) {
	switch name {
	case "", "toy":
		return giftid.GiftClassToy, true
	case "coal":
		return giftid.GiftClassCoal, true
	default:
		return 0, false
	}
}
