package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"giftid/internal/giftid"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// engineErrorStatus maps a giftid engine error to the HTTP status code
// spec.md §4.4/§7 assigns it: 503 for clock/epoch faults an operator must
// resolve, 400 for malformed input the caller must fix.
func engineErrorStatus(err error) int {
	var regression *giftid.ClockRegressionError
	switch {
	case errors.As(err, &regression):
		return http.StatusServiceUnavailable
	case errors.Is(err, giftid.ErrClockBeforeEpoch),
		errors.Is(err, giftid.ErrEpochOverflow):
		return http.StatusServiceUnavailable
	case errors.Is(err, giftid.ErrFieldOutOfRange),
		errors.Is(err, giftid.ErrReservedBitSet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	giftClass, ok := parseGiftClass(req.GiftClass)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("gift_class must be \"toy\" or \"coal\""))
		return
	}

	id, err := s.gen.Generate(giftClass)
	if err != nil {
		writeError(w, engineErrorStatus(err), err)
		return
	}

	decoded, err := giftid.Decode(id, s.gen.EpochMs())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		ID:          strconv.FormatUint(id, 10),
		WorkshopID:  decoded.WorkshopID,
		TimestampMs: decoded.TimestampAbsMs,
		Sequence:    decoded.Sequence,
		GiftClass:   giftClassName(decoded.GiftClass),
	})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("id must be a decimal uint64"))
		return
	}

	decoded, err := giftid.Decode(id, s.gen.EpochMs())
	if err != nil {
		writeError(w, engineErrorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, decodeResponse{
		ID:             idStr,
		TimestampRelMs: decoded.TimestampRelMs,
		TimestampMs:    decoded.TimestampAbsMs,
		WorkshopID:     decoded.WorkshopID,
		Sequence:       decoded.Sequence,
		GiftClass:      giftClassName(decoded.GiftClass),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		WorkshopID: s.gen.WorkshopID(),
	})
}
