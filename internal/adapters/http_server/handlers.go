package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_admin/internal/app"
)

type Handlers struct{ Q *app.QueryService }

// envelope is the JSON shape of every read-API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/hotels", h.listHotels)
	s.mux.Get("/hotels/{id}", h.getHotel)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeSuccess(w http.ResponseWriter, r *http.Request, data any) {
	etag, body := calcETagAndBody(envelope{Success: true, Data: data})
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// GET /hotels: every hotel joined one level with type/chain/area/amenities/
// rooms(+packages)/review aggregates.
func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.ListHotels(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list hotels failed")
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeSuccess(w, r, hotels)
}

// GET /hotels/{id}: the same joined shape plus FAQs.
func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeFailure(w, http.StatusBadRequest, "invalid hotel id")
		return
	}
	detail, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		log.Error().Int64("hotel_id", id).Err(err).Msg("get hotel failed")
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeSuccess(w, r, detail)
}
