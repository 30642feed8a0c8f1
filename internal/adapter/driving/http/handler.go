// Package httphandler is the HTTP driving adapter serving the checks plugin
// fetch endpoint.
package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ericfisherdev/checkbridge/internal/application"
	"github.com/ericfisherdev/checkbridge/internal/domain/model"
)

// fetchPath is the single path the bridge answers on.
const fetchPath = "/fetch"

// Handler dispatches fetch requests to the aggregation service.
//
// Status codes deliberately match the reference endpoint the checks plugin
// was built against: unknown paths get 403, and every request-shape
// violation (wrong method, bad headers, bad body) gets 500.
type Handler struct {
	fetchSvc *application.FetchService
	logger   zerolog.Logger
}

// NewHandler creates a Handler backed by the given fetch service.
func NewHandler(fetchSvc *application.FetchService, logger zerolog.Logger) *Handler {
	return &Handler{
		fetchSvc: fetchSvc,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with the fetch route registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Dispatch)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Dispatch routes the request: only POST /fetch is served.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != fetchPath {
		h.reject(w, http.StatusForbidden, "Not found", r)
		return
	}
	if r.Method != http.MethodPost {
		h.reject(w, http.StatusInternalServerError, "Unsupported", r)
		return
	}
	h.Fetch(w, r)
}

// Fetch validates the request envelope, runs the drivers, and writes the
// aggregated response.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Accept") != "application/json" {
		h.reject(w, http.StatusInternalServerError, "Invalid accept header", r)
		return
	}
	if r.Header.Get("Content-Type") != "application/json" {
		h.reject(w, http.StatusInternalServerError, "Invalid content-type", r)
		return
	}
	if r.Header.Get("Content-Length") == "" {
		h.reject(w, http.StatusInternalServerError, "No content", r)
		return
	}

	var req model.FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("undecodable fetch request")
		writeError(w, http.StatusInternalServerError, "Invalid request body")
		return
	}
	if !req.Valid() {
		h.reject(w, http.StatusInternalServerError, "Invalid request", r)
		return
	}

	h.logger.Debug().
		Str("project", req.Project).
		Int("change", req.ChangeID).
		Int("revision", req.Revision).
		Msg("fetch request")

	resp := h.fetchSvc.Fetch(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

// reject logs the full request detail internally and sends only the short
// message to the caller.
func (h *Handler) reject(w http.ResponseWriter, status int, message string, r *http.Request) {
	h.logger.Error().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg(message)
	writeError(w, status, message)
}
