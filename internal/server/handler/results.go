package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/results"
)

// ResultsHandler serves normalized official results fetched on demand.
type ResultsHandler struct {
	service *results.Service
	logger  *slog.Logger
}

// NewResultsHandler creates a ResultsHandler.
func NewResultsHandler(service *results.Service, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{service: service, logger: logger}
}

// Get fetches results for one lottery and date. The lottery may be given
// as an upstream code (?code=ln) or a display name (?lottery=NACIONAL).
// GET /api/results
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "results.get")
	q := r.URL.Query()

	code := q.Get("code")
	if code == "" {
		if lottery := q.Get("lottery"); lottery != "" {
			code = results.CodeForLottery(lottery)
		}
	}
	if code == "" {
		writeError(w, http.StatusBadRequest, "code or lottery parameter required")
		return
	}

	dateStr := q.Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date parameter required (YYYY-MM-DD)")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.service.ForDate(r.Context(), code, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUpstreamNoResults):
			writeError(w, http.StatusNotFound, "no results for this date")
		case errors.Is(err, domain.ErrUpstreamDateTooOld):
			writeError(w, http.StatusUnprocessableEntity, "date outside the visitor range")
		case errors.Is(err, domain.ErrUpstreamTimeout):
			writeError(w, http.StatusGatewayTimeout, "results upstream unreachable")
		case errors.Is(err, domain.ErrUpstreamParse):
			writeError(w, http.StatusBadGateway, "upstream returned unexpected markup")
		default:
			log.ErrorContext(r.Context(), "fetch failed",
				slog.String("code", code), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "fetch failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"code":    code,
		"date":    dateStr,
		"count":   len(slots),
		"results": slots,
	})
}
