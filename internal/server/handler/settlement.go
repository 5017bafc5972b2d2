package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bichocore/settler/internal/crypto"
	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/settlement"
)

// runLockTTL caps how long a crashed pass can hold the settlement lock.
const runLockTTL = 3 * time.Minute

// SettlementHandler exposes the settlement engine over HTTP: manual batch
// runs, pending-wager diagnostics, stats, and the external bot callback.
type SettlementHandler struct {
	engine   *settlement.Engine
	callback *settlement.Callback
	wagers   domain.WagerStore
	locks    domain.LockManager   // optional; nil disables cross-replica locking
	auth     *crypto.CallbackAuth // optional; nil disables callback signatures
	logger   *slog.Logger
}

// NewSettlementHandler creates a SettlementHandler.
func NewSettlementHandler(engine *settlement.Engine, callback *settlement.Callback,
	wagers domain.WagerStore, locks domain.LockManager, auth *crypto.CallbackAuth,
	logger *slog.Logger) *SettlementHandler {
	return &SettlementHandler{
		engine:   engine,
		callback: callback,
		wagers:   wagers,
		locks:    locks,
		auth:     auth,
		logger:   logger,
	}
}

// runRequest is the body of a manual settlement run.
type runRequest struct {
	Lottery       string `json:"lottery"`
	ContestDate   string `json:"contestDate"` // "2006-01-02", optional
	DrawTime      string `json:"drawTime"`
	UseAggregator bool   `json:"useAggregator"`
}

func (rr runRequest) toFilter() (settlement.RunFilter, error) {
	filter := settlement.RunFilter{
		Lottery:       rr.Lottery,
		DrawTime:      rr.DrawTime,
		UseAggregator: rr.UseAggregator,
	}
	if rr.ContestDate != "" {
		d, err := time.Parse("2006-01-02", rr.ContestDate)
		if err != nil {
			return filter, err
		}
		filter.ContestDate = &d
	}
	return filter, nil
}

// Run triggers one settlement pass.
// POST /api/settlement/run
func (h *SettlementHandler) Run(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "settlement.run")

	var req runRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	filter, err := req.toFilter()
	if err != nil {
		writeError(w, http.StatusBadRequest, "contestDate must be YYYY-MM-DD")
		return
	}

	if h.locks != nil {
		unlock, err := h.locks.Acquire(r.Context(), "settlement:run", runLockTTL)
		if err != nil {
			if errors.Is(err, domain.ErrLockHeld) {
				writeError(w, http.StatusConflict, "a settlement pass is already running")
				return
			}
			log.ErrorContext(r.Context(), "lock acquire failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		defer unlock()
	}

	summary, err := h.engine.Run(r.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamTimeout) {
			writeError(w, http.StatusGatewayTimeout, "results upstream unreachable")
			return
		}
		log.ErrorContext(r.Context(), "settlement run failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "settlement run failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Diagnostics walks pending wagers through the settlement gates without
// committing anything.
// GET /api/settlement/diagnostics
func (h *SettlementHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "settlement.diagnostics")
	q := r.URL.Query()

	req := runRequest{
		Lottery:       q.Get("lottery"),
		ContestDate:   q.Get("date"),
		DrawTime:      q.Get("time"),
		UseAggregator: q.Get("source") == "aggregator",
	}
	filter, err := req.toFilter()
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	diags, err := h.engine.Diagnose(r.Context(), filter)
	if err != nil {
		log.ErrorContext(r.Context(), "diagnostics failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "diagnostics failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(diags),
		"wagers": diags,
	})
}

// Stats returns wager counts grouped by status.
// GET /api/settlement/stats
func (h *SettlementHandler) Stats(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "settlement.stats")

	counts, err := h.wagers.CountByStatus(r.Context())
	if err != nil {
		log.ErrorContext(r.Context(), "count failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pending": counts[domain.WagerPending],
		"won":     counts[domain.WagerWon],
		"lost":    counts[domain.WagerLost],
	})
}

// ExternalCallback applies a settlement decision pushed by an external
// betting bot. Replays of an already-settled wager are acknowledged, not
// re-applied.
// POST /api/settlement/external-callback
func (h *SettlementHandler) ExternalCallback(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "settlement.callback")

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.auth != nil {
		err := h.auth.Verify(r.Header.Get(crypto.HeaderTimestamp),
			r.Header.Get(crypto.HeaderSignature), body, time.Now())
		if err != nil {
			log.WarnContext(r.Context(), "callback signature rejected",
				slog.String("error", err.Error()))
			writeError(w, http.StatusUnauthorized, "invalid callback signature")
			return
		}
	}

	var payload settlement.CallbackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.callback.Apply(r.Context(), payload)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "wager not found")
			return
		}
		log.WarnContext(r.Context(), "callback rejected",
			slog.String("ref", payload.ExternalWagerRef), slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
