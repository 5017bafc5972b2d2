package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/settlement"
)

// WagerHandler exposes wager placement and queries.
type WagerHandler struct {
	placement *settlement.Placement
	wagers    domain.WagerStore
	ledger    domain.LedgerStore
	logger    *slog.Logger
}

// NewWagerHandler creates a WagerHandler.
func NewWagerHandler(placement *settlement.Placement, wagers domain.WagerStore,
	ledger domain.LedgerStore, logger *slog.Logger) *WagerHandler {
	return &WagerHandler{
		placement: placement,
		wagers:    wagers,
		ledger:    ledger,
		logger:    logger,
	}
}

// placeRequest mirrors settlement.PlacementRequest with the contest date
// as a plain "YYYY-MM-DD" string.
type placeRequest struct {
	OwnerID      int64          `json:"ownerId"`
	Lottery      string         `json:"lottery"`
	DrawTime     string         `json:"drawTime"`
	ContestDate  string         `json:"contestDate"`
	ModalityName string         `json:"modalityName"`
	Guesses      []domain.Guess `json:"guesses"`
	Positions    string         `json:"positions"`
	Stake        float64        `json:"stake"`
	Division     string         `json:"division"`
	Instant      bool           `json:"instant"`
}

// Place accepts a new wager, charging the stake up front.
// POST /api/wagers
func (h *WagerHandler) Place(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "wager.place")

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OwnerID <= 0 || req.Lottery == "" || req.Stake <= 0 {
		writeError(w, http.StatusBadRequest, "ownerId, lottery and a positive stake are required")
		return
	}
	date, err := time.Parse("2006-01-02", req.ContestDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "contestDate must be YYYY-MM-DD")
		return
	}
	division := domain.DivisionMode(req.Division)
	if division == "" {
		division = domain.DivisionPerGuess
	}

	wager, err := h.placement.Place(r.Context(), settlement.PlacementRequest{
		OwnerID:      req.OwnerID,
		Lottery:      req.Lottery,
		DrawTime:     req.DrawTime,
		ContestDate:  date,
		ModalityName: req.ModalityName,
		Guesses:      req.Guesses,
		Positions:    req.Positions,
		Stake:        req.Stake,
		Division:     division,
		Instant:      req.Instant,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownModality), errors.Is(err, domain.ErrInvalidGuess):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInsufficientBalance):
			writeError(w, http.StatusPaymentRequired, "insufficient balance")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			log.ErrorContext(r.Context(), "placement failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "placement failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, wager)
}

// List returns wagers filtered by owner, status, lottery, or date.
// GET /api/wagers
func (h *WagerHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "wager.list")
	q := r.URL.Query()
	opts := parseListOpts(r)

	filter := domain.WagerFilter{
		Lottery: q.Get("lottery"),
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}
	if v := q.Get("owner"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "owner must be numeric")
			return
		}
		filter.OwnerID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.WagerStatus(v)
		filter.Status = &status
	}
	if v := q.Get("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		filter.Date = &d
	}

	wagers, err := h.wagers.List(r.Context(), filter)
	if err != nil {
		log.ErrorContext(r.Context(), "list failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(wagers),
		"wagers": wagers,
	})
}

// Get returns a single wager.
// GET /api/wagers/{id}
func (h *WagerHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "wager.get")

	id, err := strconv.ParseInt(pathParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be numeric")
		return
	}

	wager, err := h.wagers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "wager not found")
			return
		}
		log.ErrorContext(r.Context(), "get failed", slog.Int64("wager", id), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "get failed")
		return
	}
	writeJSON(w, http.StatusOK, wager)
}

// Ledger returns a user's wallet movements, newest first.
// GET /api/users/{id}/ledger
func (h *WagerHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "wager.ledger")

	id, err := strconv.ParseInt(pathParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be numeric")
		return
	}

	entries, err := h.ledger.ListByUser(r.Context(), id, parseListOpts(r))
	if err != nil {
		log.ErrorContext(r.Context(), "ledger failed", slog.Int64("user", id), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "ledger failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}
