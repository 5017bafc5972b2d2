package handler

import (
	"log/slog"
	"net/http"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/schedule"
)

// ScheduleHandler serves configured draw slots and the static apuration
// windows used by the settlement gates.
type ScheduleHandler struct {
	schedules domain.ScheduleStore
	logger    *slog.Logger
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(schedules domain.ScheduleStore, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, logger: logger}
}

// List returns draw slots, optionally narrowed to one lottery.
// GET /api/schedules
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "schedule.list")

	var (
		slots []domain.DrawSchedule
		err   error
	)
	if lottery := r.URL.Query().Get("lottery"); lottery != "" {
		slots, err = h.schedules.ListByLottery(r.Context(), lottery)
	} else {
		slots, err = h.schedules.ListActive(r.Context())
	}
	if err != nil {
		log.ErrorContext(r.Context(), "list failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(slots),
		"schedules": slots,
	})
}

// Windows returns the static real-world apuration windows.
// GET /api/schedules/windows
func (h *ScheduleHandler) Windows(w http.ResponseWriter, r *http.Request) {
	windows := schedule.Windows()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(windows),
		"windows": windows,
	})
}
