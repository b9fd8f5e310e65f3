package handler

import (
	"net/http"
	"soulsprint/internal/service"
	"strconv"
)

// StaffHandler serves the escalation review endpoints
type StaffHandler struct {
	engine *service.EngineService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(engine *service.EngineService) *StaffHandler {
	return &StaffHandler{engine: engine}
}

// Escalations handles GET /v1/escalations
func (h *StaffHandler) Escalations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.engine.RecentEscalations(r.Context(), limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"escalations": entries})
}
