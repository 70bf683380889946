package schedule

import (
	"encoding/json"
	"net/http"

	schedmodel "github.com/avzakharova/studio-bot/internal/core/datamodel/schedule"
	"github.com/avzakharova/studio-bot/internal/transport"
	"github.com/avzakharova/studio-bot/pkg/logger"
)

// Handler exposes the schedule document on the admin REST surface.
type Handler struct {
	*transport.BaseHandler
	Manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Manager:     manager,
	}
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Manager.Get(r.Context()))
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var doc schedmodel.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if doc.Schedule == nil {
		h.WriteError(w, http.StatusBadRequest, "schedule is required")
		return
	}

	if err := h.Manager.Update(r.Context(), &doc); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, &doc)
}
