package ledger

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/avzakharova/studio-bot/internal/core/common/validation"
	"github.com/avzakharova/studio-bot/internal/transport"
	"github.com/avzakharova/studio-bot/pkg/logger"
)

// Handler exposes the ledger operations to the admin REST surface. The
// conversational flow goes through the service directly; this is the
// administrative back door for audits and manual bookkeeping.
type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListPending(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, records)
}

type decisionDTO struct {
	AdminID int64 `json:"admin_id"`
}

func (h *Handler) ConfirmPending(w http.ResponseWriter, r *http.Request) {
	pendingID, ok := h.pendingID(w, r)
	if !ok {
		return
	}
	var dto decisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.Service.Confirm(r.Context(), pendingID, dto.AdminID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) RejectPending(w http.ResponseWriter, r *http.Request) {
	pendingID, ok := h.pendingID(w, r)
	if !ok {
		return
	}
	var dto decisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	removed, err := h.Service.Reject(r.Context(), pendingID, dto.AdminID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

type directDTO struct {
	SubmissionDTO
	AdminID int64 `json:"admin_id"`
}

// CreateConfirmedDirect records a payment taken outside the bot, e.g. cash
// at the front desk.
func (h *Handler) CreateConfirmedDirect(w http.ResponseWriter, r *http.Request) {
	var dto directDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	validator := validation.NewValidator()
	validator.Field("user_id", dto.UserID).Required()
	validator.Field("product_id", dto.ProductID).Required().MinInt(1)
	validator.Field("product_name", dto.ProductName).Required().MaxLength(200)
	if err := validator.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	confirmedID, err := h.Service.CreateConfirmedDirect(r.Context(), dto.SubmissionDTO, dto.AdminID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, map[string]int64{"confirmed_id": confirmedID})
}

func (h *Handler) ListConfirmed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.Service.ListConfirmed(r.Context(), limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.Service.ListConfirmedForUser(r.Context(), userID, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	active, err := h.Service.CountActiveForUser(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments":     records,
		"active_count": active,
	})
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.SweepStalePending(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

func (h *Handler) pendingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pending payment ID")
		return 0, false
	}
	return id, true
}
