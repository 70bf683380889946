package auth

import (
	"encoding/json"
	"net/http"

	"github.com/avzakharova/studio-bot/internal/core/common/validation"
	"github.com/avzakharova/studio-bot/internal/transport"
	"github.com/avzakharova/studio-bot/pkg/logger"
)

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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Login: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	validator := validation.NewValidator()
	validator.Field("login", dto.Login).Required()
	validator.Field("password", dto.Password).Required()
	if err := validator.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}

// AuthMiddleware rejects requests without a valid bearer token.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := h.Service.ValidateToken(token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := logger.With(r.Context(), "admin", claims.Login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
