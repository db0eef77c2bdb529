package dashboard

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"healthbridge/internal/account"
	"healthbridge/internal/platform/httpx"
)

type Handler struct {
	svc    Service
	logger zerolog.Logger
}

func NewHandler(svc Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type dashboardResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (h *Handler) Refugee(w http.ResponseWriter, r *http.Request) {
	claims, _ := account.ClaimsFromContext(r.Context())
	d, err := h.svc.Refugee(r.Context(), claims.UserUUID())
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.logger.Error().Err(err).Str("user_id", claims.UserID).Msg("refugee dashboard failed")
		httpx.WriteInternal(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dashboardResponse{Success: true, Data: d})
}

func (h *Handler) NGO(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, dashboardResponse{Success: true, Data: h.svc.NGO(r.Context())})
}

// RegisterRoutes expects RequireAuth to run first.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.With(account.RequireRole(account.RoleRefugee)).Get("/dashboard/refugee", h.Refugee)
	r.With(account.RequireRole(account.RoleNGO)).Get("/dashboard/ngo", h.NGO)
}
