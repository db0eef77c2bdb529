package consultation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
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

type historyResponse struct {
	Success       bool           `json:"success"`
	Consultations []Consultation `json:"consultations"`
}

type consultationResponse struct {
	Success      bool          `json:"success"`
	Consultation *Consultation `json:"consultation"`
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	claims, _ := account.ClaimsFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	list, err := h.svc.History(r.Context(), claims.UserUUID(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list consultations failed")
		httpx.WriteInternal(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, historyResponse{Success: true, Consultations: list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := account.ClaimsFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid consultation ID")
		return
	}
	c, err := h.svc.Get(r.Context(), claims.UserUUID(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Consultation not found")
			return
		}
		h.logger.Error().Err(err).Msg("load consultation failed")
		httpx.WriteInternal(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, consultationResponse{Success: true, Consultation: c})
}

// RegisterRoutes expects account.RequireAuth to run first.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/chatbot/history", h.History)
	r.Get("/chatbot/history/{id}", h.Get)
}
