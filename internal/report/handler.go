package report

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"healthbridge/internal/account"
	"healthbridge/internal/platform/httpx"
)

type Handler struct {
	svc     Service
	alerter *Alerter
	logger  zerolog.Logger
}

func NewHandler(svc Service, alerter *Alerter, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, alerter: alerter, logger: logger}
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (h *Handler) MedicationHistory(w http.ResponseWriter, r *http.Request) {
	claims, _ := account.ClaimsFromContext(r.Context())
	hist, err := h.svc.MedicationHistory(r.Context(), claims.UserUUID())
	if err != nil {
		h.logger.Error().Err(err).Msg("medication history failed")
		httpx.WriteInternal(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: hist})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			httpx.WriteError(w, http.StatusBadRequest, verr.Msg)
			return
		}
		h.logger.Error().Err(err).Msg("create report failed")
		httpx.WriteInternal(w)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, dataResponse{Success: true, Data: d})
}

// load fetches a report the caller may see. NGOs see every report,
// refugees only their own.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Detail, bool) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Report not found")
			return nil, false
		}
		h.logger.Error().Err(err).Msg("load report failed")
		httpx.WriteInternal(w)
		return nil, false
	}
	claims, _ := account.ClaimsFromContext(r.Context())
	if claims.Role != account.RoleNGO && claims.UserUUID() != d.UserID {
		httpx.WriteError(w, http.StatusNotFound, "Report not found")
		return nil, false
	}
	return d, true
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: d})
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	data, err := h.svc.RenderPDF(r.Context(), d.ReportID)
	if err != nil {
		h.logger.Error().Err(err).Str("report_id", d.ReportID).Msg("render pdf failed")
		httpx.WriteInternal(w)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="report_%s.pdf"`, d.ReportID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req AlertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	res, err := h.alerter.Send(r.Context(), req)
	switch {
	case errors.Is(err, ErrMissingAlertFields):
		httpx.WriteError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, ErrSMSNotConfigured):
		h.logger.Error().Err(err).Msg("sms alert rejected")
		httpx.WriteError(w, http.StatusInternalServerError, "Twilio not configured properly")
	case err != nil:
		h.logger.Error().Err(err).Msg("sms alert failed")
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{Error: "Failed to send SMS"})
	default:
		httpx.WriteJSON(w, http.StatusOK, res)
	}
}

// RegisterRoutes mounts report routes. Every route needs an
// authenticated caller.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.With(account.RequireRole(account.RoleRefugee)).Get("/medication-history", h.MedicationHistory)
	r.With(account.RequireRole(account.RoleNGO)).Post("/reports", h.Create)
	r.Get("/reports/{id}", h.Get)
	r.Get("/reports/{id}/pdf", h.PDF)
	r.Post("/twilio/send-sms", h.SendSMS)
}
