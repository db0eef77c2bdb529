package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"healthbridge/internal/platform/httpx"
)

type Handler struct {
	svc    Service
	logger zerolog.Logger
}

func NewHandler(svc Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type RegisterResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	UniqueID string      `json:"uniqueId"`
	User     UserSummary `json:"user"`
}

type LoginResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

func (h *Handler) RegisterRefugee(w http.ResponseWriter, r *http.Request) {
	var req RegisterRefugeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	reg, err := h.svc.RegisterRefugee(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "refugee registration")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Success:  true,
		Message:  "Refugee registered successfully",
		UniqueID: reg.UniqueID,
		User:     reg.User,
	})
}

func (h *Handler) RegisterNGO(w http.ResponseWriter, r *http.Request) {
	var req RegisterNGORequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	reg, err := h.svc.RegisterNGO(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "ngo registration")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Success:  true,
		Message:  "NGO registered successfully",
		UniqueID: reg.UniqueID,
		User:     reg.User,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	sess, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "login")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   sess.Token,
		User:    sess.User,
	})
}

type countriesResponse struct {
	Success   bool            `json:"success"`
	Countries []CountryConfig `json:"countries"`
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, countriesResponse{Success: true, Countries: Countries()})
}

// clientErrors pairs service errors with the status and text clients see.
var clientErrors = []struct {
	err    error
	status int
	msg    string
}{
	{ErrEmailTaken, http.StatusBadRequest, "User already exists with this email"},
	{ErrGovernmentIDTaken, http.StatusBadRequest, "User already exists with this government ID"},
	{ErrMissingCredentials, http.StatusBadRequest, "Email and password are required"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
}

func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		httpx.WriteError(w, http.StatusBadRequest, verr.Msg)
		return
	}
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			httpx.WriteError(w, ce.status, ce.msg)
			return
		}
	}
	h.logger.Error().Err(err).Str("op", op).Msg("request failed")
	httpx.WriteInternal(w)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/auth/register/refugee", h.RegisterRefugee)
	r.Post("/auth/register/ngo", h.RegisterNGO)
	r.Post("/auth/login", h.Login)
	r.Get("/countries", h.ListCountries)
}
