package symptom

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"healthbridge/internal/platform/httpx"
)

type Handler struct {
	logger zerolog.Logger
}

func NewHandler(logger zerolog.Logger) *Handler {
	return &Handler{logger: logger}
}

type catalogResponse struct {
	Symptoms []Symptom `json:"symptoms"`
	Groups   []Group   `json:"groups"`
}

func (h *Handler) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	all := ListAll()
	httpx.WriteJSON(w, http.StatusOK, catalogResponse{Symptoms: all, Groups: Grouped(all)})
}

type assessResponse struct {
	Success    bool             `json:"success"`
	Assessment AssessmentResult `json:"assessment"`
}

func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var in AssessmentInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	res, err := Assess(in)
	if err != nil {
		h.writeAssessError(w, err, in.SelectedSymptomIDs)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, assessResponse{Success: true, Assessment: res})
}

// Intake actions accepted by the intake endpoint.
const (
	ActionSubmitDemographics = "submit_demographics"
	ActionToggleSymptom      = "toggle_symptom"
	ActionConfirmSymptoms    = "confirm_symptoms"
	ActionSubmitDetails      = "submit_details"
	ActionBack               = "back"
	ActionReset              = "reset"
)

type IntakeRequest struct {
	Intake         *Intake   `json:"intake"`
	Action         string    `json:"action"`
	Age            string    `json:"age,omitempty"`
	Gender         Gender    `json:"gender,omitempty"`
	SymptomID      string    `json:"symptomId,omitempty"`
	Duration       Duration  `json:"duration,omitempty"`
	Intensity      Intensity `json:"intensity,omitempty"`
	AdditionalInfo string    `json:"additionalInfo,omitempty"`
}

type IntakeResponse struct {
	Success  bool   `json:"success"`
	Intake   Intake `json:"intake"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// Advance applies one action to a client-held intake and returns the next
// state. The server keeps nothing between calls.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	var req IntakeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	cur := NewIntake()
	if req.Intake != nil {
		cur = *req.Intake
	}

	var (
		next Intake
		err  error
	)
	switch req.Action {
	case ActionSubmitDemographics:
		next, err = cur.SubmitDemographics(req.Age, req.Gender)
	case ActionToggleSymptom:
		next, err = cur.ToggleSymptom(req.SymptomID)
	case ActionConfirmSymptoms:
		next, err = cur.ConfirmSymptoms()
	case ActionSubmitDetails:
		next, err = cur.SubmitDetails(req.Duration, req.Intensity, req.AdditionalInfo)
	case ActionBack:
		next = cur.Back()
	case ActionReset:
		next = cur.Reset()
	default:
		httpx.WriteError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	if err != nil {
		if errors.Is(err, ErrInvalidSymptomID) {
			h.logger.Warn().Err(err).Str("action", req.Action).Msg("intake rejected unknown symptom")
		}
		httpx.WriteJSON(w, http.StatusBadRequest, IntakeResponse{
			Intake:   cur,
			Progress: cur.Progress(),
			Error:    err.Error(),
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, IntakeResponse{Success: true, Intake: next, Progress: next.Progress()})
}

func (h *Handler) writeAssessError(w http.ResponseWriter, err error, ids []string) {
	switch {
	case errors.Is(err, ErrEmptySelection):
		httpx.WriteError(w, http.StatusBadRequest, "Select at least one symptom")
	case errors.Is(err, ErrInvalidSymptomID):
		h.logger.Warn().Err(err).Strs("selected", ids).Msg("assessment rejected unknown symptom")
		httpx.WriteError(w, http.StatusBadRequest, "Invalid symptom selection")
	default:
		h.logger.Error().Err(err).Msg("assessment failed")
		httpx.WriteInternal(w)
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/symptom-checker/symptoms", h.ListSymptoms)
	r.Post("/symptom-checker/assess", h.Assess)
	r.Post("/symptom-checker/intake", h.Advance)
}
