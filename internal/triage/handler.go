package triage

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthbridge/internal/account"
	"healthbridge/internal/platform/httpx"
)

// MaxUploadBytes bounds the whole multipart form.
const MaxUploadBytes = 10 << 20

// Recorder keeps the analyses of signed-in users.
type Recorder interface {
	Record(ctx context.Context, patientID uuid.UUID, req Request, res Result) error
}

type Handler struct {
	svc      Service
	recorder Recorder
	logger   zerolog.Logger
}

// NewHandler accepts a nil recorder, in which case nothing is kept.
func NewHandler(svc Service, recorder Recorder, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, recorder: recorder, logger: logger}
}

type AnalyzeResponse struct {
	Response        Result `json:"response"`
	ImagesProcessed int    `json:"images_processed"`
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > MaxUploadBytes {
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "Upload too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := Request{
		Message:  r.FormValue("message"),
		Language: r.FormValue("language"),
	}
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid image upload")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid image upload")
			return
		}
		mime := fh.Header.Get("Content-Type")
		if mime == "" || mime == "application/octet-stream" {
			mime = http.DetectContentType(data)
		}
		req.Images = append(req.Images, Image{Filename: fh.Filename, MIMEType: mime, Data: data})
	}

	res, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			httpx.WriteError(w, http.StatusBadRequest, "Message or image is required")
			return
		}
		h.logger.Error().Err(err).Msg("chatbot analysis failed")
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:   "Triage analysis failed",
			Details: "An error occurred while processing your request",
		})
		return
	}

	h.record(r.Context(), req, res)
	httpx.WriteJSON(w, http.StatusOK, AnalyzeResponse{Response: res, ImagesProcessed: len(req.Images)})
}

// record never fails the request; the analysis has already been produced.
func (h *Handler) record(ctx context.Context, req Request, res Result) {
	if h.recorder == nil {
		return
	}
	claims, ok := account.ClaimsFromContext(ctx)
	if !ok {
		return
	}
	if err := h.recorder.Record(ctx, claims.UserUUID(), req, res); err != nil {
		h.logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("failed to record consultation")
	}
}

// RegisterRoutes expects account.OptionalAuth to run first when analyses
// should be recorded.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chatbot/analyze", h.Analyze)
}
