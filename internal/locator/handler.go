package locator

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"healthbridge/internal/platform/httpx"
)

type Handler struct {
	dir *Directory
}

func NewHandler(dir *Directory) *Handler {
	return &Handler{dir: dir}
}

type listResponse struct {
	Success  bool           `json:"success"`
	Services []Service      `json:"services"`
	Total    int            `json:"total"`
	Counts   map[string]int `json:"counts"`
}

type getResponse struct {
	Success bool    `json:"success"`
	Service Service `json:"service"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	services := h.dir.Search(Filter{Query: q.Get("q"), Type: q.Get("type"), Area: q.Get("area")})
	httpx.WriteJSON(w, http.StatusOK, listResponse{
		Success:  true,
		Services: services,
		Total:    len(services),
		Counts:   h.dir.CountByType(),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.dir.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Service not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, getResponse{Success: true, Service: s})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/services", h.List)
	r.Get("/services/{id}", h.Get)
}
