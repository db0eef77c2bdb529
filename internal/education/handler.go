package education

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"healthbridge/internal/platform/httpx"
)

type Handler struct {
	lib *Library
}

func NewHandler(lib *Library) *Handler {
	return &Handler{lib: lib}
}

type listResponse struct {
	Success      bool      `json:"success"`
	Articles     []Article `json:"articles"`
	Total        int       `json:"total"`
	Categories   []string  `json:"categories"`
	Languages    []string  `json:"languages"`
	Difficulties []string  `json:"difficulties"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	articles := h.lib.Search(Filter{
		Query:      q.Get("q"),
		Category:   q.Get("category"),
		Language:   q.Get("language"),
		Difficulty: q.Get("difficulty"),
	})
	httpx.WriteJSON(w, http.StatusOK, listResponse{
		Success:      true,
		Articles:     articles,
		Total:        len(articles),
		Categories:   Categories,
		Languages:    Languages,
		Difficulties: Difficulties,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.lib.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Article not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		Success bool    `json:"success"`
		Article Article `json:"article"`
	}{true, a})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/education", h.List)
	r.Get("/education/{id}", h.Get)
}
