package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/posada-hms/posada/internal/platform/httpx"
)

// Handler manages report endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/day", h.daySummary)
}

func (h *Handler) daySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.DaySummary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Error("day summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
