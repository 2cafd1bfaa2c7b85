package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/posada-hms/posada/internal/platform/httpx"
	"github.com/posada-hms/posada/internal/shared"
)

// Handler manages configuration endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireAdmin)
		r.Put("/", h.update)
	})
}

type updateRequest struct {
	HotelName    string  `json:"hotel_name" validate:"required"`
	ExchangeRate float64 `json:"exchange_rate" validate:"required,gt=0"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("load settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation failed", err.Error())
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	cfg, err := h.service.Update(r.Context(), identity.UserID, UpdateInput{
		HotelName:    req.HotelName,
		ExchangeRate: req.ExchangeRate,
	})
	if err != nil {
		h.logger.Error("update settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}
