package rooms

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/posada-hms/posada/internal/platform/httpx"
	"github.com/posada-hms/posada/internal/shared"
)

// Handler manages room endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers room routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.board)
	r.Get("/{number}", h.get)
	r.Post("/{number}/status", h.setStatus)
	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireAdmin)
		r.Put("/{number}", h.update)
	})
}

func roomNumber(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "number"))
}

func (h *Handler) board(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Board(r.Context())
	if err != nil {
		h.logger.Error("load room board", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rooms": rows})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	number, err := roomNumber(r)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	room, err := h.service.Get(r.Context(), number)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, room)
}

type updateRequest struct {
	RoomType    string  `json:"room_type" validate:"required"`
	Description string  `json:"description"`
	RateUSD     float64 `json:"rate_usd" validate:"required,gt=0"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	number, err := roomNumber(r)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
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
	room, err := h.service.Update(r.Context(), identity.UserID, number, UpdateInput{
		RoomType:    req.RoomType,
		Description: req.Description,
		RateUSD:     req.RateUSD,
	})
	if err != nil {
		h.logger.Error("update room", slog.Any("error", err), slog.Int("room", number))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, room)
}

type statusRequest struct {
	Status Status `json:"status" validate:"required"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	number, err := roomNumber(r)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	room, err := h.service.SetStatus(r.Context(), identity.UserID, number, req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, room)
}
