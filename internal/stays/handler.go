package stays

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/posada-hms/posada/internal/platform/httpx"
	"github.com/posada-hms/posada/internal/shared"
)

// Handler manages stay endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers stay routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.checkIn)
	r.Get("/quote", h.quote)
	r.Get("/overdue", h.overdue)
	r.Get("/{id}", h.get)
	r.Get("/by-room/{number}", h.activeByRoom)
}

type checkInRequest struct {
	GuestID         int64   `json:"guest_id" validate:"required"`
	RoomNumber      int     `json:"room_number" validate:"required"`
	EntryDate       string  `json:"entry_date" validate:"required"`
	PlannedExitDate string  `json:"planned_exit_date" validate:"required"`
	Notes           string  `json:"notes"`
	CompanionIDs    []int64 `json:"companion_ids"`
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation failed", err.Error())
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	stay, err := h.service.CheckIn(r.Context(), identity.UserID, CheckInInput{
		GuestID:         req.GuestID,
		RoomNumber:      req.RoomNumber,
		EntryDate:       req.EntryDate,
		PlannedExitDate: req.PlannedExitDate,
		Notes:           req.Notes,
		CompanionIDs:    req.CompanionIDs,
	})
	if err != nil {
		h.logger.Error("check-in", slog.Any("error", err), slog.Int("room", req.RoomNumber))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, stay)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.URL.Query().Get("room"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	q, err := h.service.QuoteStay(r.Context(), number, r.URL.Query().Get("entry"), r.URL.Query().Get("exit"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	stay, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	companions, err := h.service.Companions(r.Context(), stay.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stay": stay, "companion_ids": companions})
}

func (h *Handler) activeByRoom(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	stay, err := h.service.ActiveByRoom(r.Context(), number)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stay)
}

func (h *Handler) overdue(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Overdue(r.Context())
	if err != nil {
		h.logger.Error("list overdue stays", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stays": list})
}
