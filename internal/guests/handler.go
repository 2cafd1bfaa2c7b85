package guests

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/posada-hms/posada/internal/platform/httpx"
	"github.com/posada-hms/posada/internal/shared"
)

// Handler manages guest endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers guest routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.search)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireAdmin)
		r.Put("/{id}/balance", h.adjustBalance)
	})
}

type guestRequest struct {
	Document    string `json:"document" validate:"required"`
	Names       string `json:"names" validate:"required"`
	Phone       string `json:"phone"`
	BirthDate   string `json:"birth_date"`
	Nationality string `json:"nationality"`
	Profession  string `json:"profession"`
	Vehicle     string `json:"vehicle"`
}

func (req guestRequest) input() Input {
	return Input{
		Document:    req.Document,
		Names:       req.Names,
		Phone:       req.Phone,
		BirthDate:   req.BirthDate,
		Nationality: req.Nationality,
		Profession:  req.Profession,
		Vehicle:     req.Vehicle,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation failed", err.Error())
		return
	}
	g, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		h.logger.Error("create guest", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, g)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	var req guestRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation failed", err.Error())
		return
	}
	g, err := h.service.Update(r.Context(), id, req.input())
	if err != nil {
		h.logger.Error("update guest", slog.Any("error", err), slog.Int64("guest_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, g)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, g)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	if document := r.URL.Query().Get("document"); document != "" {
		g, err := h.service.Lookup(r.Context(), document)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, g)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"guests": list})
}

type balanceRequest struct {
	Balance float64 `json:"balance"`
}

func (h *Handler) adjustBalance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	var req balanceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	g, err := h.service.AdjustBalance(r.Context(), identity.UserID, id, req.Balance)
	if err != nil {
		h.logger.Error("adjust guest balance", slog.Any("error", err), slog.Int64("guest_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, g)
}
