package billing

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/posada-hms/posada/internal/platform/httpx"
	"github.com/posada-hms/posada/internal/shared"
)

// Handler manages billing endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers billing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/invoice/{number}", h.invoice)
	r.Get("/ledger/{stayID}", h.ledger)
	r.Post("/checkout", h.checkout)
	r.Post("/payments", h.partialPayment)
}

func (h *Handler) invoice(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	inv, err := h.service.InvoiceByRoom(r.Context(), number)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	stayID, err := strconv.ParseInt(chi.URLParam(r, "stayID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	entries, paid, err := h.service.StayLedger(r.Context(), stayID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": entries, "total_paid_usd": paid})
}

type checkoutRequest struct {
	RoomNumber      int         `json:"room_number" validate:"required"`
	Lines           []LineInput `json:"lines" validate:"required,min=1"`
	AccrueShortfall bool        `json:"accrue_shortfall"`
	IdempotencyKey  string      `json:"idempotency_key"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation failed", err.Error())
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	result, err := h.service.Checkout(r.Context(), identity.UserID, CheckoutInput{
		RoomNumber:      req.RoomNumber,
		Lines:           req.Lines,
		AccrueShortfall: req.AccrueShortfall,
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		h.logger.Error("checkout", slog.Any("error", err), slog.Int("room", req.RoomNumber))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) partialPayment(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation failed", err.Error())
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	result, err := h.service.PartialPayment(r.Context(), identity.UserID, CheckoutInput{
		RoomNumber:     req.RoomNumber,
		Lines:          req.Lines,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		h.logger.Error("partial payment", slog.Any("error", err), slog.Int("room", req.RoomNumber))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}
