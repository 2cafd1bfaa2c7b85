package billing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/posada-hms/posada/internal/fx"
	"github.com/posada-hms/posada/internal/shared"
	"github.com/posada-hms/posada/internal/stays"
)

// underpayTolerance absorbs float accumulation when comparing collected
// against due.
const underpayTolerance = 0.001

// RepositoryPort defines ledger data access.
type RepositoryPort interface {
	ListByStay(ctx context.Context, stayID int64) ([]Transaction, error)
	TotalPaidUSD(ctx context.Context, stayID int64) (float64, error)
	CommitPartialPayment(ctx context.Context, payments []Transaction) error
	CommitCheckout(ctx context.Context, stayID int64, roomNumber int, guestID int64, payments []Transaction, newBalance float64, closedOn time.Time) error
}

// StaysPort supplies active stay lookups.
type StaysPort interface {
	ActiveByRoom(ctx context.Context, roomNumber int) (stays.ActiveStay, error)
}

// RateSource supplies the exchange rate at commit time.
type RateSource interface {
	CurrentRate(ctx context.Context) (float64, error)
}

// Locker serialises checkout per room.
type Locker interface {
	Acquire(ctx context.Context, roomNumber int) (func(), error)
}

// IdempotencyPort rejects duplicate submissions.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
}

// Auditor records billing events.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles ledger and checkout logic.
type Service struct {
	repo        RepositoryPort
	stays       StaysPort
	rates       RateSource
	locker      Locker
	idempotency IdempotencyPort
	audit       Auditor
	now         func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, staysPort StaysPort, rates RateSource, locker Locker, idempotency IdempotencyPort, audit Auditor) *Service {
	return &Service{
		repo:        repo,
		stays:       staysPort,
		rates:       rates,
		locker:      locker,
		idempotency: idempotency,
		audit:       audit,
		now:         time.Now,
	}
}

// LineInput is one payment line as submitted by the client.
type LineInput struct {
	Method    Method  `json:"method"`
	RawAmount float64 `json:"raw_amount"`
	Reference string  `json:"reference"`
}

// buildLines materialises submitted lines into a LineSet at the given rate.
func buildLines(inputs []LineInput, rate float64) (*LineSet, error) {
	set := NewLineSet()
	for _, in := range inputs {
		if !in.Method.Valid() {
			return nil, fmt.Errorf("%w: unknown payment method %q", shared.ErrValidation, in.Method)
		}
		id := set.Add()
		raw := in.RawAmount
		method := in.Method
		ref := in.Reference
		if err := set.Update(id, LineUpdate{RawAmount: &raw, Method: &method, Reference: &ref}, rate); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Invoice is the recomputed money picture of an active stay.
type Invoice struct {
	StayID       int64   `json:"stay_id"`
	RoomNumber   int     `json:"room_number"`
	GuestID      int64   `json:"guest_id"`
	GuestNames   string  `json:"guest_names"`
	Nights       int     `json:"nights"`
	RateUSD      float64 `json:"rate_usd"`
	BaseCharge   float64 `json:"base_charge_usd"`
	GuestBalance float64 `json:"guest_balance"`
	AlreadyPaid  float64 `json:"already_paid_usd"`
	AmountDue    float64 `json:"amount_due_usd"`
	AmountDueLoc float64 `json:"amount_due_local"`
	ExchangeRate float64 `json:"exchange_rate"`
}

// invoiceFor recomputes the due amount fresh; nothing is cached from an
// earlier render, so a rate or balance change between render and commit is
// picked up here.
func (s *Service) invoiceFor(ctx context.Context, stay stays.ActiveStay) (Invoice, error) {
	rate, err := s.rates.CurrentRate(ctx)
	if err != nil {
		return Invoice{}, err
	}
	paid, err := s.repo.TotalPaidUSD(ctx, stay.ID)
	if err != nil {
		return Invoice{}, err
	}
	nights := stays.Nights(stay.EntryDate, stay.PlannedExitDate)
	base := stays.BaseCharge(nights, stay.RoomRateUSD)
	due := AmountDue(base, stay.GuestBalance, paid)
	return Invoice{
		StayID:       stay.ID,
		RoomNumber:   stay.RoomNumber,
		GuestID:      stay.GuestID,
		GuestNames:   stay.GuestNames,
		Nights:       nights,
		RateUSD:      stay.RoomRateUSD,
		BaseCharge:   base,
		GuestBalance: stay.GuestBalance,
		AlreadyPaid:  paid,
		AmountDue:    due,
		AmountDueLoc: fx.ToLocal(rate, due),
		ExchangeRate: rate,
	}, nil
}

// InvoiceByRoom returns the current invoice for a room's active stay.
func (s *Service) InvoiceByRoom(ctx context.Context, roomNumber int) (Invoice, error) {
	stay, err := s.stays.ActiveByRoom(ctx, roomNumber)
	if err != nil {
		return Invoice{}, err
	}
	return s.invoiceFor(ctx, stay)
}

// StayLedger returns the ledger entries and paid total of a stay.
func (s *Service) StayLedger(ctx context.Context, stayID int64) ([]Transaction, float64, error) {
	entries, err := s.repo.ListByStay(ctx, stayID)
	if err != nil {
		return nil, 0, err
	}
	paid, err := s.repo.TotalPaidUSD(ctx, stayID)
	if err != nil {
		return nil, 0, err
	}
	return entries, paid, nil
}

// CheckoutInput carries a checkout or partial payment submission.
type CheckoutInput struct {
	RoomNumber      int
	Lines           []LineInput
	AccrueShortfall bool
	IdempotencyKey  string
}

// CheckoutResult reports the committed money movement.
type CheckoutResult struct {
	StayID         int64   `json:"stay_id"`
	TotalCollected float64 `json:"total_collected_usd"`
	AmountDue      float64 `json:"amount_due_usd"`
	Overpay        float64 `json:"overpay_usd"`
	NewBalance     float64 `json:"new_balance"`
	Closed         bool    `json:"closed"`
}

func violationsError(violations []Violation) error {
	return fmt.Errorf("%w: %s", shared.ErrValidation, violations[0].Message)
}

// paymentRows converts the persistable lines. Zero and negative lines count
// on screen but never reach the ledger.
func paymentRows(set *LineSet, stayID, userID int64, rate float64, recordedAt time.Time, description string) []Transaction {
	var out []Transaction
	for _, l := range set.Lines() {
		if l.AmountUSD <= 0 {
			continue
		}
		id := stayID
		out = append(out, Transaction{
			StayID:       &id,
			AmountUSD:    fx.Round4(l.AmountUSD),
			ExchangeRate: rate,
			AmountLocal:  fx.Round2(l.AmountLocal),
			Method:       l.Method,
			Kind:         KindPayment,
			RecordedAt:   recordedAt,
			UserID:       userID,
			Reference:    l.Reference,
			Description:  description,
		})
	}
	return out
}

// Checkout settles and closes a room's active stay. The room lock keeps two
// terminals from double-crediting the balance; the idempotency key rejects a
// client retry of an already committed submission. An underpaid submission
// is refused unless the caller explicitly accrues the shortfall as debt.
func (s *Service) Checkout(ctx context.Context, actorID int64, in CheckoutInput) (CheckoutResult, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, in.RoomNumber)
		if err != nil {
			return CheckoutResult{}, err
		}
		defer release()
	}
	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, in.IdempotencyKey, "billing.checkout"); err != nil {
			return CheckoutResult{}, err
		}
	}

	stay, err := s.stays.ActiveByRoom(ctx, in.RoomNumber)
	if err != nil {
		return CheckoutResult{}, err
	}
	inv, err := s.invoiceFor(ctx, stay)
	if err != nil {
		return CheckoutResult{}, err
	}

	set, err := buildLines(in.Lines, inv.ExchangeRate)
	if err != nil {
		return CheckoutResult{}, err
	}
	if violations := set.Validate(); len(violations) > 0 {
		return CheckoutResult{}, violationsError(violations)
	}

	collected := set.CollectedUSD()
	var newBalance float64
	switch {
	case collected >= inv.AmountDue-underpayTolerance:
		newBalance = Settle(stay.GuestBalance, inv.AmountDue, collected)
	case in.AccrueShortfall:
		newBalance = AccrueShortfall(inv.AmountDue, collected)
	default:
		return CheckoutResult{}, fmt.Errorf("%w: collected %.2f of %.2f due", shared.ErrUnderpaid, collected, inv.AmountDue)
	}

	now := s.now()
	description := fmt.Sprintf("Room #%d - %dn", stay.RoomNumber, inv.Nights)
	payments := paymentRows(set, stay.ID, actorID, inv.ExchangeRate, now, description)

	closedOn := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.repo.CommitCheckout(ctx, stay.ID, stay.RoomNumber, stay.GuestID, payments, newBalance, closedOn); err != nil {
		return CheckoutResult{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "billing.checkout",
			Entity:   "stay",
			EntityID: strconv.FormatInt(stay.ID, 10),
			Meta: map[string]any{
				"room":        strconv.Itoa(stay.RoomNumber),
				"collected":   strconv.FormatFloat(collected, 'f', 2, 64),
				"due":         strconv.FormatFloat(inv.AmountDue, 'f', 2, 64),
				"new_balance": strconv.FormatFloat(newBalance, 'f', 2, 64),
			},
		})
	}

	return CheckoutResult{
		StayID:         stay.ID,
		TotalCollected: collected,
		AmountDue:      inv.AmountDue,
		Overpay:        Overpay(collected, inv.AmountDue),
		NewBalance:     newBalance,
		Closed:         true,
	}, nil
}

// PartialPayment commits payment rows against an open stay without closing
// it. Validation and per-line persistence match checkout exactly.
func (s *Service) PartialPayment(ctx context.Context, actorID int64, in CheckoutInput) (CheckoutResult, error) {
	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, in.IdempotencyKey, "billing.partial"); err != nil {
			return CheckoutResult{}, err
		}
	}
	stay, err := s.stays.ActiveByRoom(ctx, in.RoomNumber)
	if err != nil {
		return CheckoutResult{}, err
	}
	inv, err := s.invoiceFor(ctx, stay)
	if err != nil {
		return CheckoutResult{}, err
	}

	set, err := buildLines(in.Lines, inv.ExchangeRate)
	if err != nil {
		return CheckoutResult{}, err
	}
	if violations := set.Validate(); len(violations) > 0 {
		return CheckoutResult{}, violationsError(violations)
	}

	now := s.now()
	description := fmt.Sprintf("Room #%d - %dn", stay.RoomNumber, inv.Nights)
	payments := paymentRows(set, stay.ID, actorID, inv.ExchangeRate, now, description)
	if len(payments) == 0 {
		return CheckoutResult{}, fmt.Errorf("%w: no payable lines", shared.ErrValidation)
	}
	if err := s.repo.CommitPartialPayment(ctx, payments); err != nil {
		return CheckoutResult{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "billing.partial_payment",
			Entity:   "stay",
			EntityID: strconv.FormatInt(stay.ID, 10),
			Meta: map[string]any{
				"room":      strconv.Itoa(stay.RoomNumber),
				"collected": strconv.FormatFloat(set.CollectedUSD(), 'f', 2, 64),
			},
		})
	}

	return CheckoutResult{
		StayID:         stay.ID,
		TotalCollected: set.CollectedUSD(),
		AmountDue:      inv.AmountDue,
		Closed:         false,
	}, nil
}
