package guests

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/posada-hms/posada/internal/shared"
)

// RepositoryPort defines data access for guests.
type RepositoryPort interface {
	Create(ctx context.Context, in Input) (Guest, error)
	Update(ctx context.Context, id int64, in Input) (Guest, error)
	GetByID(ctx context.Context, id int64) (Guest, error)
	GetByDocument(ctx context.Context, document string) (Guest, error)
	Search(ctx context.Context, query string, limit int) ([]Guest, error)
	SetBalance(ctx context.Context, id int64, balance float64) error
}

// Auditor records guest changes.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles guest business logic.
type Service struct {
	repo  RepositoryPort
	audit Auditor
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit Auditor) *Service {
	return &Service{repo: repo, audit: audit}
}

func normalize(in Input) (Input, error) {
	in.Document = strings.TrimSpace(in.Document)
	in.Names = strings.TrimSpace(in.Names)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Nationality = strings.TrimSpace(in.Nationality)
	if in.Document == "" {
		return Input{}, fmt.Errorf("%w: document is required", shared.ErrValidation)
	}
	if in.Names == "" {
		return Input{}, fmt.Errorf("%w: names are required", shared.ErrValidation)
	}
	if in.Nationality == "" {
		in.Nationality = "Venezolano"
	}
	return in, nil
}

// Create registers a new guest.
func (s *Service) Create(ctx context.Context, in Input) (Guest, error) {
	in, err := normalize(in)
	if err != nil {
		return Guest{}, err
	}
	return s.repo.Create(ctx, in)
}

// Update rewrites a guest profile.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Guest, error) {
	in, err := normalize(in)
	if err != nil {
		return Guest{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// Get loads one guest by id.
func (s *Service) Get(ctx context.Context, id int64) (Guest, error) {
	return s.repo.GetByID(ctx, id)
}

// Lookup finds a guest by identity document.
func (s *Service) Lookup(ctx context.Context, document string) (Guest, error) {
	document = strings.TrimSpace(document)
	if document == "" {
		return Guest{}, fmt.Errorf("%w: document is required", shared.ErrValidation)
	}
	return s.repo.GetByDocument(ctx, document)
}

// Search matches guests by document prefix or name fragment.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Guest, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrValidation)
	}
	return s.repo.Search(ctx, query, limit)
}

// AdjustBalance sets a guest's stored credit, auditing the correction.
func (s *Service) AdjustBalance(ctx context.Context, actorID, id int64, balance float64) (Guest, error) {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Guest{}, err
	}
	if err := s.repo.SetBalance(ctx, id, balance); err != nil {
		return Guest{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "guests.balance_adjust",
			Entity:   "guest",
			EntityID: strconv.FormatInt(id, 10),
			Meta: map[string]any{
				"from": strconv.FormatFloat(before.Balance, 'f', 2, 64),
				"to":   strconv.FormatFloat(balance, 'f', 2, 64),
			},
		})
	}
	return s.repo.GetByID(ctx, id)
}
