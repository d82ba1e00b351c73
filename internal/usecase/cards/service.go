package cards

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/ids"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"
	"github.com/shahmubaruk05/wallet-exchange/internal/repository"
)

// Service covers the user side of virtual card applications. Admin
// decisions live in the admin usecase.
type Service struct {
	cards repository.CardRepository
	ids   *ids.Generator
}

func New(cards repository.CardRepository, gen *ids.Generator) *Service {
	return &Service{cards: cards, ids: gen}
}

type ApplicationInput struct {
	FullName string
	Phone    string
	Address  string
}

// Apply submits the one-per-user card application.
func (s *Service) Apply(ctx context.Context, userID string, in ApplicationInput) (*domain.CardApplication, error) {
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, xerrors.ErrInvalidRequest
	}

	if _, err := s.cards.GetApplicationByUser(ctx, userID); err == nil {
		return nil, xerrors.ErrApplicationExists
	} else if !errors.Is(err, xerrors.ErrApplicationNotFound) {
		return nil, err
	}

	app := &domain.CardApplication{
		ID:        s.ids.New(),
		UserID:    userID,
		Status:    domain.CardPending,
		FullName:  strings.TrimSpace(in.FullName),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: time.Now(),
	}
	if err := s.cards.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetOwn returns the caller's application, if any.
func (s *Service) GetOwn(ctx context.Context, userID string) (*domain.CardApplication, error) {
	return s.cards.GetApplicationByUser(ctx, userID)
}
