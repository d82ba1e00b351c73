package cards

import (
	"context"
	"testing"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/ids"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCards struct {
	apps map[string]*domain.CardApplication
}

func (m *memCards) CreateApplication(ctx context.Context, app *domain.CardApplication) error {
	m.apps[app.ID] = app
	return nil
}

func (m *memCards) GetApplicationByID(ctx context.Context, id string) (*domain.CardApplication, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, xerrors.ErrApplicationNotFound
	}
	return app, nil
}

func (m *memCards) GetApplicationByUser(ctx context.Context, userID string) (*domain.CardApplication, error) {
	for _, a := range m.apps {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, xerrors.ErrApplicationNotFound
}

func (m *memCards) Decide(ctx context.Context, app *domain.CardApplication) error {
	m.apps[app.ID] = app
	return nil
}

func TestApply(t *testing.T) {
	repo := &memCards{apps: make(map[string]*domain.CardApplication)}
	svc := New(repo, ids.NewGenerator())
	ctx := context.Background()

	app, err := svc.Apply(ctx, "u-1", ApplicationInput{FullName: "  Test User ", Phone: "01711000000"})
	require.NoError(t, err)
	assert.Equal(t, domain.CardPending, app.Status)
	assert.Equal(t, "Test User", app.FullName)

	// One application per user.
	_, err = svc.Apply(ctx, "u-1", ApplicationInput{FullName: "Test User", Phone: "01711000000"})
	assert.ErrorIs(t, err, xerrors.ErrApplicationExists)

	own, err := svc.GetOwn(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, app.ID, own.ID)
}

func TestApplyValidation(t *testing.T) {
	repo := &memCards{apps: make(map[string]*domain.CardApplication)}
	svc := New(repo, ids.NewGenerator())
	ctx := context.Background()

	_, err := svc.Apply(ctx, "u-1", ApplicationInput{Phone: "01711000000"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidRequest)

	_, err = svc.Apply(ctx, "u-1", ApplicationInput{FullName: "Test User"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidRequest)
}
