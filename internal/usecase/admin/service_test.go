package admin

import (
	"context"
	"testing"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"
	"github.com/shahmubaruk05/wallet-exchange/internal/repository/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRates struct {
	rows map[string]*domain.ExchangeRate
}

func (m *memRates) key(base, quote domain.Currency) string {
	return string(base) + ":" + string(quote)
}

func (m *memRates) GetRate(ctx context.Context, base, quote domain.Currency) (*domain.ExchangeRate, error) {
	r, ok := m.rows[m.key(base, quote)]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return r, nil
}

func (m *memRates) UpsertRate(ctx context.Context, base, quote domain.Currency, rate decimal.Decimal) (*domain.ExchangeRate, error) {
	row := &domain.ExchangeRate{BaseCurrency: base, QuoteCurrency: quote, Rate: rate, UpdatedAt: time.Now()}
	m.rows[m.key(base, quote)] = row
	return row, nil
}

func (m *memRates) ListRates(ctx context.Context) ([]*domain.ExchangeRate, error) {
	var out []*domain.ExchangeRate
	for _, r := range m.rows {
		out = append(out, r)
	}
	return out, nil
}

type memLimits struct {
	rows map[string]*domain.ExchangeLimit
}

func (m *memLimits) GetLimit(ctx context.Context, fromMethod, toMethod string) (*domain.ExchangeLimit, error) {
	l, ok := m.rows[fromMethod+":"+toMethod]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return l, nil
}

func (m *memLimits) UpsertLimit(ctx context.Context, fromMethod, toMethod string, min, max decimal.Decimal) (*domain.ExchangeLimit, error) {
	row := &domain.ExchangeLimit{FromMethod: fromMethod, ToMethod: toMethod, MinAmount: min, MaxAmount: max, UpdatedAt: time.Now()}
	m.rows[fromMethod+":"+toMethod] = row
	return row, nil
}

func (m *memLimits) ListLimits(ctx context.Context) ([]*domain.ExchangeLimit, error) {
	var out []*domain.ExchangeLimit
	for _, l := range m.rows {
		out = append(out, l)
	}
	return out, nil
}

type memCards struct {
	apps map[string]*domain.CardApplication
}

func (m *memCards) CreateApplication(ctx context.Context, app *domain.CardApplication) error {
	for _, a := range m.apps {
		if a.UserID == app.UserID {
			return xerrors.ErrApplicationExists
		}
	}
	m.apps[app.ID] = app
	return nil
}

func (m *memCards) GetApplicationByID(ctx context.Context, id string) (*domain.CardApplication, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, xerrors.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (m *memCards) GetApplicationByUser(ctx context.Context, userID string) (*domain.CardApplication, error) {
	for _, a := range m.apps {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, xerrors.ErrApplicationNotFound
}

func (m *memCards) Decide(ctx context.Context, app *domain.CardApplication) error {
	stored, ok := m.apps[app.ID]
	if !ok {
		return xerrors.ErrApplicationNotFound
	}
	if stored.Status != domain.CardPending {
		return xerrors.ErrApplicationDecided
	}
	now := time.Now()
	app.DecidedAt = &now
	m.apps[app.ID] = app
	return nil
}

type recorder struct {
	completed []*domain.Transaction
	balances  map[string]decimal.Decimal
}

func newRecorder() *recorder {
	return &recorder{balances: make(map[string]decimal.Decimal)}
}

func (r *recorder) TransactionCompleted(ctx context.Context, t *domain.Transaction) {
	r.completed = append(r.completed, t)
}

func (r *recorder) NotifyBalance(userID string, balance decimal.Decimal) {
	r.balances[userID] = balance
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	ledger *repotest.Ledger
	rates  *memRates
	limits *memLimits
	cards  *memCards
	rec    *recorder
	svc    *Service

	admin    *domain.User
	customer *domain.User
}

func newFixture() *fixture {
	adm := &domain.User{ID: "u-admin", Email: "ops@example.com", Role: domain.RoleAdmin}
	customer := &domain.User{ID: "u-cust", Email: "cust@example.com", Role: domain.RoleUser, Balance: d("10")}
	ledger := repotest.NewLedger(adm, customer)

	f := &fixture{
		ledger:   ledger,
		rates:    &memRates{rows: make(map[string]*domain.ExchangeRate)},
		limits:   &memLimits{rows: make(map[string]*domain.ExchangeLimit)},
		cards:    &memCards{apps: make(map[string]*domain.CardApplication)},
		rec:      newRecorder(),
		admin:    adm,
		customer: customer,
	}
	f.svc = New(ledger.UserRepo(), ledger.TxRepo(), f.rates, f.limits, f.cards,
		nil, nil, f.rec, f.rec, zap.NewNop())
	return f
}

func (f *fixture) seedAddFunds(t *testing.T, received string) *domain.Transaction {
	t.Helper()
	rec := domain.NewAddFunds("tx-1", f.customer.ID, domain.MethodPayPal,
		domain.Quote{Amount: d("100"), CounterAmount: d(received), Fee: d("5")},
		domain.CurrencyUSD, "acct", "EXT-1", time.Now())
	require.NoError(t, f.ledger.TxRepo().Create(context.Background(), rec))
	return rec
}

func TestSetTransactionStatusRequiresAdmin(t *testing.T) {
	f := newFixture()
	rec := f.seedAddFunds(t, "95")

	_, err := f.svc.SetTransactionStatus(context.Background(), f.customer.ID, rec.ID, domain.StatusCompleted, nil)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestCompleteAddFundsCreditsWallet(t *testing.T) {
	f := newFixture()
	rec := f.seedAddFunds(t, "95")

	updated, err := f.svc.SetTransactionStatus(context.Background(), f.admin.ID, rec.ID, domain.StatusCompleted, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.True(t, f.ledger.Balance(f.customer.ID).Equal(d("105")), "balance %s", f.ledger.Balance(f.customer.ID))

	stored, err := f.ledger.TxRepo().GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	assert.Len(t, f.rec.completed, 1)
	assert.True(t, f.rec.balances[f.customer.ID].Equal(d("105")))
}

func TestCancelAddFundsDoesNotCredit(t *testing.T) {
	f := newFixture()
	rec := f.seedAddFunds(t, "95")

	note := "sender account mismatch"
	updated, err := f.svc.SetTransactionStatus(context.Background(), f.admin.ID, rec.ID, domain.StatusCancelled, &note)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, updated.Status)
	require.NotNil(t, updated.AdminNote)
	assert.Equal(t, note, *updated.AdminNote)
	assert.True(t, f.ledger.Balance(f.customer.ID).Equal(d("10")))
	assert.Empty(t, f.rec.completed)
}

func TestCompleteCardTopUpDoesNotCredit(t *testing.T) {
	f := newFixture()
	rec := domain.NewCardTopUp("tx-2", f.customer.ID,
		domain.Quote{Amount: d("5"), CounterAmount: d("5")}, time.Now())
	require.NoError(t, f.ledger.TxRepo().Create(context.Background(), rec))

	_, err := f.svc.SetTransactionStatus(context.Background(), f.admin.ID, rec.ID, domain.StatusCompleted, nil)
	require.NoError(t, err)

	// Only settled deposits credit the wallet; the top-up already debited
	// it at submission.
	assert.True(t, f.ledger.Balance(f.customer.ID).Equal(d("10")))
}

func TestSetTransactionStatusInvalidTransition(t *testing.T) {
	f := newFixture()
	rec := f.seedAddFunds(t, "95")
	ctx := context.Background()

	_, err := f.svc.SetTransactionStatus(ctx, f.admin.ID, rec.ID, domain.StatusCompleted, nil)
	require.NoError(t, err)

	// Completed is terminal.
	for _, next := range []domain.TransactionStatus{domain.StatusPending, domain.StatusProcessing, domain.StatusCancelled} {
		_, err := f.svc.SetTransactionStatus(ctx, f.admin.ID, rec.ID, next, nil)
		assert.ErrorIs(t, err, xerrors.ErrInvalidTransition, next)
	}

	// And a terminal retry must not double-credit.
	assert.True(t, f.ledger.Balance(f.customer.ID).Equal(d("105")))
}

func TestSetTransactionStatusStepwise(t *testing.T) {
	f := newFixture()
	rec := f.seedAddFunds(t, "95")
	ctx := context.Background()

	for _, next := range []domain.TransactionStatus{domain.StatusProcessing, domain.StatusPaid, domain.StatusCompleted} {
		_, err := f.svc.SetTransactionStatus(ctx, f.admin.ID, rec.ID, next, nil)
		require.NoError(t, err, next)
	}
	assert.True(t, f.ledger.Balance(f.customer.ID).Equal(d("105")))
}

func TestSetTransactionStatusNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SetTransactionStatus(context.Background(), f.admin.ID, "tx-missing", domain.StatusCompleted, nil)
	assert.ErrorIs(t, err, xerrors.ErrTransactionNotFound)
}

func TestSetRate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	row, err := f.svc.SetRate(ctx, f.admin.ID, domain.CurrencyUSD, domain.CurrencyBDT, d("123.5"))
	require.NoError(t, err)
	assert.True(t, row.Rate.Equal(d("123.5")))

	_, err = f.svc.SetRate(ctx, f.admin.ID, domain.CurrencyUSD, domain.CurrencyBDT, decimal.Zero)
	assert.ErrorIs(t, err, xerrors.ErrInvalidAmount)

	_, err = f.svc.SetRate(ctx, f.customer.ID, domain.CurrencyUSD, domain.CurrencyBDT, d("1"))
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestSetLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	row, err := f.svc.SetLimit(ctx, f.admin.ID, domain.MethodBkash, domain.MethodPayPal, d("2000"), d("10000"))
	require.NoError(t, err)
	assert.True(t, row.MinAmount.Equal(d("2000")))
	assert.True(t, row.MaxAmount.Equal(d("10000")))

	_, err = f.svc.SetLimit(ctx, f.admin.ID, "venmo", domain.MethodPayPal, d("1"), d("2"))
	assert.ErrorIs(t, err, xerrors.ErrUnknownMethod)

	_, err = f.svc.SetLimit(ctx, f.admin.ID, domain.MethodBkash, domain.MethodPayPal, d("10"), d("5"))
	assert.ErrorIs(t, err, xerrors.ErrInvalidRequest)

	_, err = f.svc.SetLimit(ctx, f.admin.ID, domain.MethodBkash, domain.MethodPayPal, d("-1"), d("5"))
	assert.ErrorIs(t, err, xerrors.ErrInvalidRequest)
}

func TestListTransactionsRequiresAdmin(t *testing.T) {
	f := newFixture()
	f.seedAddFunds(t, "95")
	ctx := context.Background()

	_, err := f.svc.ListTransactions(ctx, f.customer.ID, 0)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	list, err := f.svc.ListTransactions(ctx, f.admin.ID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func seedApplication(f *fixture) *domain.CardApplication {
	app := &domain.CardApplication{
		ID:        "app-1",
		UserID:    f.customer.ID,
		Status:    domain.CardPending,
		FullName:  "Test Customer",
		Phone:     "01711000000",
		CreatedAt: time.Now(),
	}
	f.cards.apps[app.ID] = app
	return app
}

func TestDecideCardApplicationApprove(t *testing.T) {
	f := newFixture()
	app := seedApplication(f)

	decided, err := f.svc.DecideCardApplication(context.Background(), f.admin.ID, app.ID, true)
	require.NoError(t, err)

	assert.Equal(t, domain.CardApproved, decided.Status)
	require.NotNil(t, decided.CardNumber)
	require.NotNil(t, decided.CardExpiry)
	require.NotNil(t, decided.CardCVC)
	require.NotNil(t, decided.IssuerSuffix)
	assert.Len(t, *decided.CardNumber, 16)
	assert.Len(t, *decided.CardCVC, 3)
	assert.Equal(t, (*decided.CardNumber)[12:], *decided.IssuerSuffix)
}

func TestDecideCardApplicationReject(t *testing.T) {
	f := newFixture()
	app := seedApplication(f)

	decided, err := f.svc.DecideCardApplication(context.Background(), f.admin.ID, app.ID, false)
	require.NoError(t, err)

	assert.Equal(t, domain.CardRejected, decided.Status)
	assert.Nil(t, decided.CardNumber)
}

func TestDecideCardApplicationOnlyOnce(t *testing.T) {
	f := newFixture()
	app := seedApplication(f)
	ctx := context.Background()

	_, err := f.svc.DecideCardApplication(ctx, f.admin.ID, app.ID, false)
	require.NoError(t, err)

	_, err = f.svc.DecideCardApplication(ctx, f.admin.ID, app.ID, true)
	assert.ErrorIs(t, err, xerrors.ErrApplicationDecided)
}

func TestDecideCardApplicationNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.DecideCardApplication(context.Background(), f.admin.ID, "app-missing", true)
	assert.ErrorIs(t, err, xerrors.ErrApplicationNotFound)
}
