package transfer

import (
	"context"
	"testing"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/ids"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"
	"github.com/shahmubaruk05/wallet-exchange/internal/repository/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

func seedUsers() (*repotest.Ledger, *domain.User, *domain.User) {
	alice := &domain.User{ID: "u-alice", Email: "alice@example.com", Role: domain.RoleUser, Balance: d("100")}
	bob := &domain.User{ID: "u-bob", Email: "bob@example.com", Role: domain.RoleUser, Balance: d("10")}
	return repotest.NewLedger(alice, bob), alice, bob
}

func newTestService(l *repotest.Ledger, rec *recorder) *Service {
	var (
		events   Events
		notifier BalanceNotifier
	)
	if rec != nil {
		events = rec
		notifier = rec
	}
	return New(l.UserRepo(), l.TxRepo(), ids.NewGenerator(), events, notifier, zap.NewNop())
}

func TestSubmitMovesFundsAtomically(t *testing.T) {
	ledger, alice, bob := seedUsers()
	rec := newRecorder()
	svc := newTestService(ledger, rec)

	pair, err := svc.Submit(context.Background(), alice.ID, bob.Email, d("40"))
	require.NoError(t, err)

	assert.True(t, ledger.Balance(alice.ID).Equal(d("60")))
	assert.True(t, ledger.Balance(bob.ID).Equal(d("50")))

	// One mirrored record per party, both Completed, fee-free.
	require.NotNil(t, pair.Sender)
	require.NotNil(t, pair.Recipient)
	for _, side := range []*domain.Transaction{pair.Sender, pair.Recipient} {
		assert.Equal(t, domain.TxWalletTransfer, side.Type)
		assert.Equal(t, domain.StatusCompleted, side.Status)
		assert.True(t, side.SentAmount.Equal(d("40")))
		assert.True(t, side.ReceivedAmount.Equal(d("40")))
		assert.True(t, side.Fee.IsZero())
		require.NotNil(t, side.SenderID)
		require.NotNil(t, side.RecipientID)
		assert.Equal(t, alice.ID, *side.SenderID)
		assert.Equal(t, bob.ID, *side.RecipientID)
	}
	assert.Equal(t, alice.ID, pair.Sender.UserID)
	assert.Equal(t, bob.ID, pair.Recipient.UserID)
	assert.Len(t, ledger.RecordsFor(alice.ID), 1)
	assert.Len(t, ledger.RecordsFor(bob.ID), 1)

	// Post-commit hooks fired with the settled balances.
	assert.Len(t, rec.completed, 1)
	assert.True(t, rec.balances[alice.ID].Equal(d("60")))
	assert.True(t, rec.balances[bob.ID].Equal(d("50")))
}

func TestSubmitZeroSum(t *testing.T) {
	ledger, alice, bob := seedUsers()
	svc := newTestService(ledger, nil)

	before := ledger.Balance(alice.ID).Add(ledger.Balance(bob.ID))

	_, err := svc.Submit(context.Background(), alice.ID, bob.ID, d("33.33"))
	require.NoError(t, err)

	after := ledger.Balance(alice.ID).Add(ledger.Balance(bob.ID))
	assert.True(t, after.Equal(before), "before %s after %s", before, after)
}

func TestSubmitInsufficientFunds(t *testing.T) {
	ledger, alice, bob := seedUsers()
	svc := newTestService(ledger, nil)

	_, err := svc.Submit(context.Background(), alice.ID, bob.ID, d("150"))
	assert.ErrorIs(t, err, xerrors.ErrInsufficientFunds)

	assert.True(t, ledger.Balance(alice.ID).Equal(d("100")))
	assert.True(t, ledger.Balance(bob.ID).Equal(d("10")))
	assert.Empty(t, ledger.RecordsFor(alice.ID))
}

func TestSubmitExactBalance(t *testing.T) {
	ledger, alice, bob := seedUsers()
	svc := newTestService(ledger, nil)

	_, err := svc.Submit(context.Background(), alice.ID, bob.ID, d("100"))
	require.NoError(t, err)

	assert.True(t, ledger.Balance(alice.ID).IsZero())
	assert.True(t, ledger.Balance(bob.ID).Equal(d("110")))
}

func TestSubmitSelfTransferRejected(t *testing.T) {
	ledger, alice, _ := seedUsers()
	svc := newTestService(ledger, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, alice.ID, alice.ID, d("10"))
	assert.ErrorIs(t, err, xerrors.ErrSelfTransfer)

	// Case-insensitive match on the caller's own email.
	_, err = svc.Submit(ctx, alice.ID, "ALICE@example.com", d("10"))
	assert.ErrorIs(t, err, xerrors.ErrSelfTransfer)

	assert.True(t, ledger.Balance(alice.ID).Equal(d("100")))
}

func TestSubmitRecipientNotFound(t *testing.T) {
	ledger, alice, _ := seedUsers()
	svc := newTestService(ledger, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, alice.ID, "nobody@example.com", d("10"))
	assert.ErrorIs(t, err, xerrors.ErrRecipientNotFound)

	_, err = svc.Submit(ctx, alice.ID, "u-missing", d("10"))
	assert.ErrorIs(t, err, xerrors.ErrRecipientNotFound)
}

func TestSubmitRecipientEmailCaseInsensitive(t *testing.T) {
	ledger, alice, bob := seedUsers()
	svc := newTestService(ledger, nil)

	_, err := svc.Submit(context.Background(), alice.ID, "BOB@Example.COM", d("25"))
	require.NoError(t, err)
	assert.True(t, ledger.Balance(bob.ID).Equal(d("35")))
}

func TestSubmitInvalidAmount(t *testing.T) {
	ledger, alice, bob := seedUsers()
	svc := newTestService(ledger, nil)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, d("-5")} {
		_, err := svc.Submit(ctx, alice.ID, bob.ID, amount)
		assert.ErrorIs(t, err, xerrors.ErrInvalidAmount)
	}
}

func TestSubmitRechecksBalanceUnderLock(t *testing.T) {
	ledger, alice, bob := seedUsers()
	svc := newTestService(ledger, nil)

	// Drain the sender between the optimistic check and the locked read,
	// simulating a racing withdrawal that commits first.
	drained := false
	ledger.BeforeLock = func(userID string) {
		if userID == alice.ID && !drained {
			drained = true
			ledger.Users[alice.ID].Balance = d("10")
		}
	}

	_, err := svc.Submit(context.Background(), alice.ID, bob.ID, d("40"))
	assert.ErrorIs(t, err, xerrors.ErrInsufficientFunds)

	assert.True(t, ledger.Balance(alice.ID).Equal(d("10")))
	assert.True(t, ledger.Balance(bob.ID).Equal(d("10")))
	assert.Empty(t, ledger.RecordsFor(bob.ID))
}
