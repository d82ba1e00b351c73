package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"
	"github.com/shahmubaruk05/wallet-exchange/internal/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository interface {
	// Create inserts a standalone record (no balance mutation coupled).
	Create(ctx context.Context, t *domain.Transaction) error
	// CreateInTx inserts inside an enclosing ledger transaction so the
	// record and the balance mutation commit or roll back together.
	CreateInTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error

	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error)
	ListAll(ctx context.Context, limit int) ([]*domain.Transaction, error)

	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.TransactionStatus, note *string) error

	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type transactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepo(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.BeginTx(ctx, pgx.TxOptions{})
}

const txColumns = `id, user_id, type, method, dest_method, sent_amount, sent_currency,
	received_amount, fee, status, sending_account, external_tx_id,
	sender_id, sender_email, recipient_id, recipient_email,
	admin_note, created_at, updated_at`

const insertTxQuery = `
	INSERT INTO transactions (
		id, user_id, type, method, dest_method, sent_amount, sent_currency,
		received_amount, fee, status, sending_account, external_tx_id,
		sender_id, sender_email, recipient_id, recipient_email,
		admin_note, created_at, updated_at
	) VALUES (
		$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19
	)`

func insertArgs(t *domain.Transaction) []interface{} {
	return []interface{}{
		t.ID, t.UserID, t.Type, t.Method, t.DestMethod, t.SentAmount, t.SentCurrency,
		t.ReceivedAmount, t.Fee, t.Status, t.SendingAccount, t.ExternalTxID,
		t.SenderID, t.SenderEmail, t.RecipientID, t.RecipientEmail,
		t.AdminNote, t.CreatedAt, t.UpdatedAt,
	}
}

func (r *transactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	_, err := r.db.Exec(ctx, insertTxQuery, insertArgs(t)...)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) CreateInTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	_, err := tx.Exec(ctx, insertTxQuery, insertArgs(t)...)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Method, &t.DestMethod, &t.SentAmount, &t.SentCurrency,
		&t.ReceivedAmount, &t.Fee, &t.Status, &t.SendingAccount, &t.ExternalTxID,
		&t.SenderID, &t.SenderEmail, &t.RecipientID, &t.RecipientEmail,
		&t.AdminNote, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	return &t, nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

func (r *transactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Transaction, error) {
	if tx == nil {
		return nil, errors.New("transaction cannot be nil for locked query")
	}
	row := tx.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
	return scanTransaction(row)
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *transactionRepo) ListAll(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+txColumns+` FROM transactions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Type, &t.Method, &t.DestMethod, &t.SentAmount, &t.SentCurrency,
			&t.ReceivedAmount, &t.Fee, &t.Status, &t.SendingAccount, &t.ExternalTxID,
			&t.SenderID, &t.SenderEmail, &t.RecipientID, &t.RecipientEmail,
			&t.AdminNote, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return out, nil
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.TransactionStatus, note *string) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET status = $1,
		    admin_note = COALESCE($2, admin_note),
		    updated_at = NOW()
		WHERE id = $3`,
		status, note, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrTransactionNotFound
	}
	return nil
}
