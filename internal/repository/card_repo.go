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

type CardRepository interface {
	CreateApplication(ctx context.Context, app *domain.CardApplication) error
	GetApplicationByID(ctx context.Context, id string) (*domain.CardApplication, error)
	GetApplicationByUser(ctx context.Context, userID string) (*domain.CardApplication, error)
	// Decide finalizes a pending application. Card fields are non-nil only
	// for approvals.
	Decide(ctx context.Context, app *domain.CardApplication) error
}

type cardRepo struct {
	db *pgxpool.Pool
}

func NewCardRepo(db *pgxpool.Pool) CardRepository {
	return &cardRepo{db: db}
}

const cardColumns = `id, user_id, status, full_name, phone, address,
	card_number, card_expiry, card_cvc, issuer_suffix, created_at, decided_at`

func (r *cardRepo) CreateApplication(ctx context.Context, app *domain.CardApplication) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO card_applications (
			id, user_id, status, full_name, phone, address, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		app.ID, app.UserID, app.Status, app.FullName, app.Phone, app.Address, app.CreatedAt)
	if err != nil {
		if xerrors.ParsePGErrorCode(err) == "23505" {
			return xerrors.ErrApplicationExists
		}
		return fmt.Errorf("failed to insert card application: %w", err)
	}
	return nil
}

func scanApplication(row pgx.Row) (*domain.CardApplication, error) {
	var a domain.CardApplication
	err := row.Scan(&a.ID, &a.UserID, &a.Status, &a.FullName, &a.Phone, &a.Address,
		&a.CardNumber, &a.CardExpiry, &a.CardCVC, &a.IssuerSuffix, &a.CreatedAt, &a.DecidedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to scan card application: %w", err)
	}
	return &a, nil
}

func (r *cardRepo) GetApplicationByID(ctx context.Context, id string) (*domain.CardApplication, error) {
	row := r.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM card_applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *cardRepo) GetApplicationByUser(ctx context.Context, userID string) (*domain.CardApplication, error) {
	row := r.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM card_applications WHERE user_id = $1`, userID)
	return scanApplication(row)
}

func (r *cardRepo) Decide(ctx context.Context, app *domain.CardApplication) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE card_applications
		SET status = $1,
		    card_number = $2,
		    card_expiry = $3,
		    card_cvc = $4,
		    issuer_suffix = $5,
		    decided_at = NOW()
		WHERE id = $6 AND status = $7`,
		app.Status, app.CardNumber, app.CardExpiry, app.CardCVC, app.IssuerSuffix,
		app.ID, domain.CardPending)
	if err != nil {
		return fmt.Errorf("failed to decide card application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrApplicationDecided
	}
	return nil
}
