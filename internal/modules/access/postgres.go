package access

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) ActivationRepository { return &postgresRepo{db: db} }

func (r *postgresRepo) Get(ctx context.Context, userID string) (*Activation, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotActivated
	}
	a := &Activation{}
	var txID uuid.NullUUID
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, fee, transaction_id, activated_at
		FROM business_activations WHERE user_id=$1`, userID).
		Scan(&a.UserID, &a.Fee, &txID, &a.ActivatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotActivated
	}
	if err != nil {
		return nil, err
	}
	if txID.Valid {
		a.TransactionID = &txID.UUID
	}
	return a, nil
}

func (r *postgresRepo) Create(ctx context.Context, a *Activation) error {
	var txID interface{}
	if a.TransactionID != nil {
		txID = *a.TransactionID
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO business_activations (user_id, fee, transaction_id, activated_at)
		VALUES ($1,$2,$3,$4)`,
		a.UserID, a.Fee, txID, a.ActivatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyActivated
	}
	return err
}
