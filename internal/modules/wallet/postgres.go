package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Apply(ctx context.Context, txs ...*Transaction) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbtx.Rollback()

	order := lockOrder(txs)
	balances := make(map[uuid.UUID]float64, len(order))
	for _, id := range order {
		b, err := lockWallet(ctx, dbtx, id)
		if err != nil {
			return err
		}
		balances[id] = b
	}

	for _, t := range txs {
		next := balances[t.UserID] + t.signed()
		if next < 0 {
			return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, t.Amount, balances[t.UserID])
		}
		balances[t.UserID] = next
		t.Status = StatusCompleted
		if err := insert(ctx, dbtx, t); err != nil {
			return err
		}
	}

	for _, id := range order {
		if _, err := dbtx.ExecContext(ctx,
			`UPDATE wallets SET balance=$1, updated_at=$2 WHERE user_id=$3`, balances[id], time.Now(), id); err != nil {
			return err
		}
	}
	return dbtx.Commit()
}

func (r *postgresRepo) Record(ctx context.Context, t *Transaction) error {
	t.Status = StatusPending
	return insert(ctx, r.db, t)
}

func (r *postgresRepo) Settle(ctx context.Context, id string, status Status) (*Transaction, error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer dbtx.Rollback()

	t, err := scan(dbtx.QueryRowContext(ctx, selectSQL+" WHERE id=$1 FOR UPDATE", id))
	if err != nil {
		return nil, err
	}
	if t.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotPending, id, t.Status)
	}

	if status == StatusCompleted {
		b, err := lockWallet(ctx, dbtx, t.UserID)
		if err != nil {
			return nil, err
		}
		next := b + t.signed()
		if next < 0 {
			return nil, ErrInsufficientFunds
		}
		if _, err := dbtx.ExecContext(ctx,
			`UPDATE wallets SET balance=$1, updated_at=$2 WHERE user_id=$3`, next, time.Now(), t.UserID); err != nil {
			return nil, err
		}
	}
	if _, err := dbtx.ExecContext(ctx,
		`UPDATE wallet_transactions SET status=$1 WHERE id=$2`, status, t.ID); err != nil {
		return nil, err
	}
	if err := dbtx.Commit(); err != nil {
		return nil, err
	}
	t.Status = status
	return t, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Transaction, error) {
	return scan(r.db.QueryRowContext(ctx, selectSQL+" WHERE id=$1", id))
}

func (r *postgresRepo) Balance(ctx context.Context, userID string) (float64, error) {
	var b float64
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id=$1`, userID).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return b, err
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]*Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectSQL+" WHERE user_id=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []*Transaction{}
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// lockOrder returns the distinct wallets touched by txs in a stable order
// so concurrent batches acquire row locks the same way.
func lockOrder(txs []*Transaction) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, t := range txs {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			ids = append(ids, t.UserID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func lockWallet(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (float64, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallets (user_id, balance, currency) VALUES ($1, 0, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, DefaultCurrency); err != nil {
		return 0, err
	}
	var b float64
	err := tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).Scan(&b)
	return b, err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insert(ctx context.Context, db execer, t *Transaction) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO wallet_transactions
		  (id, user_id, kind, purpose, amount, currency, reference, provider_ref, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		t.ID, t.UserID, t.Kind, t.Purpose, t.Amount, t.Currency,
		nilIfEmpty(t.Reference), nilIfEmpty(t.ProviderRef), t.Status)
	return err
}

const selectSQL = `
	SELECT id, user_id, kind, purpose, amount, currency, reference, provider_ref, status, created_at
	FROM wallet_transactions`

type rowScanner interface{ Scan(dest ...interface{}) error }

func scan(row rowScanner) (*Transaction, error) {
	t := &Transaction{}
	var reference, providerRef sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &t.Kind, &t.Purpose, &t.Amount, &t.Currency,
		&reference, &providerRef, &t.Status, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Reference = reference.String
	t.ProviderRef = providerRef.String
	return t, nil
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
