package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"chargepay/internal/checkout"
	"chargepay/internal/gateway"
)

// Repo persists payment attempts and the transaction snapshots the poller
// observes. It satisfies checkout.Recorder and the status package's Sink.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

// AttemptRow is one submission as stored.
type AttemptRow struct {
	ID            string    `json:"id"`
	TransactionID *string   `json:"transactionId"`
	Method        string    `json:"method"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	ContractID    *string   `json:"contractId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RecordAttempt inserts the record of one submission. The transaction id
// may be empty when the processor rejected before creating a record.
func (r *Repo) RecordAttempt(ctx context.Context, a checkout.Attempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payment_attempts (
			id, transaction_id, method, amount, currency, contract_id, status
		)
		VALUES ($1, NULLIF($2,''), $3, $4, $5, NULLIF($6,''), $7)
	`, a.ID, a.TransactionID, string(a.Method), a.Amount, a.Currency, a.ContractID, string(a.Status))
	return err
}

// OnSnapshot records the latest observed state of a transaction. Keyed by
// transaction id; each poll replaces the previous row.
func (r *Repo) OnSnapshot(ctx context.Context, snap gateway.TransactionSnapshot) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO transaction_snapshots (
			transaction_id, account_id, merchant_account_id, status,
			tx_created_at, tx_updated_at, observed_at
		)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		ON CONFLICT (transaction_id) DO UPDATE
		  SET status        = EXCLUDED.status,
		      tx_updated_at = EXCLUDED.tx_updated_at,
		      observed_at   = now()
	`, snap.ID, snap.AccountID, snap.MerchantAccountID, string(snap.Status), snap.CreatedAt, snap.UpdatedAt)
	if err == nil {
		// Reflect the latest status onto the originating attempt as well.
		_, err = r.db.Exec(ctx, `
			UPDATE payment_attempts
			   SET status = $2, updated_at = now()
			 WHERE transaction_id = $1
		`, snap.ID, string(snap.Status))
	}
	if err != nil {
		// Snapshot writes ride the poller's hot path; losing one only
		// costs history, so log and keep polling.
		log.Error().Err(err).Str("transaction_id", snap.ID).Msg("snapshot persist failed")
	}
}

// ListAttempts returns recent attempts, newest first.
func (r *Repo) ListAttempts(ctx context.Context, limit, offset int) ([]AttemptRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, transaction_id, method, amount, currency, contract_id,
		       status, created_at, updated_at
		  FROM payment_attempts
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttemptRow
	for rows.Next() {
		var a AttemptRow
		if err := rows.Scan(&a.ID, &a.TransactionID, &a.Method, &a.Amount, &a.Currency, &a.ContractID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
