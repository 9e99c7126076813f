package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"creditline/internal/creditline/models"
	id "creditline/pkg/domain"
	"creditline/pkg/platform/sentinel"
)

// PostgresStore persists decision records in PostgreSQL. Save is a single
// INSERT ... ON CONFLICT upsert, so the per-customer write is atomic at the
// store boundary; read-modify-write ordering is the engine's responsibility.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the records table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS credit_line_records (
			customer_id     UUID PRIMARY KEY,
			approved_amount NUMERIC(18,2) NOT NULL,
			status          TEXT NOT NULL,
			attempts        INTEGER NOT NULL,
			requested_at    TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure credit_line_records schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByCustomer(ctx context.Context, customerID id.CustomerID) (*models.DecisionRecord, error) {
	var (
		rec    models.DecisionRecord
		amount string
		status string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT approved_amount::text, status, attempts, requested_at
		FROM credit_line_records
		WHERE customer_id = $1`,
		customerID.UUID(),
	).Scan(&amount, &status, &rec.Attempts, &rec.RequestedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decision record for %s: %w", customerID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find decision record: %w", err)
	}

	rec.CustomerID = customerID
	rec.Status = models.Status(status)
	rec.ApprovedAmount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse approved amount %q: %w", amount, err)
	}
	rec.RequestedAt = rec.RequestedAt.UTC()
	return &rec, nil
}

func (s *PostgresStore) Save(ctx context.Context, record *models.DecisionRecord) error {
	if record == nil {
		return fmt.Errorf("decision record is required")
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO credit_line_records (customer_id, approved_amount, status, attempts, requested_at)
		VALUES ($1, $2::numeric, $3, $4, $5)
		ON CONFLICT (customer_id) DO UPDATE SET
			approved_amount = EXCLUDED.approved_amount,
			status          = EXCLUDED.status,
			attempts        = EXCLUDED.attempts,
			requested_at    = EXCLUDED.requested_at`,
		record.CustomerID.UUID(),
		record.ApprovedAmount.String(),
		string(record.Status),
		record.Attempts,
		record.RequestedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save decision record: %w", err)
	}
	return nil
}
