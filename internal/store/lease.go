package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/models"
)

// LeaseStore handles lease reads and atomic transition scopes.
type LeaseStore struct {
	Base
}

// NewLeaseStore creates a new LeaseStore.
func NewLeaseStore(base Base) *LeaseStore {
	return &LeaseStore{Base: base}
}

const leaseColumns = `property_id, state, tenant, monthly_rent, deposit_held,
	duration_months, user_score, current_usage, usage_cap,
	start_ts, next_payment_due, updated_at`

func scanLease(scan func(dest ...any) error) (*models.Lease, error) {
	var l models.Lease

	err := scan(
		&l.PropertyID, &l.State, &l.Tenant, &l.MonthlyRent, &l.DepositHeld,
		&l.DurationMonths, &l.UserScore, &l.CurrentUsage, &l.UsageCap,
		&l.StartTimestamp, &l.NextPaymentDue, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// GetLease fetches the lease record for a property.
func (s *LeaseStore) GetLease(ctx context.Context, propertyID int64) (*models.Lease, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + leaseColumns + ` FROM leases WHERE property_id = $1`

	l, err := scanLease(s.Pool.QueryRow(ctx, query, propertyID).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrLeaseNotFound
		}

		return nil, fmt.Errorf("fetching lease: %w", err)
	}

	return l, nil
}

// HeldBalances returns the deposit held per property across all live
// leases. Startup feeds this into the escrow ledger so custody accounting
// matches the persisted records before the server accepts traffic.
func (s *LeaseStore) HeldBalances(ctx context.Context) (map[int64]int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `SELECT property_id, deposit_held FROM leases WHERE deposit_held > 0`)
	if err != nil {
		return nil, fmt.Errorf("querying held balances: %w", err)
	}
	defer rows.Close()

	held := make(map[int64]int64)

	for rows.Next() {
		var propertyID, amount int64
		if err := rows.Scan(&propertyID, &amount); err != nil {
			return nil, fmt.Errorf("scanning held balance: %w", err)
		}

		held[propertyID] = amount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading held balances: %w", err)
	}

	return held, nil
}

// Transition runs fn inside a single database transaction. Every write fn
// performs through the supplied ops lands in the same transaction; returning
// an error rolls all of them back. Outbound transfers run inside fn too, so
// a failed transfer aborts the record changes with it.
func (s *LeaseStore) Transition(ctx context.Context, fn func(ops domain.LeaseOps) error) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transition: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := fn(&txLeaseOps{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transition: %w", err)
	}

	return nil
}

// txLeaseOps is the write surface handed to a transition scope. All writes
// go through the scope's transaction.
type txLeaseOps struct {
	tx pgx.Tx
}

func (o *txLeaseOps) UpsertLease(ctx context.Context, lease *models.Lease) error {
	query := `INSERT INTO leases (property_id, state, tenant, monthly_rent, deposit_held,
			duration_months, user_score, current_usage, usage_cap, start_ts, next_payment_due)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (property_id) DO UPDATE SET
			state = EXCLUDED.state,
			tenant = EXCLUDED.tenant,
			monthly_rent = EXCLUDED.monthly_rent,
			deposit_held = EXCLUDED.deposit_held,
			duration_months = EXCLUDED.duration_months,
			user_score = EXCLUDED.user_score,
			current_usage = EXCLUDED.current_usage,
			usage_cap = EXCLUDED.usage_cap,
			start_ts = EXCLUDED.start_ts,
			next_payment_due = EXCLUDED.next_payment_due,
			updated_at = now()`

	_, err := o.tx.Exec(ctx, query,
		lease.PropertyID, lease.State, lease.Tenant, lease.MonthlyRent, lease.DepositHeld,
		lease.DurationMonths, lease.UserScore, lease.CurrentUsage, lease.UsageCap,
		lease.StartTimestamp, lease.NextPaymentDue)
	if err != nil {
		return fmt.Errorf("upserting lease: %w", err)
	}

	return nil
}

func (o *txLeaseOps) DeleteLease(ctx context.Context, propertyID int64) error {
	if _, err := o.tx.Exec(ctx, `DELETE FROM leases WHERE property_id = $1`, propertyID); err != nil {
		return fmt.Errorf("deleting lease: %w", err)
	}

	return nil
}

func (o *txLeaseOps) SetPropertyLeased(ctx context.Context, propertyID int64, leased bool) error {
	tag, err := o.tx.Exec(ctx,
		`UPDATE properties SET leased = $2, updated_at = now() WHERE id = $1`, propertyID, leased)
	if err != nil {
		return fmt.Errorf("updating leased flag: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrPropertyNotFound
	}

	return nil
}
