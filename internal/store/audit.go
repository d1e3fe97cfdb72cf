package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/models"
)

// AuditStore persists and queries the transition audit trail.
type AuditStore struct {
	Base
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// RecordAudit appends one entry to the audit trail.
func (s *AuditStore) RecordAudit(
	ctx context.Context, propertyID int64, action string, actor uuid.UUID, detail map[string]any,
) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var detailJSON []byte

	if detail != nil {
		var err error

		detailJSON, err = json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("encoding audit detail: %w", err)
		}
	}

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO audit_log (property_id, action, actor, detail) VALUES ($1, $2, $3, $4)`,
		propertyID, action, actor, detailJSON)
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}

	return nil
}

// buildAuditFilter constructs the WHERE clause and args for QueryAudit.
func buildAuditFilter(opts models.AuditQueryOpts) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 6)
	argIdx := 1

	if opts.PropertyID != 0 {
		conds = append(conds, "property_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.PropertyID)
		argIdx++
	}

	if opts.Action != "" {
		conds = append(conds, "action = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Action)
		argIdx++
	}

	if opts.Actor != uuid.Nil {
		conds = append(conds, "actor = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Actor)
		argIdx++
	}

	if opts.Since != nil {
		conds = append(conds, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *opts.Since)
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// QueryAudit returns a filtered page of audit entries, newest first. The
// boolean result reports whether more rows exist past the requested page.
func (s *AuditStore) QueryAudit(
	ctx context.Context, opts models.AuditQueryOpts,
) ([]models.AuditEntry, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args := buildAuditFilter(opts)

	query := `SELECT id, property_id, action, actor, detail, created_at FROM audit_log` +
		where +
		` ORDER BY id DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, opts.Limit+1, opts.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying audit trail: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0, opts.Limit)

	for rows.Next() {
		var (
			e          models.AuditEntry
			detailJSON []byte
		)

		if err := rows.Scan(&e.ID, &e.PropertyID, &e.Action, &e.Actor, &detailJSON, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scanning audit row: %w", err)
		}

		if len(detailJSON) > 0 {
			if err := json.Unmarshal(detailJSON, &e.Detail); err != nil {
				return nil, false, fmt.Errorf("decoding audit detail: %w", err)
			}
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating audit rows: %w", err)
	}

	hasMore := len(entries) > opts.Limit
	if hasMore {
		entries = entries[:opts.Limit]
	}

	return entries, hasMore, nil
}
