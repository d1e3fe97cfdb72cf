package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rentora/rentora/internal/models"
)

// PropertyStore handles property record CRUD.
type PropertyStore struct {
	Base
}

// NewPropertyStore creates a new PropertyStore.
func NewPropertyStore(base Base) *PropertyStore {
	return &PropertyStore{Base: base}
}

const propertyColumns = `id, landlord, location, size, rooms, year_built,
	base_value, condition, leased, created_at, updated_at`

func scanProperty(scan func(dest ...any) error) (*models.Property, error) {
	var p models.Property

	err := scan(
		&p.ID, &p.Landlord, &p.Location, &p.Size, &p.Rooms, &p.YearBuilt,
		&p.BaseValue, &p.Condition, &p.Leased, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreateProperty inserts a new property and returns the created record.
func (s *PropertyStore) CreateProperty(ctx context.Context, req models.MintPropertyRequest) (*models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO properties (landlord, location, size, rooms, year_built, base_value, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + propertyColumns

	row := s.Pool.QueryRow(ctx, query,
		req.Landlord, req.Location, req.Size, req.Rooms, req.YearBuilt, req.BaseValue, req.Condition)

	p, err := scanProperty(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created property: %w", err)
	}

	return p, nil
}

// GetProperty fetches a single property by id.
func (s *PropertyStore) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(s.Pool.QueryRow(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPropertyNotFound
		}

		return nil, fmt.Errorf("fetching property: %w", err)
	}

	return p, nil
}

// ListProperties returns a page of properties ordered by id. The boolean
// result reports whether more rows exist past the requested page.
func (s *PropertyStore) ListProperties(ctx context.Context, limit, offset int) ([]models.Property, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + propertyColumns + ` FROM properties
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := s.Pool.Query(ctx, query, limit+1, offset)
	if err != nil {
		return nil, false, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	properties := make([]models.Property, 0, limit)

	for rows.Next() {
		p, err := scanProperty(rows.Scan)
		if err != nil {
			return nil, false, fmt.Errorf("scanning property row: %w", err)
		}

		properties = append(properties, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating property rows: %w", err)
	}

	hasMore := len(properties) > limit
	if hasMore {
		properties = properties[:limit]
	}

	return properties, hasMore, nil
}

// DeleteProperty removes a property record. Used only to unwind a mint whose
// registry write failed.
func (s *PropertyStore) DeleteProperty(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrPropertyNotFound
	}

	return nil
}

// UpdateCondition sets the wear score of a property.
func (s *PropertyStore) UpdateCondition(ctx context.Context, id int64, condition int) (*models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE properties SET condition = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + propertyColumns

	p, err := scanProperty(s.Pool.QueryRow(ctx, query, id, condition).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPropertyNotFound
		}

		return nil, fmt.Errorf("updating property condition: %w", err)
	}

	return p, nil
}
