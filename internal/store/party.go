package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rentora/rentora/internal/models"
)

// PartyStore handles party lookups (API key → party ID).
type PartyStore struct {
	Base
}

// NewPartyStore creates a new PartyStore.
func NewPartyStore(base Base) *PartyStore {
	return &PartyStore{Base: base}
}

func hashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))

	return hex.EncodeToString(hash[:])
}

// GetPartyByAPIKey looks up a party ID by API key hash.
func (s *PartyStore) GetPartyByAPIKey(ctx context.Context, apiKey string) (uuid.UUID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id uuid.UUID

	err := s.Pool.QueryRow(ctx, `SELECT id FROM parties WHERE api_key_hash = $1`, hashAPIKey(apiKey)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, models.ErrPartyNotFound
		}

		return uuid.Nil, fmt.Errorf("looking up party by API key: %w", err)
	}

	return id, nil
}

// GetParty fetches a party record by id.
func (s *PartyStore) GetParty(ctx context.Context, id uuid.UUID) (*models.Party, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.Party

	err := s.Pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM parties WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPartyNotFound
		}

		return nil, fmt.Errorf("fetching party: %w", err)
	}

	return &p, nil
}

// CreateParty registers a party with the given API key. The key is stored
// only as a SHA-256 hash.
func (s *PartyStore) CreateParty(ctx context.Context, id uuid.UUID, name, apiKey string) (*models.Party, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.Party

	err := s.Pool.QueryRow(ctx,
		`INSERT INTO parties (id, name, api_key_hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, api_key_hash = EXCLUDED.api_key_hash
			RETURNING id, name, created_at`,
		id, name, hashAPIKey(apiKey)).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("creating party: %w", err)
	}

	return &p, nil
}
