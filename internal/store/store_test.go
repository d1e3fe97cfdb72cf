package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/dbpool"
	"github.com/rentora/rentora/internal/models"
	"github.com/rentora/rentora/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestBase creates a Base and registers cleanup for rows the test adds.
func setupTestBase(t *testing.T) store.Base {
	t.Helper()

	env := getTestEnv(t)

	return store.Base{Pool: env.pool, Log: env.log}
}

// mintTestProperty inserts a property owned by a fresh landlord and removes
// it after the test.
func mintTestProperty(t *testing.T, base store.Base) *models.Property {
	t.Helper()

	props := store.NewPropertyStore(base)
	ctx := context.Background()

	prop, err := props.CreateProperty(ctx, models.MintPropertyRequest{
		Landlord:  uuid.New(),
		Location:  "12 Test Lane",
		Size:      80,
		Rooms:     3,
		YearBuilt: 1998,
		BaseValue: 12_000_000,
		Condition: 90,
	})
	if err != nil {
		t.Fatalf("creating test property: %v", err)
	}

	t.Cleanup(func() {
		cleanCtx := context.Background()
		base.Pool.Exec(cleanCtx, "DELETE FROM audit_log WHERE property_id = $1", prop.ID) //nolint:errcheck // best-effort cleanup
		base.Pool.Exec(cleanCtx, "DELETE FROM leases WHERE property_id = $1", prop.ID)    //nolint:errcheck // best-effort cleanup
		base.Pool.Exec(cleanCtx, "DELETE FROM properties WHERE id = $1", prop.ID)         //nolint:errcheck // best-effort cleanup
	})

	return prop
}
