// Command rentorad runs the rentora lease registry server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rentora/rentora/internal/api"
	"github.com/rentora/rentora/internal/config"
	"github.com/rentora/rentora/internal/db"
	"github.com/rentora/rentora/internal/db/migrations"
	"github.com/rentora/rentora/internal/dbpool"
	"github.com/rentora/rentora/internal/escrow"
	"github.com/rentora/rentora/internal/registry"
	"github.com/rentora/rentora/internal/service"
	"github.com/rentora/rentora/internal/store"
	"github.com/rentora/rentora/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	properties := store.NewPropertyStore(base)
	leases := store.NewLeaseStore(base)
	parties := store.NewPartyStore(base)
	auditStore := store.NewAuditStore(base)

	if err := seedParties(ctx, cfg, parties, log); err != nil {
		return err
	}

	auditSvc := service.NewAuditService(auditStore, log)
	auditWorker := service.NewAuditWorker(auditSvc, log, cfg.AuditQueueSize)

	hub := ws.NewHub(log)
	events := ws.NewEventBridge(hub, log)

	bank := escrow.NewBank()
	ledger := escrow.NewLedger(bank)
	assets := registry.NewMemory()

	if err := restoreEscrow(ctx, leases, ledger, log); err != nil {
		return err
	}

	admin := service.NewAdmin(cfg.OwnerParty, time.Duration(cfg.GracePeriodSeconds)*time.Second, auditWorker, log)
	propertySvc := service.NewPropertyService(properties, leases, assets, cfg.OwnerParty, events, auditWorker, log)
	leaseSvc := service.NewLeaseService(
		properties, leases, ledger, assets, admin,
		service.SystemClock(), cfg.EscrowParty, events, auditWorker, log,
	)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Hub:         hub,
		Ledger:      ledger,
		Properties:  propertySvc,
		Leases:      leaseSvc,
		Admin:       admin,
		Audit:       auditSvc,
		PartyLookup: parties,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics get their own listener so the public port never exposes them.
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)

		return nil
	})

	g.Go(func() error {
		auditWorker.Run(gctx)

		return nil
	})

	g.Go(func() error {
		log.WithField("addr", cfg.Addr()).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Shutdown()

		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("metrics server shutdown")
		}

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// seedParties registers the owner and escrow party records when their API
// keys are configured, so a fresh database is usable without manual setup.
// restoreEscrow rebuilds the in-memory ledger from the deposit balances
// persisted on lease rows, so custody accounting survives restarts.
func restoreEscrow(ctx context.Context, leases *store.LeaseStore, ledger *escrow.Ledger, log *logrus.Logger) error {
	held, err := leases.HeldBalances(ctx)
	if err != nil {
		return fmt.Errorf("restoring escrow balances: %w", err)
	}

	ledger.Restore(held)

	if len(held) > 0 {
		log.WithFields(logrus.Fields{
			"leases": len(held),
			"total":  ledger.HeldTotal(),
		}).Info("restored escrow balances")
	}

	return nil
}

func seedParties(ctx context.Context, cfg *config.Config, parties *store.PartyStore, log *logrus.Logger) error {
	if cfg.OwnerAPIKey.Value() != "" {
		if _, err := parties.CreateParty(ctx, cfg.OwnerParty, "owner", cfg.OwnerAPIKey.Value()); err != nil {
			return err
		}

		log.WithField("party_id", cfg.OwnerParty).Info("seeded owner party")
	}

	if cfg.EscrowAPIKey.Value() != "" {
		if _, err := parties.CreateParty(ctx, cfg.EscrowParty, "escrow", cfg.EscrowAPIKey.Value()); err != nil {
			return err
		}

		log.WithField("party_id", cfg.EscrowParty).Info("seeded escrow party")
	}

	return nil
}
