package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	accounthandler "clientdesk/internal/account/handler"
	accountservice "clientdesk/internal/account/service"
	accountstore "clientdesk/internal/account/store"
	billinghandler "clientdesk/internal/billing/handler"
	billingmetrics "clientdesk/internal/billing/metrics"
	billingservice "clientdesk/internal/billing/service"
	billingstore "clientdesk/internal/billing/store"
	"clientdesk/internal/gate"
	gatemetrics "clientdesk/internal/gate/metrics"
	"clientdesk/internal/identity"
	"clientdesk/internal/platform/config"
	"clientdesk/internal/platform/database"
	"clientdesk/internal/platform/httpserver"
	"clientdesk/internal/platform/logger"
	"clientdesk/internal/session"
	httptransport "clientdesk/internal/transport/http"
	"clientdesk/migrations"
)

// main wires dependencies explicitly and keeps the server lifecycle small.
// Store clients are constructed here and injected; nothing holds a
// process-wide singleton.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing clientdesk",
		"addr", cfg.Addr,
		"gate_target", cfg.GateTarget,
		"gate_timeout", cfg.GateTimeout.String(),
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	codec, err := identity.NewSessionCodec(cfg.SessionSigningKey, cfg.SessionTTL)
	if err != nil {
		log.Error("session codec init failed", "error", err)
		os.Exit(1)
	}
	provider := identity.NewInMemoryProvider(codec)

	var (
		accounts accountstore.AccountStore
		links    billingstore.LinkStore
		invoices billingstore.InvoiceStore
	)
	if pool != nil {
		if err := pool.Migrate(context.Background(), migrations.FS); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		accounts = accountstore.NewPostgres(pool.DB())
		links = billingstore.NewPostgresLinks(pool.DB())
		invoices = billingstore.NewPostgresInvoices(pool.DB())
		log.Info("using postgres stores")
	} else {
		accounts = accountstore.NewInMemory()
		links = billingstore.NewInMemoryLinks()
		invoices = billingstore.NewInMemoryInvoices()
		log.Warn("no database configured, using in-memory stores")
	}

	resolver := session.NewResolver(provider, accounts)
	billing := billingservice.New(links, invoices, billingmetrics.New())
	accountSvc := accountservice.New(accounts, provider, log)
	g := gate.New(gate.NewClient(cfg.GateTarget, cfg.GateTimeout), gatemetrics.New(), log)

	router := httptransport.NewRouter(httptransport.Deps{
		Gate:     g,
		Auth:     httptransport.NewAuthHandler(provider, cfg.SessionTTL, log),
		Session:  session.NewHandler(resolver, log),
		Billing:  billinghandler.New(resolver, billing, log),
		Accounts: accounthandler.New(resolver, accountSvc, log),
		Logger:   log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	if err := pool.Close(); err != nil {
		log.Error("closing database failed", "error", err)
	}

	log.Info("server stopped")
}
