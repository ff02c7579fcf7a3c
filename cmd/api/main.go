package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	appStore "github.com/MrJamesThe3rd/lifepolicy/internal/application/store"
	"github.com/MrJamesThe3rd/lifepolicy/internal/config"
	"github.com/MrJamesThe3rd/lifepolicy/internal/database"
	"github.com/MrJamesThe3rd/lifepolicy/internal/event"
	lpHttp "github.com/MrJamesThe3rd/lifepolicy/internal/http"
	appHandler "github.com/MrJamesThe3rd/lifepolicy/internal/http/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/http/auth"
	paymentHandler "github.com/MrJamesThe3rd/lifepolicy/internal/http/payment"
	policyHandler "github.com/MrJamesThe3rd/lifepolicy/internal/http/policy"
	quoteHandler "github.com/MrJamesThe3rd/lifepolicy/internal/http/quote"
	riskHandler "github.com/MrJamesThe3rd/lifepolicy/internal/http/risk"
	"github.com/MrJamesThe3rd/lifepolicy/internal/importer"
	"github.com/MrJamesThe3rd/lifepolicy/internal/metrics"
	"github.com/MrJamesThe3rd/lifepolicy/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/lifepolicy/internal/payment/store"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
	policyStore "github.com/MrJamesThe3rd/lifepolicy/internal/policy/store"
	"github.com/MrJamesThe3rd/lifepolicy/internal/premium"
	"github.com/MrJamesThe3rd/lifepolicy/internal/risk"
	riskStore "github.com/MrJamesThe3rd/lifepolicy/internal/risk/store"
)

func main() {
	devToken := flag.String("dev-token", "", "print a bearer token for the given owner id and exit")
	devRole := flag.String("dev-role", string(auth.RoleApplicant), "role of the -dev-token principal (applicant or underwriter)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer)

	if *devToken != "" {
		if err := printToken(tokens, *devToken, auth.Role(*devRole)); err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}

		return
	}

	if err := run(cfg, tokens); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func printToken(tokens *auth.Tokens, rawOwner string, role auth.Role) error {
	owner, err := uuid.Parse(rawOwner)
	if err != nil {
		return fmt.Errorf("parsing owner id: %w", err)
	}

	token, err := tokens.Issue(owner, role, 24*time.Hour)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}

func run(cfg *config.Config, tokens *auth.Tokens) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	policyOpts := []policy.Option{policy.WithMetrics(m)}

	if cfg.AMQP.URL != "" {
		conn, err := event.Connect(cfg.AMQP.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		publisher, err := event.NewPublisher(conn.Channel, cfg.AMQP.Queue)
		if err != nil {
			return err
		}

		policyOpts = append(policyOpts, policy.WithPublisher(publisher))
	} else {
		slog.Info("AMQP_URL not set, policy events are not published")
	}

	var (
		premiumService     = premium.NewService(premium.DefaultRegistry(), premium.WithMetrics(m))
		applicationService = application.NewService(appStore.New(db))
		policyService      = policy.NewService(policyStore.New(db), premiumService, policyOpts...)
		paymentService     = payment.NewService(paymentStore.New(db), policyService, payment.WithMetrics(m))
		riskService        = risk.NewService(riskStore.New(db), applicationService, risk.WithMetrics(m))
		importService      = importer.NewService(applicationService)
	)

	router := lpHttp.New(lpHttp.Handlers{
		Quotes:       quoteHandler.NewHandler(premiumService),
		Applications: appHandler.NewHandler(applicationService, policyService, importService),
		Policies:     policyHandler.NewHandler(policyService, paymentService),
		Payments:     paymentHandler.NewHandler(paymentService),
		Risk:         riskHandler.NewHandler(riskService),
	}, lpHttp.Options{
		Tokens:         tokens,
		Gatherer:       reg,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
