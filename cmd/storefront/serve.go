package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/events"
	"github.com/nikolayk812/storefront/internal/handlers"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/nikolayk812/storefront/internal/paypal"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	stripeprocessor "github.com/nikolayk812/storefront/internal/stripe"
	"github.com/nikolayk812/storefront/internal/webhook"
	paypalsdk "github.com/plutov/paypal/v4"
	"github.com/spf13/cobra"
	"github.com/stripe/stripe-go/v81/client"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			return runServe(cmd.Context(), path)
		},
	}

	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cfg.Validate: %w", err)
	}

	cur, err := cfg.Currency()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	var purchaseVerifier port.PurchaseVerifier
	if cfg.PayPal.Enabled() {
		baseURL := paypalsdk.APIBaseLive
		if cfg.PayPal.Sandbox {
			baseURL = paypalsdk.APIBaseSandBox
		}

		purchaseVerifier, err = paypal.NewVerifier(cfg.PayPal.ClientID, cfg.PayPal.Secret, baseURL)
		if err != nil {
			return fmt.Errorf("paypal.NewVerifier: %w", err)
		}
	} else {
		log.Warn("paypal credentials not set, paypal confirmations are refused")
	}

	publisher := events.NewNopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := events.NewClient(cfg.Kafka.Brokers)
		if err != nil {
			return fmt.Errorf("events.NewClient: %w", err)
		}
		defer kafkaClient.Close()

		publisher = events.NewKafkaPublisher(kafkaClient, cfg.Kafka.Topic)
	}

	store := repository.NewStore(pool)
	orders := repository.NewOrder(pool)

	h := handlers.NewHandler(handlers.Deps{
		Cart:     service.NewCart(store, orders, repository.NewProduct(pool), cur),
		Checkout: service.NewCheckout(store, repository.NewAddress(pool)),
		Payments: service.NewPayment(orders, repository.NewPayment(pool),
			stripeprocessor.New(client.New(cfg.Stripe.SecretKey, nil)), cur, log),
		Reconciler: service.NewReconciler(store, purchaseVerifier, publisher, cur, log),
		Verifier:   webhook.NewVerifier(cfg.Stripe.WebhookSecret, cfg.Stripe.WebhookTolerance),
		Currency:   cur,
		Logger:     log,
	})

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: handlers.API(h, handlers.Options{
			Release:        cfg.HTTP.Release,
			EndpointPrefix: cfg.HTTP.APIPrefix,
			JWTSecret:      []byte(cfg.Auth.JWTSecret),
			RateLimit:      cfg.HTTP.RateLimit,
			RateBurst:      cfg.HTTP.RateBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server started", slog.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("srv.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	return nil
}
