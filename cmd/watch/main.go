package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrimart/internal/api"
	"agrimart/internal/cart"
	"agrimart/internal/catalog"
	"agrimart/internal/config"
	"agrimart/internal/notify"
	"agrimart/internal/orders"
	"agrimart/internal/router"
	"agrimart/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting agrimart watch daemon")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the durable session store
	sessions, err := session.NewStore(cfg.State.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	// Initialize the backend client
	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, sessions, logger)

	// Log in with configured credentials when no session survives from a
	// previous run
	if !sessions.Authenticated() {
		if cfg.Login.Email == "" || cfg.Login.Password == "" {
			return fmt.Errorf("no stored session and no login credentials configured")
		}
		token, err := client.Login(ctx, cfg.Login.Email, cfg.Login.Password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := sessions.Save(token); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		logger.Info().Msg("logged in")
	} else {
		logger.Info().Msg("reusing stored session")
	}

	// Initialize the catalogue cache with an initial snapshot
	cache := catalog.NewCache(client, logger)
	if err := cache.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial catalogue refresh failed, continuing with empty snapshot")
	}

	// Restore the cart from disk so it survives restarts
	cartStore, err := cart.NewFileStore(cfg.State.Dir)
	if err != nil {
		return fmt.Errorf("failed to open cart store: %w", err)
	}
	basket, err := cart.NewManager(cache, client, cartStore, cfg.Cart.DeliveryFee, logger)
	if err != nil {
		return fmt.Errorf("failed to restore cart: %w", err)
	}
	logger.Info().Int("line_count", len(basket.Lines())).Msg("cart restored")

	// Order poller: full refresh on start and every interval; an expired
	// session clears the session store so the next run logs in again
	poller := orders.NewPoller(client, cfg.Polling.Orders, logger,
		orders.WithAuthExpiredHandler(func() {
			logger.Warn().Msg("session rejected by backend, clearing stored token")
			if err := sessions.Clear(); err != nil {
				logger.Error().Err(err).Msg("failed to clear session")
			}
		}),
	)

	// Notification reconciler: fast unread poll, slow full-list poll,
	// paused whenever the session is gone
	notifier := notify.NewReconciler(client, sessions.Authenticated,
		cfg.Polling.UnreadCount, cfg.Polling.NotificationList, logger)

	go poller.Run(ctx)
	go notifier.Run(ctx)

	// Local status server
	engine := router.New(poller, notifier, cache, sessions, logger)
	server := &http.Server{
		Addr:         cfg.Serve.Address(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Serve.Address()).
			Msg("local status server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop the pollers before the server so no state updates race
		// the teardown
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
