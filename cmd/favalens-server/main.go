package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobmcallan/favalens/internal/clients/fava"
	"github.com/bobmcallan/favalens/internal/common"
	"github.com/bobmcallan/favalens/internal/server"
)

func main() {
	configPath := os.Getenv("FAVALENS_CONFIG")

	config, err := common.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level, config.Logging.Format)

	common.PrintBanner(config, logger)

	client := fava.NewClient(
		fava.WithBaseURL(config.Fava.BaseURL),
		fava.WithLedger(config.Fava.LedgerSlug),
		fava.WithTimeout(config.Fava.GetTimeout()),
		fava.WithRateLimit(config.Fava.RateLimit),
		fava.WithLogger(logger),
	)

	srv := server.NewServer(config, client, logger)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", config.Server.Port)).
		Str("upstream", client.IncomeStatementURL()).
		Msg("Server ready")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	common.PrintShutdownBanner(logger)
}
