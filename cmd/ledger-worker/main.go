package main

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/log"
	gsheet "ledger/internal/sheets/google"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(err)
	}
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	if err := checkConfig(cfg); err != nil {
		logger.Error("Worker cannot start", log.FieldError, err)
		cli.Fatal(err)
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		cli.Fatal(err)
	}
	logger.Info("Worker stopped gracefully")
}

// checkConfig requires both ends of the export pipeline.
func checkConfig(cfg *config.Config) error {
	var errs []error
	if !cfg.AMQPEnabled() {
		errs = append(errs, errors.New("AMQP_URL is required"))
	}
	if !cfg.SheetsEnabled() {
		errs = append(errs, errors.New("GOOGLE_SPREADSHEET_ID is required"))
	}
	return errors.Join(errs...)
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	writer, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		OAuthClientJSON:    cfg.GoogleOAuthClientJSON,
		OAuthClientFile:    cfg.GoogleOAuthClientFile,
		OAuthTokenJSON:     cfg.GoogleOAuthTokenJSON,
		OAuthTokenFile:     cfg.GoogleOAuthTokenFile,
	})
	if err != nil {
		return fmt.Errorf("initialize Google Sheets client: %w", err)
	}
	logger.Info("Google Sheets client initialized", "sheet", cfg.GoogleSheetName)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	}()
	logger.Info("Consuming report exports", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	w := worker.NewExportWorker(writer)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := w.Run(gctx, client)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}
