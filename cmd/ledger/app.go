package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/services"
)

const closeTimeout = 10 * time.Second

// app holds what the subcommands share. Tests pre-populate svc to skip
// environment setup.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	svc     *services.LedgerService
	cleanup backend.CleanupFunc
	now     func() time.Time

	yes bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Personal expense ledger with budget reports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "skip confirmation prompts")

	root.AddCommand(
		addCmd(a),
		editCmd(a),
		rmCmd(a),
		flagCmd(a),
		listCmd(a),
		reportCmd(a),
		totalCmd(a),
		serveCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context) error {
	if a.now == nil {
		a.now = time.Now
	}
	if a.svc != nil {
		return nil
	}

	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg, log.ComponentCLI)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	factory := backend.NewFactory(a.logger)

	res, err := factory.CreatePersister(ctx, bcfg)
	if err != nil {
		return err
	}
	a.cleanup = res.Cleanup

	store, err := ledger.Open(ctx, res.Persister, ledger.Options{SyncTimeout: cfg.SyncTimeout})
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	exporters, err := factory.CreateExporters(ctx, bcfg)
	if err != nil {
		_ = store.Close(ctx)
		return err
	}

	opts := services.Options{
		Logger: a.logger,
		Writer: exporters.Writer,
	}
	if exporters.Publisher != nil {
		opts.Publisher = exporters.Publisher
	}
	a.svc = services.NewLedgerService(store, opts)
	return nil
}

// close flushes pending saves and releases the backend.
func (a *app) close() error {
	var errs []error
	if a.svc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := a.svc.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.cleanup != nil {
		if err := a.cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("close backend: %w", err))
		}
	}
	return errors.Join(errs...)
}

// confirm asks before a destructive action unless --yes was given.
func (a *app) confirm(cmd *cobra.Command, prompt string) (bool, error) {
	var c cli.Confirmer = cli.AutoConfirmer{}
	if !a.yes {
		c = cli.NewPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	ok, err := c.Confirm(cmd.Context(), prompt)
	if errors.Is(err, cli.ErrInputCancelled) {
		return false, nil
	}
	return ok, err
}
