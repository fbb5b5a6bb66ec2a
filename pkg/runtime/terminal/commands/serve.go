package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/server"
	"github.com/de-tools/compliance-monitor/pkg/services/workflow"
	"github.com/de-tools/compliance-monitor/pkg/store/duckdb"
	"github.com/de-tools/compliance-monitor/pkg/store/duckdb/runs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ServeCmd struct {
	env        Env
	addr       string
	noSchedule bool
}

func NewServeCmd(env Env) *cobra.Command {
	sc := &ServeCmd{env: env}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run checks on the configured schedule",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&sc.noSchedule, "no-schedule", false, "Only run checks on demand")

	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, settings, err := sc.env.load(ctx)
	if err != nil {
		return err
	}
	logger := zerolog.Ctx(ctx)

	if sc.addr != "" {
		settings.Server.Addr = sc.addr
	}

	components, err := sc.env.Setup(ctx, settings)
	if err != nil {
		return err
	}

	runnerCfg := workflow.RunnerConfig{Timeout: settings.CheckTimeout}
	deps := server.Dependencies{
		Gatherer: components.Registry,
		Logger:   *logger,
	}

	if settings.History.DBPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.History.DBPath})
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer db.Close()

		history, err := runs.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create run history store: %w", err)
		}
		runnerCfg.Recorder = history
		deps.History = history
		logger.Info().Str("db_path", settings.History.DBPath).Msg("run history enabled")
	}

	runner := workflow.NewRunner(components.Monitor, runnerCfg)
	deps.Runner = runner

	if !sc.noSchedule {
		scheduler := workflow.NewScheduler(runner, settings.Schedule.Interval)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	logger.Info().
		Str("bucket", settings.ResourceID).
		Str("opa_mode", settings.OPA.Mode).
		Bool("scheduled", !sc.noSchedule).
		Msg("compliance monitor configured")

	api := server.NewWebAPI(server.Config{
		Addr:            settings.Server.Addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies:    deps,
	})
	return api.Start()
}
