package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/compliance-monitor/pkg/runtime/terminal/commands"
	"github.com/de-tools/compliance-monitor/pkg/runtime/terminal/export"
	"github.com/de-tools/compliance-monitor/pkg/services/config"
	"github.com/de-tools/compliance-monitor/pkg/services/registry"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	opts    Options
	rootCmd *cobra.Command
	cfgPath string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Setup builds the monitor from settings. Defaults to registry.Setup.
	Setup func(ctx context.Context, settings *config.Settings) (*registry.Components, error)
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Setup == nil {
		opts.Setup = registry.Setup
	}

	cli := &CLI{opts: opts}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// NewWebCLI creates a CLI whose root command serves the HTTP API.
func NewWebCLI(opts Options) *CLI {
	cli := NewCLI(opts)
	serve := commands.NewServeCmd(cli.env())
	serve.Use = "web"
	serve.SilenceUsage = true
	serve.SilenceErrors = true
	serve.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", configFlagUsage)
	cli.rootCmd = serve
	return cli
}

const configFlagUsage = "Path to a config file (yaml, json or toml); environment variables override it"

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "compliance-monitor",
		Short:         "S3 bucket and Section 508 compliance monitor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", configFlagUsage)

	env := cli.env()
	cmd.AddCommand(commands.NewCheckCmd(env))
	cmd.AddCommand(commands.NewServeCmd(env))

	return cmd
}

func (cli *CLI) env() commands.Env {
	return commands.Env{
		ConfigPath: func() string { return cli.cfgPath },
		Output:     cli.opts.Output,
		Setup:      cli.opts.Setup,
		Reporters: map[string]commands.Reporter{
			"json":  export.NewJSONReporter(cli.opts.Output),
			"table": export.NewReporter(cli.opts.Output),
			"text":  NewReporter(cli.opts.Output),
		},
	}
}
