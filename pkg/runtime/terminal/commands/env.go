package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/compliance-monitor/pkg/models/api"
	"github.com/de-tools/compliance-monitor/pkg/services/config"
	"github.com/de-tools/compliance-monitor/pkg/services/registry"
	"github.com/joho/godotenv"
)

// Reporter prints the result of one invocation.
type Reporter interface {
	Handle(resp api.Response) error
}

// Env carries what every command needs from the root command.
type Env struct {
	ConfigPath func() string
	Output     io.Writer
	Setup      func(ctx context.Context, settings *config.Settings) (*registry.Components, error)
	Reporters  map[string]Reporter
}

// load reads .env (if present) and the settings, and returns a context
// carrying the configured logger.
func (e Env) load(ctx context.Context) (context.Context, *config.Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	settings, err := config.Load(e.ConfigPath())
	if err != nil {
		return ctx, nil, err
	}

	logger := config.NewLogger(settings, os.Stderr)
	return logger.WithContext(ctx), settings, nil
}

func (e Env) reporter(name string) (Reporter, error) {
	r, ok := e.Reporters[name]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q", name)
	}
	return r, nil
}
