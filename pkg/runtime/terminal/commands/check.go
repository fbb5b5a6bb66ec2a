package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/compliance-monitor/pkg/services/workflow"
	"github.com/spf13/cobra"
)

var ErrNonCompliant = errors.New("bucket is not compliant")

type CheckCmd struct {
	env             Env
	output          string
	event           string
	failOnViolation bool
}

func NewCheckCmd(env Env) *cobra.Command {
	cc := &CheckCmd{env: env}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one compliance check and print the result",
		RunE:  cc.run,
	}

	cmd.Flags().StringVarP(&cc.output, "output", "o", "json", "Output format: json, table or text")
	cmd.Flags().StringVar(&cc.event, "event", "", "Optional JSON event passed to the check")
	cmd.Flags().BoolVar(&cc.failOnViolation, "fail-on-violation", false,
		"Exit with an error when the bucket is not compliant")

	return cmd
}

func (cc *CheckCmd) run(cmd *cobra.Command, _ []string) error {
	reporter, err := cc.env.reporter(cc.output)
	if err != nil {
		return err
	}

	var event json.RawMessage
	if cc.event != "" {
		if !json.Valid([]byte(cc.event)) {
			return fmt.Errorf("event must be a JSON document")
		}
		event = json.RawMessage(cc.event)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, settings, err := cc.env.load(ctx)
	if err != nil {
		return err
	}

	components, err := cc.env.Setup(ctx, settings)
	if err != nil {
		return err
	}

	runner := workflow.NewRunner(components.Monitor, workflow.RunnerConfig{Timeout: settings.CheckTimeout})
	resp, _, err := runner.Execute(ctx, workflow.TriggerCLI, event)
	if err != nil {
		return err
	}

	if err := reporter.Handle(resp); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("compliance check failed: %s", resp.Body.Error)
	}
	if cc.failOnViolation && !resp.Body.Compliant {
		return ErrNonCompliant
	}
	return nil
}
