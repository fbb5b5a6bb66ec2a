package main

import (
	"context"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/de-tools/compliance-monitor/pkg/runtime/lambda"
	"github.com/de-tools/compliance-monitor/pkg/services/config"
	"github.com/de-tools/compliance-monitor/pkg/services/registry"
	"github.com/rs/zerolog"
)

func main() {
	settings, err := config.Load(os.Getenv("COMPLIANCE_CONFIG"))
	if err != nil {
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		awslambda.Start(lambda.NewFailedHandler(logger, err).Handle)
		return
	}

	logger := config.NewLogger(settings, os.Stdout)
	ctx := logger.WithContext(context.Background())

	components, err := registry.Setup(ctx, settings)
	if err != nil {
		awslambda.Start(lambda.NewFailedHandler(logger, err).Handle)
		return
	}

	awslambda.Start(lambda.NewHandler(logger, components.Monitor).Handle)
}
