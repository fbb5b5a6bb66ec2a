package lambda

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/de-tools/compliance-monitor/pkg/models/api"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/services/monitor"
	"github.com/de-tools/compliance-monitor/pkg/services/workflow"
	"github.com/rs/zerolog"
)

// Response is the Lambda proxy response. Body holds the JSON encoded
// api.ResponseBody.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

type Handler struct {
	logger   zerolog.Logger
	invoker  workflow.Invoker
	setupErr error
}

func NewHandler(logger zerolog.Logger, invoker workflow.Invoker) *Handler {
	return &Handler{logger: logger, invoker: invoker}
}

// NewFailedHandler answers every invocation with a failure response. It is
// used when the monitor could not be built at cold start.
func NewFailedHandler(logger zerolog.Logger, err error) *Handler {
	return &Handler{logger: logger, setupErr: err}
}

func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (Response, error) {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With().
			Str("request_id", lc.AwsRequestID).
			Str("function_arn", lc.InvokedFunctionArn).
			Logger()
		ctx = monitor.WithInvocation(ctx, domain.Invocation{
			FunctionName:    lambdacontext.FunctionName,
			FunctionVersion: lambdacontext.FunctionVersion,
			RequestID:       lc.AwsRequestID,
		})
	}
	ctx = logger.WithContext(ctx)

	var resp api.Response
	if h.setupErr != nil {
		logger.Error().Err(h.setupErr).Msg("compliance monitor is not configured")
		resp = api.Response{
			StatusCode: http.StatusInternalServerError,
			Body: api.ResponseBody{
				Message:   api.MessageFailure,
				Compliant: false,
				Error:     h.setupErr.Error(),
			},
		}
	} else {
		resp = h.invoker.Run(ctx, event)
	}

	body, err := json.Marshal(resp.Body)
	if err != nil {
		return Response{}, err
	}
	return Response{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
