package monitor

import (
	"context"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
)

type invocationKey struct{}

// WithInvocation attaches the function invocation to ctx. Reports produced
// under ctx carry it.
func WithInvocation(ctx context.Context, inv domain.Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

func invocationFrom(ctx context.Context) *domain.Invocation {
	inv, ok := ctx.Value(invocationKey{}).(domain.Invocation)
	if !ok {
		return nil
	}
	return &inv
}
