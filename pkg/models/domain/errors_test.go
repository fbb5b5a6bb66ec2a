package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		wantMsg string
	}{
		{
			name:    "error with wrapped error",
			err:     NewError(ErrorKindFetch, "get index.html", errors.New("access denied")),
			wantMsg: "fetch: get index.html: access denied",
		},
		{
			name:    "error without wrapped error",
			err:     NewError(ErrorKindConfiguration, "resource id is required", nil),
			wantMsg: "configuration: resource id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewError(ErrorKindStore, "put report", base))

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, ErrNotify)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.True(t, IsFatal(NewError(ErrorKindConfiguration, "missing", nil)))
	assert.True(t, IsFatal(NewError(ErrorKindUnexpected, "panic", nil)))
	assert.True(t, IsFatal(errors.New("untyped")))
	assert.False(t, IsFatal(NewError(ErrorKindEvaluation, "opa eval", nil)))
	assert.False(t, IsFatal(NewError(ErrorKindNotify, "webhook", nil)))
}

func TestComplianceResult_Invariant(t *testing.T) {
	assert.True(t, Compliant().Compliant())
	assert.Empty(t, Compliant().Violations)

	r := NonCompliant(Violation{Type: "t", Message: "m", Severity: SeverityHigh})
	assert.False(t, r.Compliant())
	assert.Len(t, r.Violations, 1)

	assert.True(t, NonCompliant().Compliant())
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityLow, ParseSeverity("low"))
	assert.Equal(t, SeverityMedium, ParseSeverity(" MEDIUM "))
	assert.Equal(t, SeverityHigh, ParseSeverity("HIGH"))
	assert.Equal(t, SeverityHigh, ParseSeverity("critical"))
	assert.Equal(t, "MEDIUM", SeverityMedium.String())
}
