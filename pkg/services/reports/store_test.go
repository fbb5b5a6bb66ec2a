package reports

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/api"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/store/client/clienttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() domain.ComplianceReport {
	return domain.ComplianceReport{
		Timestamp:        time.Date(2025, 7, 13, 23, 59, 0, 0, time.UTC),
		Resource:         "site",
		Infrastructure:   domain.Compliant(),
		Section508:       domain.Compliant(),
		OverallCompliant: true,
		ChecksPerformed:  []string{"infrastructure"},
	}
}

func TestStore_WritesEncryptedJSONUnderDatedKey(t *testing.T) {
	objects := clienttest.NewMemoryStore()
	store := NewStore(objects)
	store.newSuffix = func() string { return "abc" }

	report := testReport()
	key, err := store.Store(context.Background(), "site", report)

	require.NoError(t, err)
	assert.Equal(t, "compliance-reports/2025-07-13/report-1752451140000000000-abc.json", key)

	obj, ok := objects.Object(key)
	require.True(t, ok)
	assert.True(t, obj.Opts.Encrypt)
	assert.Equal(t, "application/json", obj.Opts.ContentType)

	var stored api.ComplianceReport
	require.NoError(t, json.Unmarshal(obj.Body, &stored))
	assert.Equal(t, "site", stored.Bucket)
	assert.True(t, stored.OverallCompliant)
	assert.True(t, report.Timestamp.Equal(stored.Timestamp))
}

func TestStore_KeysNeverCollide(t *testing.T) {
	objects := clienttest.NewMemoryStore()
	store := NewStore(objects)
	report := testReport()

	first, err := store.Store(context.Background(), "site", report)
	require.NoError(t, err)
	second, err := store.Store(context.Background(), "site", report)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "compliance-reports/2025-07-13/report-"))
	assert.Len(t, objects.Keys(), 2)
}

func TestStore_PutFailureIsStoreError(t *testing.T) {
	objects := clienttest.NewMemoryStore()
	objects.PutErr = errors.New("AccessDenied")

	_, err := NewStore(objects).Store(context.Background(), "site", testReport())

	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestKey_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	report := testReport()
	report.Timestamp = time.Date(2025, 7, 14, 1, 0, 0, 0, loc)

	assert.Equal(t, "compliance-reports/2025-07-13/report-x.json", Key(report, "x"))
}
