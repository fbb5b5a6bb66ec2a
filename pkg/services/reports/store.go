package reports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/de-tools/compliance-monitor/pkg/adapters"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/store/client"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	KeyPrefix   = "compliance-reports"
	contentType = "application/json"
	dateLayout  = "2006-01-02"
)

// Store persists reports as encrypted JSON objects. Every report gets its own
// key, so reports never overwrite each other.
type Store struct {
	objects   client.ObjectStore
	newSuffix func() string
}

func NewStore(objects client.ObjectStore) *Store {
	return &Store{
		objects:   objects,
		newSuffix: uuid.NewString,
	}
}

// Key returns compliance-reports/<date>/report-<suffix>.json for the report.
func Key(report domain.ComplianceReport, suffix string) string {
	return fmt.Sprintf("%s/%s/report-%s.json", KeyPrefix, report.Timestamp.UTC().Format(dateLayout), suffix)
}

func (s *Store) Store(ctx context.Context, resourceID string, report domain.ComplianceReport) (string, error) {
	suffix := fmt.Sprintf("%d-%s", report.Timestamp.UnixNano(), s.newSuffix())
	key := Key(report, suffix)

	body, err := json.MarshalIndent(adapters.MapComplianceReportDomainToApi(report), "", "  ")
	if err != nil {
		return "", domain.NewError(domain.ErrorKindStore, "encode report", err)
	}

	err = s.objects.PutObject(ctx, resourceID, key, body, client.PutOptions{
		ContentType: contentType,
		Encrypt:     true,
	})
	if err != nil {
		return "", domain.NewError(domain.ErrorKindStore, "put report", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", resourceID).
		Str("key", key).
		Msg("compliance report stored")
	return key, nil
}
