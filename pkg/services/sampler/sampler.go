package sampler

import (
	"context"
	"path"
	"strings"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/store/client"
	"github.com/rs/zerolog"
)

// MaxDocuments bounds the number of documents evaluated per invocation.
const MaxDocuments = 10

var markupExtensions = map[string]struct{}{
	".html": {},
	".htm":  {},
}

type Sampler struct {
	store client.ObjectStore
	limit int
}

func NewSampler(store client.ObjectStore) *Sampler {
	return &Sampler{
		store: store,
		limit: MaxDocuments,
	}
}

// ListCandidates returns the first markup documents of the bucket in listing
// order, at most MaxDocuments of them.
func (s *Sampler) ListCandidates(ctx context.Context, resourceID string) ([]string, error) {
	keys := make([]string, 0, s.limit)

	err := s.store.ListObjects(ctx, resourceID, func(key string) bool {
		if IsMarkup(key) {
			keys = append(keys, key)
		}
		return len(keys) < s.limit
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", resourceID).
		Int("documents", len(keys)).
		Msg("sampled markup documents")
	return keys, nil
}

// Fetch reads one document. The returned error is a fetch error that only
// fails that document's check.
func (s *Sampler) Fetch(ctx context.Context, resourceID, key string) (string, error) {
	data, err := s.store.GetObject(ctx, resourceID, key)
	if err != nil {
		return "", domain.NewError(domain.ErrorKindFetch, key, err)
	}
	return string(data), nil
}

func IsMarkup(key string) bool {
	if strings.HasSuffix(key, "/") {
		return false
	}
	_, ok := markupExtensions[strings.ToLower(path.Ext(key))]
	return ok
}
