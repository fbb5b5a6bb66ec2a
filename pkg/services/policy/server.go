package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	serverRequestTimeout = 10 * time.Second
	serverMaxRetries     = 3
)

// ServerEngine evaluates queries through the Data API of a running OPA
// server. An undefined document is returned as an empty collection.
type ServerEngine struct {
	baseURL string
	client  *retryablehttp.Client
}

func NewServerEngine(baseURL string) *ServerEngine {
	client := retryablehttp.NewClient()
	client.RetryMax = serverMaxRetries
	client.HTTPClient.Timeout = serverRequestTimeout
	client.Logger = nil

	return &ServerEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type dataRequest struct {
	Input json.RawMessage `json:"input"`
}

type dataResponse struct {
	Result json.RawMessage `json:"result"`
}

func (e *ServerEngine) Query(ctx context.Context, ruleset domain.RulesetConfig, input []byte) ([]json.RawMessage, error) {
	body, err := json.Marshal(dataRequest{Input: input})
	if err != nil {
		return nil, fmt.Errorf("failed to encode opa request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/data/%s", e.baseURL, queryPath(ruleset.Query))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create opa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opa request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read opa response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opa returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out dataResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse opa response: %w", err)
	}
	if len(out.Result) == 0 {
		return []json.RawMessage{}, nil
	}
	return []json.RawMessage{out.Result}, nil
}

// queryPath turns "data.a.b" into the Data API path "a/b".
func queryPath(query string) string {
	return strings.ReplaceAll(strings.TrimPrefix(query, "data."), ".", "/")
}
