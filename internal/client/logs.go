package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// LogsClient implements cf.LogsClient against the log endpoint, which lives
// on its own host and wraps each log line in an envelope with a base64
// payload.
type LogsClient struct {
	httpClient *cfhttp.Client
}

// NewLogsClient creates a new logs client bound to the log endpoint host.
func NewLogsClient(httpClient *cfhttp.Client) *LogsClient {
	return &LogsClient{httpClient: httpClient}
}

// logEnvelope is the wire form of one log envelope.
type logEnvelope struct {
	Timestamp  string            `json:"timestamp"`
	SourceID   string            `json:"source_id"`
	InstanceID string            `json:"instance_id"`
	Tags       map[string]string `json:"tags"`
	Log        *logPayload       `json:"log"`
}

// logPayload carries the base64-encoded log line and its stream type.
type logPayload struct {
	Payload string `json:"payload"`
	Type    string `json:"type"`
}

// readResponse is the wire form of the read endpoint's response.
type readResponse struct {
	Envelopes struct {
		Batch []logEnvelope `json:"batch"`
	} `json:"envelopes"`
}

// RecentLogs implements cf.LogsClient.RecentLogs. Envelopes come back
// newest-first from the endpoint and are returned oldest-first; entries
// whose payload cannot be decoded are skipped rather than failing the read.
func (c *LogsClient) RecentLogs(ctx context.Context, appGUID string) ([]cf.Envelope, error) {
	path := fmt.Sprintf("/api/v1/read/%s", appGUID)
	query := url.Values{
		"envelope_types": []string{"LOG"},
		"descending":     []string{"true"},
	}

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("reading recent logs: %w", err)
	}

	var wire readResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return nil, fmt.Errorf("parsing log envelopes: %w", err)
	}

	envelopes := make([]cf.Envelope, 0, len(wire.Envelopes.Batch))

	for _, raw := range wire.Envelopes.Batch {
		if raw.Log == nil {
			continue
		}

		message, err := base64.StdEncoding.DecodeString(raw.Log.Payload)
		if err != nil {
			continue
		}

		envelope := cf.Envelope{
			SourceID:    raw.SourceID,
			InstanceID:  raw.InstanceID,
			SourceType:  raw.Tags["source_type"],
			Tags:        raw.Tags,
			Message:     string(message),
			MessageType: raw.Log.Type,
		}

		if nanos, err := strconv.ParseInt(raw.Timestamp, 10, 64); err == nil {
			envelope.Timestamp = time.Unix(0, nanos)
		}

		envelopes = append(envelopes, envelope)
	}

	sort.Slice(envelopes, func(i, j int) bool {
		return envelopes[i].Timestamp.Before(envelopes[j].Timestamp)
	})

	return envelopes, nil
}
