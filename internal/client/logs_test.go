package client_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogsClient_RecentLogs(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/read/app-guid", request.URL.Path)
		assert.Equal(t, "LOG", request.URL.Query().Get("envelope_types"))
		assert.Equal(t, "true", request.URL.Query().Get("descending"))

		encode := func(s string) string {
			return base64.StdEncoding.EncodeToString([]byte(s))
		}

		// Newest first, as the endpoint returns them.
		response := map[string]interface{}{
			"envelopes": map[string]interface{}{
				"batch": []map[string]interface{}{
					{
						"timestamp":   "2000000000",
						"source_id":   "app-guid",
						"instance_id": "0",
						"tags":        map[string]string{"source_type": "APP/PROC/WEB"},
						"log":         map[string]string{"payload": encode("second line"), "type": "OUT"},
					},
					{
						"timestamp":   "1000000000",
						"source_id":   "app-guid",
						"instance_id": "0",
						"tags":        map[string]string{"source_type": "APP/PROC/WEB"},
						"log":         map[string]string{"payload": encode("first line"), "type": "ERR"},
					},
					{
						// Corrupt payloads are skipped, not fatal.
						"timestamp": "1500000000",
						"log":       map[string]string{"payload": "!!not-base64!!", "type": "OUT"},
					},
				},
			},
		}
		_ = json.NewEncoder(writer).Encode(response)
	})

	envelopes, err := c.Logs().RecentLogs(context.Background(), "app-guid")
	require.NoError(t, err)
	require.Len(t, envelopes, 2)

	// Oldest first on the way out.
	assert.Equal(t, "first line", envelopes[0].Message)
	assert.Equal(t, "ERR", envelopes[0].MessageType)
	assert.Equal(t, "second line", envelopes[1].Message)
	assert.Equal(t, "OUT", envelopes[1].MessageType)
	assert.Equal(t, "APP/PROC/WEB", envelopes[0].SourceType)
	assert.True(t, envelopes[0].Timestamp.Before(envelopes[1].Timestamp))
}

func TestLogsClient_RecentLogs_EmptyBatch(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"envelopes": map[string]interface{}{"batch": []interface{}{}},
		})
	})

	envelopes, err := c.Logs().RecentLogs(context.Background(), "app-guid")
	require.NoError(t, err)
	assert.Empty(t, envelopes)
}
