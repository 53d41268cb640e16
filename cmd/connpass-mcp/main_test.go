package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connpass-mcp/internal/config"
	"connpass-mcp/pkg/protocol"
)

func TestRunStdio(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	var gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte(`{"events":[{"event_name":"Go 勉強会","event_url":"https://example.connpass.com/event/1/"}]}`))
	}))
	defer upstream.Close()

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","clientInfo":{"name":"desktop","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"searchEvents","arguments":{"keyword":"go"}}}`,
	}, "\n") + "\n")
	var out bytes.Buffer

	err := run(context.Background(), config.Options{
		Lookuper: envconfig.MapLookuper(map[string]string{
			"CONNPASS_BASE_URL": upstream.URL,
			"CONNPASS_API_KEY":  "key-123",
			"LOG_LEVEL":         "warn",
		}),
	}, in, &out)
	require.NoError(t, err)
	assert.Equal(t, "key-123", gotKey)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2, "stdout must only carry protocol messages: %q", out.String())

	var resp protocol.Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	require.Nil(t, resp.Error)

	var result protocol.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, `"event_name":"Go 勉強会"`)
}

func TestRunInvalidConfig(t *testing.T) {
	err := run(context.Background(), config.Options{
		Lookuper: envconfig.MapLookuper(map[string]string{"CONNPASS_BASE_URL": "ftp://nope"}),
	}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "create connpass client")

	err = run(context.Background(), config.Options{
		Lookuper: envconfig.MapLookuper(map[string]string{"LOG_LEVEL": "chatty"}),
	}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")
}
