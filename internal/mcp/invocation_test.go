package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendmcp/internal/dispatch"
	"trendmcp/internal/journal"
	"trendmcp/internal/models"
	"trendmcp/internal/query"
	"trendmcp/internal/upstream"
)

type memoryJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (m *memoryJournal) Record(_ context.Context, e journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return m.err
}

type harness struct {
	invoker  *ToolInvoker
	executor *ToolExecutor
	journal  *memoryJournal
	calls    *atomic.Int32
}

func newHarness(t *testing.T, body string) *harness {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, body) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	defs, err := dispatch.DefaultEndpoints()
	require.NoError(t, err)
	registry, err := dispatch.NewRegistry(srv.URL, defs)
	require.NoError(t, err)

	d := dispatch.New(registry, upstream.NewClient(time.Second, logger), query.Credentials{Token: "tok", DisplayName: "Guest"}, logger)
	j := &memoryJournal{}
	executor := NewToolExecutor(d, j, logger)
	invoker, err := NewToolInvoker(executor, registry)
	require.NoError(t, err)

	return &harness{invoker: invoker, executor: executor, journal: j, calls: calls}
}

func decodeEnvelope(t *testing.T, res *CallToolResult) models.APIResult {
	t.Helper()
	require.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)
	var out models.APIResult
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
	return out
}

func TestListTools(t *testing.T) {
	h := newHarness(t, `{}`)

	tools := h.invoker.ListTools().Tools
	require.Len(t, tools, 10)
	assert.Equal(t, "get_overall_data", tools[0].Name)
	assert.Equal(t, []string{"Keyword", "FromDate", "ToDate"}, tools[0].InputSchema["required"])
	assert.Equal(t, "get_influencers", tools[8].Name)
	assert.NotContains(t, tools[8].InputSchema, "required")
	assert.Equal(t, HealthCheckToolName, tools[9].Name)
}

func TestInvokeTool_Success(t *testing.T) {
	h := newHarness(t, `{"mentions":3}`)

	res, err := h.invoker.InvokeTool(context.Background(), "get_overall_data", map[string]interface{}{
		"Keyword": "acme", "FromDate": "01-01-2023", "ToDate": "31-01-2023",
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	env := decodeEnvelope(t, res)
	assert.True(t, env.OK)
	assert.Equal(t, map[string]interface{}{"mentions": float64(3)}, env.Data)

	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, "get_overall_data", h.journal.entries[0].Tool)
	assert.True(t, h.journal.entries[0].OK)
}

func TestInvokeTool_MissingParameter(t *testing.T) {
	h := newHarness(t, `{}`)

	res, err := h.invoker.InvokeTool(context.Background(), "get_timeline", map[string]interface{}{"Keyword": "acme"})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	env := decodeEnvelope(t, res)
	assert.False(t, env.OK)
	assert.Equal(t, "missing parameter: FromDate", env.Error)
	assert.EqualValues(t, 0, h.calls.Load())
}

func TestInvokeTool_SchemaTypeMismatch(t *testing.T) {
	h := newHarness(t, `{}`)

	res, err := h.invoker.InvokeTool(context.Background(), "get_posts", map[string]interface{}{
		"Keyword": float64(5), "FromDate": "01-01-2023", "ToDate": "31-01-2023",
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	env := decodeEnvelope(t, res)
	assert.False(t, env.OK)
	assert.Contains(t, env.Error, "invalid parameter: Keyword")
	assert.EqualValues(t, 0, h.calls.Load())

	require.Len(t, h.journal.entries, 1)
	assert.False(t, h.journal.entries[0].OK)
}

func TestInvokeTool_UnknownTool(t *testing.T) {
	h := newHarness(t, `{}`)

	_, err := h.invoker.InvokeTool(context.Background(), "get_weather", nil)

	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, InvalidParams, rpcErr.Code)
	assert.False(t, h.invoker.Has("get_weather"))
	assert.True(t, h.invoker.Has("get_influencers"))
	assert.True(t, h.invoker.Has(HealthCheckToolName))
}

func TestInvokeTool_HealthCheck(t *testing.T) {
	h := newHarness(t, `{}`)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	h.executor.now = func() time.Time { return fixed }

	res, err := h.invoker.InvokeTool(context.Background(), HealthCheckToolName, nil)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t,
		`{"status":"healthy","timestamp":"2024-05-01T10:00:00Z","endpointsAvailable":9,"stateless":true}`,
		res.Content[0].Text)
	assert.Empty(t, h.journal.entries)
}

func TestInvokeTool_JournalFailureDoesNotFailCall(t *testing.T) {
	h := newHarness(t, `[]`)
	h.journal.err = errors.New("redis down")

	res, err := h.invoker.InvokeTool(context.Background(), "get_influencers", nil)
	require.NoError(t, err)

	env := decodeEnvelope(t, res)
	assert.True(t, env.OK)
	assert.Equal(t, map[string]interface{}{"influencers": []interface{}{}}, env.Data)
}

func TestNewToolInvoker_ReservedName(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry, err := dispatch.NewRegistry("https://api.example.com", []dispatch.EndpointDefinition{
		{Tool: HealthCheckToolName, Key: "health", Path: "/Health"},
	})
	require.NoError(t, err)
	d := dispatch.New(registry, upstream.NewClient(time.Second, logger), query.Credentials{}, logger)

	_, err = NewToolInvoker(NewToolExecutor(d, nil, logger), registry)
	assert.Error(t, err)
}
