package router

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/executor"
	"github.com/dockermcp/gateway/internal/mcp"
	"github.com/dockermcp/gateway/internal/registry"
	"github.com/dockermcp/gateway/internal/schema"
)

var allCaps = map[dockeradapter.Capability]bool{
	dockeradapter.CapEngine:       true,
	dockeradapter.CapSwarmManager: true,
}

func testRouter(t *testing.T, caps map[dockeradapter.Capability]bool) *Router {
	t.Helper()
	b := registry.NewBuilder()
	b.Tool(registry.ToolDef{
		Name:        "list_containers",
		Title:       "List containers",
		Description: "lists them",
		InputSchema: &schema.Schema{Type: schema.TypeObject},
		Capabilities: []dockeradapter.Capability{dockeradapter.CapEngine},
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return map[string]any{"containers": []any{}}, nil
		},
	})
	b.Tool(registry.ToolDef{
		Name:        "scale_service",
		Title:       "Scale service",
		Description: "scales it",
		InputSchema: &schema.Schema{
			Type:       schema.TypeObject,
			Properties: map[string]*schema.Schema{"service": {Type: schema.TypeString}, "replicas": {Type: schema.TypeInteger}},
			Required:   []string{"service", "replicas"},
		},
		Capabilities: []dockeradapter.Capability{dockeradapter.CapSwarmManager},
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return map[string]any{"status": "ok"}, nil
		},
	})
	reg, err := b.Build()
	require.NoError(t, err)

	exec := executor.New(reg, nil, caps, time.Second, time.Minute)
	return New(reg, exec, nil, caps)
}

func TestHandleBody_Initialize(t *testing.T) {
	r := testRouter(t, allCaps)
	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	out, hasBody := r.HandleBody(context.Background(), body)
	require.True(t, hasBody)

	var resp mcp.Response
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Nil(t, resp.Error)
}

func TestHandleBody_UnknownMethod(t *testing.T) {
	r := testRouter(t, allCaps)
	body := []byte(`{"jsonrpc":"2.0","id":9,"method":"tools/wish","params":{}}`)
	out, hasBody := r.HandleBody(context.Background(), body)
	require.True(t, hasBody)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(mcp.CodeMethodNotFound), errObj["code"])
}

func TestHandleBody_IDEchoPreservesType(t *testing.T) {
	r := testRouter(t, allCaps)

	stringBody := []byte(`{"jsonrpc":"2.0","id":"x","method":"ping","params":{}}`)
	out, _ := r.HandleBody(context.Background(), stringBody)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	_, isString := resp["id"].(string)
	assert.True(t, isString)

	intBody := []byte(`{"jsonrpc":"2.0","id":7,"method":"ping","params":{}}`)
	out, _ = r.HandleBody(context.Background(), intBody)
	require.NoError(t, json.Unmarshal(out, &resp))
	_, isNumber := resp["id"].(float64)
	assert.True(t, isNumber)
}

func TestHandleBody_ToolsListCapabilityFiltering(t *testing.T) {
	engineOnly := map[dockeradapter.Capability]bool{dockeradapter.CapEngine: true}
	r := testRouter(t, engineOnly)

	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	out, _ := r.HandleBody(context.Background(), body)

	var resp struct {
		Result struct {
			Tools []map[string]any `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &resp))
	require.Len(t, resp.Result.Tools, 1)
	assert.Equal(t, "list_containers", resp.Result.Tools[0]["name"])
}

func TestHandleBody_ToolsCallSchemaRejection(t *testing.T) {
	r := testRouter(t, allCaps)
	body := []byte(`{"jsonrpc":"2.0","id":"x","method":"tools/call","params":{"name":"scale_service","arguments":{"service":"web"}}}`)
	out, _ := r.HandleBody(context.Background(), body)

	var resp struct {
		Result struct {
			IsError           bool `json:"isError"`
			StructuredContent struct {
				Kind    string `json:"kind"`
				Details []struct {
					Path string `json:"path"`
				} `json:"details"`
			} `json:"structuredContent"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.True(t, resp.Result.IsError)
	assert.Equal(t, "invalid-argument", resp.Result.StructuredContent.Kind)
	require.Len(t, resp.Result.StructuredContent.Details, 1)
	assert.Equal(t, "/replicas", resp.Result.StructuredContent.Details[0].Path)
}

func TestHandleBody_UnknownToolIsInvalidParams(t *testing.T) {
	r := testRouter(t, allCaps)
	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"does_not_exist","arguments":{}}}`)
	out, _ := r.HandleBody(context.Background(), body)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(mcp.CodeInvalidParams), errObj["code"])
}

func TestHandleBody_BatchSemantics(t *testing.T) {
	r := testRouter(t, allCaps)
	body := []byte(`[
		{"jsonrpc":"2.0","id":1,"method":"ping","params":{}},
		{"jsonrpc":"2.0","method":"ping","params":{}},
		{"jsonrpc":"2.0","id":2,"method":"ping","params":{}}
	]`)
	out, hasBody := r.HandleBody(context.Background(), body)
	require.True(t, hasBody)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	require.Len(t, resp, 2)
}

func TestHandleBody_AllNotificationBatchHasNoReply(t *testing.T) {
	r := testRouter(t, allCaps)
	body := []byte(`[{"jsonrpc":"2.0","method":"ping","params":{}}]`)
	_, hasBody := r.HandleBody(context.Background(), body)
	assert.False(t, hasBody)
}

func TestHandleBody_MalformedEnvelopeIsParseError(t *testing.T) {
	r := testRouter(t, allCaps)
	out, hasBody := r.HandleBody(context.Background(), []byte(`not json`))
	require.True(t, hasBody)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(mcp.CodeParseError), errObj["code"])
}

func TestHandleBody_ValidJSONBadEnvelopeIsInvalidRequest(t *testing.T) {
	r := testRouter(t, allCaps)
	out, hasBody := r.HandleBody(context.Background(), []byte(`[]`))
	require.True(t, hasBody)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(mcp.CodeInvalidRequest), errObj["code"])
}

func TestCursor_RoundTrip(t *testing.T) {
	assert.Equal(t, 0, decodeCursor(""))
	assert.Equal(t, 50, decodeCursor(encodeCursor(50)))
	assert.Equal(t, 0, decodeCursor("!!not-base64!!"))
}
