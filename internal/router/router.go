// Package router implements the Request Router: MCP-level dispatch over a
// parsed JSON-RPC envelope (§4.E). It generalizes the teacher's single
// hard-coded handleRequest switch in server/server.go into the full method
// table, batch semantics, and notification filtering the protocol requires.
package router

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/errs"
	"github.com/dockermcp/gateway/internal/executor"
	"github.com/dockermcp/gateway/internal/mcp"
	"github.com/dockermcp/gateway/internal/registry"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "mcp-docker-gateway"
	serverVersion   = "1.0.0"
	toolsPageSize   = 50
)

// Router dispatches parsed JSON-RPC requests to the right MCP method handler.
type Router struct {
	reg     *registry.Registry
	exec    *executor.Executor
	adapter *dockeradapter.Adapter
	caps    map[dockeradapter.Capability]bool
}

// New builds a Router bound to a tool/prompt registry, executor, the Docker
// adapter prompts render against, and the daemon's probed capabilities
// (used to filter tools/list per Testable Property 13).
func New(reg *registry.Registry, exec *executor.Executor, adapter *dockeradapter.Adapter, caps map[dockeradapter.Capability]bool) *Router {
	return &Router{reg: reg, exec: exec, adapter: adapter, caps: caps}
}

// HandleBody parses and dispatches a raw HTTP request body, returning the
// raw bytes to write back (nil for an all-notifications batch, which gets
// no body at all) and whether at least one response was produced.
func (r *Router) HandleBody(ctx context.Context, body []byte) ([]byte, bool) {
	reqs, isBatch, err := mcp.ParseBody(body)
	if err != nil {
		code := mcp.CodeParseError
		if json.Valid(body) {
			code = mcp.CodeInvalidRequest
		}
		resp := mcp.NewErrorResponse(mcp.ID{}, mcp.NewError(code, "invalid JSON-RPC payload"))
		out, _ := json.Marshal(resp)
		return out, true
	}

	responses := make([]*mcp.Response, 0, len(reqs))
	for _, req := range reqs {
		resp := r.handleOne(ctx, req)
		if resp != nil {
			responses = append(responses, resp)
		}
	}

	if len(responses) == 0 {
		return nil, false
	}
	if !isBatch {
		out, _ := json.Marshal(responses[0])
		return out, true
	}
	out, _ := json.Marshal(responses)
	return out, true
}

// handleOne dispatches a single request/notification. It returns nil for a
// notification (no id), since notifications never receive a reply.
func (r *Router) handleOne(ctx context.Context, req *mcp.Request) *mcp.Response {
	if req.Version != mcp.JSONRPCVersion && req.Version != "" {
		return replyOrNil(req, mcp.NewError(mcp.CodeInvalidRequest, "unsupported jsonrpc version"))
	}

	var result any
	var rpcErr *mcp.Error

	switch req.Method {
	case "initialize":
		result = r.handleInitialize()
	case "ping":
		result = map[string]any{}
	case "tools/list":
		result = r.handleToolsList(req.Params)
	case "tools/call":
		result, rpcErr = r.handleToolsCall(ctx, req.Params)
	case "prompts/list":
		result = r.handlePromptsList()
	case "prompts/get":
		result, rpcErr = r.handlePromptsGet(ctx, req.Params)
	default:
		rpcErr = mcp.NewError(mcp.CodeMethodNotFound, "method not found: "+req.Method)
	}

	if req.IsNotification() {
		return nil
	}
	if rpcErr != nil {
		return mcp.NewErrorResponse(*req.ID, rpcErr)
	}
	return mcp.NewResultResponse(*req.ID, result)
}

func replyOrNil(req *mcp.Request, rpcErr *mcp.Error) *mcp.Response {
	if req.IsNotification() {
		return nil
	}
	return mcp.NewErrorResponse(*req.ID, rpcErr)
}

func (r *Router) handleInitialize() any {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools":   map[string]any{"listChanged": false},
			"prompts": map[string]any{"listChanged": false},
		},
		"serverInfo": map[string]any{"name": serverName, "version": serverVersion},
	}
}

type toolsListParams struct {
	Cursor string `json:"cursor"`
}

func (r *Router) handleToolsList(rawParams json.RawMessage) any {
	var params toolsListParams
	_ = json.Unmarshal(rawParams, &params)

	all := r.reg.Supported(r.caps)
	start := decodeCursor(params.Cursor)
	if start > len(all) {
		start = len(all)
	}
	end := start + toolsPageSize
	if end > len(all) {
		end = len(all)
	}

	page := all[start:end]
	tools := make([]map[string]any, 0, len(page))
	for _, t := range page {
		entry := map[string]any{
			"name":        t.Name,
			"title":       t.Title,
			"description": t.Description,
			"inputSchema": t.InputSchema.ToJSONSchema(),
		}
		if t.OutputSchema != nil {
			entry["outputSchema"] = t.OutputSchema.ToJSONSchema()
		}
		tools = append(tools, entry)
	}

	out := map[string]any{"tools": tools}
	if end < len(all) {
		out["nextCursor"] = encodeCursor(end)
	}
	return out
}

func encodeCursor(index int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(index)))
}

func decodeCursor(cursor string) int {
	if cursor == "" {
		return 0
	}
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(decoded))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	TimeoutMS int             `json:"timeout_ms"`
}

func (r *Router) handleToolsCall(ctx context.Context, rawParams json.RawMessage) (any, *mcp.Error) {
	var params toolsCallParams
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return nil, mcp.NewError(mcp.CodeInvalidParams, "invalid tools/call params")
	}

	result, err := r.exec.Call(ctx, params.Name, params.Arguments, params.TimeoutMS)
	if err != nil {
		if err == executor.ErrUnknownTool || errs.KindOf(err) == errs.NotFound {
			return nil, mcp.NewError(mcp.CodeInvalidParams, "unknown tool: "+params.Name)
		}
		return nil, mcp.NewError(mcp.CodeInternalError, err.Error())
	}
	return result, nil
}

func (r *Router) handlePromptsList() any {
	prompts := make([]map[string]any, 0, len(r.reg.ListPrompts()))
	for _, p := range r.reg.ListPrompts() {
		args := make([]map[string]any, 0, len(p.Arguments))
		for _, a := range p.Arguments {
			args = append(args, map[string]any{
				"name":        a.Name,
				"description": a.Description,
				"required":    a.Required,
			})
		}
		prompts = append(prompts, map[string]any{
			"name":        p.Name,
			"title":       p.Title,
			"description": p.Description,
			"arguments":   args,
		})
	}
	sort.Slice(prompts, func(i, j int) bool { return prompts[i]["name"].(string) < prompts[j]["name"].(string) })
	return map[string]any{"prompts": prompts}
}

type promptsGetParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments"`
}

func (r *Router) handlePromptsGet(ctx context.Context, rawParams json.RawMessage) (any, *mcp.Error) {
	var params promptsGetParams
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return nil, mcp.NewError(mcp.CodeInvalidParams, "invalid prompts/get params")
	}
	def, ok := r.reg.LookupPrompt(params.Name)
	if !ok {
		return nil, mcp.NewError(mcp.CodeInvalidParams, "unknown prompt: "+params.Name)
	}

	messages, err := def.Render(ctx, r.adapter, params.Arguments)
	if err != nil {
		return nil, mcp.NewError(mcp.CodeInternalError, err.Error())
	}

	out := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		out = append(out, map[string]any{
			"role":    m.Role,
			"content": map[string]any{"type": "text", "text": m.Text},
		})
	}
	return map[string]any{"description": def.Description, "messages": out}, nil
}
