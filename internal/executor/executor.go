// Package executor implements the Tool Executor: the bridge between a
// validated tools/call and a Docker operation (§4.F). It generalizes the
// teacher's direct "handler(ctx, s, parameters) error" dispatch in
// server/server.go into the full seven-step protocol: lookup, capability
// check, schema validation, deadline construction, invocation, success
// shaping, and error shaping.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/errs"
	"github.com/dockermcp/gateway/internal/registry"
	"github.com/dockermcp/gateway/internal/schema"
)

// ContentBlock is one entry of a tools/call result's content array.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the full shape returned for a tools/call invocation.
type Result struct {
	Content           []ContentBlock `json:"content"`
	StructuredContent any            `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError,omitempty"`
}

// ErrUnknownTool is returned when the requested tool name is not registered;
// the router maps this to JSON-RPC code -32602.
var ErrUnknownTool = errs.New(errs.NotFound, "unknown tool")

const (
	retryMaxAttempts = 2
	retryBaseDelay   = 50 * time.Millisecond
	retryMaxDelay    = 150 * time.Millisecond
	retryTotalBudget = 400 * time.Millisecond
)

// Executor runs validated tool calls against a Docker adapter.
type Executor struct {
	reg            *registry.Registry
	adapter        *dockeradapter.Adapter
	caps           map[dockeradapter.Capability]bool
	maxDeadline    time.Duration
	defaultDeadline time.Duration
}

// New builds an Executor bound to a registry, adapter, and the daemon's
// probed capabilities.
func New(reg *registry.Registry, adapter *dockeradapter.Adapter, caps map[dockeradapter.Capability]bool, defaultDeadline, maxDeadline time.Duration) *Executor {
	return &Executor{reg: reg, adapter: adapter, caps: caps, defaultDeadline: defaultDeadline, maxDeadline: maxDeadline}
}

// Call executes one tools/call request: name plus raw, not-yet-validated
// arguments, and an optional caller-supplied timeout override in
// milliseconds (0 means "use the tool's default").
func (e *Executor) Call(ctx context.Context, name string, rawArgs json.RawMessage, timeoutMS int) (Result, error) {
	def, ok := e.reg.Lookup(name)
	if !ok {
		return Result{}, ErrUnknownTool
	}

	if !hasAllCapabilities(def.Capabilities, e.caps) {
		return errorResult(errs.New(errs.UnsupportedCapability, fmt.Sprintf("tool %q requires a capability the daemon does not have", name))), nil
	}

	generic, decodeErrs := decodeArgs(rawArgs)
	if len(decodeErrs) > 0 {
		return errorResult(errs.Invalid("argument validation failed", decodeErrs)), nil
	}
	// timeout_ms may also travel inside the arguments object; it is an
	// executor concern, not a tool argument, so it is extracted before the
	// closed schema would reject it as an unknown property.
	if obj, ok := generic.(map[string]any); ok {
		if v, present := obj["timeout_ms"]; present {
			if f, isNum := v.(float64); isNum && timeoutMS <= 0 {
				timeoutMS = int(f)
			}
			delete(obj, "timeout_ms")
		}
	}

	args, validationErrs := validateArgs(generic, def.InputSchema)
	if len(validationErrs) > 0 {
		return errorResult(errs.Invalid("argument validation failed", validationErrs)), nil
	}

	deadline := def.DefaultDeadline
	if deadline == 0 {
		deadline = e.defaultDeadline
	}
	if timeoutMS > 0 {
		deadline = time.Duration(timeoutMS) * time.Millisecond
	}
	if e.maxDeadline > 0 && deadline > e.maxDeadline {
		deadline = e.maxDeadline
	}

	callCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	value, err := e.invokeWithRetry(callCtx, def, args)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(def, value), nil
}

func (e *Executor) invokeWithRetry(ctx context.Context, def *registry.ToolDef, args map[string]any) (any, error) {
	value, err := def.Handler(ctx, e.adapter, args)
	if err == nil || !def.Idempotent {
		return value, err
	}

	budget := retryTotalBudget
	delay := retryBaseDelay
	for attempt := 0; attempt < retryMaxAttempts; attempt++ {
		kind := errs.KindOf(err)
		if kind != errs.Unavailable && kind != errs.UpstreamFailure {
			return value, err
		}
		if delay > budget {
			return value, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return value, err
		case <-timer.C:
		}
		budget -= delay

		value, err = def.Handler(ctx, e.adapter, args)
		if err == nil {
			return value, nil
		}
		if delay < retryMaxDelay {
			delay *= 2
			if delay > retryMaxDelay {
				delay = retryMaxDelay
			}
		}
	}
	return value, err
}

func decodeArgs(rawArgs json.RawMessage) (any, []errs.FieldError) {
	if len(rawArgs) == 0 {
		return map[string]any{}, nil
	}
	var generic any
	if err := json.Unmarshal(rawArgs, &generic); err != nil {
		return nil, []errs.FieldError{{Path: "/", Kind: "type", Message: "arguments must be a JSON object"}}
	}
	return generic, nil
}

func validateArgs(generic any, inputSchema *schema.Schema) (map[string]any, []errs.FieldError) {
	result := schema.Validate(generic, inputSchema)
	if !result.OK() {
		out := make([]errs.FieldError, len(result.Errors))
		for i, fe := range result.Errors {
			out[i] = errs.FieldError{Path: fe.Path, Kind: fe.Kind, Message: fe.Message}
		}
		return nil, out
	}

	args, _ := result.Value.(map[string]any)
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func successResult(def *registry.ToolDef, value any) Result {
	text, _ := json.Marshal(textRendering(value))
	res := Result{Content: []ContentBlock{{Type: "text", Text: string(text)}}}
	if def.OutputSchema != nil {
		res.StructuredContent = value
	} else if m, ok := value.(map[string]any); ok {
		res.StructuredContent = m
	}
	return res
}

// textRendering unwraps single-key list results so the text content block
// reads as the list itself; structuredContent keeps the named wrapper.
func textRendering(value any) any {
	m, ok := value.(map[string]any)
	if !ok || len(m) != 1 {
		return value
	}
	for _, v := range m {
		if v != nil && reflect.ValueOf(v).Kind() == reflect.Slice {
			return v
		}
	}
	return value
}

func errorResult(err error) Result {
	canonical, ok := err.(*errs.Error)
	if !ok {
		canonical = errs.Wrap(errs.Internal, "unexpected internal failure", err)
	}
	structured := map[string]any{"kind": string(canonical.ErrKind), "message": canonical.Msg}
	if len(canonical.Details) > 0 {
		structured["details"] = canonical.Details
	}
	return Result{
		IsError:           true,
		Content:           []ContentBlock{{Type: "text", Text: canonical.Error()}},
		StructuredContent: structured,
	}
}

func hasAllCapabilities(required []dockeradapter.Capability, have map[dockeradapter.Capability]bool) bool {
	for _, c := range required {
		if !have[c] {
			return false
		}
	}
	return true
}
