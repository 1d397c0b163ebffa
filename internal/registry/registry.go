// Package registry holds the immutable, process-wide catalog of tools and
// prompts the gateway exposes. It generalizes the teacher's
// Server.tools map[string]RegisteredTool into the full §4.B contract:
// alphabetically ordered listing, capability-based filtering, and
// duplicate-name rejection at build time.
package registry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/schema"
)

// HandlerFunc is a pure function over validated arguments, the Docker
// adapter, and a deadline-bound context (§4.F step 5).
type HandlerFunc func(ctx context.Context, adapter *dockeradapter.Adapter, args map[string]any) (any, error)

// ToolDef is an immutable tool descriptor registered at startup.
type ToolDef struct {
	Name            string
	Title           string
	Description     string
	InputSchema     *schema.Schema
	OutputSchema    *schema.Schema
	Capabilities    []dockeradapter.Capability
	DefaultDeadline time.Duration
	Idempotent      bool
	Handler         HandlerFunc
}

// PromptArg describes one prompt argument.
type PromptArg struct {
	Name        string
	Description string
	Required    bool
	TypeHint    string
}

// PromptMessage is one rendered message in a prompt's template.
type PromptMessage struct {
	Role string
	Text string
}

// RenderFunc renders a prompt's messages given a caller-supplied argument map.
type RenderFunc func(ctx context.Context, adapter *dockeradapter.Adapter, args map[string]string) ([]PromptMessage, error)

// PromptDef is an immutable prompt descriptor registered at startup.
type PromptDef struct {
	Name        string
	Title       string
	Description string
	Arguments   []PromptArg
	Render      RenderFunc
}

// Registry is the immutable, process-wide tool and prompt catalog. It is
// safe for concurrent read access by every in-flight request once Build
// returns; there is no dynamic registration after that point.
type Registry struct {
	tools       map[string]*ToolDef
	toolOrder   []string
	prompts     map[string]*PromptDef
	promptOrder []string
}

// Builder accumulates tool/prompt definitions before Build() freezes them.
type Builder struct {
	tools   map[string]*ToolDef
	prompts map[string]*PromptDef
	err     error
}

func NewBuilder() *Builder {
	return &Builder{tools: map[string]*ToolDef{}, prompts: map[string]*PromptDef{}}
}

// Tool registers a tool definition, rejecting duplicate names.
func (b *Builder) Tool(def ToolDef) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.tools[def.Name]; exists {
		b.err = fmt.Errorf("duplicate tool name: %s", def.Name)
		return b
	}
	b.tools[def.Name] = &def
	return b
}

// Prompt registers a prompt definition, rejecting duplicate names.
func (b *Builder) Prompt(def PromptDef) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.prompts[def.Name]; exists {
		b.err = fmt.Errorf("duplicate prompt name: %s", def.Name)
		return b
	}
	b.prompts[def.Name] = &def
	return b
}

// Build freezes the registry, sorting tools and prompts alphabetically by
// name so that catalog listings are byte-identical across calls (Testable
// Property 4).
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := &Registry{tools: b.tools, prompts: b.prompts}
	for name := range b.tools {
		r.toolOrder = append(r.toolOrder, name)
	}
	sort.Strings(r.toolOrder)
	for name := range b.prompts {
		r.promptOrder = append(r.promptOrder, name)
	}
	sort.Strings(r.promptOrder)
	return r, nil
}

// List returns all tool definitions in stable alphabetical order.
func (r *Registry) List() []*ToolDef {
	out := make([]*ToolDef, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		out = append(out, r.tools[name])
	}
	return out
}

// Lookup finds a tool definition by name.
func (r *Registry) Lookup(name string) (*ToolDef, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Supported filters the catalog down to tools whose required capabilities
// are all present in the given capability set.
func (r *Registry) Supported(caps map[dockeradapter.Capability]bool) []*ToolDef {
	out := make([]*ToolDef, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		t := r.tools[name]
		if hasAllCapabilities(t.Capabilities, caps) {
			out = append(out, t)
		}
	}
	return out
}

func hasAllCapabilities(required []dockeradapter.Capability, have map[dockeradapter.Capability]bool) bool {
	for _, c := range required {
		if !have[c] {
			return false
		}
	}
	return true
}

// ListPrompts returns all prompt definitions in stable alphabetical order.
func (r *Registry) ListPrompts() []*PromptDef {
	out := make([]*PromptDef, 0, len(r.promptOrder))
	for _, name := range r.promptOrder {
		out = append(out, r.prompts[name])
	}
	return out
}

// LookupPrompt finds a prompt definition by name.
func (r *Registry) LookupPrompt(name string) (*PromptDef, bool) {
	p, ok := r.prompts[name]
	return p, ok
}
