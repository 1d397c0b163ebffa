// Package llmplan implements the opt-in compose_plan tool (SPEC_FULL.md §11):
// an LLM proposes a plan of Docker actions against the caller's labeled
// project, but never executes it. It generalizes the teacher's
// CallLLM/ExecutePlan flow (server/server.go, pkg/llm) into a single,
// clearly-marked, non-executing tool registered only when an OpenAI API key
// is configured.
package llmplan

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/errs"
	"github.com/dockermcp/gateway/internal/registry"
	"github.com/dockermcp/gateway/internal/schema"
)

const planDeadline = 60 * time.Second

// Planner wraps the underlying chat model used to propose a plan.
type Planner struct {
	model *openai.LLM
}

// NewPlanner builds a Planner from an OpenAI API key and model name. Returns
// an error if the key is empty, mirroring the teacher's NewLLMClient guard.
func NewPlanner(apiKey, model string) (*Planner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	m, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("construct openai client: %w", err)
	}
	return &Planner{model: m}, nil
}

const systemPrompt = `You are a Docker Compose planning assistant. Given a description of
a project's current containers, volumes, and networks and a plain-language intent, respond
with a JSON array of proposed actions. Each action has the shape:
{"op": "create_container"|"pull_image"|"create_network"|"create_volume"|"remove_container"|"update_service", "description": "...", "args": {...}}
Respond with ONLY the JSON array, no prose, no markdown fences.`

// Propose sends the project name, the caller-supplied resource summary, and
// the intent to the model and asks for a JSON plan. It does not render the
// docker_compose prompt, and it never calls any Docker operation itself —
// the caller applies the plan by issuing its own validated tool calls.
func (p *Planner) Propose(ctx context.Context, project, intent, resourceSummary string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(
			"Project: %s\n\nCurrent resources:\n%s\n\nIntent: %s", project, resourceSummary, intent)),
	}

	resp, err := p.model.GenerateContent(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return "", errs.Wrap(errs.UpstreamFailure, "llm plan generation failed", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", errs.New(errs.UpstreamFailure, "llm returned an empty plan")
	}
	return resp.Choices[0].Content, nil
}

// RegisterTool adds the compose_plan tool to the builder, bound to this
// Planner. It is only called from startup when OPENAI_API_KEY is configured;
// its absence from the catalog is itself how callers detect the feature is
// disabled (§11: "exercising capability-style filtering a second way").
func RegisterTool(b *registry.Builder, p *Planner) *registry.Builder {
	inputSchema := &schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Schema{
			"project": {Type: schema.TypeString, Description: "project name; resources are filtered by this label"},
			"intent":  {Type: schema.TypeString, Description: "plain-language description of the desired change"},
		},
		Required: []string{"project", "intent"},
	}

	b.Tool(registry.ToolDef{
		Name:            "compose_plan",
		Title:           "Propose a Compose plan",
		Description:     "Ask the configured LLM to propose a plan of Docker actions for a labeled project. Does not apply the plan.",
		InputSchema:     inputSchema,
		Capabilities:    []dockeradapter.Capability{dockeradapter.CapEngine},
		DefaultDeadline: planDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			project, _ := args["project"].(string)
			intent, _ := args["intent"].(string)

			summary, err := summarizeProject(ctx, a, project)
			if err != nil {
				return nil, err
			}

			plan, err := p.Propose(ctx, project, intent, summary)
			if err != nil {
				return nil, err
			}
			return map[string]any{"project": project, "plan": plan}, nil
		},
	})
	return b
}

const projectLabelKey = "mcp-docker-gateway.project"

func summarizeProject(ctx context.Context, a *dockeradapter.Adapter, project string) (string, error) {
	labelFilter := map[string]string{projectLabelKey: project}
	containers, err := a.ListContainers(ctx, labelFilter, true, 0)
	if err != nil {
		return "", fmt.Errorf("listing containers: %w", err)
	}
	return fmt.Sprintf("%d container(s) currently labeled for this project", len(containers)), nil
}
