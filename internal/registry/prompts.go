package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/errs"
)

const projectLabelKey = "mcp-docker-gateway.project"

// RegisterDockerPrompts adds the docker_compose prompt, generalizing the
// teacher's single hard-coded prompt.go into the Registry's RenderFunc shape.
func RegisterDockerPrompts(b *Builder) *Builder {
	b.Prompt(PromptDef{
		Name:        "docker_compose",
		Title:       "Docker Compose manager",
		Description: "Seeds a plan+apply loop for managing a labeled project's containers, volumes, and networks.",
		Arguments: []PromptArg{
			{Name: "name", Description: "project name", Required: true, TypeHint: "string"},
			{Name: "containers", Description: "free-form description of the desired resources", Required: false, TypeHint: "string"},
		},
		Render: renderDockerCompose,
	})
	return b
}

func renderDockerCompose(ctx context.Context, a *dockeradapter.Adapter, args map[string]string) ([]PromptMessage, error) {
	name := args["name"]
	if name == "" {
		return nil, errs.New(errs.InvalidArgument, "missing required argument 'name'")
	}
	desired := args["containers"]

	projectLabel := fmt.Sprintf("%s=%s", projectLabelKey, name)
	labelFilter := map[string]string{projectLabelKey: name}

	containers, err := a.ListContainers(ctx, labelFilter, true, 0)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	containerJSON, err := json.MarshalIndent(containers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling container info: %w", err)
	}

	volumes, err := a.ListVolumes(ctx, labelFilter)
	if err != nil {
		return nil, fmt.Errorf("listing volumes: %w", err)
	}
	volumesJSON, err := json.MarshalIndent(volumes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling volume info: %w", err)
	}

	networks, err := a.ListNetworks(ctx, labelFilter)
	if err != nil {
		return nil, fmt.Errorf("listing networks: %w", err)
	}
	networksJSON, err := json.MarshalIndent(networks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling network info: %w", err)
	}

	text := fmt.Sprintf(`
You are going to act as a Docker Compose manager, using the Docker Tools
available to you. Instead of being provided a 'docker-compose.yml' file,
you will be given instructions in plain language, and interact with the
user through a plan+apply loop, akin to how Terraform operates.

Every Docker resource you create must be assigned the following label:

    %s

You should use this label to filter resources when possible.

Every Docker resource you create must also be prefixed with the project name, followed by a dash ('-'):

    %s-{ResourceName}

Here are the resources currently present in the project, based on the presence of the above label:

<BEGIN CONTAINERS>
%s
<END CONTAINERS>
<BEGIN VOLUMES>
%s
<END VOLUMES>
<BEGIN NETWORKS>
%s
<END NETWORKS>

Do not retry the same failed action more than once. Prefer terminating your output
when presented with 3 errors in a row, and ask a clarifying question to
form better inputs or address the error.

For container images, always prefer using the 'latest' image tag, unless the user specifies a tag specifically.
So if a user asks to deploy Nginx, you should pull 'nginx:latest'.

Below is a description of the state of the Docker resources which the user would like you to manage:

<BEGIN DOCKER-RESOURCES>
%s
<END DOCKER-RESOURCES>

Respond to this message with a plan of what you will do, in the EXACT format below:

<BEGIN FORMAT>
## Introduction

I will be assisting with deploying Docker containers for project: '%s'.

### Plan+Apply Loop

I will run in a plan+apply loop when you request changes to the project. This is
to ensure that you are aware of the changes I am about to make, and to give you
the opportunity to ask questions or make tweaks.

Instruct me to apply immediately (without confirming the plan with you) when you desire to do so.

## Commands

Instruct me with the following commands at any point:

- 'help': print this list of commands
- 'apply': apply a given plan
- 'down': stop containers in the project
- 'ps': list containers in the project
- 'quiet': turn on quiet mode (default)
- 'verbose': turn on verbose mode (I will explain a lot!)
- 'destroy': produce a plan to destroy all resources in the project

## Plan

I plan to take the following actions:

1. CREATE ...
2. READ ...
3. UPDATE ...
4. DESTROY ...
5. RECREATE ...
...
N. ...

Respond 'apply' to apply this plan. Otherwise, provide feedback and I will present you with an updated plan.
<END FORMAT>

Always apply a plan in dependency order. For example, if you are creating a container that depends on a
database, create the database first, and abort the apply if dependency creation fails. Likewise,
destruction should occur in the reverse dependency order, and be aborted if destroying a particular resource fails.

Plans should only create, update, or destroy resources in the project. Relatedly, 'recreate' should
be used to indicate a destroy followed by a create; always prefer updating a resource when possible,
only recreating it if required (e.g. for immutable resources like containers).
`, projectLabel, name, string(containerJSON), string(volumesJSON), string(networksJSON), desired, name)

	return []PromptMessage{{Role: "user", Text: text}}, nil
}
