package dockeradapter

import (
	"testing"

	"github.com/docker/docker/api/types/swarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeService_ReplicatedMode(t *testing.T) {
	replicas := uint64(3)
	s := swarm.Service{
		ID: "svc1",
		Spec: swarm.ServiceSpec{
			Annotations: swarm.Annotations{Name: "web", Labels: map[string]string{"env": "prod"}},
			TaskTemplate: swarm.TaskSpec{
				ContainerSpec: &swarm.ContainerSpec{Image: "nginx:latest"},
			},
			Mode: swarm.ServiceMode{Replicated: &swarm.ReplicatedService{Replicas: &replicas}},
		},
	}

	out := summarizeService(s)
	assert.Equal(t, "svc1", out.ID)
	assert.Equal(t, "web", out.Name)
	assert.Equal(t, "nginx:latest", out.Image)
	require.NotNil(t, out.Replicas)
	assert.Equal(t, uint64(3), *out.Replicas)
	assert.Equal(t, "prod", out.Labels["env"])
}

func TestSummarizeService_GlobalModeHasNilReplicas(t *testing.T) {
	s := swarm.Service{
		ID: "svc2",
		Spec: swarm.ServiceSpec{
			Annotations: swarm.Annotations{Name: "agent"},
			Mode:        swarm.ServiceMode{Global: &swarm.GlobalService{}},
		},
	}

	out := summarizeService(s)
	assert.Nil(t, out.Replicas)
	assert.Equal(t, "", out.Image)
}
