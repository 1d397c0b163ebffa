package dockeradapter

import (
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
)

func TestFormatPort_WithoutPublicPort(t *testing.T) {
	p := types.Port{PrivatePort: 80, Type: "tcp"}
	assert.Equal(t, "80/tcp", formatPort(p))
}

func TestFormatPort_WithPublicPort(t *testing.T) {
	p := types.Port{IP: "0.0.0.0", PrivatePort: 80, PublicPort: 8080, Type: "tcp"}
	assert.Equal(t, "0.0.0.0:8080->80/tcp", formatPort(p))
}
