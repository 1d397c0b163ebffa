package errs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf_WrapsNonCanonicalAsInternal(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
}

func TestKindOf_PreservesCanonicalKind(t *testing.T) {
	err := New(Conflict, "already in use")
	assert.Equal(t, Conflict, KindOf(err))
}

func TestFromDockerError_DeadlineExceeded(t *testing.T) {
	canonical := FromDockerError(context.DeadlineExceeded)
	require.NotNil(t, canonical)
	assert.Equal(t, Timeout, canonical.ErrKind)
}

func TestFromDockerError_Cancelled(t *testing.T) {
	canonical := FromDockerError(context.Canceled)
	require.NotNil(t, canonical)
	assert.Equal(t, Cancelled, canonical.ErrKind)
}

func TestFromDockerError_Nil(t *testing.T) {
	assert.Nil(t, FromDockerError(nil))
}

func TestWrap_UnwrapsToCause(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := Wrap(UpstreamFailure, "docker failed", cause)
	assert.ErrorIs(t, wrapped, cause)
}

func TestInvalid_CarriesFieldDetails(t *testing.T) {
	details := []FieldError{{Path: "/replicas", Kind: "required", Message: "missing"}}
	err := Invalid("validation failed", details)
	assert.Equal(t, InvalidArgument, err.ErrKind)
	assert.Equal(t, details, err.Details)
}

func TestHTTPStatus_KnownKinds(t *testing.T) {
	cases := map[Kind]int{
		InvalidArgument: 400,
		Unauthenticated: 401,
		Forbidden:       403,
		NotFound:        404,
		Conflict:        409,
		Timeout:         504,
		Internal:        500,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), "kind %s", kind)
	}
}
