package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_StringRoundTrip(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &id))
	out, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(out))
}

func TestID_NumberRoundTrip(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`42`), &id))
	out, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `42`, string(out))
}

func TestID_NumberAndEquivalentStringAreNotEqual(t *testing.T) {
	var numeric, str ID
	require.NoError(t, json.Unmarshal([]byte(`42`), &numeric))
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &str))
	assert.False(t, numeric.Equal(str))
}

func TestID_NullMeansInvalid(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.False(t, id.IsValid())
}

func TestRequest_IsNotification(t *testing.T) {
	withID := Request{Method: "ping"}
	id := NewID(1)
	withID.ID = &id
	assert.False(t, withID.IsNotification())

	notification := Request{Method: "ping"}
	assert.True(t, notification.IsNotification())
}

func TestParseBody_Single(t *testing.T) {
	reqs, isBatch, err := ParseBody([]byte(`{"jsonrpc":"2.0","id":1,"method":"ping","params":{}}`))
	require.NoError(t, err)
	assert.False(t, isBatch)
	require.Len(t, reqs, 1)
	assert.Equal(t, "ping", reqs[0].Method)
}

func TestParseBody_Batch(t *testing.T) {
	reqs, isBatch, err := ParseBody([]byte(`[{"jsonrpc":"2.0","id":1,"method":"ping"},{"jsonrpc":"2.0","id":2,"method":"ping"}]`))
	require.NoError(t, err)
	assert.True(t, isBatch)
	assert.Len(t, reqs, 2)
}

func TestParseBody_EmptyBody(t *testing.T) {
	_, _, err := ParseBody([]byte(``))
	require.Error(t, err)
}

func TestParseBody_EmptyBatch(t *testing.T) {
	_, _, err := ParseBody([]byte(`[]`))
	require.Error(t, err)
}

func TestParseBody_MalformedSingle(t *testing.T) {
	_, _, err := ParseBody([]byte(`{not json`))
	require.Error(t, err)
}

func TestParseBody_MalformedBatchEntry(t *testing.T) {
	_, _, err := ParseBody([]byte(`[{"jsonrpc":"2.0","id":1,"method":"ping"}, not-json]`))
	require.Error(t, err)
}

func TestResponse_ErrorAndResultAreExclusive(t *testing.T) {
	id := NewID("x")
	resp := NewResultResponse(id, map[string]any{"ok": true})
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)

	errResp := NewErrorResponse(id, NewError(CodeInternalError, "boom"))
	assert.Nil(t, errResp.Result)
	assert.Equal(t, CodeInternalError, errResp.Error.Code)
}
