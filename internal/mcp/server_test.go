package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvashelper/internal/agg"
	"canvashelper/internal/canvas"
	"canvashelper/internal/tools"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := tools.NewRegistry()
	reg.MustRegister(&tools.Tool{
		Name:        "echo_ok",
		Description: "returns a fixed payload",
		Category:    tools.CategorySummary,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return `{"hello":"world"}`, nil
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "always_auth_fail",
		Description: "fails with a credential rejection",
		Category:    tools.CategorySummary,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return "", &canvas.AuthError{Endpoint: "/api/v1/courses", Status: 401}
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "always_invalid",
		Description: "fails validation",
		Category:    tools.CategorySummary,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return "", &agg.ValidationError{Param: "window_hours", Reason: "must be positive"}
		},
	})

	server := httptest.NewServer(NewServer(reg, "canvashelper", "test", nil).Handler())
	t.Cleanup(server.Close)
	return server
}

func rpc(t *testing.T, server *httptest.Server, body string) response {
	t.Helper()
	resp, err := http.Post(server.URL+"/mcp", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

// result re-decodes the loosely-typed Result member into out.
func result(t *testing.T, resp response, out any) {
	t.Helper()
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestInitialize(t *testing.T) {
	server := newTestServer(t)

	resp := rpc(t, server, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	require.Nil(t, resp.Error)

	var init initializeResult
	result(t, resp, &init)
	assert.Equal(t, protocolVersion, init.ProtocolVersion)
	assert.Equal(t, "canvashelper", init.ServerInfo.Name)
}

func TestToolsList(t *testing.T) {
	server := newTestServer(t)

	resp := rpc(t, server, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, resp.Error)

	var list listToolsResult
	result(t, resp, &list)
	require.Len(t, list.Tools, 3)
	assert.Equal(t, "always_auth_fail", list.Tools[0].Name)
	assert.Equal(t, "object", list.Tools[1].InputSchema["type"])
}

func TestToolsCall_Success(t *testing.T) {
	server := newTestServer(t)

	resp := rpc(t, server, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo_ok","arguments":{}}}`)
	require.Nil(t, resp.Error)

	var call callResult
	result(t, resp, &call)
	assert.False(t, call.IsError)
	require.Len(t, call.Content, 1)
	assert.JSONEq(t, `{"hello":"world"}`, call.Content[0].Text)
}

func TestToolsCall_FailureKinds(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		tool string
		kind string
	}{
		{"always_auth_fail", "auth_error"},
		{"always_invalid", "validation_error"},
	}
	for _, tc := range cases {
		resp := rpc(t, server, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"`+tc.tool+`"}}`)
		require.Nil(t, resp.Error, "tool failures are results, not protocol errors")

		var call callResult
		result(t, resp, &call)
		require.True(t, call.IsError)

		var failure toolFailure
		require.NoError(t, json.Unmarshal([]byte(call.Content[0].Text), &failure))
		assert.Equal(t, tc.kind, failure.Kind)
		assert.NotEmpty(t, failure.Message)
	}
}

func TestToolsCall_UnknownTool(t *testing.T) {
	server := newTestServer(t)

	resp := rpc(t, server, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope"}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	server := newTestServer(t)

	resp := rpc(t, server, `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestParseError(t *testing.T) {
	server := newTestServer(t)

	resp := rpc(t, server, `{not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeParseError, resp.Error.Code)
}

func TestNotificationGetsNoBody(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/mcp", "application/json",
		bytes.NewBufferString(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
