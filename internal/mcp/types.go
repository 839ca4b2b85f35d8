// Package mcp serves the coursework tools over the Model Context
// Protocol: JSON-RPC 2.0 on a single stateless HTTP endpoint. Every
// request is independent; no session state is kept.
package mcp

import "encoding/json"

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// request is a JSON-RPC 2.0 request. ID is raw because callers may send
// either a number or a string; a missing ID marks a notification.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is the error member of a JSON-RPC response.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// initializeResult answers the MCP initialize handshake.
type initializeResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	Capabilities    capability `json:"capabilities"`
	ServerInfo      serverInfo `json:"serverInfo"`
}

type capability struct {
	Tools struct{} `json:"tools"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// toolDescriptor is one entry of a tools/list result.
type toolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type listToolsResult struct {
	Tools []toolDescriptor `json:"tools"`
}

// callParams are the params of a tools/call request.
type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// contentBlock is one MCP content item; this server only emits text.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// callResult is a tools/call result. Tool failures are reported here
// with IsError set, not as protocol errors.
type callResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

// toolFailure is the structured error payload placed in an IsError
// result: a stable kind plus a human-readable message, never a raw
// upstream body.
type toolFailure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
