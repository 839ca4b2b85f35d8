package mcp

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"canvashelper/internal/agg"
	"canvashelper/internal/canvas"
	"canvashelper/internal/tools"
)

// Server dispatches MCP requests to the tool registry.
type Server struct {
	registry *tools.Registry
	log      *zap.Logger
	name     string
	version  string
}

// NewServer creates an MCP server over the given registry.
func NewServer(registry *tools.Registry, name, version string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{registry: registry, log: log, name: name, version: version}
}

// Handler returns the HTTP handler: POST /mcp for the protocol and
// GET /healthz as a liveness probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /mcp", s.handleRPC)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.write(w, response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "invalid JSON"}})
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		s.write(w, response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: codeInvalidRequest, Message: "not a JSON-RPC 2.0 request"}})
		return
	}

	// Notifications get no response body.
	if req.ID == nil {
		s.log.Debug("mcp notification", zap.String("method", req.Method))
		w.WriteHeader(http.StatusAccepted)
		return
	}

	resp := response{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "initialize":
		resp.Result = initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		}
	case "ping":
		resp.Result = struct{}{}
	case "tools/list":
		resp.Result = s.listTools()
	case "tools/call":
		s.callTool(r, &req, &resp)
	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}
	s.write(w, resp)
}

func (s *Server) listTools() listToolsResult {
	all := s.registry.All()
	descriptors := make([]toolDescriptor, 0, len(all))
	for _, tool := range all {
		descriptors = append(descriptors, toolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: map[string]any{
				"type":       "object",
				"properties": tool.Schema.Properties,
				"required":   tool.Schema.Required,
			},
		})
	}
	return listToolsResult{Tools: descriptors}
}

func (s *Server) callTool(r *http.Request, req *request, resp *response) {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		resp.Error = &rpcError{Code: codeInvalidParams, Message: "tools/call requires a tool name"}
		return
	}

	tool := s.registry.Get(params.Name)
	if tool == nil {
		resp.Error = &rpcError{Code: codeInvalidParams, Message: "unknown tool: " + params.Name}
		return
	}

	args := params.Arguments
	if args == nil {
		args = map[string]any{}
	}

	out, err := tool.Execute(r.Context(), args)
	if err != nil {
		failure := toolFailure{Kind: failureKind(err), Message: err.Error()}
		payload, merr := json.Marshal(failure)
		if merr != nil {
			resp.Error = &rpcError{Code: codeInternalError, Message: "failed to encode error"}
			return
		}
		resp.Result = callResult{
			Content: []contentBlock{{Type: "text", Text: string(payload)}},
			IsError: true,
		}
		return
	}

	resp.Result = callResult{
		Content: []contentBlock{{Type: "text", Text: out}},
	}
}

// failureKind maps the error taxonomy onto stable kind strings for the
// structured tool-failure payload.
func failureKind(err error) string {
	var authErr *canvas.AuthError
	var upstreamErr *canvas.UpstreamError
	var validationErr *agg.ValidationError
	switch {
	case errors.As(err, &authErr):
		return "auth_error"
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &upstreamErr):
		return "upstream_error"
	default:
		return "internal_error"
	}
}

func (s *Server) write(w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("failed to write mcp response", zap.Error(err))
	}
}
