package mcp

import (
	"context"
	"encoding/json"

	"connpass-mcp/pkg/protocol"

	log "github.com/sirupsen/logrus"
)

// handleMessage decodes one JSON-RPC message and dispatches it. It returns nil
// for notifications, and the new session id when the message was an initialize.
func (s *Server) handleMessage(ctx context.Context, body []byte) (*protocol.Response, string) {
	if !json.Valid(body) {
		return errorResponse(protocol.RequestID{}, protocol.NewError(protocol.CodeParseError, "Parse error: Invalid JSON", nil)), ""
	}

	var rawMessage map[string]json.RawMessage
	if err := json.Unmarshal(body, &rawMessage); err != nil {
		return errorResponse(protocol.RequestID{}, protocol.NewError(protocol.CodeInvalidRequest, "Invalid Request: expected a JSON object", err)), ""
	}

	if _, ok := rawMessage["id"]; !ok {
		var notif protocol.Notification
		if err := json.Unmarshal(body, &notif); err != nil {
			log.Warnf("Error parsing notification: %v", err)
			return nil, ""
		}
		s.handleNotification(&notif)
		return nil, ""
	}

	var req protocol.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return errorResponse(protocol.RequestID{}, protocol.NewError(protocol.CodeParseError, "Parse error: Invalid Request structure", err)), ""
	}
	if req.JSONRPC != protocol.JSONRPCVersion || req.Method == "" {
		return errorResponse(req.ID, protocol.NewError(protocol.CodeInvalidRequest, "Invalid Request", nil)), ""
	}
	return s.handleRequest(ctx, &req)
}

func (s *Server) handleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, string) {
	var (
		result    any
		rpcErr    *protocol.ErrorObject
		sessionID string
	)

	switch req.Method {
	case protocol.MethodInitialize:
		result, sessionID, rpcErr = s.handleInitialize(req)
	case protocol.MethodPing:
		result = struct{}{}
	case protocol.MethodToolsList:
		result = s.handleListTools(req)
	case protocol.MethodToolsCall:
		result, rpcErr = s.handleCallTool(ctx, req)
	default:
		log.Infof("Unknown method: %s", req.Method)
		rpcErr = protocol.NewError(protocol.CodeMethodNotFound, "Method not found", nil)
	}

	if rpcErr != nil {
		return errorResponse(req.ID, rpcErr), ""
	}
	return successResponse(req.ID, result), sessionID
}

func (s *Server) handleNotification(n *protocol.Notification) {
	switch n.Method {
	case protocol.NotifyInitialized:
		log.Infof("Client confirmed initialization.")
	case protocol.NotifyCancelled:
		log.Infof("Client cancelled a request: %s", string(n.Params))
	default:
		log.Debugf("Received unhandled notification: %s", n.Method)
	}
}

func successResponse(id protocol.RequestID, result any) *protocol.Response {
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return errorResponse(id, protocol.NewError(protocol.CodeInternalError, "Internal server error: failed to marshal result", err))
	}
	return &protocol.Response{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      id,
		Result:  resultBytes,
	}
}

func errorResponse(id protocol.RequestID, rpcErr *protocol.ErrorObject) *protocol.Response {
	return &protocol.Response{JSONRPC: protocol.JSONRPCVersion, ID: id, Error: rpcErr}
}
