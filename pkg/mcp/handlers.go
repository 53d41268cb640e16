package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"connpass-mcp/pkg/protocol"

	log "github.com/sirupsen/logrus"
)

func (s *Server) handleInitialize(req *protocol.Request) (*protocol.InitializeResult, string, *protocol.ErrorObject) {
	var initParams protocol.InitializeRequest
	if err := json.Unmarshal(req.Params, &initParams); err != nil {
		return nil, "", protocol.NewError(protocol.CodeInvalidParams, "Invalid params for initialize", err)
	}

	log.Infof("Client '%s' version '%s' connecting with protocol version '%s'", initParams.ClientInfo.Name, initParams.ClientInfo.Version, initParams.ProtocolVersion)

	negotiatedVersion := initParams.ProtocolVersion
	if !protocol.IsSupportedProtocolVersion(negotiatedVersion) {
		negotiatedVersion = protocol.LatestProtocolVersion
	}

	sessionID := s.createSession(initParams, negotiatedVersion)
	log.Infof("Created new session: %s", sessionID)

	return &protocol.InitializeResult{
		ProtocolVersion: negotiatedVersion,
		ServerInfo:      s.info,
		Capabilities:    s.capabilities,
	}, sessionID, nil
}

// --- Tool Method Handlers ---

func (s *Server) handleListTools(req *protocol.Request) protocol.ListToolsResult {
	log.Debugf("Received tools/list request: ID=%s", req.ID.String())
	return protocol.ListToolsResult{Tools: s.Tools()}
}

func (s *Server) handleCallTool(ctx context.Context, req *protocol.Request) (*protocol.CallToolResult, *protocol.ErrorObject) {
	var callParams protocol.CallToolRequest
	if err := json.Unmarshal(req.Params, &callParams); err != nil {
		return nil, protocol.NewError(protocol.CodeInvalidParams, "Invalid params for tools/call", err)
	}

	tool, exists := s.lookupTool(callParams.Name)
	if !exists {
		return nil, protocol.NewError(protocol.CodeInvalidParams, fmt.Sprintf("Tool not found: %s", callParams.Name), nil)
	}

	start := time.Now()
	value, err := invoke(ctx, tool.handler, callParams.Arguments)
	entry := log.WithFields(log.Fields{
		"tool":     callParams.Name,
		"duration": time.Since(start).Round(time.Millisecond),
	})

	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		entry.Warnf("Rejected tool arguments: %v", argErr.Err)
		return nil, protocol.NewError(protocol.CodeInvalidParams, fmt.Sprintf("Invalid arguments for tool %s", callParams.Name), argErr.Err)
	}
	if err != nil {
		entry.Errorf("Tool call failed: %v", err)
		return &protocol.CallToolResult{
			Content: protocol.TextContent(err.Error()),
			IsError: true,
		}, nil
	}

	result, err := renderResult(value)
	if err != nil {
		entry.Errorf("Tool result could not be rendered: %v", err)
		return nil, protocol.NewError(protocol.CodeInternalError, "Internal server error: failed to render tool result", err)
	}
	entry.Info("Tool call completed")
	return result, nil
}

// invoke runs the handler, turning a panic into an error so one bad call
// can't take down a stdio session.
func invoke(ctx context.Context, h ToolHandler, args json.RawMessage) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return h.call(ctx, args)
}
