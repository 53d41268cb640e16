package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"connpass-mcp/internal/jsonschema"
	"connpass-mcp/pkg/protocol"

	log "github.com/sirupsen/logrus"
)

// ToolRegistration pairs a tool definition with its implementation.
// If Definition.InputSchema is empty it is generated from the handler's parameter type.
type ToolRegistration struct {
	Definition protocol.Tool
	Handler    ToolHandler
}

// ToolHandler is a tool implementation taking raw JSON arguments. Build one with Handle.
type ToolHandler struct {
	inputType reflect.Type
	call      func(ctx context.Context, args json.RawMessage) (any, error)
}

// Handle adapts a strongly-typed function into a ToolHandler. Arguments are
// decoded into a fresh P on every call; absent arguments leave P at its zero value.
func Handle[P any, R any](fn func(ctx context.Context, params *P) (R, error)) ToolHandler {
	return ToolHandler{
		inputType: reflect.TypeOf((*P)(nil)),
		call: func(ctx context.Context, args json.RawMessage) (any, error) {
			params := new(P)
			if len(args) > 0 && string(args) != "null" {
				if err := json.Unmarshal(args, params); err != nil {
					return nil, &ArgumentError{Err: err}
				}
			}
			result, err := fn(ctx, params)
			if err != nil {
				return nil, err
			}
			return result, nil
		},
	}
}

// ArgumentError reports tool arguments that could not be decoded into the handler's type.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string { return "invalid arguments: " + e.Err.Error() }

func (e *ArgumentError) Unwrap() error { return e.Err }

// internalRegisteredTool stores the processed, ready-to-use tool information.
type internalRegisteredTool struct {
	Definition protocol.Tool
	handler    ToolHandler
}

// RegisterTools registers a slice of tools, making them available to clients.
// This is the primary method for adding functionality to the server.
func (s *Server) RegisterTools(registrations []ToolRegistration) error {
	for _, reg := range registrations {
		if err := s.registerSingleTool(reg); err != nil {
			return fmt.Errorf("failed to register tool '%s': %w", reg.Definition.Name, err)
		}
	}
	return nil
}

// registerSingleTool is the internal helper that processes one registration.
func (s *Server) registerSingleTool(reg ToolRegistration) error {
	toolDef := reg.Definition

	if toolDef.Name == "" {
		return errors.New("tool definition must include a name")
	}
	if reg.Handler.call == nil {
		return errors.New("handler is required")
	}

	if len(toolDef.InputSchema) == 0 {
		inputSchema, err := jsonschema.GenerateSchemaForType(reg.Handler.inputType)
		if err != nil {
			return fmt.Errorf("could not generate schema for type %s: %w", reg.Handler.inputType, err)
		}
		toolDef.InputSchema = inputSchema
	} else if !json.Valid(toolDef.InputSchema) {
		return errors.New("input schema is not valid JSON")
	}

	s.toolLock.Lock()
	defer s.toolLock.Unlock()

	if _, exists := s.tools[toolDef.Name]; exists {
		return fmt.Errorf("tool with name '%s' already registered", toolDef.Name)
	}

	s.tools[toolDef.Name] = internalRegisteredTool{
		Definition: toolDef,
		handler:    reg.Handler,
	}

	log.Infof("Registered tool: %s", toolDef.Name)
	return nil
}

// Tools returns the registered tool definitions ordered by name.
func (s *Server) Tools() []protocol.Tool {
	s.toolLock.RLock()
	defer s.toolLock.RUnlock()
	toolList := make([]protocol.Tool, 0, len(s.tools))
	for _, tool := range s.tools {
		toolList = append(toolList, tool.Definition)
	}
	sort.Slice(toolList, func(i, j int) bool { return toolList[i].Name < toolList[j].Name })
	return toolList
}

func (s *Server) lookupTool(name string) (internalRegisteredTool, bool) {
	s.toolLock.RLock()
	defer s.toolLock.RUnlock()
	tool, ok := s.tools[name]
	return tool, ok
}

// renderResult turns a handler's return value into tool content. Strings are
// sent as text; anything else is JSON encoded, and objects are also attached
// as structured content.
func renderResult(v any) (*protocol.CallToolResult, error) {
	switch r := v.(type) {
	case nil:
		return &protocol.CallToolResult{Content: protocol.TextContent("Operation completed successfully.")}, nil
	case string:
		return &protocol.CallToolResult{Content: protocol.TextContent(r)}, nil
	case *protocol.CallToolResult:
		return r, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	result := &protocol.CallToolResult{Content: protocol.TextContent(string(b))}
	if len(b) > 0 && b[0] == '{' {
		result.StructuredContent = json.RawMessage(b)
	}
	return result, nil
}
