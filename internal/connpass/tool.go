package connpass

import (
	"context"

	"connpass-mcp/pkg/mcp"
	"connpass-mcp/pkg/protocol"
)

// ToolName is the name hosts call the search under.
const ToolName = "searchEvents"

const toolDescription = "Search for events on Connpass(IT Study Group Support Platform Connecting Engineers). " +
	"You can search by keywords, event IDs, year-month, or specific dates. " +
	"Returns a list of matching events with details like title, URL, start time, organizer and participation type."

// Searcher is what the tool needs from a client.
type Searcher interface {
	Search(ctx context.Context, filters SearchFilters) (*EventListResult, error)
}

// Tools returns the registrations this package contributes to an MCP server.
func Tools(s Searcher) []mcp.ToolRegistration {
	readOnly, openWorld := true, true
	return []mcp.ToolRegistration{
		{
			Definition: protocol.Tool{
				Name:        ToolName,
				Title:       "Search connpass events",
				Description: toolDescription,
				Annotations: &protocol.ToolAnnotations{
					ReadOnlyHint:  &readOnly,
					OpenWorldHint: &openWorld,
				},
			},
			Handler: mcp.Handle(func(ctx context.Context, filters *SearchFilters) (*EventListResult, error) {
				return s.Search(ctx, *filters)
			}),
		},
	}
}
