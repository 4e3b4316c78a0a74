package toolset

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
)

// Toolset defines the interface for a set of MCP tools.
type Toolset interface {
	// GetName returns the name of the toolset.
	GetName() string

	// GetDescription returns the description of the toolset.
	GetDescription() string

	// GetTools returns the tools provided by this toolset, in registration order.
	GetTools(translator *summary.Translator) []ServerTool
}

// ServerTool represents an MCP tool with its metadata and handler.
type ServerTool struct {
	// Tool is the MCP tool definition. A non-empty OutputSchema marks the
	// tool's result as structured.
	Tool mcp.Tool

	// Handler is the function that handles tool calls.
	Handler ToolHandler

	// Table renders a structured result as rows for table output. Optional.
	Table TableFunc
}

// Structured reports whether the tool declares an output schema.
func (t ServerTool) Structured() bool {
	return t.Tool.OutputSchema.Type != ""
}

// ToolHandler is the function signature for handling tool calls. Params have
// already been validated against the tool's input schema.
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// TableFunc turns a handler result into table headers and rows.
type TableFunc func(value interface{}) (headers []string, rows [][]string)

// ReadOnlyAnnotations returns the annotations shared by every inspection tool.
func ReadOnlyAnnotations(title string) mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           title,
		ReadOnlyHint:    mcp.ToBoolPtr(true),
		DestructiveHint: mcp.ToBoolPtr(false),
		IdempotentHint:  mcp.ToBoolPtr(true),
		OpenWorldHint:   mcp.ToBoolPtr(false),
	}
}
