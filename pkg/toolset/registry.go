package toolset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/futuretea/k8stools-mcp-server/pkg/toolset/paramutil"
)

// ToolDescriptor is the catalog entry of one tool.
type ToolDescriptor struct {
	Name         string                 `json:"name"`
	Title        string                 `json:"title,omitempty"`
	Description  string                 `json:"description"`
	InputSchema  map[string]interface{} `json:"input_schema"`
	OutputSchema map[string]interface{} `json:"output_schema,omitempty"`
}

// DescribeTool builds the catalog entry of an MCP tool definition.
func DescribeTool(tool mcp.Tool) ToolDescriptor {
	d := ToolDescriptor{
		Name:        tool.Name,
		Title:       tool.Annotations.Title,
		Description: tool.Description,
		InputSchema: schemaMap(tool.InputSchema),
	}
	if tool.OutputSchema.Type != "" {
		d.OutputSchema = schemaMap(tool.OutputSchema)
	}
	return d
}

// Registry holds the fixed tool set of the process. It is immutable after
// NewRegistry returns and safe for concurrent use.
type Registry struct {
	tools   []ServerTool
	index   map[string]int
	schemas []*jsonschema.Resolved
}

// NewRegistry validates and compiles tools. Names must be unique and every
// input schema must compile.
func NewRegistry(tools ...ServerTool) (*Registry, error) {
	r := &Registry{
		tools:   make([]ServerTool, 0, len(tools)),
		index:   make(map[string]int, len(tools)),
		schemas: make([]*jsonschema.Resolved, 0, len(tools)),
	}
	for _, tool := range tools {
		name := tool.Tool.Name
		if name == "" {
			return nil, errors.New("tool name must not be empty")
		}
		if _, exists := r.index[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		if tool.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", name)
		}
		resolved, err := compileSchema(tool.Tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %q: invalid input schema: %w", name, err)
		}
		r.index[name] = len(r.tools)
		r.tools = append(r.tools, tool)
		r.schemas = append(r.schemas, resolved)
	}
	return r, nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []ServerTool {
	out := make([]ServerTool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, tool := range r.tools {
		names = append(names, tool.Tool.Name)
	}
	return names
}

// ListTools returns the catalog in registration order. It never touches the cluster.
func (r *Registry) ListTools() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(r.tools))
	for _, tool := range r.tools {
		out = append(out, DescribeTool(tool.Tool))
	}
	return out
}

// Invoke validates args against the tool's input schema and calls its handler.
//
// Errors are *UnknownToolError, *InvalidArgumentsError or *InvocationError.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]interface{}) (*Result, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	tool := r.tools[i]

	params, err := normalizeArgs(args)
	if err != nil {
		return nil, &InvalidArgumentsError{Tool: name, Problems: []string{err.Error()}, Err: err}
	}
	if err := r.schemas[i].Validate(params); err != nil {
		return nil, &InvalidArgumentsError{Tool: name, Problems: []string{err.Error()}, Err: err}
	}

	value, err := tool.Handler(ctx, params)
	if err != nil {
		return nil, classifyHandlerError(name, err)
	}
	return &Result{Value: value, Structured: tool.Structured(), table: tool.Table}, nil
}

func classifyHandlerError(tool string, err error) error {
	var invalid *InvalidArgumentsError
	if errors.As(err, &invalid) {
		return invalid
	}
	if errors.Is(err, paramutil.ErrMissingParameter) || errors.Is(err, paramutil.ErrInvalidParameter) {
		return &InvalidArgumentsError{Tool: tool, Problems: []string{err.Error()}, Err: err}
	}
	return &InvocationError{Tool: tool, Kind: KindOf(err), Err: err}
}

// normalizeArgs converts args to plain JSON values so that validation and
// handlers see the same shapes whether the call came over the wire or not.
func normalizeArgs(args map[string]interface{}) (map[string]interface{}, error) {
	if len(args) == 0 {
		return map[string]interface{}{}, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("arguments are not JSON-encodable: %w", err)
	}
	params := map[string]interface{}{}
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	return params, nil
}

func compileSchema(schema mcp.ToolInputSchema) (*jsonschema.Resolved, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s.Resolve(nil)
}

func schemaMap(schema interface{}) map[string]interface{} {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}
