// Package catalog prints tool catalogs as markdown, either for the local
// registry or for a remote MCP server reached over stdio.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/lo"

	"github.com/futuretea/k8stools-mcp-server/pkg/toolset"
	"github.com/futuretea/k8stools-mcp-server/pkg/version"
)

// NoOutputSchema is printed for tools that return plain text.
const NoOutputSchema = "No output schema provided"

// Options controls what Write prints.
type Options struct {
	// Short prints one "name - title" line per tool.
	Short bool
	// Names restricts the catalog to these tools. Empty means all.
	Names []string
}

// Filter keeps the tools named in names, in catalog order.
func Filter(tools []toolset.ToolDescriptor, names []string) []toolset.ToolDescriptor {
	if len(names) == 0 {
		return tools
	}
	return lo.Filter(tools, func(d toolset.ToolDescriptor, _ int) bool {
		return lo.Contains(names, d.Name)
	})
}

// Write prints the catalog of tools to w.
func Write(w io.Writer, tools []toolset.ToolDescriptor, opts Options) error {
	selected := Filter(tools, opts.Names)

	if opts.Short {
		for _, d := range selected {
			if _, err := fmt.Fprintf(w, "%s - %s\n", d.Name, d.Title); err != nil {
				return err
			}
		}
		return nil
	}

	names := lo.Map(tools, func(d toolset.ToolDescriptor, _ int) string { return d.Name })
	if _, err := fmt.Fprintf(w, "Available tools: %s\n\n", strings.Join(names, ", ")); err != nil {
		return err
	}
	for _, d := range selected {
		md, err := Markdown(d)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, md); err != nil {
			return err
		}
	}
	return nil
}

// Markdown renders one tool.
func Markdown(d toolset.ToolDescriptor) (string, error) {
	heading := d.Title
	if heading == "" {
		heading = d.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", heading)
	fmt.Fprintf(&b, "- Name: %s\n", d.Name)
	fmt.Fprintf(&b, "- Title: %s\n", d.Title)
	fmt.Fprintf(&b, "\n### Description\n\n%s\n", d.Description)

	input, err := jsonBlock(d.InputSchema)
	if err != nil {
		return "", fmt.Errorf("failed to render input schema of %s: %w", d.Name, err)
	}
	fmt.Fprintf(&b, "\n### Input Schema\n\n%s\n", input)

	b.WriteString("\n### Output Schema\n\n")
	if d.OutputSchema == nil {
		b.WriteString(NoOutputSchema + "\n")
		return b.String(), nil
	}
	output, err := jsonBlock(d.OutputSchema)
	if err != nil {
		return "", fmt.Errorf("failed to render output schema of %s: %w", d.Name, err)
	}
	b.WriteString(output + "\n")
	return b.String(), nil
}

func jsonBlock(schema map[string]interface{}) (string, error) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}
	return "```json\n" + string(data) + "\n```\n", nil
}

// Inspect starts command as an MCP server on stdio and returns its tool catalog.
func Inspect(ctx context.Context, command string, env []string, args ...string) ([]toolset.ToolDescriptor, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start MCP server %s: %w", command, err)
	}
	defer c.Close()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    version.BinaryName + "-inspect",
		Version: version.Version,
	}
	if _, err := c.Initialize(ctx, initRequest); err != nil {
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return lo.Map(result.Tools, func(tool mcp.Tool, _ int) toolset.ToolDescriptor {
		return toolset.DescribeTool(tool)
	}), nil
}
