package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/lo"
	"k8s.io/utils/clock"

	"github.com/futuretea/k8stools-mcp-server/pkg/config"
	"github.com/futuretea/k8stools-mcp-server/pkg/kube"
	"github.com/futuretea/k8stools-mcp-server/pkg/logging"
	"github.com/futuretea/k8stools-mcp-server/pkg/metrics"
	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
	"github.com/futuretea/k8stools-mcp-server/pkg/toolset"
	"github.com/futuretea/k8stools-mcp-server/pkg/toolset/kubernetes"
	"github.com/futuretea/k8stools-mcp-server/pkg/version"
)

// Configuration wraps the static configuration with additional runtime components
type Configuration struct {
	*config.StaticConfig

	// Reader is the cluster handle. Nil means a lazy connection built from
	// the configured kubeconfig and context.
	Reader summary.ClusterReader

	// Clock is used to compute ages. Nil means the wall clock.
	Clock clock.PassiveClock
}

// Server represents the MCP server
type Server struct {
	configuration *Configuration
	server        *server.MCPServer
	registry      *toolset.Registry
	enabledTools  []string
}

// NewServer creates a new MCP server with the given configuration
func NewServer(configuration Configuration) (*Server, error) {
	// Note: Logging is initialized in root.go before calling NewServer
	// to properly handle stdio vs HTTP mode
	if configuration.StaticConfig == nil {
		configuration.StaticConfig = config.DefaultConfig()
	}
	if configuration.Reader == nil {
		configuration.Reader = kube.NewLazyFromKubeconfig(configuration.Kubeconfig, configuration.Context)
	}

	s := &Server{
		configuration: &configuration,
		server: server.NewMCPServer(version.BinaryName, version.Version,
			server.WithToolCapabilities(false),
			server.WithLogging(),
		),
	}

	if err := s.registerTools(); err != nil {
		return nil, err
	}

	return s, nil
}

// registerTools builds the registry from the enabled tools and exposes every
// tool on the MCP server
func (s *Server) registerTools() error {
	translator := summary.NewTranslator(s.configuration.Reader, s.configuration.Clock)
	toolsets := []toolset.Toolset{&kubernetes.Toolset{}}

	var tools []toolset.ServerTool
	for _, ts := range toolsets {
		all := ts.GetTools(translator)
		names := lo.Map(all, func(t toolset.ServerTool, _ int) string { return t.Tool.Name })
		for _, unknown := range lo.Without(lo.Union(s.configuration.EnabledTools, s.configuration.DisabledTools), names...) {
			logging.Warn("Ignoring unknown tool %q in tool configuration", unknown)
		}
		tools = append(tools, lo.Filter(all, func(t toolset.ServerTool, _ int) bool {
			return s.shouldEnableTool(t.Tool.Name)
		})...)
		logging.Debug("Toolset %s provides %d tools", ts.GetName(), len(all))
	}

	registry, err := toolset.NewRegistry(tools...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}
	s.registry = registry

	for _, tool := range registry.Tools() {
		s.server.AddTool(tool.Tool, s.toolHandler(tool.Tool.Name))
		s.enabledTools = append(s.enabledTools, tool.Tool.Name)
		logging.Debug("Registered tool: %s", tool.Tool.Name)
	}

	logging.Info("MCP server initialized with %d tools", len(s.enabledTools))
	return nil
}

// shouldEnableTool determines if a tool should be enabled based on configuration
func (s *Server) shouldEnableTool(toolName string) bool {
	if lo.Contains(s.configuration.DisabledTools, toolName) {
		return false
	}
	if len(s.configuration.EnabledTools) > 0 {
		return lo.Contains(s.configuration.EnabledTools, toolName)
	}
	return true
}

func (s *Server) toolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.Call(ctx, name, request.GetArguments()), nil
	}
}

// Call invokes a tool and converts the outcome into a tool result. Failures
// are reported in the result, never as a protocol error.
func (s *Server) Call(ctx context.Context, name string, args map[string]interface{}) *mcp.CallToolResult {
	start := time.Now()
	log := logging.With().
		Str("invocation_id", uuid.NewString()).
		Str("tool", name).
		Logger()
	log.Debug().Interface("arguments", args).Msg("tool called")

	result, err := s.registry.Invoke(ctx, name, args)
	var text string
	if err == nil {
		text, err = result.Text(s.configuration.Output)
		if err != nil {
			err = &toolset.InvocationError{Tool: name, Kind: toolset.KindInternal, Err: err}
		}
	}
	elapsed := time.Since(start)

	if err != nil {
		kind := toolset.KindOf(err)
		metrics.RecordInvocation(name, kind, elapsed.Seconds())
		log.Warn().Err(err).Str("kind", kind).Dur("duration", elapsed).Msg("tool failed")
		return NewErrorResult(err)
	}

	metrics.RecordInvocation(name, "", elapsed.Seconds())
	log.Info().Dur("duration", elapsed).Msg("tool succeeded")

	callResult := NewTextResult(text, nil)
	if result.Structured {
		callResult.StructuredContent = result.StructuredContent()
	}
	return callResult
}

// ServeStdio starts the MCP server in stdio mode
func (s *Server) ServeStdio() error {
	logging.Info("Starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// ServeSse starts the MCP server in SSE mode
func (s *Server) ServeSse(baseURL string, httpServer *http.Server) *server.SSEServer {
	logging.Info("Starting MCP server in SSE mode")

	options := []server.SSEOption{server.WithHTTPServer(httpServer)}
	if baseURL != "" {
		options = append(options, server.WithBaseURL(baseURL))
	}

	return server.NewSSEServer(s.server, options...)
}

// ServeHTTP starts the MCP server in streamable HTTP mode. Sessions are
// stateless, every request stands alone.
func (s *Server) ServeHTTP(httpServer *http.Server) *server.StreamableHTTPServer {
	logging.Info("Starting MCP server in HTTP mode")

	return server.NewStreamableHTTPServer(s.server,
		server.WithStreamableHTTPServer(httpServer),
		server.WithStateLess(true),
	)
}

// MCPServer returns the underlying protocol server
func (s *Server) MCPServer() *server.MCPServer {
	return s.server
}

// Registry returns the registry of enabled tools
func (s *Server) Registry() *toolset.Registry {
	return s.registry
}

// GetEnabledTools returns the list of enabled tools
func (s *Server) GetEnabledTools() []string {
	return s.enabledTools
}

// Close cleans up the server resources
func (s *Server) Close() {
	logging.Info("Closing MCP server")
}

// NewTextResult creates a standardized text result for tool responses
func NewTextResult(content string, err error) *mcp.CallToolResult {
	if err != nil {
		return NewErrorResult(err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: content,
			},
		},
	}
}

// NewErrorResult reports a failed call as "<Kind>: <message>" with the same
// pair as structured content.
func NewErrorResult(err error) *mcp.CallToolResult {
	kind := toolset.KindOf(err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("%s: %s", kind, err.Error()),
			},
		},
		StructuredContent: map[string]interface{}{
			"kind":    kind,
			"message": err.Error(),
		},
	}
}
