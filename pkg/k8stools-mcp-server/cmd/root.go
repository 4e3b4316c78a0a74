package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/futuretea/k8stools-mcp-server/pkg/catalog"
	"github.com/futuretea/k8stools-mcp-server/pkg/config"
	mcphttp "github.com/futuretea/k8stools-mcp-server/pkg/http"
	"github.com/futuretea/k8stools-mcp-server/pkg/logging"
	"github.com/futuretea/k8stools-mcp-server/pkg/server/mcp"
	"github.com/futuretea/k8stools-mcp-server/pkg/version"
)

// IOStreams represents standard input, output, and error streams
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewMCPServer creates a new cobra command for the k8stools MCP server
func NewMCPServer(streams IOStreams) *cobra.Command {
	cfg := config.DefaultConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:   version.BinaryName,
		Short: "k8stools MCP Server - read-only Kubernetes inspection tools over the Model Context Protocol",
		Long: `k8stools MCP Server is a Model Context Protocol (MCP) server that lets agents
inspect a Kubernetes cluster: namespaces, pods, container statuses, events,
pod specs, container logs and deployments. Every tool is read-only.

The cluster is reached through a kubeconfig. The server runs in stdio mode for
integration with MCP clients, or in HTTP mode (streamable HTTP on /mcp and SSE
on /sse) when a port is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			return runServer(cmd, loaded, streams)
		},
	}

	// Set output streams for the command
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	// Add flags
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	cmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on for HTTP mode (0 for stdio mode)")
	cmd.Flags().StringVar(&cfg.Transport, "transport", "", "Transport to serve (stdio, http); defaults to http when a port is set")
	cmd.Flags().StringVar(&cfg.SSEBaseURL, "sse-base-url", cfg.SSEBaseURL, "Public base URL advertised by the SSE transport")
	cmd.Flags().IntVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (0-9)")
	cmd.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file, rotated, instead of stderr")
	cmd.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Format of logs written to stderr (console, json)")
	cmd.Flags().StringVar(&cfg.Kubeconfig, "kubeconfig", cfg.Kubeconfig, "Path to the kubeconfig file (defaults to $KUBECONFIG or ~/.kube/config)")
	cmd.Flags().StringVar(&cfg.Context, "context", cfg.Context, "Kubeconfig context to use (defaults to the current context)")
	cmd.Flags().StringVar(&cfg.Output, "output", cfg.Output, "Text rendering of structured tool results (json, yaml, table)")
	cmd.Flags().StringSliceVar(&cfg.EnabledTools, "enabled-tools", cfg.EnabledTools, "Comma-separated list of tools to enable")
	cmd.Flags().StringSliceVar(&cfg.DisabledTools, "disabled-tools", cfg.DisabledTools, "Comma-separated list of tools to disable")
	cmd.Flags().StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "Comma-separated list of CORS origins allowed in HTTP mode")

	cmd.AddCommand(newVersionCommand(streams))
	cmd.AddCommand(newToolsCommand(streams))
	cmd.AddCommand(newInspectCommand(streams))

	return cmd
}

// runServer runs the MCP server with the given configuration
func runServer(cmd *cobra.Command, cfg *config.StaticConfig, streams IOStreams) error {
	closer := logging.Initialize(loggingOptions(cfg))
	defer closer.Close()

	server, err := mcp.NewServer(mcp.Configuration{StaticConfig: cfg})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if !cfg.IsHTTP() {
		fmt.Fprintf(streams.ErrOut, "Starting k8stools MCP Server in stdio mode\n")
		fmt.Fprintf(streams.ErrOut, "Enabled tools: %v\n", server.GetEnabledTools())
		return server.ServeStdio()
	}

	fmt.Fprintf(streams.ErrOut, "Starting k8stools MCP Server in HTTP mode on port %d\n", cfg.Port)
	fmt.Fprintf(streams.ErrOut, "Enabled tools: %v\n", server.GetEnabledTools())
	return mcphttp.Serve(cmd.Context(), server, cfg)
}

func loggingOptions(cfg *config.StaticConfig) logging.Options {
	return logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		JSON:       cfg.LogFormat == config.LogFormatJSON,
	}
}

// newVersionCommand creates the version command
func newVersionCommand(streams IOStreams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(streams.Out, "%s\n", version.GetVersionInfo())
		},
	}

	// Set output streams for the command
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	return cmd
}

// newToolsCommand prints the catalog of the tools this binary serves
func newToolsCommand(streams IOStreams) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "tools [names...]",
		Short: "Print the tool catalog as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The cluster is never contacted while listing.
			server, err := mcp.NewServer(mcp.Configuration{StaticConfig: config.DefaultConfig()})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			defer server.Close()

			return catalog.Write(streams.Out, server.Registry().ListTools(), catalog.Options{Short: short, Names: args})
		},
	}

	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)
	cmd.Flags().BoolVar(&short, "short", false, "Print one 'name - title' line per tool")

	return cmd
}

// newInspectCommand connects to an MCP server over stdio and prints its catalog
func newInspectCommand(streams IOStreams) *cobra.Command {
	var (
		short bool
		tools []string
	)

	cmd := &cobra.Command{
		Use:   "inspect [flags] [-- command [args...]]",
		Short: "Print the tool catalog of an MCP server reached over stdio",
		Long: `Start an MCP server as a subprocess, list its tools over stdio and print
them as markdown. Without a command this binary is started in stdio mode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, commandArgs, err := inspectTarget(args)
			if err != nil {
				return err
			}

			descriptors, err := catalog.Inspect(cmd.Context(), command, os.Environ(), commandArgs...)
			if err != nil {
				return err
			}
			return catalog.Write(streams.Out, descriptors, catalog.Options{Short: short, Names: tools})
		},
	}

	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)
	cmd.Flags().BoolVar(&short, "short", false, "Print one 'name - title' line per tool")
	cmd.Flags().StringSliceVar(&tools, "tools", nil, "Comma-separated list of tool names to display")

	return cmd
}

func inspectTarget(args []string) (string, []string, error) {
	if len(args) > 0 {
		return args[0], args[1:], nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf("failed to locate server binary: %w", err)
	}
	return self, nil, nil
}
