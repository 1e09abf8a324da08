// Package mcp exposes machines as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunResult is the structured output of run_machine.
type RunResult struct {
	Machine  string    `json:"machine" jsonschema_description:"Name of the machine that ran"`
	Accepted bool      `json:"accepted" jsonschema_description:"True when the machine halted in a final state"`
	Status   string    `json:"status" jsonschema_description:"accepted, rejected, or running when interrupted"`
	Steps    int       `json:"steps" jsonschema_description:"Number of transitions applied"`
	State    string    `json:"final_state" jsonschema_description:"State at halt"`
	Tape     string    `json:"tape" jsonschema_description:"Tape content with surrounding blanks trimmed"`
	Head     int       `json:"head" jsonschema_description:"Head index within the materialized cells"`
	Cells    string    `json:"cells" jsonschema_description:"Every materialized cell"`
	Error    string    `json:"error,omitempty" jsonschema_description:"Set when the run was interrupted"`
	Finished time.Time `json:"finished_at"`
}

// Catalog resolves machines, e.g. a *registry.Registry.
type Catalog interface {
	Engine(ctx context.Context, name string) (*turing.Engine, error)
	Describe(ctx context.Context, name string) (domain.Description, error)
	List(ctx context.Context) ([]string, error)
}

// Server wraps a machine catalog and exposes it as an MCP Server.
type Server struct {
	machines  Catalog
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(machines Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		machines:  machines,
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run a Turing machine on an input string until it halts."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Name of the machine (see list_machines)")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input string; one symbol per character unless sep is set")),
		mcp.WithString("sep", mcp.Description("Symbol separator for multi-character symbols (optional)")),
		mcp.WithString("start", mcp.Description("Start state overriding the initial state (optional)")),
		mcp.WithNumber("max_steps", mcp.Description("Maximum number of transitions (optional)")),
		mcp.WithOutputSchema[RunResult](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: list_machines
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of the available machines."),
	), s.handleList)

	// TOOL: describe_machine
	s.mcpServer.AddTool(mcp.NewTool("describe_machine",
		mcp.WithDescription("Get the definition of a machine as JSON or as a Mermaid state diagram."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Name of the machine")),
		mcp.WithString("format", mcp.Description("json (default) or mermaid")),
	), s.handleDescribe)
}

// maxSteps converts the optional max_steps argument. Zero means the engine's
// own bound; a request can lower that bound but never raise it.
func maxSteps(v any) (int, error) {
	if v == nil {
		return 0, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("max_steps must be a number, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("max_steps must be a non-negative integer, got %v", f)
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, nil
	}
	return int(f), nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResult, error) {
	name, _ := args["machine"].(string)
	input, _ := args["input"].(string)
	sep, _ := args["sep"].(string)

	eng, err := s.machines.Engine(ctx, name)
	if err != nil {
		return RunResult{}, err
	}

	var opts []turing.RunOption
	if start, ok := args["start"].(string); ok && start != "" {
		opts = append(opts, turing.WithStart(domain.State(start)))
	}
	limit, err := maxSteps(args["max_steps"])
	if err != nil {
		return RunResult{}, err
	}
	opts = append(opts, turing.WithStepLimit(limit))

	input, err = turing.SanitizeInput(input)
	if err != nil {
		return RunResult{}, err
	}

	out, err := eng.Run(ctx, domain.SplitInput(input, sep), opts...)
	if out == nil {
		return RunResult{}, err
	}

	result := RunResult{
		Machine:  name,
		Accepted: out.Accepted,
		Status:   string(out.Status),
		Steps:    out.Steps,
		State:    string(out.FinalState),
		Tape:     out.Tape.Content(),
		Head:     out.Tape.Head,
		Cells:    out.Tape.String(),
		Finished: time.Now().UTC(),
	}
	if err != nil {
		if !errors.Is(err, domain.ErrStepLimit) {
			return RunResult{}, err
		}
		s.logger.Warn("MCP run interrupted", "machine", name, "error", err)
		result.Error = err.Error()
	}
	return result, nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.machines.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, _ := args["machine"].(string)
	format, _ := args["format"].(string)

	desc, err := s.machines.Describe(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
	}

	switch format {
	case "", "json":
		jsonBytes, _ := json.MarshalIndent(desc, "", "  ")
		return mcp.NewToolResultText(string(jsonBytes)), nil
	case "mermaid":
		return mcp.NewToolResultText(graph.GenerateMermaid(desc, nil)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (want json or mermaid)", format)), nil
	}
}

func (s *Server) registerResources() {
	// EXPOSE: turing://machines
	s.mcpServer.AddResource(mcp.NewResource("turing://machines", "Available Machines",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.machines.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list machines: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "turing://machines",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
