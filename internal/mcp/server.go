// Package mcp provides an MCP (Model Context Protocol) server that lets
// external tools enumerate work item tags without reading manifests or Go
// source themselves.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/witag/internal/core"
	"github.com/valter-silva-au/witag/pkg/models"
	"github.com/valter-silva-au/witag/pkg/workitem"
)

// Server exposes a work item registry as MCP tools.
type Server struct {
	server  *gomcp.Server
	reg     *workitem.Registry
	query   core.Query
	linker  core.Linker
	checker core.Checker
}

// NewServer creates a new MCP server over reg. linker and checker may be nil,
// in which case links are omitted and the check tool reports an error.
func NewServer(reg *workitem.Registry, linker core.Linker, checker core.Checker, version string) *Server {
	if version == "" {
		version = "dev"
	}
	if linker == nil {
		linker = core.NewLinker(nil)
	}

	s := &Server{
		reg:     reg,
		query:   core.NewQuery(reg),
		linker:  linker,
		checker: checker,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "witag", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type workItemOutput struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	URL       string `json:"url,omitempty"`
	Link      string `json:"link,omitempty"`
	Inherited bool   `json:"inherited,omitempty"`
}

type listTargetsInput struct {
	Glob            string `json:"glob,omitempty" jsonschema:"doublestar pattern matched against target names such as com.example.MyTest or com.example.MyTest#testLogin"`
	Type            string `json:"type,omitempty" jsonschema:"only include work items of this type (FR, PR, REQ, TASK, TEST)"`
	IncludeUntagged bool   `json:"include_untagged,omitempty" jsonschema:"include targets that carry no work items"`
}

type targetSummary struct {
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	WorkItems int    `json:"work_items"`
	Error     string `json:"error,omitempty"`
}

type listTargetsOutput struct {
	Targets []targetSummary `json:"targets"`
	Count   int             `json:"count"`
}

type getWorkItemsInput struct {
	Target string `json:"target" jsonschema:"required,the class (com.example.MyTest) or method (com.example.MyTest#testLogin)"`
}

type getWorkItemsOutput struct {
	Target    string           `json:"target"`
	Kind      string           `json:"kind"`
	Ancestors []string         `json:"ancestors,omitempty"`
	WorkItems []workItemOutput `json:"work_items"`
}

type findReferencesInput struct {
	ID string `json:"id" jsonschema:"required,the work item identifier"`
}

type findReferencesOutput struct {
	ID      string   `json:"id"`
	Targets []string `json:"targets"`
	Count   int      `json:"count"`
}

type checkInput struct{}

type findingOutput struct {
	Severity string `json:"severity"`
	Target   string `json:"target"`
	WorkItem string `json:"work_item,omitempty"`
	Message  string `json:"message"`
}

type checkOutput struct {
	Findings []findingOutput `json:"findings"`
	Errors   int             `json:"errors"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_targets",
		Description: "List test classes and methods with work items, optionally filtered by a glob on the target name and by work item type.",
	}, s.handleListTargets)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_work_items",
		Description: "Get the effective work items of a test class or method. Class results include work items inherited from ancestor classes, root first.",
	}, s.handleGetWorkItems)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "find_references",
		Description: "Find the test classes and methods that declare a work item with the given ID.",
	}, s.handleFindReferences)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "check",
		Description: "Check declared work items for empty IDs, malformed URLs, undeclared parents and inheritance cycles.",
	}, s.handleCheck)
}

// --- Tool handlers ---

func (s *Server) handleListTargets(_ context.Context, _ *gomcp.CallToolRequest, input listTargetsInput) (*gomcp.CallToolResult, listTargetsOutput, error) {
	filter := core.QueryFilter{Glob: input.Glob, TaggedOnly: !input.IncludeUntagged}
	if input.Type != "" {
		t, err := models.ParseWorkItemType(input.Type)
		if err != nil {
			return errorResult(err.Error()), listTargetsOutput{}, nil
		}
		filter.Type = t
	}

	found, err := s.query.Find(filter)
	if err != nil {
		return errorResult(fmt.Sprintf("listing targets: %s", err)), listTargetsOutput{}, nil
	}

	out := listTargetsOutput{
		Targets: make([]targetSummary, len(found)),
		Count:   len(found),
	}
	for i, tt := range found {
		out.Targets[i] = targetSummary{
			Target:    tt.Target.String(),
			Kind:      string(tt.Target.Kind),
			WorkItems: len(tt.Effective),
		}
		if tt.Err != nil {
			out.Targets[i].Error = tt.Err.Error()
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetWorkItems(_ context.Context, _ *gomcp.CallToolRequest, input getWorkItemsInput) (*gomcp.CallToolResult, getWorkItemsOutput, error) {
	if input.Target == "" {
		return errorResult("target is required"), getWorkItemsOutput{}, nil
	}
	target, err := models.ParseTarget(input.Target)
	if err != nil {
		return errorResult(err.Error()), getWorkItemsOutput{}, nil
	}

	tt, err := s.query.Get(target)
	if err != nil {
		return errorResult(fmt.Sprintf("getting work items of %s: %s", input.Target, err)), getWorkItemsOutput{}, nil
	}

	out := getWorkItemsOutput{
		Target:    target.String(),
		Kind:      string(target.Kind),
		WorkItems: make([]workItemOutput, 0, len(tt.Effective)),
	}
	if !target.IsMethod() {
		if anc, err := s.reg.Ancestors(target.Class); err == nil {
			out.Ancestors = anc
		}
	}
	nInherited := len(tt.Inherited())
	for i, w := range tt.Effective {
		out.WorkItems = append(out.WorkItems, workItemOutput{
			Type:      string(w.Type),
			ID:        w.ID,
			URL:       w.URL,
			Link:      s.linker.Link(w),
			Inherited: i < nInherited,
		})
	}
	return nil, out, nil
}

func (s *Server) handleFindReferences(_ context.Context, _ *gomcp.CallToolRequest, input findReferencesInput) (*gomcp.CallToolResult, findReferencesOutput, error) {
	if input.ID == "" {
		return errorResult("id is required"), findReferencesOutput{}, nil
	}

	refs := s.reg.References(input.ID)
	out := findReferencesOutput{
		ID:      input.ID,
		Targets: make([]string, len(refs)),
		Count:   len(refs),
	}
	for i, t := range refs {
		out.Targets[i] = t.String()
	}
	return nil, out, nil
}

func (s *Server) handleCheck(_ context.Context, _ *gomcp.CallToolRequest, _ checkInput) (*gomcp.CallToolResult, checkOutput, error) {
	if s.checker == nil {
		return errorResult("checker not available"), checkOutput{}, nil
	}

	findings := s.checker.Check(s.reg)
	out := checkOutput{Findings: make([]findingOutput, len(findings))}
	for i, f := range findings {
		fo := findingOutput{
			Severity: string(f.Severity),
			Target:   f.Target.String(),
			Message:  f.Message,
		}
		if f.Item != nil {
			fo.WorkItem = f.Item.String()
		}
		if f.Severity == core.SeverityError {
			out.Errors++
		}
		out.Findings[i] = fo
	}
	return nil, out, nil
}

// --- Helpers ---

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
