// Package mcp exposes the analysis pipeline as MCP tools over stdio, so
// an agent can run analyses and query groups without shelling out to the
// CLI.
package mcp

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"egolens/internal/aggregate"
	"egolens/internal/analyze"
	"egolens/internal/logging"
	"egolens/internal/measure"
	"egolens/internal/stats"
	"egolens/internal/store"
	"egolens/internal/trace"
)

// Server wraps the MCP SDK server and holds the most recent analysis.
type Server struct {
	MCPServer *sdkmcp.Server

	mu       sync.Mutex
	analysis *analyze.Report
}

// NewServer creates an MCP server with the analysis tools registered.
func NewServer() *Server {
	s := &Server{}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "egolens", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_analysis",
		Description: "Run the measurement pipeline over one evaluation run. Loads results from the SQLite store, joins dialogue logs, extracts and aggregates measures. The report stays in memory for the query tools.",
	}, s.handleRunAnalysis)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_runs",
		Description: "List the evaluation run IDs present in a results store.",
	}, s.handleListRuns)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_group_summaries",
		Description: "Get the per-(mechanism, condition) group summaries of the current analysis.",
	}, s.handleGetGroupSummaries)

	// stats.FactorialResult marshals undefined values as null via a
	// custom MarshalJSON, which schema inference cannot see; describe it
	// as a plain object so output validation accepts those nulls.
	compareOutSchema, err := jsonschema.For[compareCellsOutput](&jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeOf(stats.FactorialResult{}): {Type: "object"},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("compare_cells output schema: %v", err))
	}
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:         "compare_cells",
		Description:  "Run a 2x2 factorial decomposition (mechanism x condition) of one metric over the current analysis.",
		OutputSchema: compareOutSchema,
	}, s.handleCompareCells)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_dialogue_measures",
		Description: "Get the full extracted measure set for one dialogue in the current analysis.",
	}, s.handleGetDialogueMeasures)
}

// --- Tool input/output types ---

type runAnalysisInput struct {
	DBPath      string `json:"db_path,omitempty" jsonschema:"path to the SQLite results store (default .egolens/evaluations.db)"`
	LogDir      string `json:"log_dir" jsonschema:"directory containing dialogue log JSON files"`
	RunID       string `json:"run_id,omitempty" jsonschema:"evaluation run to analyze (default: latest run in the store)"`
	MarkersPath string `json:"markers_path,omitempty" jsonschema:"optional override for the marker vocabulary YAML"`
}

type runAnalysisOutput struct {
	AnalysisID string `json:"analysis_id"`
	EvalRunID  string `json:"eval_run_id"`
	Dialogues  int    `json:"dialogues"`
	Skipped    int    `json:"skipped"`
	Groups     int    `json:"groups"`
}

type listRunsInput struct {
	DBPath string `json:"db_path,omitempty" jsonschema:"path to the SQLite results store (default .egolens/evaluations.db)"`
}

type listRunsOutput struct {
	Runs []string `json:"runs"`
}

type getGroupSummariesInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"analysis ID from run_analysis"`
}

type getGroupSummariesOutput struct {
	EvalRunID string                   `json:"eval_run_id"`
	Groups    []aggregate.GroupSummary `json:"groups"`
}

type compareCellsInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"analysis ID from run_analysis"`
	Mechanism0 string `json:"mechanism0" jsonschema:"mechanism tag for factor A level 0 (e.g. baseline)"`
	Mechanism1 string `json:"mechanism1" jsonschema:"mechanism tag for factor A level 1 (e.g. combined)"`
	Metric     string `json:"metric" jsonschema:"metric name; one of the selector names (e.g. score, revision_edit)"`
}

type compareCellsOutput struct {
	Comparison *analyze.Comparison `json:"comparison"`
}

type getDialogueMeasuresInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"analysis ID from run_analysis"`
	DialogueID string `json:"dialogue_id" jsonschema:"dialogue to fetch"`
}

type getDialogueMeasuresOutput struct {
	Set *measure.Set `json:"set"`
}

// --- Tool handlers ---

func (s *Server) handleRunAnalysis(_ context.Context, _ *sdkmcp.CallToolRequest, input runAnalysisInput) (*sdkmcp.CallToolResult, runAnalysisOutput, error) {
	if input.LogDir == "" {
		return nil, runAnalysisOutput{}, fmt.Errorf("log_dir is required")
	}

	st, err := openStore(input.DBPath)
	if err != nil {
		return nil, runAnalysisOutput{}, err
	}
	defer st.Close()

	dialogues, err := trace.LoadDir(input.LogDir)
	if err != nil {
		return nil, runAnalysisOutput{}, fmt.Errorf("load dialogue logs: %w", err)
	}

	cfg := analyze.Config{EvalRunID: input.RunID}
	if input.MarkersPath != "" {
		m, err := measure.LoadMarkers(input.MarkersPath)
		if err != nil {
			return nil, runAnalysisOutput{}, fmt.Errorf("load markers: %w", err)
		}
		cfg.Markers = m
	}

	report, err := analyze.Run(st, dialogues, cfg)
	if err != nil {
		return nil, runAnalysisOutput{}, err
	}

	s.mu.Lock()
	s.analysis = report
	s.mu.Unlock()

	logging.New("mcp").Info("analysis cached",
		"analysis", report.AnalysisID, "run", report.EvalRunID, "dialogues", report.Dialogues)

	return nil, runAnalysisOutput{
		AnalysisID: report.AnalysisID,
		EvalRunID:  report.EvalRunID,
		Dialogues:  report.Dialogues,
		Skipped:    report.Skipped,
		Groups:     len(report.Groups),
	}, nil
}

func (s *Server) handleListRuns(_ context.Context, _ *sdkmcp.CallToolRequest, input listRunsInput) (*sdkmcp.CallToolResult, listRunsOutput, error) {
	st, err := openStore(input.DBPath)
	if err != nil {
		return nil, listRunsOutput{}, err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return nil, listRunsOutput{}, fmt.Errorf("list runs: %w", err)
	}
	return nil, listRunsOutput{Runs: runs}, nil
}

func (s *Server) handleGetGroupSummaries(_ context.Context, _ *sdkmcp.CallToolRequest, input getGroupSummariesInput) (*sdkmcp.CallToolResult, getGroupSummariesOutput, error) {
	report, err := s.getAnalysis(input.AnalysisID)
	if err != nil {
		return nil, getGroupSummariesOutput{}, err
	}
	return nil, getGroupSummariesOutput{
		EvalRunID: report.EvalRunID,
		Groups:    report.Groups,
	}, nil
}

func (s *Server) handleCompareCells(_ context.Context, _ *sdkmcp.CallToolRequest, input compareCellsInput) (*sdkmcp.CallToolResult, compareCellsOutput, error) {
	report, err := s.getAnalysis(input.AnalysisID)
	if err != nil {
		return nil, compareCellsOutput{}, err
	}
	if input.Mechanism0 == "" || input.Mechanism1 == "" {
		return nil, compareCellsOutput{}, fmt.Errorf("mechanism0 and mechanism1 are required")
	}

	cmp, err := analyze.Compare(report.Sets, input.Mechanism0, input.Mechanism1, input.Metric)
	if err != nil {
		return nil, compareCellsOutput{}, err
	}
	return nil, compareCellsOutput{Comparison: cmp}, nil
}

func (s *Server) handleGetDialogueMeasures(_ context.Context, _ *sdkmcp.CallToolRequest, input getDialogueMeasuresInput) (*sdkmcp.CallToolResult, getDialogueMeasuresOutput, error) {
	report, err := s.getAnalysis(input.AnalysisID)
	if err != nil {
		return nil, getDialogueMeasuresOutput{}, err
	}
	for _, set := range report.Sets {
		if set.DialogueID == input.DialogueID {
			return nil, getDialogueMeasuresOutput{Set: set}, nil
		}
	}
	return nil, getDialogueMeasuresOutput{}, fmt.Errorf("dialogue %q not in analysis %s", input.DialogueID, report.AnalysisID)
}

// Shutdown drops the cached analysis.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = nil
}

func (s *Server) getAnalysis(id string) (*analyze.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.analysis == nil {
		return nil, fmt.Errorf("no analysis loaded (call run_analysis first)")
	}
	if s.analysis.AnalysisID != id {
		return nil, fmt.Errorf("analysis_id mismatch: have %s, got %s", s.analysis.AnalysisID, id)
	}
	return s.analysis, nil
}

func openStore(path string) (store.Store, error) {
	if path == "" {
		path = store.DefaultDBPath
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results store: %w", err)
	}
	return st, nil
}
