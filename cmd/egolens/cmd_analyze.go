package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"egolens/internal/analyze"
	"egolens/internal/format"
	"egolens/internal/measure"
	"egolens/internal/report"
	"egolens/internal/store"
	"egolens/internal/trace"
)

var analyzeFlags struct {
	dbPath      string
	logDir      string
	runID       string
	markersPath string
	jsonPath    string
	markdown    bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract and aggregate dialogue measures for one evaluation run",
	Long: `Joins the evaluation results of one run with their dialogue logs,
extracts the per-dialogue measures, classifies each dialogue by mechanism
and condition, and prints the group summaries.

Results whose dialogue log is missing are skipped with a warning.`,
	RunE: runAnalyzeCmd,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.dbPath, "db", envOr("EGOLENS_DB", store.DefaultDBPath), "Results store DB path (default: $EGOLENS_DB)")
	f.StringVar(&analyzeFlags.logDir, "logs", os.Getenv("EGOLENS_LOGS"), "Dialogue log directory (default: $EGOLENS_LOGS)")
	f.StringVar(&analyzeFlags.runID, "run", "", "Evaluation run ID (default: latest in the store)")
	f.StringVar(&analyzeFlags.markersPath, "markers", "", "Override marker vocabulary YAML")
	f.StringVarP(&analyzeFlags.jsonPath, "output", "o", "", "Write the full report as JSON to this path")
	f.BoolVar(&analyzeFlags.markdown, "markdown", false, "Render tables as Markdown instead of ASCII")
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	r, err := runPipeline(analyzeFlags.dbPath, analyzeFlags.logDir,
		analyzeFlags.runID, analyzeFlags.markersPath)
	if err != nil {
		return err
	}

	mode := format.ASCII
	if analyzeFlags.markdown {
		mode = format.Markdown
	}
	fmt.Fprint(cmd.OutOrStdout(), report.RenderText(r, mode))

	if analyzeFlags.jsonPath != "" {
		f, err := os.Create(analyzeFlags.jsonPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		if err := report.WriteJSON(f, r); err != nil {
			return fmt.Errorf("write report JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", analyzeFlags.jsonPath)
	}
	return nil
}

// runPipeline is the shared open-load-analyze sequence behind the
// analyze, compare, and report commands.
func runPipeline(dbPath, logDir, runID, markersPath string) (*analyze.Report, error) {
	if logDir == "" {
		return nil, fmt.Errorf("--logs is required")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open results store: %w", err)
	}
	defer st.Close()

	dialogues, err := trace.LoadDir(logDir)
	if err != nil {
		return nil, fmt.Errorf("load dialogue logs: %w", err)
	}

	cfg := analyze.Config{EvalRunID: runID}
	if markersPath != "" {
		m, err := measure.LoadMarkers(markersPath)
		if err != nil {
			return nil, fmt.Errorf("load markers: %w", err)
		}
		cfg.Markers = m
	}

	return analyze.Run(st, dialogues, cfg)
}
