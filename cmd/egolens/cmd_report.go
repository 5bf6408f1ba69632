package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"egolens/internal/report"
	"egolens/internal/store"
)

var reportFlags struct {
	dbPath      string
	logDir      string
	runID       string
	markersPath string
	outPath     string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a self-contained HTML analysis report",
	Long: `Runs the analysis pipeline and writes a static HTML page: group summary
table, a between-run variance chart, and the top final-message tokens
per condition.`,
	RunE: runReportCmd,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.dbPath, "db", envOr("EGOLENS_DB", store.DefaultDBPath), "Results store DB path (default: $EGOLENS_DB)")
	f.StringVar(&reportFlags.logDir, "logs", os.Getenv("EGOLENS_LOGS"), "Dialogue log directory (default: $EGOLENS_LOGS)")
	f.StringVar(&reportFlags.runID, "run", "", "Evaluation run ID (default: latest in the store)")
	f.StringVar(&reportFlags.markersPath, "markers", "", "Override marker vocabulary YAML")
	f.StringVarP(&reportFlags.outPath, "output", "o", "egolens-report.html", "Output HTML path")
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	r, err := runPipeline(reportFlags.dbPath, reportFlags.logDir,
		reportFlags.runID, reportFlags.markersPath)
	if err != nil {
		return err
	}

	html, err := report.RenderHTML(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(reportFlags.outPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", reportFlags.outPath)
	return nil
}
