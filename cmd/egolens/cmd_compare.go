package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"egolens/internal/aggregate"
	"egolens/internal/analyze"
	"egolens/internal/format"
	"egolens/internal/report"
	"egolens/internal/store"
)

var compareFlags struct {
	dbPath      string
	logDir      string
	runID       string
	markersPath string
	mechanisms  string
	metric      string
	markdown    bool
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run a 2x2 factorial decomposition of one metric",
	Long: `Builds a 2x2 design over one evaluation run: factor A contrasts the two
given mechanisms, factor B is the base/recognition condition. Prints cell
means, main-effect F statistics, Cohen's d, and the interaction.

The design must be complete: every cell needs at least one observation.`,
	RunE: runCompareCmd,
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareFlags.dbPath, "db", envOr("EGOLENS_DB", store.DefaultDBPath), "Results store DB path (default: $EGOLENS_DB)")
	f.StringVar(&compareFlags.logDir, "logs", os.Getenv("EGOLENS_LOGS"), "Dialogue log directory (default: $EGOLENS_LOGS)")
	f.StringVar(&compareFlags.runID, "run", "", "Evaluation run ID (default: latest in the store)")
	f.StringVar(&compareFlags.markersPath, "markers", "", "Override marker vocabulary YAML")
	f.StringVar(&compareFlags.mechanisms, "mechanisms", "baseline,combined",
		"Factor A levels as mechanism0,mechanism1")
	f.StringVar(&compareFlags.metric, "metric", "score",
		fmt.Sprintf("Metric to decompose; one of %s", strings.Join(aggregate.SelectorNames(), ", ")))
	f.BoolVar(&compareFlags.markdown, "markdown", false, "Render tables as Markdown instead of ASCII")
}

func runCompareCmd(cmd *cobra.Command, _ []string) error {
	pair := strings.Split(compareFlags.mechanisms, ",")
	if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
		return fmt.Errorf("--mechanisms must be two comma-separated mechanism tags, got %q",
			compareFlags.mechanisms)
	}

	r, err := runPipeline(compareFlags.dbPath, compareFlags.logDir,
		compareFlags.runID, compareFlags.markersPath)
	if err != nil {
		return err
	}

	c, err := analyze.Compare(r.Sets, strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1]),
		compareFlags.metric)
	if err != nil {
		return err
	}

	mode := format.ASCII
	if compareFlags.markdown {
		mode = format.Markdown
	}
	fmt.Fprint(cmd.OutOrStdout(), report.RenderComparison(c, mode))
	return nil
}
