// Package report renders analysis output for humans: ASCII/Markdown
// tables for the terminal, JSON for downstream tooling, and a static
// HTML page with an inline variance chart.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"egolens/internal/analyze"
	"egolens/internal/format"
)

// RenderText produces the group-summary report in the given table mode.
func RenderText(r *analyze.Report, mode format.Mode) string {
	var b strings.Builder

	b.WriteString("=== Egolens Analysis Report ===\n")
	b.WriteString(fmt.Sprintf("Analysis: %s\n", r.AnalysisID))
	b.WriteString(fmt.Sprintf("Run:      %s\n", r.EvalRunID))
	b.WriteString(fmt.Sprintf("Dialogues: %d analyzed, %d skipped\n\n", r.Dialogues, r.Skipped))

	tbl := format.NewTable(mode)
	tbl.Header("Mechanism", "Condition", "N", "Score", "Rev edit", "Refl spec", "Adapt edit", "Disagree", "Btw-run")
	tbl.Columns(
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
		format.ColumnConfig{Number: 6, Align: format.AlignRight},
		format.ColumnConfig{Number: 7, Align: format.AlignRight},
		format.ColumnConfig{Number: 8, Align: format.AlignRight},
		format.ColumnConfig{Number: 9, Align: format.AlignRight},
	)
	for _, g := range r.Groups {
		tbl.Row(
			g.Key.Mechanism,
			g.Key.Condition,
			g.Dialogues,
			format.FmtMeanSD(g.Score.Mean, g.Score.SD, g.Score.Count),
			format.FmtMeanSD(g.RevisionEdit.Mean, g.RevisionEdit.SD, g.RevisionEdit.Count),
			format.FmtMeanSD(g.ReflectionSpecificity.Mean, g.ReflectionSpecificity.SD, g.ReflectionSpecificity.Count),
			format.FmtMeanSD(g.AdaptationEdit.Mean, g.AdaptationEdit.SD, g.AdaptationEdit.Count),
			format.FmtMeanSD(g.Disagreement.Mean, g.Disagreement.SD, g.Disagreement.Count),
			format.FmtFloat(g.BetweenRun.AvgPairwiseDist),
		)
	}
	b.WriteString(tbl.String())
	b.WriteString("\n")

	return b.String()
}

// RenderComparison produces the 2×2 factorial report for one metric.
func RenderComparison(c *analyze.Comparison, mode format.Mode) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== 2x2 Factorial: %s vs %s on %q ===\n\n",
		c.Mechanism0, c.Mechanism1, c.Metric))

	cells := format.NewTable(mode)
	cells.Header("", "base", "recognition")
	cells.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
	)
	cells.Row(c.Mechanism0,
		fmtCell(c.Factorial.CellMeans[0][0], c.Factorial.CellNs[0][0]),
		fmtCell(c.Factorial.CellMeans[0][1], c.Factorial.CellNs[0][1]))
	cells.Row(c.Mechanism1,
		fmtCell(c.Factorial.CellMeans[1][0], c.Factorial.CellNs[1][0]),
		fmtCell(c.Factorial.CellMeans[1][1], c.Factorial.CellNs[1][1]))
	b.WriteString(cells.String())
	b.WriteString("\n")

	effects := format.NewTable(mode)
	effects.Header("Effect", "SS", "F", "Cohen's d")
	effects.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
	)
	effects.Row("mechanism", format.FmtFloat(c.Factorial.MainA.SumSquares),
		format.FmtFloat(c.Factorial.MainA.F), format.FmtFloat(c.DMechanism))
	effects.Row("condition", format.FmtFloat(c.Factorial.MainB.SumSquares),
		format.FmtFloat(c.Factorial.MainB.F), format.FmtFloat(c.DCondition))
	b.WriteString(effects.String())
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Interaction (difference of differences): %s\n",
		format.FmtFloat(c.Factorial.Interaction)))
	b.WriteString(fmt.Sprintf("Grand mean: %s\n", format.FmtFloat(c.Factorial.GrandMean)))

	return b.String()
}

func fmtCell(mean float64, n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%s (n=%d)", format.FmtFloat(mean), n)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
