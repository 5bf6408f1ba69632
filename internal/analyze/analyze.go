// Package analyze joins stored evaluation results with their dialogue
// logs, extracts per-dialogue measures, classifies each dialogue into
// its experimental cell, and aggregates the groups. It is the pipeline
// behind the analyze/compare commands and the MCP tools.
package analyze

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"egolens/internal/aggregate"
	"egolens/internal/classify"
	"egolens/internal/logging"
	"egolens/internal/measure"
	"egolens/internal/store"
	"egolens/internal/trace"
)

// Config holds the inputs for one analysis pass.
type Config struct {
	EvalRunID string           // run to analyze; empty means the latest run in the store
	Markers   *measure.Markers // nil means the embedded defaults
}

// Report is the output of one analysis pass over a run.
type Report struct {
	AnalysisID  string                   `json:"analysis_id"`
	EvalRunID   string                   `json:"eval_run_id"`
	GeneratedAt string                   `json:"generated_at"`
	Dialogues   int                      `json:"dialogues"`
	Skipped     int                      `json:"skipped"`
	Sets        []*measure.Set           `json:"sets"`
	Groups      []aggregate.GroupSummary `json:"groups"`
}

// Run executes the full pipeline: for every result row in the run, find
// its dialogue log, extract measures, classify, then aggregate. Results
// whose log is missing are logged and skipped, never fatal.
func Run(st store.Store, dialogues map[string]*trace.Dialogue, cfg Config) (*Report, error) {
	logger := logging.New("analyze")

	runID := cfg.EvalRunID
	if runID == "" {
		runs, err := st.ListRuns()
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			return nil, fmt.Errorf("no evaluation runs in store")
		}
		runID = runs[len(runs)-1]
	}

	results, err := st.ListResultsByRun(runID)
	if err != nil {
		return nil, fmt.Errorf("list results for run %s: %w", runID, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("run %s has no results", runID)
	}

	markers := cfg.Markers
	if markers == nil {
		markers = measure.DefaultMarkers()
	}

	report := &Report{
		AnalysisID:  uuid.NewString(),
		EvalRunID:   runID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, r := range results {
		d, ok := dialogues[r.DialogueID]
		if !ok {
			logger.Warn("no dialogue log for result, skipping",
				"dialogue", r.DialogueID, "profile", r.ProfileName)
			report.Skipped++
			continue
		}

		s := measure.Extract(d, markers, measure.Identity{
			DialogueID:  r.DialogueID,
			ProfileName: r.ProfileName,
			ScenarioID:  r.ScenarioID,
			Score:       r.Score,
		})
		s.Mechanism = classify.Mechanism(r.ProfileName)
		s.Condition = classify.Condition(r.ProfileName)
		report.Sets = append(report.Sets, s)
		report.Dialogues++
	}

	if report.Dialogues == 0 {
		return nil, fmt.Errorf("run %s: no result had a readable dialogue log", runID)
	}

	report.Groups = aggregate.GroupBy(report.Sets)
	logger.Info("analysis complete",
		"run", runID, "dialogues", report.Dialogues,
		"skipped", report.Skipped, "groups", len(report.Groups))
	return report, nil
}
