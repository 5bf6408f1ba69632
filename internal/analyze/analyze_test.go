package analyze

import (
	"fmt"
	"math"
	"testing"

	"egolens/internal/store"
	"egolens/internal/trace"
)

func suggestEvent(action, msg string, round int) trace.Event {
	return trace.Event{
		Agent:       trace.RoleTutorEgo,
		Action:      action,
		Round:       round,
		Suggestions: []trace.Suggestion{{Message: msg}},
	}
}

func fixtureDialogue(id, finalMsg string) *trace.Dialogue {
	return &trace.Dialogue{
		DialogueID: id,
		Events: []trace.Event{
			suggestEvent(trace.ActionGenerate, "let us review fractions together", 1),
			suggestEvent(trace.ActionRevise, finalMsg, 1),
		},
	}
}

// seedRun stores one result per profile and returns matching dialogue logs.
func seedRun(t *testing.T, st store.Store, runID string, profiles []string) map[string]*trace.Dialogue {
	t.Helper()
	dialogues := make(map[string]*trace.Dialogue)
	for i, p := range profiles {
		id := fmt.Sprintf("d-%03d", i)
		if _, err := st.SaveResult(&store.Result{
			RunID:       runID,
			DialogueID:  id,
			ProfileName: p,
			Score:       float64(70 + i),
		}); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
		dialogues[id] = fixtureDialogue(id, fmt.Sprintf("message variant %d about fractions", i))
	}
	return dialogues
}

func TestRunClassifiesAndGroups(t *testing.T) {
	st := store.NewMemStore()
	dialogues := seedRun(t, st, "run-1", []string{
		"baseline-v2", "baseline-recog-v2", "combined-v2", "combined-recog-v2",
	})

	report, err := Run(st, dialogues, Config{EvalRunID: "run-1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Dialogues != 4 || report.Skipped != 0 {
		t.Errorf("dialogues = %d skipped = %d, want 4/0", report.Dialogues, report.Skipped)
	}
	if report.AnalysisID == "" || report.EvalRunID != "run-1" {
		t.Errorf("identity fields: %q %q", report.AnalysisID, report.EvalRunID)
	}
	if len(report.Groups) != 4 {
		t.Fatalf("groups = %d, want 4", len(report.Groups))
	}
	// Sorted by mechanism then condition.
	first := report.Groups[0].Key
	if first.Mechanism != "baseline" || first.Condition != "base" {
		t.Errorf("first group = %+v", first)
	}
	for _, g := range report.Groups {
		if g.Dialogues != 1 {
			t.Errorf("group %v dialogues = %d, want 1", g.Key, g.Dialogues)
		}
		if g.RevisionEdit.Count != 1 {
			t.Errorf("group %v revision count = %d, want 1", g.Key, g.RevisionEdit.Count)
		}
	}
}

func TestRunSkipsMissingLogs(t *testing.T) {
	st := store.NewMemStore()
	dialogues := seedRun(t, st, "run-1", []string{"baseline-v2", "erosion-v2"})
	delete(dialogues, "d-001")

	report, err := Run(st, dialogues, Config{EvalRunID: "run-1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Dialogues != 1 || report.Skipped != 1 {
		t.Errorf("dialogues = %d skipped = %d, want 1/1", report.Dialogues, report.Skipped)
	}
}

func TestRunDefaultsToLatestRun(t *testing.T) {
	st := store.NewMemStore()
	seedRun(t, st, "run-2026-01", []string{"baseline-v2"})
	dialogues := seedRun(t, st, "run-2026-02", []string{"combined-v2"})

	report, err := Run(st, dialogues, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.EvalRunID != "run-2026-02" {
		t.Errorf("EvalRunID = %q, want latest run", report.EvalRunID)
	}
}

func TestRunErrors(t *testing.T) {
	st := store.NewMemStore()
	if _, err := Run(st, nil, Config{}); err == nil {
		t.Error("expected error for empty store")
	}

	seedRun(t, st, "run-1", []string{"baseline-v2"})
	if _, err := Run(st, nil, Config{EvalRunID: "run-1"}); err == nil {
		t.Error("expected error when every log is missing")
	}
	if _, err := Run(st, nil, Config{EvalRunID: "no-such-run"}); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestCompare(t *testing.T) {
	st := store.NewMemStore()
	dialogues := seedRun(t, st, "run-1", []string{
		"baseline-v2", "baseline-recog-v2", "combined-v2", "combined-recog-v2",
	})
	report, err := Run(st, dialogues, Config{EvalRunID: "run-1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	cmp, err := Compare(report.Sets, "baseline", "combined", "score")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.Metric != "score" || cmp.Mechanism0 != "baseline" || cmp.Mechanism1 != "combined" {
		t.Errorf("identity fields: %+v", cmp)
	}
	// Scores are 70..73 by seeding order; grand mean 71.5.
	if math.Abs(cmp.Factorial.GrandMean-71.5) > 1e-9 {
		t.Errorf("GrandMean = %f", cmp.Factorial.GrandMean)
	}

	if _, err := Compare(report.Sets, "baseline", "erosion", "score"); err == nil {
		t.Error("expected error for mechanism absent from the run")
	}
}
