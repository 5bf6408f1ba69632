package measure

import (
	"math"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"egolens/internal/trace"
)

func suggestion(msg string) []trace.Suggestion {
	return []trace.Suggestion{{Message: msg}}
}

func TestExtractRevisionMagnitude(t *testing.T) {
	d := &trace.Dialogue{Events: []trace.Event{
		{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Round: 1, Suggestions: suggestion("A B C")},
		{Agent: trace.RoleTutorSuperego, Action: "critique", Round: 1, Detail: "too abstract"},
		{Agent: trace.RoleTutorEgo, Action: trace.ActionRevise, Round: 1, Suggestions: suggestion("A B D")},
	}}

	got := ExtractRevisionMagnitude(d)
	if len(got) != 1 {
		t.Fatalf("expected 1 revision measure, got %d", len(got))
	}
	r := got[0]
	// Shared tokens {a,b} over union {a,b,c,d} → jaccard 0.5; one
	// substitution over 3 tokens → edit 1/3.
	if math.Abs(r.JaccardDist-0.5) > 1e-9 {
		t.Errorf("JaccardDist = %f, want 0.5", r.JaccardDist)
	}
	if math.Abs(r.EditDist-1.0/3.0) > 1e-9 {
		t.Errorf("EditDist = %f, want 1/3", r.EditDist)
	}
	if r.GenLength != 3 || r.RevLength != 3 {
		t.Errorf("lengths = (%d, %d), want (3, 3)", r.GenLength, r.RevLength)
	}
	if r.Round != 1 {
		t.Errorf("Round = %d, want 1", r.Round)
	}
}

func TestExtractRevisionMagnitudeSkipsEmptyAndUnpaired(t *testing.T) {
	tests := []struct {
		name   string
		events []trace.Event
		want   int
	}{
		{
			"no revise event",
			[]trace.Event{
				{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Round: 1, Suggestions: suggestion("hello")},
			},
			0,
		},
		{
			"empty generate message",
			[]trace.Event{
				{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Round: 1},
				{Agent: trace.RoleTutorEgo, Action: trace.ActionRevise, Round: 1, Suggestions: suggestion("hi")},
			},
			0,
		},
		{
			"revise from earlier round ignored",
			[]trace.Event{
				{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Round: 3, Suggestions: suggestion("a")},
				{Agent: trace.RoleTutorEgo, Action: trace.ActionRevise, Round: 2, Suggestions: suggestion("b")},
			},
			0,
		},
		{
			"two cycles pair independently",
			[]trace.Event{
				{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Round: 1, Suggestions: suggestion("a b")},
				{Agent: trace.RoleTutorEgo, Action: trace.ActionRevise, Round: 1, Suggestions: suggestion("a c")},
				{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Round: 2, Suggestions: suggestion("x y")},
				{Agent: trace.RoleTutorEgo, Action: trace.ActionRevise, Round: 2, Suggestions: suggestion("x z")},
			},
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &trace.Dialogue{Events: tt.events}
			if got := ExtractRevisionMagnitude(d); len(got) != tt.want {
				t.Errorf("got %d measures, want %d", len(got), tt.want)
			}
		})
	}
}

func TestExtractReflectionSpecificity(t *testing.T) {
	m := DefaultMarkers()
	d := &trace.Dialogue{Events: []trace.Event{
		{Agent: trace.RoleTutorReflection, Action: trace.ActionReflect, TurnIndex: 1,
			Detail: "The learner struggled with fractions. Specifically, you said halves were confusing."},
		{Agent: trace.RoleLearnerReflection, Action: trace.ActionReflect, TurnIndex: 1,
			Detail: "In general, scaffolding is best practice for pedagogy."},
		{Agent: trace.RoleTutorReflection, Action: trace.ActionReflect, TurnIndex: 2,
			Detail: "Nothing matched either family here."},
		{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Suggestions: suggestion("ignored")},
	}}

	got := ExtractReflectionSpecificity(d, m)
	if len(got) != 3 {
		t.Fatalf("expected 3 reflection measures, got %d", len(got))
	}

	if got[0].SpecificCount < 2 || got[0].GenericCount != 0 {
		t.Errorf("specific reflection: counts = (%d, %d)", got[0].SpecificCount, got[0].GenericCount)
	}
	if got[0].SpecificityRatio != 1 {
		t.Errorf("specific reflection ratio = %f, want 1", got[0].SpecificityRatio)
	}

	if got[1].GenericCount < 3 || got[1].SpecificCount != 0 {
		t.Errorf("generic reflection: counts = (%d, %d)", got[1].SpecificCount, got[1].GenericCount)
	}
	if got[1].SpecificityRatio != 0 {
		t.Errorf("generic reflection ratio = %f, want 0", got[1].SpecificityRatio)
	}

	// No markers at all: ratio defined as 0.
	if got[2].SpecificCount != 0 || got[2].GenericCount != 0 || got[2].SpecificityRatio != 0 {
		t.Errorf("marker-free reflection = %+v, want zero counts and ratio", got[2])
	}
}

func TestExtractCrossTurnAdaptation(t *testing.T) {
	d := &trace.Dialogue{Events: []trace.Event{
		{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, TurnIndex: 1, Suggestions: suggestion("draft one")},
		{Agent: trace.RoleTutorEgo, Action: trace.ActionRevise, TurnIndex: 1, Suggestions: suggestion("let us review fractions")},
		{Action: trace.ActionTurnComplete},
		{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, TurnIndex: 2, Suggestions: suggestion("let us review decimals")},
		// No trailing turn_complete: the pending output flushes at scan end.
	}}

	got := ExtractCrossTurnAdaptation(d)
	if len(got) != 1 {
		t.Fatalf("expected 1 adaptation measure, got %d", len(got))
	}
	a := got[0]
	if a.FromTurn != 1 || a.ToTurn != 2 {
		t.Errorf("turns = (%d, %d), want (1, 2)", a.FromTurn, a.ToTurn)
	}
	// The revision, not the draft, is turn 1's final output.
	// "let us review fractions" vs "let us review decimals": jaccard 3/5.
	if math.Abs(a.JaccardDist-0.4) > 1e-9 {
		t.Errorf("JaccardDist = %f, want 0.4", a.JaccardDist)
	}
	if math.Abs(a.EditDist-0.25) > 1e-9 {
		t.Errorf("EditDist = %f, want 0.25", a.EditDist)
	}
}

func TestExtractCrossTurnAdaptationTurnCounter(t *testing.T) {
	// Events without turn indices fall back to the turn_action counter.
	d := &trace.Dialogue{Events: []trace.Event{
		{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Suggestions: suggestion("first message")},
		{Action: trace.ActionTurnAction},
		{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Suggestions: suggestion("second message")},
		{Action: trace.ActionTurnAction},
	}}

	got := ExtractCrossTurnAdaptation(d)
	if len(got) != 1 {
		t.Fatalf("expected 1 adaptation measure, got %d", len(got))
	}
	if got[0].FromTurn != 0 || got[0].ToTurn != 1 {
		t.Errorf("turns = (%d, %d), want (0, 1)", got[0].FromTurn, got[0].ToTurn)
	}
}

func TestExtractProfileRichness(t *testing.T) {
	m := DefaultMarkers()
	profileText := "1. **Misconceptions** confuses halves.\n2. **Pace** slow but steady.\n" +
		"I predict the learner will retry. Confidence is moderate. updated: pace."
	d := &trace.Dialogue{Events: []trace.Event{
		{Agent: trace.RoleTutorLearnerModel, Action: trace.ActionModelUpdate, TurnIndex: 1, Detail: profileText},
		{Agent: trace.RoleTutorLearnerModel, Action: trace.ActionModelUpdate, TurnIndex: 2,
			Detail: "1. **Misconceptions** resolved.\n2. **Pace** improving."},
		{Agent: trace.RoleLearnerTutorModel, Action: trace.ActionModelUpdate, TurnIndex: 1,
			Detail: "The tutor repeats examples."},
	}}

	measures, evolutions := ExtractProfileRichness(d, m)
	if len(measures) != 3 {
		t.Fatalf("expected 3 profile measures, got %d", len(measures))
	}

	first := measures[0]
	if first.Dimensions != 2 {
		t.Errorf("Dimensions = %d, want 2", first.Dimensions)
	}
	if !first.HasPrediction || !first.HasConfidence {
		t.Errorf("prediction/confidence flags = (%v, %v), want both true", first.HasPrediction, first.HasConfidence)
	}
	if first.RevisedCount != 1 {
		t.Errorf("RevisedCount = %d, want 1", first.RevisedCount)
	}

	// Only the tutor's learner-model has two snapshots.
	if len(evolutions) != 1 {
		t.Fatalf("expected 1 profile evolution, got %d", len(evolutions))
	}
	ev := evolutions[0]
	if ev.Agent != trace.RoleTutorLearnerModel || ev.FromTurn != 1 || ev.ToTurn != 2 {
		t.Errorf("evolution = %+v", ev)
	}
	if ev.EditDist <= 0 || ev.EditDist > 1 {
		t.Errorf("EditDist = %f, want in (0,1]", ev.EditDist)
	}
}

func TestExtractIntersubjective(t *testing.T) {
	m := DefaultMarkers()
	d := &trace.Dialogue{Events: []trace.Event{
		{Agent: trace.RoleTutorCritiqueResponse, Action: trace.ActionRespond, TurnIndex: 1,
			Detail: "Fair point about tone, and I agree the hint was too direct."},
		{Agent: trace.RoleTutorCritiqueResponse, Action: trace.ActionRespond, TurnIndex: 2,
			Detail: "I disagree: that would overcorrect. I'd push back on softening further."},
	}}

	got := ExtractIntersubjective(d, m)
	if len(got) != 2 {
		t.Fatalf("expected 2 intersubjective measures, got %d", len(got))
	}
	if got[0].DisagreementRatio != 0 {
		t.Errorf("agreeing response ratio = %f, want 0", got[0].DisagreementRatio)
	}
	if got[0].AgreeCount != 2 {
		t.Errorf("AgreeCount = %d, want 2", got[0].AgreeCount)
	}
	if got[1].DisagreementRatio != 1 {
		t.Errorf("disagreeing response ratio = %f, want 1", got[1].DisagreementRatio)
	}
	if got[1].DisagreeCount != 3 {
		t.Errorf("DisagreeCount = %d, want 3", got[1].DisagreeCount)
	}
}

func TestExtractBehavioralEvolution(t *testing.T) {
	d := &trace.Dialogue{Events: []trace.Event{
		{Agent: trace.RoleBehavioralOverride, Action: trace.ActionOverride, TurnIndex: 1,
			Detail: `{"rejection_threshold": 0.7, "max_rejections": 2, "priority_criteria": ["clarity", "warmth"]}`},
		{Agent: trace.RoleBehavioralOverride, Action: trace.ActionOverride, TurnIndex: 2,
			Detail: `not json at all`},
		{Agent: trace.RoleBehavioralOverride, Action: trace.ActionOverride, TurnIndex: 3,
			Detail: `{"rejection_threshold": 0.5, "max_rejections": 2, "priority_criteria": ["clarity", "challenge"]}`},
	}}

	params, evolutions := ExtractBehavioralEvolution(d)
	if len(params) != 2 {
		t.Fatalf("expected 2 parsed snapshots (malformed dropped), got %d", len(params))
	}
	if len(evolutions) != 1 {
		t.Fatalf("expected 1 evolution, got %d", len(evolutions))
	}
	ev := evolutions[0]
	if ev.FromTurn != 1 || ev.ToTurn != 3 {
		t.Errorf("turns = (%d, %d), want (1, 3)", ev.FromTurn, ev.ToTurn)
	}
	if math.Abs(ev.ThresholdDelta-(-0.2)) > 1e-9 {
		t.Errorf("ThresholdDelta = %f, want -0.2", ev.ThresholdDelta)
	}
	// warmth dropped, challenge added.
	if ev.PriorityCriteriaChanged != 2 {
		t.Errorf("PriorityCriteriaChanged = %d, want 2", ev.PriorityCriteriaChanged)
	}
}

func TestSymmetricDiffSize(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want int
	}{
		{"both empty", nil, nil, 0},
		{"identical", []string{"x", "y"}, []string{"y", "x"}, 0},
		{"disjoint", []string{"a"}, []string{"b", "c"}, 3},
		{"duplicates collapse", []string{"a", "a"}, []string{"a", "b"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := symmetricDiffSize(tt.a, tt.b); got != tt.want {
				t.Errorf("symmetricDiffSize(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestExtractAssemblesSet(t *testing.T) {
	m := DefaultMarkers()
	d := &trace.Dialogue{DialogueID: "d1", Events: []trace.Event{
		{Agent: trace.RoleTutorEgo, Action: trace.ActionGenerate, Round: 1, TurnIndex: 1, Suggestions: suggestion("first draft")},
		{Agent: trace.RoleTutorEgo, Action: trace.ActionRevise, Round: 1, TurnIndex: 1, Suggestions: suggestion("final message")},
		{Action: trace.ActionTurnComplete},
	}}

	s := Extract(d, m, Identity{
		DialogueID: "d1", ProfileName: "combined-recog-v2", ScenarioID: "phil-01", Score: 84,
	})

	if s.DialogueID != "d1" || s.ProfileName != "combined-recog-v2" || s.Score != 84 {
		t.Errorf("identity not carried: %+v", s)
	}
	if len(s.Revisions) != 1 {
		t.Errorf("revisions = %d, want 1", len(s.Revisions))
	}
	if s.FinalMessage != "final message" {
		t.Errorf("FinalMessage = %q, want %q", s.FinalMessage, "final message")
	}
	// Classification is the caller's job.
	if s.Mechanism != "" || s.Condition != "" {
		t.Errorf("extract must not classify: %+v", s)
	}
}

func TestLoadMarkersOverride(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/markers.yaml"
	yaml := `
version: 99
specific: ['custom marker']
generic: ['boilerplate']
agreement: ['i agree']
disagreement: ['i disagree']
profile:
  dimension: '(?m)^\d+\.'
  prediction: 'predict'
  confidence: 'confiden'
  revision: 'revised'
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadMarkers(path)
	if err != nil {
		t.Fatalf("LoadMarkers: %v", err)
	}
	if m.Version != 99 {
		t.Errorf("Version = %d, want 99", m.Version)
	}
	if got := countFamily(m.Specific, "a Custom Marker appears"); got != 1 {
		t.Errorf("custom specific count = %d, want 1", got)
	}
}

func TestDefaultMarkersVersioned(t *testing.T) {
	m := DefaultMarkers()
	if m.Version < 1 {
		t.Errorf("embedded marker table must carry a version, got %d", m.Version)
	}
	if diff := cmp.Diff(0, countFamily(m.Agreement, "no markers here")); diff != "" {
		t.Errorf("unexpected agreement match: %s", diff)
	}
}
