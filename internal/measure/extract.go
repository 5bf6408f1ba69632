package measure

import (
	"egolens/internal/trace"
)

// Identity carries the per-dialogue metadata joined from the result
// store. The extractors never look at it; it rides along into the Set.
type Identity struct {
	DialogueID  string
	ProfileName string
	ScenarioID  string
	Score       float64
}

// Extract runs all six extractors over one trace and assembles the
// complete measurement set. Classification (mechanism/condition) is
// filled in by the caller; extraction itself is classification-blind.
func Extract(d *trace.Dialogue, m *Markers, id Identity) *Set {
	s := &Set{
		DialogueID:  id.DialogueID,
		ProfileName: id.ProfileName,
		ScenarioID:  id.ScenarioID,
		Score:       id.Score,
	}

	s.Revisions = ExtractRevisionMagnitude(d)
	s.Reflections = ExtractReflectionSpecificity(d, m)
	s.Adaptations = ExtractCrossTurnAdaptation(d)
	s.Profiles, s.ProfileEvolutions = ExtractProfileRichness(d, m)
	s.Intersubjective = ExtractIntersubjective(d, m)
	s.BehavioralParams, s.BehavioralEvolutions = ExtractBehavioralEvolution(d)
	s.FinalMessage = finalTutorMessage(d)

	return s
}

// finalTutorMessage returns the last nonempty tutor-ego suggestion
// message in the trace, or "".
func finalTutorMessage(d *trace.Dialogue) string {
	for i := len(d.Events) - 1; i >= 0; i-- {
		ev := &d.Events[i]
		if ev.Agent != trace.RoleTutorEgo {
			continue
		}
		if ev.Action != trace.ActionGenerate && ev.Action != trace.ActionRevise {
			continue
		}
		if msg := ev.FirstSuggestionMessage(); msg != "" {
			return msg
		}
	}
	return ""
}
