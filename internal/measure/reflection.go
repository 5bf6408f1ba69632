package measure

import (
	"egolens/internal/textmetric"
	"egolens/internal/trace"
)

// ExtractReflectionSpecificity scores every self-reflection event on both
// sides of the dialogue: learner-specific markers versus generic-pedagogy
// markers. A reflection with no markers at all gets ratio 0, not NaN.
func ExtractReflectionSpecificity(d *trace.Dialogue, m *Markers) []ReflectionMeasure {
	var out []ReflectionMeasure
	for i := range d.Events {
		ev := &d.Events[i]
		if ev.Agent != trace.RoleTutorReflection && ev.Agent != trace.RoleLearnerReflection {
			continue
		}
		if ev.Detail == "" {
			continue
		}

		specific := countFamily(m.Specific, ev.Detail)
		generic := countFamily(m.Generic, ev.Detail)
		ratio := 0.0
		if specific+generic > 0 {
			ratio = float64(specific) / float64(specific+generic)
		}

		out = append(out, ReflectionMeasure{
			Agent:            ev.Agent,
			TurnIndex:        ev.TurnIndex,
			WordCount:        len(textmetric.Tokenize(ev.Detail)),
			SpecificCount:    specific,
			GenericCount:     generic,
			SpecificityRatio: ratio,
		})
	}
	return out
}

// ExtractIntersubjective counts agreement versus disagreement markers in
// the ego's responses to superego critique. No markers → ratio 0.
func ExtractIntersubjective(d *trace.Dialogue, m *Markers) []IntersubjectiveMeasure {
	var out []IntersubjectiveMeasure
	for i := range d.Events {
		ev := &d.Events[i]
		if ev.Agent != trace.RoleTutorCritiqueResponse || ev.Detail == "" {
			continue
		}

		agree := countFamily(m.Agreement, ev.Detail)
		disagree := countFamily(m.Disagreement, ev.Detail)
		ratio := 0.0
		if agree+disagree > 0 {
			ratio = float64(disagree) / float64(agree+disagree)
		}

		out = append(out, IntersubjectiveMeasure{
			TurnIndex:         ev.TurnIndex,
			WordCount:         len(textmetric.Tokenize(ev.Detail)),
			AgreeCount:        agree,
			DisagreeCount:     disagree,
			DisagreementRatio: ratio,
		})
	}
	return out
}
