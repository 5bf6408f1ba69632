package aggregate

import (
	"fmt"
	"sort"

	"egolens/internal/classify"
	"egolens/internal/measure"
	"egolens/internal/stats"
)

// Selector extracts one scalar sample from a dialogue's measure set.
type Selector func(*measure.Set) []float64

// Selectors names the scalars a factorial comparison can run over.
var Selectors = map[string]Selector{
	"score": func(s *measure.Set) []float64 {
		return []float64{s.Score}
	},
	"revision_edit": func(s *measure.Set) []float64 {
		var out []float64
		for _, r := range s.Revisions {
			out = append(out, r.EditDist)
		}
		return out
	},
	"adaptation_edit": func(s *measure.Set) []float64 {
		var out []float64
		for _, a := range s.Adaptations {
			out = append(out, a.EditDist)
		}
		return out
	},
	"reflection_specificity": func(s *measure.Set) []float64 {
		var out []float64
		for _, r := range s.Reflections {
			out = append(out, r.SpecificityRatio)
		}
		return out
	},
	"disagreement": func(s *measure.Set) []float64 {
		var out []float64
		for _, im := range s.Intersubjective {
			out = append(out, im.DisagreementRatio)
		}
		return out
	},
	"profile_evolution_edit": func(s *measure.Set) []float64 {
		var out []float64
		for _, e := range s.ProfileEvolutions {
			out = append(out, e.EditDist)
		}
		return out
	},
}

// SelectorNames lists the available metric names, sorted.
func SelectorNames() []string {
	names := make([]string, 0, len(Selectors))
	for n := range Selectors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CellSamples builds a 2×2 design over the given measure sets: factor A
// is mechanism membership (mechanism0 → level 0, mechanism1 → level 1),
// factor B is the condition (base → 0, recognition → 1). Dialogues under
// any other mechanism are excluded. Errors when the metric name is
// unknown or any cell comes up empty: an incomplete design must be
// rejected here, not silently patched downstream.
func CellSamples(sets []*measure.Set, mechanism0, mechanism1, metric string) (stats.Cells, error) {
	sel, ok := Selectors[metric]
	if !ok {
		return stats.Cells{}, fmt.Errorf("unknown metric %q (have %v)", metric, SelectorNames())
	}

	var c stats.Cells
	for _, s := range sets {
		var a int
		switch s.Mechanism {
		case mechanism0:
			a = 0
		case mechanism1:
			a = 1
		default:
			continue
		}
		b := 0
		if s.Condition == classify.ConditionRecognition {
			b = 1
		}

		vals := sel(s)
		switch {
		case a == 0 && b == 0:
			c.A0B0 = append(c.A0B0, vals...)
		case a == 0 && b == 1:
			c.A0B1 = append(c.A0B1, vals...)
		case a == 1 && b == 0:
			c.A1B0 = append(c.A1B0, vals...)
		default:
			c.A1B1 = append(c.A1B1, vals...)
		}
	}

	if !c.Complete() {
		return c, fmt.Errorf("incomplete 2x2 design for %s vs %s on %q: cells (%d, %d, %d, %d)",
			mechanism0, mechanism1, metric,
			len(c.A0B0), len(c.A0B1), len(c.A1B0), len(c.A1B1))
	}
	return c, nil
}
