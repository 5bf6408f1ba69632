package measure

import (
	"sort"

	"egolens/internal/textmetric"
	"egolens/internal/trace"
)

// ExtractProfileRichness measures the structure of each other-ego profile
// snapshot: word count, numbered-dimension count, prediction/confidence
// language, and explicit revision markers. It also returns the pairwise
// evolution between consecutive snapshots of the same agent, ordered by
// turn index.
func ExtractProfileRichness(d *trace.Dialogue, m *Markers) ([]ProfileMeasure, []ProfileEvolution) {
	type snapshot struct {
		agent string
		turn  int
		text  string
	}
	var snapshots []snapshot

	var measures []ProfileMeasure
	for i := range d.Events {
		ev := &d.Events[i]
		if ev.Agent != trace.RoleTutorLearnerModel && ev.Agent != trace.RoleLearnerTutorModel {
			continue
		}
		if ev.Detail == "" {
			continue
		}

		measures = append(measures, ProfileMeasure{
			Agent:         ev.Agent,
			TurnIndex:     ev.TurnIndex,
			WordCount:     len(textmetric.Tokenize(ev.Detail)),
			Dimensions:    len(m.Dimension.FindAllStringIndex(ev.Detail, -1)),
			HasPrediction: m.Prediction.MatchString(ev.Detail),
			HasConfidence: m.Confidence.MatchString(ev.Detail),
			RevisedCount:  len(m.Revision.FindAllStringIndex(ev.Detail, -1)),
		})
		snapshots = append(snapshots, snapshot{ev.Agent, ev.TurnIndex, ev.Detail})
	}

	byAgent := make(map[string][]snapshot)
	for _, s := range snapshots {
		byAgent[s.agent] = append(byAgent[s.agent], s)
	}
	agents := make([]string, 0, len(byAgent))
	for a := range byAgent {
		agents = append(agents, a)
	}
	sort.Strings(agents)

	var evolutions []ProfileEvolution
	for _, agent := range agents {
		snaps := byAgent[agent]
		sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].turn < snaps[j].turn })
		for i := 1; i < len(snaps); i++ {
			prev, curr := snaps[i-1], snaps[i]
			evolutions = append(evolutions, ProfileEvolution{
				Agent:      agent,
				FromTurn:   prev.turn,
				ToTurn:     curr.turn,
				EditDist:   textmetric.NormalizedEditDistance(prev.text, curr.text),
				CosineDist: 1 - textmetric.CosineSimilarity(prev.text, curr.text),
			})
		}
	}
	return measures, evolutions
}
