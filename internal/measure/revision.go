package measure

import (
	"egolens/internal/textmetric"
	"egolens/internal/trace"
)

// ExtractRevisionMagnitude pairs each tutor-ego generate event with the
// chronologically next tutor-ego revise event whose round is >= the
// generate's round, and measures how far the revision moved the proposed
// message. Pairs with an empty message on either side are skipped.
//
// Pairing deliberately does not check that generate and revise belong to
// the same dialogue turn: when a trace runs several generate/revise
// cycles, the measure reads as per-cycle drift even if round counters
// reset between turns.
func ExtractRevisionMagnitude(d *trace.Dialogue) []RevisionMeasure {
	type indexed struct {
		idx int
		ev  *trace.Event
	}
	var generates, revises []indexed
	for i := range d.Events {
		ev := &d.Events[i]
		if ev.Agent != trace.RoleTutorEgo {
			continue
		}
		switch ev.Action {
		case trace.ActionGenerate:
			generates = append(generates, indexed{i, ev})
		case trace.ActionRevise:
			revises = append(revises, indexed{i, ev})
		}
	}

	var out []RevisionMeasure
	for _, gen := range generates {
		var rev *trace.Event
		for _, r := range revises {
			if r.idx > gen.idx && r.ev.Round >= gen.ev.Round {
				rev = r.ev
				break
			}
		}
		if rev == nil {
			continue
		}

		genText := gen.ev.FirstSuggestionMessage()
		revText := rev.FirstSuggestionMessage()
		if genText == "" || revText == "" {
			continue
		}

		out = append(out, RevisionMeasure{
			Round:       gen.ev.Round,
			JaccardDist: 1 - textmetric.JaccardSimilarity(genText, revText),
			CosineDist:  1 - textmetric.CosineSimilarity(genText, revText),
			EditDist:    textmetric.NormalizedEditDistance(genText, revText),
			GenLength:   len(textmetric.Tokenize(genText)),
			RevLength:   len(textmetric.Tokenize(revText)),
		})
	}
	return out
}
