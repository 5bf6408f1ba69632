package measure

import (
	"egolens/internal/textmetric"
	"egolens/internal/trace"
)

// turnOutput is the final tutor message flushed at a turn boundary.
type turnOutput struct {
	text string
	turn int
}

// ExtractCrossTurnAdaptation reconstructs each turn's final tutor output
// with a single stateful scan and measures how much the tutor's message
// changes between consecutive turns. A formulaic tutor scores near zero
// here regardless of what the learner does.
//
// Scan rules: every tutor-ego generate/revise with a nonempty message
// replaces the pending output for the current turn; a turn_complete
// marker flushes the pending output; a turn_action marker additionally
// advances the running turn counter used when events carry no usable
// turn index. A still-pending output after the scan is flushed as the
// final turn.
func ExtractCrossTurnAdaptation(d *trace.Dialogue) []AdaptationMeasure {
	var outputs []turnOutput
	var pending *turnOutput
	turnCounter := 0

	for i := range d.Events {
		ev := &d.Events[i]
		switch {
		case ev.Agent == trace.RoleTutorEgo &&
			(ev.Action == trace.ActionGenerate || ev.Action == trace.ActionRevise):
			msg := ev.FirstSuggestionMessage()
			if msg == "" {
				continue
			}
			turn := ev.TurnIndex
			if turn == 0 {
				turn = turnCounter
			}
			pending = &turnOutput{text: msg, turn: turn}

		case ev.Action == trace.ActionTurnComplete:
			if pending != nil {
				outputs = append(outputs, *pending)
				pending = nil
			}

		case ev.Action == trace.ActionTurnAction:
			turnCounter++
			if pending != nil {
				outputs = append(outputs, *pending)
				pending = nil
			}
		}
	}
	if pending != nil {
		outputs = append(outputs, *pending)
	}

	var out []AdaptationMeasure
	for i := 1; i < len(outputs); i++ {
		prev, curr := outputs[i-1], outputs[i]
		out = append(out, AdaptationMeasure{
			FromTurn:    prev.turn,
			ToTurn:      curr.turn,
			JaccardDist: 1 - textmetric.JaccardSimilarity(prev.text, curr.text),
			CosineDist:  1 - textmetric.CosineSimilarity(prev.text, curr.text),
			EditDist:    textmetric.NormalizedEditDistance(prev.text, curr.text),
		})
	}
	return out
}
