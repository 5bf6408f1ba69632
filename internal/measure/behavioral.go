package measure

import (
	"encoding/json"

	"egolens/internal/trace"
)

// behavioralPayload is the expected JSON shape of an override event's
// detail field.
type behavioralPayload struct {
	RejectionThreshold    float64  `json:"rejection_threshold"`
	MaxRejections         int      `json:"max_rejections"`
	PriorityCriteria      []string `json:"priority_criteria"`
	DeprioritizedCriteria []string `json:"deprioritized_criteria"`
}

// ExtractBehavioralEvolution parses behavioral parameter override events
// and tracks how the superego's acceptance policy drifts over the
// dialogue. Events whose detail payload fails to parse are dropped
// silently, per the lenient-parsing policy.
func ExtractBehavioralEvolution(d *trace.Dialogue) ([]BehavioralParams, []BehavioralEvolution) {
	var params []BehavioralParams
	for i := range d.Events {
		ev := &d.Events[i]
		if ev.Agent != trace.RoleBehavioralOverride || ev.Detail == "" {
			continue
		}

		var payload behavioralPayload
		if err := json.Unmarshal([]byte(ev.Detail), &payload); err != nil {
			continue
		}

		params = append(params, BehavioralParams{
			TurnIndex:             ev.TurnIndex,
			RejectionThreshold:    payload.RejectionThreshold,
			MaxRejections:         payload.MaxRejections,
			PriorityCriteria:      payload.PriorityCriteria,
			DeprioritizedCriteria: payload.DeprioritizedCriteria,
		})
	}

	var evolutions []BehavioralEvolution
	for i := 1; i < len(params); i++ {
		prev, curr := params[i-1], params[i]
		evolutions = append(evolutions, BehavioralEvolution{
			FromTurn:                prev.TurnIndex,
			ToTurn:                  curr.TurnIndex,
			ThresholdDelta:          curr.RejectionThreshold - prev.RejectionThreshold,
			PriorityCriteriaChanged: symmetricDiffSize(prev.PriorityCriteria, curr.PriorityCriteria),
		})
	}
	return params, evolutions
}

// symmetricDiffSize counts elements present in exactly one of the two
// criteria lists, deduplicated.
func symmetricDiffSize(a, b []string) int {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	diff := 0
	for s := range setA {
		if _, ok := setB[s]; !ok {
			diff++
		}
	}
	for s := range setB {
		if _, ok := setA[s]; !ok {
			diff++
		}
	}
	return diff
}
