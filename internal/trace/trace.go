// Package trace defines the logged dialogue event model and loads raw
// dialogue logs from disk. Traces are read-only inputs to the measurement
// pipeline; nothing downstream mutates them.
package trace

// Agent role tags as they appear in dialogue logs.
const (
	RoleTutorEgo              = "tutor_ego"
	RoleTutorSuperego         = "tutor_superego"
	RoleTutorReflection       = "tutor_self_reflection"
	RoleLearnerReflection     = "learner_self_reflection"
	RoleTutorLearnerModel     = "tutor_other_ego"
	RoleLearnerTutorModel     = "learner_other_ego"
	RoleTutorCritiqueResponse = "tutor_ego_response"
	RoleBehavioralOverride    = "behavioral_override"
)

// Action verb tags.
const (
	ActionGenerate     = "generate"
	ActionRevise       = "revise"
	ActionReflect      = "reflect"
	ActionModelUpdate  = "model_update"
	ActionRespond      = "respond"
	ActionOverride     = "override"
	ActionTurnComplete = "turn_complete"
	ActionTurnAction   = "turn_action"
)

// Suggestion is one proposed tutor message within an event payload.
type Suggestion struct {
	Message string `json:"message"`
	Title   string `json:"title,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// EventMetrics carries optional latency/model bookkeeping per event.
type EventMetrics struct {
	LatencyMS int64  `json:"latency_ms,omitempty"`
	Model     string `json:"model,omitempty"`
}

// Event is one logged agent action. Immutable once logged.
// Unrecognized JSON fields are ignored on decode.
type Event struct {
	Agent       string        `json:"agent"`
	Action      string        `json:"action"`
	Round       int           `json:"round,omitempty"`
	TurnIndex   int           `json:"turn_index,omitempty"`
	Detail      string        `json:"detail,omitempty"`
	Suggestions []Suggestion  `json:"suggestions,omitempty"`
	Approved    *bool         `json:"approved,omitempty"`
	Metrics     *EventMetrics `json:"metrics,omitempty"`
}

// FirstSuggestionMessage returns the message text of the first suggestion,
// or "" when the event carries none.
func (e *Event) FirstSuggestionMessage() string {
	if len(e.Suggestions) == 0 {
		return ""
	}
	return e.Suggestions[0].Message
}

// Dialogue is one chronologically ordered dialogue trace.
type Dialogue struct {
	DialogueID string  `json:"dialogue_id"`
	Events     []Event `json:"events"`
}
