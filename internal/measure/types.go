// Package measure turns raw dialogue traces into typed measurement
// records. Each extractor is a pure function over one trace: malformed or
// missing fields skip the data point, never error. All dissimilarities
// come from internal/textmetric and live in [0,1].
package measure

// RevisionMeasure captures how far one superego-driven revision moved the
// ego's proposed message within a round.
type RevisionMeasure struct {
	Round       int     `json:"round"`
	JaccardDist float64 `json:"jaccard_dist"`
	CosineDist  float64 `json:"cosine_dist"`
	EditDist    float64 `json:"edit_dist"`
	GenLength   int     `json:"gen_length"`
	RevLength   int     `json:"rev_length"`
}

// ReflectionMeasure scores one self-reflection for learner-specific
// versus generic-pedagogy language.
type ReflectionMeasure struct {
	Agent            string  `json:"agent"`
	TurnIndex        int     `json:"turn_index"`
	WordCount        int     `json:"word_count"`
	SpecificCount    int     `json:"specific_count"`
	GenericCount     int     `json:"generic_count"`
	SpecificityRatio float64 `json:"specificity_ratio"`
}

// AdaptationMeasure is the dissimilarity between consecutive turns' final
// tutor outputs.
type AdaptationMeasure struct {
	FromTurn    int     `json:"from_turn"`
	ToTurn      int     `json:"to_turn"`
	JaccardDist float64 `json:"jaccard_dist"`
	CosineDist  float64 `json:"cosine_dist"`
	EditDist    float64 `json:"edit_dist"`
}

// ProfileMeasure describes the structural richness of one other-ego
// profile snapshot (the tutor's model of the learner, or vice versa).
type ProfileMeasure struct {
	Agent         string `json:"agent"`
	TurnIndex     int    `json:"turn_index"`
	WordCount     int    `json:"word_count"`
	Dimensions    int    `json:"dimensions"`
	HasPrediction bool   `json:"has_prediction"`
	HasConfidence bool   `json:"has_confidence"`
	RevisedCount  int    `json:"revised_count"`
}

// ProfileEvolution is the drift between consecutive profile snapshots of
// the same agent.
type ProfileEvolution struct {
	Agent      string  `json:"agent"`
	FromTurn   int     `json:"from_turn"`
	ToTurn     int     `json:"to_turn"`
	EditDist   float64 `json:"edit_dist"`
	CosineDist float64 `json:"cosine_dist"`
}

// IntersubjectiveMeasure counts agreement versus disagreement markers in
// the ego's responses to superego critique.
type IntersubjectiveMeasure struct {
	TurnIndex         int     `json:"turn_index"`
	WordCount         int     `json:"word_count"`
	AgreeCount        int     `json:"agree_count"`
	DisagreeCount     int     `json:"disagree_count"`
	DisagreementRatio float64 `json:"disagreement_ratio"`
}

// BehavioralParams is one parsed behavioral parameter override snapshot.
type BehavioralParams struct {
	TurnIndex             int      `json:"turn_index"`
	RejectionThreshold    float64  `json:"rejection_threshold"`
	MaxRejections         int      `json:"max_rejections"`
	PriorityCriteria      []string `json:"priority_criteria"`
	DeprioritizedCriteria []string `json:"deprioritized_criteria"`
}

// BehavioralEvolution is the change between consecutive valid parameter
// snapshots.
type BehavioralEvolution struct {
	FromTurn                int     `json:"from_turn"`
	ToTurn                  int     `json:"to_turn"`
	ThresholdDelta          float64 `json:"threshold_delta"`
	PriorityCriteriaChanged int     `json:"priority_criteria_changed"`
}

// Set is the complete per-dialogue measurement bundle. Built once per
// trace load and never mutated afterwards.
type Set struct {
	DialogueID  string  `json:"dialogue_id"`
	ProfileName string  `json:"profile_name"`
	ScenarioID  string  `json:"scenario_id"`
	Score       float64 `json:"score"`

	Mechanism string `json:"mechanism"`
	Condition string `json:"condition"`

	Revisions            []RevisionMeasure        `json:"revisions"`
	Reflections          []ReflectionMeasure      `json:"reflections"`
	Adaptations          []AdaptationMeasure      `json:"adaptations"`
	Profiles             []ProfileMeasure         `json:"profiles"`
	ProfileEvolutions    []ProfileEvolution       `json:"profile_evolutions"`
	Intersubjective      []IntersubjectiveMeasure `json:"intersubjective"`
	BehavioralParams     []BehavioralParams       `json:"behavioral_params"`
	BehavioralEvolutions []BehavioralEvolution    `json:"behavioral_evolutions"`

	// FinalMessage is the last tutor message the dialogue produced; used
	// for between-run variance in the aggregator.
	FinalMessage string `json:"final_message"`
}
