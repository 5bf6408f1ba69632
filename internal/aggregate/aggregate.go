// Package aggregate pools per-dialogue measurement sets into group
// summaries keyed by (mechanism, condition), and selects samples for the
// statistical engine. Groups are recomputed fresh on every pass.
package aggregate

import (
	"math"
	"sort"

	"egolens/internal/measure"
	"egolens/internal/textmetric"
)

// Key identifies one experimental cell. A struct key, not a joined
// string, so labels containing a delimiter can never collide.
type Key struct {
	Mechanism string `json:"mechanism"`
	Condition string `json:"condition"`
}

// Stat is a descriptive summary of one pooled scalar: count, mean, and
// sample standard deviation (n−1 denominator, 0 when n < 2).
type Stat struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	SD    float64 `json:"sd"`
}

// BetweenRun is the mean pairwise final-message dissimilarity within a
// group: a proxy for context-sensitivity versus formulaic output.
type BetweenRun struct {
	PairCount       int     `json:"pair_count"`
	AvgPairwiseDist float64 `json:"avg_pairwise_dist"`
}

// GroupSummary aggregates every dialogue sharing one (mechanism,
// condition) pair. Empty measure categories report Count 0, never error.
type GroupSummary struct {
	Key       Key `json:"key"`
	Dialogues int `json:"dialogues"`

	Score Stat `json:"score"`

	RevisionJaccard Stat `json:"revision_jaccard"`
	RevisionCosine  Stat `json:"revision_cosine"`
	RevisionEdit    Stat `json:"revision_edit"`

	ReflectionSpecificity Stat `json:"reflection_specificity"`
	ReflectionWords       Stat `json:"reflection_words"`

	AdaptationJaccard Stat `json:"adaptation_jaccard"`
	AdaptationCosine  Stat `json:"adaptation_cosine"`
	AdaptationEdit    Stat `json:"adaptation_edit"`

	ProfileWords         Stat `json:"profile_words"`
	ProfileDimensions    Stat `json:"profile_dimensions"`
	ProfileEvolutionEdit Stat `json:"profile_evolution_edit"`

	Disagreement Stat `json:"disagreement"`

	ThresholdDelta  Stat `json:"threshold_delta"`
	CriteriaChanged Stat `json:"criteria_changed"`

	BetweenRun BetweenRun `json:"between_run"`
}

// GroupBy buckets measure sets by (mechanism, condition), flattens each
// group's measure lists, and computes descriptive statistics. Output is
// sorted by mechanism then condition.
func GroupBy(sets []*measure.Set) []GroupSummary {
	groups := make(map[Key][]*measure.Set)
	for _, s := range sets {
		k := Key{Mechanism: s.Mechanism, Condition: s.Condition}
		groups[k] = append(groups[k], s)
	}

	keys := make([]Key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Mechanism != keys[j].Mechanism {
			return keys[i].Mechanism < keys[j].Mechanism
		}
		return keys[i].Condition < keys[j].Condition
	})

	out := make([]GroupSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, summarize(k, groups[k]))
	}
	return out
}

func summarize(k Key, members []*measure.Set) GroupSummary {
	g := GroupSummary{Key: k, Dialogues: len(members)}

	var (
		scores                             []float64
		revJac, revCos, revEdit            []float64
		reflRatio, reflWords               []float64
		adaptJac, adaptCos, adaptEdit      []float64
		profWords, profDims, profEvolution []float64
		disagree                           []float64
		thresholdDeltas, criteriaChanged   []float64
	)

	for _, s := range members {
		scores = append(scores, s.Score)
		for _, r := range s.Revisions {
			revJac = append(revJac, r.JaccardDist)
			revCos = append(revCos, r.CosineDist)
			revEdit = append(revEdit, r.EditDist)
		}
		for _, r := range s.Reflections {
			reflRatio = append(reflRatio, r.SpecificityRatio)
			reflWords = append(reflWords, float64(r.WordCount))
		}
		for _, a := range s.Adaptations {
			adaptJac = append(adaptJac, a.JaccardDist)
			adaptCos = append(adaptCos, a.CosineDist)
			adaptEdit = append(adaptEdit, a.EditDist)
		}
		for _, p := range s.Profiles {
			profWords = append(profWords, float64(p.WordCount))
			profDims = append(profDims, float64(p.Dimensions))
		}
		for _, e := range s.ProfileEvolutions {
			profEvolution = append(profEvolution, e.EditDist)
		}
		for _, im := range s.Intersubjective {
			disagree = append(disagree, im.DisagreementRatio)
		}
		for _, be := range s.BehavioralEvolutions {
			thresholdDeltas = append(thresholdDeltas, be.ThresholdDelta)
			criteriaChanged = append(criteriaChanged, float64(be.PriorityCriteriaChanged))
		}
	}

	g.Score = describe(scores)
	g.RevisionJaccard = describe(revJac)
	g.RevisionCosine = describe(revCos)
	g.RevisionEdit = describe(revEdit)
	g.ReflectionSpecificity = describe(reflRatio)
	g.ReflectionWords = describe(reflWords)
	g.AdaptationJaccard = describe(adaptJac)
	g.AdaptationCosine = describe(adaptCos)
	g.AdaptationEdit = describe(adaptEdit)
	g.ProfileWords = describe(profWords)
	g.ProfileDimensions = describe(profDims)
	g.ProfileEvolutionEdit = describe(profEvolution)
	g.Disagreement = describe(disagree)
	g.ThresholdDelta = describe(thresholdDeltas)
	g.CriteriaChanged = describe(criteriaChanged)
	g.BetweenRun = betweenRunVariance(members)

	return g
}

// betweenRunVariance averages 1 − cosineSimilarity over every unordered
// pair of dialogues with nonempty final messages. Complete graph, no
// sampling: O(n²) in group size is an accepted batch cost.
func betweenRunVariance(members []*measure.Set) BetweenRun {
	var msgs []string
	for _, s := range members {
		if s.FinalMessage != "" {
			msgs = append(msgs, s.FinalMessage)
		}
	}

	var br BetweenRun
	total := 0.0
	for i := 0; i < len(msgs); i++ {
		for j := i + 1; j < len(msgs); j++ {
			total += 1 - textmetric.CosineSimilarity(msgs[i], msgs[j])
			br.PairCount++
		}
	}
	if br.PairCount > 0 {
		br.AvgPairwiseDist = total / float64(br.PairCount)
	}
	return br
}

// describe computes count, mean, and sample standard deviation.
func describe(vals []float64) Stat {
	st := Stat{Count: len(vals)}
	if len(vals) == 0 {
		return st
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	st.Mean = sum / float64(len(vals))

	if len(vals) < 2 {
		return st
	}
	ss := 0.0
	for _, v := range vals {
		ss += (v - st.Mean) * (v - st.Mean)
	}
	st.SD = math.Sqrt(ss / float64(len(vals)-1))
	return st
}
