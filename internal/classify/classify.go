// Package classify maps opaque profile labels to an experimental cell:
// a mechanism tag and a binary condition tag. Rules are an explicit
// ranked list; more specific compound tags sit above the general tags
// whose substrings they contain, and a test guards the ordering.
package classify

import "strings"

// Mechanism tags.
const (
	MechanismCombined        = "combined"
	MechanismIntersubjective = "intersubjective"
	MechanismSelfReflection  = "self_reflection"
	MechanismErosion         = "erosion"
	MechanismBehavioral      = "behavioral"
	MechanismBaseline        = "baseline"
	MechanismUnknown         = "unknown"
)

// Condition tags. Recognition is the positive level of the binary
// factor; Base is the default when the marker token is absent.
const (
	ConditionRecognition = "recognition"
	ConditionBase        = "base"
)

// conditionMarker is the substring that flags the recognition condition
// in a profile label (the original labels spell it "recog").
const conditionMarker = "recog"

// Rule is one ranked (substring, tag) pair. First match wins.
type Rule struct {
	Substring string
	Tag       string
}

// MechanismRules is the ranked rule list. Order is load-bearing:
// "combined" labels also contain mechanism substrings of their parts, so
// the compound tag must be tested first. Keep compound/specific entries
// above anything whose substring they could co-occur with.
var MechanismRules = []Rule{
	{"combined", MechanismCombined},
	{"full-stack", MechanismCombined},
	{"intersubjective", MechanismIntersubjective},
	{"critique", MechanismIntersubjective},
	{"self-reflect", MechanismSelfReflection},
	{"self_reflect", MechanismSelfReflection},
	{"reflect", MechanismSelfReflection},
	{"erosion", MechanismErosion},
	{"behavioral", MechanismBehavioral},
	{"override", MechanismBehavioral},
	{"baseline", MechanismBaseline},
	{"base-", MechanismBaseline},
}

// Mechanism returns the tag of the first rule whose substring occurs in
// the lowercased label, or "unknown".
func Mechanism(label string) string {
	l := strings.ToLower(label)
	for _, r := range MechanismRules {
		if strings.Contains(l, r.Substring) {
			return r.Tag
		}
	}
	return MechanismUnknown
}

// MatchingTags returns the distinct tags of every rule that matches the
// label, in rule order. Used by the ambiguity check: a label matching
// two rules with different tags is only acceptable when the earlier rule
// is the deliberately more specific one.
func MatchingTags(label string) []string {
	l := strings.ToLower(label)
	var tags []string
	seen := make(map[string]struct{})
	for _, r := range MechanismRules {
		if !strings.Contains(l, r.Substring) {
			continue
		}
		if _, ok := seen[r.Tag]; ok {
			continue
		}
		seen[r.Tag] = struct{}{}
		tags = append(tags, r.Tag)
	}
	return tags
}

// Condition returns the recognition tag when the marker token occurs in
// the lowercased label, otherwise the base tag.
func Condition(label string) string {
	if strings.Contains(strings.ToLower(label), conditionMarker) {
		return ConditionRecognition
	}
	return ConditionBase
}
