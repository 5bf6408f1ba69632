package classify

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMechanism(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"tutor-combined-recog-v2", MechanismCombined},
		{"combined_reflect_critique", MechanismCombined}, // compound wins over its parts
		{"tutor-self-reflect-base", MechanismSelfReflection},
		{"self_reflection_recog", MechanismSelfReflection},
		{"deep-reflect-v1", MechanismSelfReflection},
		{"intersubjective-critique-recog", MechanismIntersubjective},
		{"superego-critique-base", MechanismIntersubjective},
		{"erosion-recovery-v3", MechanismErosion},
		{"behavioral-override-recog", MechanismBehavioral},
		{"baseline-haiku", MechanismBaseline},
		{"base-v1-scripted", MechanismBaseline},
		{"something-else-entirely", MechanismUnknown},
		{"", MechanismUnknown},
		{"COMBINED-RECOG", MechanismCombined}, // case-insensitive
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Mechanism(tt.label); got != tt.want {
				t.Errorf("Mechanism(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestCondition(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"combined-recog-v2", ConditionRecognition},
		{"combined-recognition", ConditionRecognition},
		{"combined-base-v2", ConditionBase},
		{"baseline", ConditionBase},
		{"", ConditionBase},
		{"RECOG-upper", ConditionRecognition},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Condition(tt.label); got != tt.want {
				t.Errorf("Condition(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

// TestRuleOrderingUnambiguous fails when a rule whose substring contains
// another rule's substring (the more specific pattern) is listed after
// it with a different tag. That ordering would make the general rule
// shadow the specific one for every label matching both.
func TestRuleOrderingUnambiguous(t *testing.T) {
	for i, general := range MechanismRules {
		for j := i + 1; j < len(MechanismRules); j++ {
			specific := MechanismRules[j]
			if specific.Tag == general.Tag {
				continue
			}
			if strings.Contains(specific.Substring, general.Substring) {
				t.Errorf("rule %q (tag %s) is shadowed by earlier general rule %q (tag %s); move it up",
					specific.Substring, specific.Tag, general.Substring, general.Tag)
			}
		}
	}
}

// TestCompoundLabelsResolveToFirstTag documents that multi-mechanism
// labels are legal and resolve by rank, with the compound tag first.
func TestCompoundLabelsResolveToFirstTag(t *testing.T) {
	tags := MatchingTags("combined-reflect-critique-recog")
	want := []string{MechanismCombined, MechanismIntersubjective, MechanismSelfReflection}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("MatchingTags mismatch (-want +got):\n%s", diff)
	}
	if got := Mechanism("combined-reflect-critique-recog"); got != MechanismCombined {
		t.Errorf("compound label resolved to %q, want %q", got, MechanismCombined)
	}
}
