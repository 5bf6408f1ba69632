package measure

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed markers.yaml
var defaultMarkersYAML []byte

// markerData is the on-disk shape of a marker table file.
type markerData struct {
	Version      int      `yaml:"version"`
	Specific     []string `yaml:"specific"`
	Generic      []string `yaml:"generic"`
	Agreement    []string `yaml:"agreement"`
	Disagreement []string `yaml:"disagreement"`
	Profile      struct {
		Dimension  string `yaml:"dimension"`
		Prediction string `yaml:"prediction"`
		Confidence string `yaml:"confidence"`
		Revision   string `yaml:"revision"`
	} `yaml:"profile"`
}

// Markers holds the compiled marker pattern families used by the
// reflection, intersubjective, and profile extractors. The families are
// tunable vocabulary, not logic: revise markers.yaml, not the extractors.
type Markers struct {
	Version      int
	Specific     []*regexp.Regexp
	Generic      []*regexp.Regexp
	Agreement    []*regexp.Regexp
	Disagreement []*regexp.Regexp

	Dimension  *regexp.Regexp
	Prediction *regexp.Regexp
	Confidence *regexp.Regexp
	Revision   *regexp.Regexp
}

// DefaultMarkers compiles the embedded marker tables. Panics on a broken
// embedded file since that is a build defect, not a data error.
func DefaultMarkers() *Markers {
	m, err := parseMarkers(defaultMarkersYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded markers.yaml: %v", err))
	}
	return m
}

// LoadMarkers reads a marker table override from disk.
func LoadMarkers(path string) (*Markers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markers: %w", err)
	}
	m, err := parseMarkers(data)
	if err != nil {
		return nil, fmt.Errorf("parse markers %s: %w", path, err)
	}
	return m, nil
}

func parseMarkers(data []byte) (*Markers, error) {
	var md markerData
	if err := yaml.Unmarshal(data, &md); err != nil {
		return nil, err
	}

	m := &Markers{Version: md.Version}
	var err error
	if m.Specific, err = compileFamily(md.Specific); err != nil {
		return nil, fmt.Errorf("specific: %w", err)
	}
	if m.Generic, err = compileFamily(md.Generic); err != nil {
		return nil, fmt.Errorf("generic: %w", err)
	}
	if m.Agreement, err = compileFamily(md.Agreement); err != nil {
		return nil, fmt.Errorf("agreement: %w", err)
	}
	if m.Disagreement, err = compileFamily(md.Disagreement); err != nil {
		return nil, fmt.Errorf("disagreement: %w", err)
	}
	if m.Dimension, err = regexp.Compile("(?i)" + md.Profile.Dimension); err != nil {
		return nil, fmt.Errorf("profile.dimension: %w", err)
	}
	if m.Prediction, err = regexp.Compile("(?i)" + md.Profile.Prediction); err != nil {
		return nil, fmt.Errorf("profile.prediction: %w", err)
	}
	if m.Confidence, err = regexp.Compile("(?i)" + md.Profile.Confidence); err != nil {
		return nil, fmt.Errorf("profile.confidence: %w", err)
	}
	if m.Revision, err = regexp.Compile("(?i)" + md.Profile.Revision); err != nil {
		return nil, fmt.Errorf("profile.revision: %w", err)
	}
	return m, nil
}

func compileFamily(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// countFamily sums occurrences of every pattern in a family.
func countFamily(family []*regexp.Regexp, text string) int {
	total := 0
	for _, re := range family {
		total += len(re.FindAllStringIndex(text, -1))
	}
	return total
}
