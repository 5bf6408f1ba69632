package analyze

import (
	"egolens/internal/aggregate"
	"egolens/internal/measure"
	"egolens/internal/stats"
)

// Comparison is a 2×2 factorial decomposition of one metric: factor A
// contrasts two mechanisms, factor B the base/recognition condition.
type Comparison struct {
	Metric     string                `json:"metric"`
	Mechanism0 string                `json:"mechanism0"`
	Mechanism1 string                `json:"mechanism1"`
	Cells      stats.Cells           `json:"cells"`
	Factorial  stats.FactorialResult `json:"factorial"`

	// DMechanism and DCondition are Cohen's d for each factor with the
	// other factor's levels pooled.
	DMechanism float64 `json:"d_mechanism"`
	DCondition float64 `json:"d_condition"`
}

// Compare runs the factorial decomposition for one metric over the
// given measure sets. Errors from cell selection (unknown metric,
// incomplete design) pass through untouched.
func Compare(sets []*measure.Set, mechanism0, mechanism1, metric string) (*Comparison, error) {
	cells, err := aggregate.CellSamples(sets, mechanism0, mechanism1, metric)
	if err != nil {
		return nil, err
	}

	a0 := append(append([]float64{}, cells.A0B0...), cells.A0B1...)
	a1 := append(append([]float64{}, cells.A1B0...), cells.A1B1...)
	b0 := append(append([]float64{}, cells.A0B0...), cells.A1B0...)
	b1 := append(append([]float64{}, cells.A0B1...), cells.A1B1...)

	return &Comparison{
		Metric:     metric,
		Mechanism0: mechanism0,
		Mechanism1: mechanism1,
		Cells:      cells,
		Factorial:  stats.FTest2x2(cells),
		DMechanism: stats.CohensD(a0, a1),
		DCondition: stats.CohensD(b0, b1),
	}, nil
}
