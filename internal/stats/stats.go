// Package stats implements the 2×2 factorial decomposition and effect
// sizes used to compare experimental cells. Everything here is a point
// estimate for manual interpretation: no p-values, no intervals.
package stats

import (
	"encoding/json"
	"math"
)

// Cells holds the four samples of a 2×2 design, indexed by the two
// binary factor levels. A00 is (A=0, B=0), A01 is (A=0, B=1), and so on.
type Cells struct {
	A0B0 []float64
	A0B1 []float64
	A1B0 []float64
	A1B1 []float64
}

// Complete reports whether every cell has at least one observation.
// FTest2x2 on an incomplete design produces NaNs by contract; callers
// must guard with this.
func (c *Cells) Complete() bool {
	return len(c.A0B0) > 0 && len(c.A0B1) > 0 && len(c.A1B0) > 0 && len(c.A1B1) > 0
}

// EffectResult is one main effect's decomposition.
type EffectResult struct {
	SumSquares float64 `json:"sum_squares"`
	F          float64 `json:"f"`
}

// FactorialResult is the full 2×2 decomposition.
type FactorialResult struct {
	GrandMean float64 `json:"grand_mean"`

	// Cell means indexed [a][b].
	CellMeans [2][2]float64 `json:"cell_means"`
	CellNs    [2][2]int     `json:"cell_ns"`

	// Marginal means per factor level, averaging over the other factor.
	MarginalA [2]float64 `json:"marginal_a"`
	MarginalB [2]float64 `json:"marginal_b"`

	MainA EffectResult `json:"main_a"`
	MainB EffectResult `json:"main_b"`

	// Interaction is the simple difference-of-differences of cell means:
	// (cell(1,1)−cell(1,0)) − (cell(0,1)−cell(0,0)). A magnitude, not an
	// F statistic.
	Interaction float64 `json:"interaction"`

	SSWithin float64 `json:"ss_within"`
	DFWithin int     `json:"df_within"`
}

// FTest2x2 decomposes the four cells into main-effect sums of squares,
// F-ratios, and the interaction magnitude. Precondition: all four cells
// non-empty; an empty cell makes the marginal and grand means undefined
// and the result carries NaNs rather than a silently substituted value.
func FTest2x2(c Cells) FactorialResult {
	samples := [2][2][]float64{
		{c.A0B0, c.A0B1},
		{c.A1B0, c.A1B1},
	}

	var r FactorialResult
	total := 0.0
	n := 0
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			r.CellMeans[a][b] = mean(samples[a][b])
			r.CellNs[a][b] = len(samples[a][b])
			total += sum(samples[a][b])
			n += len(samples[a][b])
		}
	}
	r.GrandMean = total / float64(n)

	// Marginal means pool the observations of the two cells at each level.
	for a := 0; a < 2; a++ {
		r.MarginalA[a] = (sum(samples[a][0]) + sum(samples[a][1])) /
			float64(len(samples[a][0])+len(samples[a][1]))
	}
	for b := 0; b < 2; b++ {
		r.MarginalB[b] = (sum(samples[0][b]) + sum(samples[1][b])) /
			float64(len(samples[0][b])+len(samples[1][b]))
	}

	// Main-effect sums of squares: Σ n_level · (marginal − grand)².
	for a := 0; a < 2; a++ {
		nA := len(samples[a][0]) + len(samples[a][1])
		d := r.MarginalA[a] - r.GrandMean
		r.MainA.SumSquares += float64(nA) * d * d
	}
	for b := 0; b < 2; b++ {
		nB := len(samples[0][b]) + len(samples[1][b])
		d := r.MarginalB[b] - r.GrandMean
		r.MainB.SumSquares += float64(nB) * d * d
	}

	r.Interaction = (r.CellMeans[1][1] - r.CellMeans[1][0]) -
		(r.CellMeans[0][1] - r.CellMeans[0][0])

	// Within-group SS: pooled squared deviations from each cell's own mean.
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			m := r.CellMeans[a][b]
			for _, v := range samples[a][b] {
				r.SSWithin += (v - m) * (v - m)
			}
		}
	}
	r.DFWithin = n - 4

	msWithin := math.NaN()
	if r.DFWithin > 0 {
		msWithin = r.SSWithin / float64(r.DFWithin)
	}
	r.MainA.F = (r.MainA.SumSquares / 1) / msWithin
	r.MainB.F = (r.MainB.SumSquares / 1) / msWithin

	return r
}

// JSON has no representation for NaN or Inf, so undefined statistics
// (empty cells, zero within-group df, zero within-group variance)
// marshal as null instead of failing the whole encode. The in-memory
// values keep the NaN contract; only the wire form differs.
func (e EffectResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SumSquares *float64 `json:"sum_squares"`
		F          *float64 `json:"f"`
	}{finiteOrNil(e.SumSquares), finiteOrNil(e.F)})
}

func (r FactorialResult) MarshalJSON() ([]byte, error) {
	var cells [2][2]*float64
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			cells[a][b] = finiteOrNil(r.CellMeans[a][b])
		}
	}
	return json.Marshal(struct {
		GrandMean   *float64       `json:"grand_mean"`
		CellMeans   [2][2]*float64 `json:"cell_means"`
		CellNs      [2][2]int      `json:"cell_ns"`
		MarginalA   [2]*float64    `json:"marginal_a"`
		MarginalB   [2]*float64    `json:"marginal_b"`
		MainA       EffectResult   `json:"main_a"`
		MainB       EffectResult   `json:"main_b"`
		Interaction *float64       `json:"interaction"`
		SSWithin    float64        `json:"ss_within"`
		DFWithin    int            `json:"df_within"`
	}{
		GrandMean:   finiteOrNil(r.GrandMean),
		CellMeans:   cells,
		CellNs:      r.CellNs,
		MarginalA:   [2]*float64{finiteOrNil(r.MarginalA[0]), finiteOrNil(r.MarginalA[1])},
		MarginalB:   [2]*float64{finiteOrNil(r.MarginalB[0]), finiteOrNil(r.MarginalB[1])},
		MainA:       r.MainA,
		MainB:       r.MainB,
		Interaction: finiteOrNil(r.Interaction),
		SSWithin:    r.SSWithin,
		DFWithin:    r.DFWithin,
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// CohensD returns the standardized difference of means between two
// groups, pooling standard deviations weighted by (n−1). Zero pooled
// deviation (including degenerate tiny groups) returns 0.
func CohensD(groupA, groupB []float64) float64 {
	na, nb := len(groupA), len(groupB)
	if na == 0 || nb == 0 {
		return 0
	}

	ma, mb := mean(groupA), mean(groupB)
	var ssa, ssb float64
	for _, v := range groupA {
		ssa += (v - ma) * (v - ma)
	}
	for _, v := range groupB {
		ssb += (v - mb) * (v - mb)
	}

	denomDF := float64(na + nb - 2)
	if denomDF <= 0 {
		return 0
	}
	pooled := math.Sqrt((ssa + ssb) / denomDF)
	if pooled == 0 {
		return 0
	}
	return (ma - mb) / pooled
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return sum(vals) / float64(len(vals))
}

func sum(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s
}
