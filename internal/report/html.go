package report

import (
	"fmt"
	"html/template"
	"strings"

	"egolens/internal/aggregate"
	"egolens/internal/analyze"
	"egolens/internal/classify"
)

const (
	chartBarWidth  = 42
	chartBarGap    = 14
	chartHeight    = 160
	topTokensLimit = 15
)

type htmlBar struct {
	Label  string
	X      int
	Y      int
	Height int
	Value  string
}

type htmlGroup struct {
	Mechanism string
	Condition string
	Dialogues int
	Score     string
	RevEdit   string
	ReflSpec  string
	AdaptEdit string
	Disagree  string
	BtwRun    string
}

type htmlTokens struct {
	Condition string
	Tokens    []aggregate.WordFreq
}

type htmlView struct {
	AnalysisID  string
	EvalRunID   string
	GeneratedAt string
	Dialogues   int
	Skipped     int
	Groups      []htmlGroup
	Bars        []htmlBar
	ChartWidth  int
	ChartHeight int
	Tokens      []htmlTokens
}

// RenderHTML produces a self-contained HTML page: the group summary
// table, an SVG bar chart of between-run final-message variance per
// group, and the top final-message tokens per condition.
func RenderHTML(r *analyze.Report) (string, error) {
	view := htmlView{
		AnalysisID:  r.AnalysisID,
		EvalRunID:   r.EvalRunID,
		GeneratedAt: r.GeneratedAt,
		Dialogues:   r.Dialogues,
		Skipped:     r.Skipped,
		ChartHeight: chartHeight + 40,
	}

	maxDist := 0.0
	for _, g := range r.Groups {
		if g.BetweenRun.AvgPairwiseDist > maxDist {
			maxDist = g.BetweenRun.AvgPairwiseDist
		}
	}
	if maxDist == 0 {
		maxDist = 1
	}

	for i, g := range r.Groups {
		view.Groups = append(view.Groups, htmlGroup{
			Mechanism: g.Key.Mechanism,
			Condition: g.Key.Condition,
			Dialogues: g.Dialogues,
			Score:     fmtStat(g.Score),
			RevEdit:   fmtStat(g.RevisionEdit),
			ReflSpec:  fmtStat(g.ReflectionSpecificity),
			AdaptEdit: fmtStat(g.AdaptationEdit),
			Disagree:  fmtStat(g.Disagreement),
			BtwRun:    fmt.Sprintf("%.3f", g.BetweenRun.AvgPairwiseDist),
		})

		h := int(g.BetweenRun.AvgPairwiseDist / maxDist * chartHeight)
		view.Bars = append(view.Bars, htmlBar{
			Label:  g.Key.Mechanism + "/" + g.Key.Condition,
			X:      i * (chartBarWidth + chartBarGap),
			Y:      chartHeight - h,
			Height: h,
			Value:  fmt.Sprintf("%.3f", g.BetweenRun.AvgPairwiseDist),
		})
	}
	view.ChartWidth = len(r.Groups)*(chartBarWidth+chartBarGap) + chartBarGap

	for _, cond := range []string{classify.ConditionBase, classify.ConditionRecognition} {
		if tokens := aggregate.TokenFrequencies(r.Sets, cond, topTokensLimit); len(tokens) > 0 {
			view.Tokens = append(view.Tokens, htmlTokens{Condition: cond, Tokens: tokens})
		}
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}
	return b.String(), nil
}

func fmtStat(st aggregate.Stat) string {
	if st.Count == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f ± %.3f", st.Mean, st.SD)
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Egolens Analysis {{.EvalRunID}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 64rem; color: #1b1b1b; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.35rem 0.6rem; font-size: 0.85rem; }
th { background: #f2f2f2; text-align: left; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
.meta { color: #666; font-size: 0.85rem; }
.bar { fill: #4a7ebb; }
.bar-label { font-size: 10px; }
.tokens li { font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Egolens Analysis Report</h1>
<p class="meta">Analysis {{.AnalysisID}} · run {{.EvalRunID}} · generated {{.GeneratedAt}}<br>
{{.Dialogues}} dialogues analyzed, {{.Skipped}} skipped</p>

<h2>Group summaries</h2>
<table id="groups">
<tr><th>Mechanism</th><th>Condition</th><th>N</th><th>Score</th><th>Rev edit</th><th>Refl spec</th><th>Adapt edit</th><th>Disagree</th><th>Btw-run</th></tr>
{{range .Groups}}
<tr><td>{{.Mechanism}}</td><td>{{.Condition}}</td><td class="num">{{.Dialogues}}</td><td class="num">{{.Score}}</td><td class="num">{{.RevEdit}}</td><td class="num">{{.ReflSpec}}</td><td class="num">{{.AdaptEdit}}</td><td class="num">{{.Disagree}}</td><td class="num">{{.BtwRun}}</td></tr>
{{end}}
</table>

<h2>Between-run final-message variance</h2>
<svg id="variance-chart" width="{{.ChartWidth}}" height="{{.ChartHeight}}" role="img">
{{range .Bars}}
<g>
<rect class="bar" x="{{.X}}" y="{{.Y}}" width="42" height="{{.Height}}"></rect>
<text class="bar-label" x="{{.X}}" y="178">{{.Label}}</text>
<text class="bar-label" x="{{.X}}" y="192">{{.Value}}</text>
</g>
{{end}}
</svg>

{{if .Tokens}}
<h2>Top final-message tokens</h2>
{{range .Tokens}}
<h3>{{.Condition}}</h3>
<ul class="tokens">
{{range .Tokens}}<li>{{.Token}} ({{.Count}})</li>
{{end}}</ul>
{{end}}
{{end}}
</body>
</html>
`))
