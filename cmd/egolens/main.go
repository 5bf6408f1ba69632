// egolens is the analysis CLI for logged tutor/learner dialogue traces:
// it joins evaluation results with dialogue logs, extracts behavioral
// measures, and reports per-group and factorial statistics.
//
// Usage:
//
//	egolens analyze --logs <dir> [--run <id>] [--db <path>]
//	egolens compare --logs <dir> --mechanisms baseline,combined --metric score
//	egolens report --logs <dir> -o report.html
//	egolens serve
package main
