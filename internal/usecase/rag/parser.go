package rag

import "strings"

// The completion service is asked for labeled sections but its output is
// free-form, so parsing is a best-effort line scan: a labeled line switches
// the current section, dash lines collect list items, anything unrecognized
// outside a capturing section is ignored. Missing sections degrade to empty.

type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionKeyPoints
	sectionThemes
	sectionSimilarities
	sectionDifferences
)

type summaryResult struct {
	Summary   string
	KeyPoints []string
	Themes    []string
}

func parseSummaryResponse(raw string) summaryResult {
	var out summaryResult
	current := sectionNone

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			out.Summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
			current = sectionSummary
		case strings.HasPrefix(line, "KEY_POINTS:"):
			current = sectionKeyPoints
		case strings.HasPrefix(line, "THEMES:"):
			out.Themes = splitCommaList(strings.TrimPrefix(line, "THEMES:"))
			current = sectionThemes
		case strings.HasPrefix(line, "- ") && current == sectionKeyPoints:
			out.KeyPoints = append(out.KeyPoints, strings.TrimPrefix(line, "- "))
		case current == sectionSummary && line != "":
			// continuation lines append to the summary
			out.Summary = strings.TrimSpace(out.Summary + " " + line)
		}
	}
	return out
}

type comparisonResult struct {
	Similarities []string
	Differences  []string
	CommonThemes []string
}

func parseComparisonResponse(raw string) comparisonResult {
	var out comparisonResult
	current := sectionNone

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SIMILARITIES:"):
			current = sectionSimilarities
		case strings.HasPrefix(line, "DIFFERENCES:"):
			current = sectionDifferences
		case strings.HasPrefix(line, "COMMON_THEMES:"):
			out.CommonThemes = splitCommaList(strings.TrimPrefix(line, "COMMON_THEMES:"))
			current = sectionNone
		case strings.HasPrefix(line, "- "):
			item := strings.TrimPrefix(line, "- ")
			switch current {
			case sectionSimilarities:
				out.Similarities = append(out.Similarities, item)
			case sectionDifferences:
				out.Differences = append(out.Differences, item)
			}
		}
	}
	return out
}

func splitCommaList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
