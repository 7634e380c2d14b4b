package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSummaryResponse(t *testing.T) {
	raw := `SUMMARY: The report covers quarterly performance
and forecasts for next year.

KEY_POINTS:
- Revenue grew 12%
- Costs stayed flat
- New markets opened in Asia

THEMES: growth, expansion, efficiency`

	parsed := parseSummaryResponse(raw)

	assert.Equal(t, "The report covers quarterly performance and forecasts for next year.", parsed.Summary)
	assert.Equal(t, []string{"Revenue grew 12%", "Costs stayed flat", "New markets opened in Asia"}, parsed.KeyPoints)
	assert.Equal(t, []string{"growth", "expansion", "efficiency"}, parsed.Themes)
}

func TestParseSummaryResponseMissingSections(t *testing.T) {
	parsed := parseSummaryResponse("The model ignored the requested format entirely.")

	assert.Empty(t, parsed.Summary)
	assert.Empty(t, parsed.KeyPoints)
	assert.Empty(t, parsed.Themes)
}

func TestParseSummaryResponseDashOutsideKeyPoints(t *testing.T) {
	raw := `- stray item
SUMMARY: Short summary.
KEY_POINTS:
- real item`

	parsed := parseSummaryResponse(raw)

	assert.Equal(t, "Short summary.", parsed.Summary)
	assert.Equal(t, []string{"real item"}, parsed.KeyPoints)
}

func TestParseComparisonResponse(t *testing.T) {
	raw := `SIMILARITIES:
- Both discuss revenue
- Both cover 2025

DIFFERENCES:
- One focuses on Europe

COMMON_THEMES: finance, planning`

	parsed := parseComparisonResponse(raw)

	assert.Equal(t, []string{"Both discuss revenue", "Both cover 2025"}, parsed.Similarities)
	assert.Equal(t, []string{"One focuses on Europe"}, parsed.Differences)
	assert.Equal(t, []string{"finance", "planning"}, parsed.CommonThemes)
}

func TestParseComparisonResponseEmpty(t *testing.T) {
	parsed := parseComparisonResponse("no structure at all")

	assert.Empty(t, parsed.Similarities)
	assert.Empty(t, parsed.Differences)
	assert.Empty(t, parsed.CommonThemes)
}

func TestSplitCommaList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitCommaList(" a, b ,c "))
	assert.Nil(t, splitCommaList("  ,  ,"))
}

func TestExcerptTruncates(t *testing.T) {
	short := "short content"
	assert.Equal(t, short, excerpt(short))

	long := make([]byte, 0, excerptLimit*2)
	for len(long) < excerptLimit*2 {
		long = append(long, 'x')
	}
	got := excerpt(string(long))
	assert.LessOrEqual(t, len(got), excerptLimit+3)
	assert.True(t, len(got) > 3 && got[len(got)-3:] == "...")
}
