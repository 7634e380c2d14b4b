package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// caps on text submitted to the completion service, to stay inside
	// downstream token limits
	summaryInputLimit = 8000
	compareInputLimit = 3000

	excerptLimit = 200

	noRelevantInfoAnswer = "I couldn't find relevant information in the uploaded documents to answer your question."
)

func buildAnswerPrompt(question, context string) string {
	return fmt.Sprintf(`Context: %s

Question: %s

Please provide a comprehensive answer based on the context provided.
If the context doesn't contain relevant information, say so clearly.`, context, question)
}

func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(`Please analyze the following document and provide:
1. A concise summary (max 500 words)
2. 5-7 key points from the document
3. Main themes or topics covered

Document text:
%s

Format your response as:
SUMMARY: [your summary here]
KEY_POINTS:
- [point 1]
- [point 2]
- [etc.]
THEMES: [main themes separated by commas]`, truncate(text, summaryInputLimit))
}

func buildComparePrompt(names, contents []string) string {
	var docs strings.Builder
	for i, content := range contents {
		fmt.Fprintf(&docs, "Document %d (%s): %s\n", i+1, names[i], truncate(content, compareInputLimit))
	}

	return fmt.Sprintf(`Compare the following documents and identify:
1. Key similarities between them
2. Major differences
3. Common themes or topics
4. Unique aspects of each document

Documents:
%s
Format your response as:
SIMILARITIES:
- [similarity 1]
- [similarity 2]

DIFFERENCES:
- [difference 1]
- [difference 2]

COMMON_THEMES: [themes separated by commas]`, docs.String())
}

// excerpt caps content for source attributions; anything beyond the cap is
// ellipsized rather than silently cut.
func excerpt(content string) string {
	if len(content) <= excerptLimit {
		return content
	}
	return truncate(content, excerptLimit) + "..."
}

// truncate cuts s at n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
