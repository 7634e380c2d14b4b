package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/pkg/logger"
)

// Extractor turns raw file bytes into plain text plus per-format metadata,
// dispatching on the file extension. Read failures inside a supported format
// yield empty text rather than an error; ingestion fails upstream when the
// text comes back empty.
type Extractor struct {
	log *logger.Logger
}

func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{log: log.With("component", "extractor")}
}

func (e *Extractor) Extract(data []byte, filename string) (string, entity.ExtractionMetadata, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, meta := e.extractPDF(data, filename)
		return text, meta, nil
	case ".docx":
		text, meta := e.extractDOCX(data, filename)
		return text, meta, nil
	case ".txt", ".md":
		text, meta := e.extractText(data)
		return text, meta, nil
	default:
		return "", entity.ExtractionMetadata{}, fmt.Errorf("%w: %s", entity.ErrUnsupportedFileType, filename)
	}
}

// extractPDF concatenates per-page text with page-boundary markers.
func (e *Extractor) extractPDF(data []byte, filename string) (string, entity.ExtractionMetadata) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.log.Error("failed to read PDF", "filename", filename, "error", err)
		return "", entity.ExtractionMetadata{}
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Warn("failed to read PDF page", "filename", filename, "page", i, "error", err)
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", i, pageText)
	}

	text := b.String()
	return text, entity.ExtractionMetadata{
		PageCount: numPages,
		WordCount: len(strings.Fields(text)),
	}
}

// extractText reads UTF-8, falling back to Latin-1 when the bytes do not
// decode cleanly.
func (e *Extractor) extractText(data []byte) (string, entity.ExtractionMetadata) {
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		text = string(runes)
	}

	return text, entity.ExtractionMetadata{
		LineCount: len(strings.Split(text, "\n")),
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}
}
