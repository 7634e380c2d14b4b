package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

// DOCX is a zip container; the text lives in word/document.xml. The tag names
// below match local names only, so the w: namespace prefix is irrelevant.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

func (p docxParagraph) text() string {
	var b strings.Builder
	for _, run := range p.Runs {
		for _, t := range run.Texts {
			b.WriteString(t)
		}
	}
	return b.String()
}

// extractDOCX joins non-empty paragraphs with newlines, followed by one line
// per table row with space-joined cell text.
func (e *Extractor) extractDOCX(data []byte, filename string) (string, entity.ExtractionMetadata) {
	doc, err := parseDOCX(data)
	if err != nil {
		e.log.Error("failed to read DOCX", "filename", filename, "error", err)
		return "", entity.ExtractionMetadata{}
	}

	var b strings.Builder
	paragraphCount := 0
	for _, p := range doc.Body.Paragraphs {
		if text := strings.TrimSpace(p.text()); text != "" {
			b.WriteString(p.text())
			b.WriteString("\n")
			paragraphCount++
		}
	}

	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			for _, cell := range row.Cells {
				var cellText strings.Builder
				for _, p := range cell.Paragraphs {
					cellText.WriteString(p.text())
					cellText.WriteString(" ")
				}
				if text := strings.TrimSpace(cellText.String()); text != "" {
					b.WriteString(text)
					b.WriteString(" ")
				}
			}
			b.WriteString("\n")
		}
	}

	text := b.String()
	return text, entity.ExtractionMetadata{
		ParagraphCount: paragraphCount,
		TableCount:     len(doc.Body.Tables),
		WordCount:      len(strings.Fields(text)),
	}
}

func parseDOCX(data []byte) (*docxDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		raw, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		var doc docxDocument
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}
	return nil, errMissingDocumentXML
}

var errMissingDocumentXML = xml.UnmarshalError("docx archive has no word/document.xml")
