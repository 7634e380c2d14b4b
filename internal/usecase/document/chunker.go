package document

import (
	"strings"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

// sentenceLookback is how far back from the window end the chunker searches
// for a sentence boundary before cutting.
const sentenceLookback = 100

var sentenceTerminators = []string{".", "!", "?", "\n\n"}

type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a new chunker
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// ChunkText splits text into overlapping, offset-tracked chunks. Cuts snap to
// the right-most sentence terminator inside the lookback window so chunks
// keep whole sentences where possible. Indices are 0-based and contiguous;
// every chunk carries the final total chunk count.
func (c *Chunker) ChunkText(text, filename string) []entity.Chunk {
	textLength := len(text)
	if textLength == 0 {
		return nil
	}

	if textLength <= c.chunkSize {
		content := strings.TrimSpace(text)
		if content == "" {
			return nil
		}
		return []entity.Chunk{{
			Content:     content,
			Index:       0,
			StartChar:   0,
			EndChar:     textLength,
			Filename:    filename,
			TotalChunks: 1,
		}}
	}

	var chunks []entity.Chunk
	start := 0
	index := 0

	for start < textLength {
		end := start + c.chunkSize
		if end > textLength {
			end = textLength
		}

		// snap the cut to a sentence boundary
		if end < textLength {
			searchStart := end - sentenceLookback
			if searchStart < start {
				searchStart = start
			}
			best := -1
			for _, term := range sentenceTerminators {
				if pos := strings.LastIndex(text[searchStart:end], term); pos >= 0 && searchStart+pos > best {
					best = searchStart + pos
				}
			}
			if best > start {
				end = best + 1
			}
		}

		if content := strings.TrimSpace(text[start:end]); content != "" {
			chunks = append(chunks, entity.Chunk{
				Content:   content,
				Index:     index,
				StartChar: start,
				EndChar:   end,
				Filename:  filename,
			})
			index++
		}

		// advance with overlap; the max against the cut position guarantees
		// forward progress even when the overlap would stall the cursor
		next := start + c.chunkSize - c.chunkOverlap
		if next < end {
			next = end
		}
		start = next
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}
