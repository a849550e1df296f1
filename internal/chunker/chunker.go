// Package chunker splits extracted document text into bounded windows for
// embedding and retrieval.
package chunker

import (
	"fmt"
	"strings"

	"translaterag/internal/domain"
)

// Policy fixes the window size and overlap of one chunking pass, both measured
// in characters. Two call sites use distinct policies: retrieval indexing
// keeps an overlap so context survives chunk boundaries, whole-document
// translation uses zero overlap so no text is translated twice.
type Policy struct {
	Size    int `json:"size"`
	Overlap int `json:"overlap"`
}

// DefaultIndexPolicy is the chunking policy for retrieval indexing.
var DefaultIndexPolicy = Policy{Size: 500, Overlap: 100}

// DefaultTranslatePolicy is the chunking policy for whole-document translation.
var DefaultTranslatePolicy = Policy{Size: 1000, Overlap: 0}

// Validate rejects policies whose window advance (size - overlap) is not
// strictly positive; such a policy would never terminate the splitting loop.
func (p Policy) Validate() error {
	if p.Overlap < 0 {
		return fmt.Errorf("%w: overlap %d is negative", domain.ErrInvalidChunkPolicy, p.Overlap)
	}
	if p.Size <= p.Overlap {
		return fmt.Errorf("%w: size %d must exceed overlap %d", domain.ErrInvalidChunkPolicy, p.Size, p.Overlap)
	}
	return nil
}

// Split partitions text into consecutive windows of p.Size characters, each
// window start advancing by p.Size-p.Overlap. Windows are trimmed of
// surrounding whitespace and dropped when empty. Empty or all-whitespace input
// yields a nil slice. Identical input and policy always produce identical
// output.
func Split(text string, p Policy) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	step := p.Size - p.Overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + p.Size
		if end > len(runes) {
			end = len(runes)
		}
		if window := strings.TrimSpace(string(runes[start:end])); window != "" {
			chunks = append(chunks, window)
		}
	}
	return chunks, nil
}
