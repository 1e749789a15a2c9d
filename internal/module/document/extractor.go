// Package document extracts plain text from uploaded PDF files.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned for files that cannot be parsed as PDF.
var ErrUnreadable = errors.New("unreadable document")

// Extractor extracts text locally; it makes no network calls.
type Extractor struct{}

// NewExtractor creates a new PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the plain text of every page in order.
func (e *Extractor) ExtractText(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadable, p)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return buf.String(), nil
}
