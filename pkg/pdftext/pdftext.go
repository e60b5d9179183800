// Package pdftext extracts the text layer from uploaded guideline PDFs.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"

	pdf "rsc.io/pdf"
)

// DefaultMaxChars caps extracted text so one upload cannot blow the
// prompt context.
const DefaultMaxChars = 50000

// ErrNoTextLayer is returned for PDFs that parse but contain no
// extractable text, such as pure image scans.
var ErrNoTextLayer = errors.New("pdf has no extractable text layer")

// Result holds the extracted text and the page count of the source PDF
type Result struct {
	Text  string
	Pages int
}

// Extract parses PDF bytes and returns the text layer up to maxChars.
// If maxChars <= 0 the default cap is used. Malformed PDFs return an
// error rather than panicking.
func Extract(data []byte, maxChars int) (result Result, err error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if len(data) == 0 {
		return Result{}, errors.New("pdf appears empty")
	}

	// The parser panics on some malformed inputs; convert those to errors
	// so one bad upload cannot take the server down.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse pdf: %w", err)
	}

	var buf bytes.Buffer
	total := reader.NumPage()
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		for _, t := range page.Content().Text {
			buf.WriteString(t.S)
		}
		buf.WriteString("\n\n")
		if buf.Len() >= maxChars {
			break
		}
	}

	text := buf.String()
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return Result{Pages: total}, ErrNoTextLayer
	}
	if len(text) > maxChars {
		text = text[:maxChars]
	}

	return Result{Text: text, Pages: total}, nil
}
