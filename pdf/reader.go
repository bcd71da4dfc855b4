// Package pdf extracts plain text from PDF files.
package pdf

import (
	"bytes"

	"github.com/fwojciec/repub"
	"github.com/ledongthuc/pdf"
)

// Ensure Reader implements repub.DocumentReader at compile time.
var _ repub.DocumentReader = (*Reader)(nil)

// Reader extracts the text layer of PDF documents. Scanned PDFs without a
// text layer yield empty output; callers treat that as an extraction
// failure for the document.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ExtractText returns the concatenated plain text of every page.
func (r *Reader) ExtractText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", repub.Errorf(repub.EINVALID, "opening PDF %s: %v", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	text, err := reader.GetPlainText()
	if err != nil {
		return "", repub.Errorf(repub.EINVALID, "reading PDF text: %v", err)
	}
	if _, err := buf.ReadFrom(text); err != nil {
		return "", repub.Errorf(repub.EINTERNAL, "reading PDF text: %v", err)
	}

	return buf.String(), nil
}
