package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable marks documents that are not PDFs or carry no text layer.
var ErrUnreadable = errors.New("unreadable document")

// ExtractPDF returns the plain text of every page that has a text layer, in
// page order. Pages without text are skipped.
func ExtractPDF(data []byte) (pages []string, err error) {
	// ledongthuc/pdf panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: malformed PDF: %v", ErrUnreadable, r)
		}
	}()

	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create PDF reader: %v", ErrUnreadable, err)
	}

	numPages := pdfReader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log but continue with other pages
			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no text could be extracted from PDF", ErrUnreadable)
	}

	return pages, nil
}
