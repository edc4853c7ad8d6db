// Package merger concatenates PDF documents page by page.
package merger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrMergeFailed wraps every failure of Merge and MergeFiles.
var ErrMergeFailed = errors.New("pdf merge failed")

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge returns a single PDF holding the pages of every source in argument
// order. Each source keeps its own page order and page size.
func Merge(sources ...io.ReadSeeker) ([]byte, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no documents to merge", ErrMergeFailed)
	}

	for i, src := range sources {
		if err := api.Validate(src, newConfig()); err != nil {
			return nil, fmt.Errorf("%w: document %d is not a valid PDF: %w", ErrMergeFailed, i+1, err)
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: rewind document %d: %w", ErrMergeFailed, i+1, err)
		}
	}

	var out bytes.Buffer
	if err := api.MergeRaw(sources, &out, false, newConfig()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMergeFailed, err)
	}
	return out.Bytes(), nil
}

// MergeFiles merges the PDF files at paths, in order.
func MergeFiles(paths ...string) ([]byte, error) {
	sources := make([]io.ReadSeeker, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMergeFailed, err)
		}
		defer f.Close()
		sources = append(sources, f)
	}
	return Merge(sources...)
}

// PageCount returns the number of pages in data.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), newConfig())
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}
