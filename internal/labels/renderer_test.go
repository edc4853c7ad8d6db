package labels

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
	"github.com/BerylCAtieno/label-ocr-api/internal/testutil"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

// fakeEngine prints one PDF page per page break separated section.
type fakeEngine struct {
	err   error
	html  string
	sizes []PageSize
}

func (f *fakeEngine) PrintPDF(_ context.Context, html string, size PageSize) ([]byte, error) {
	f.html = html
	f.sizes = append(f.sizes, size)
	if f.err != nil {
		return nil, f.err
	}

	var pages [][]string
	for _, section := range strings.Split(html, PageBreak) {
		pages = append(pages, []string{section})
	}
	return testutil.BuildPDF(pages...), nil
}

type staticStore struct {
	tmpl string
	err  error
}

func (s staticStore) Load() (string, error) { return s.tmpl, s.err }

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return r.NumPage()
}

func TestRenderOnePagePerRecord(t *testing.T) {
	engine := &fakeEngine{}
	r := NewRenderer(staticStore{tmpl: "{{order_number}}"}, engine, utils.NewDiscardLogger())

	records := []models.ShipmentRecord{{Order: "A1"}, {Order: "B2"}, {Order: "C3"}}
	data, err := r.Render(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, pageCount(t, data))
	assert.Equal(t, "A1"+PageBreak+"B2"+PageBreak+"C3", engine.html)
	assert.Equal(t, []PageSize{LabelPage}, engine.sizes)
}

func TestRenderNoRecords(t *testing.T) {
	engine := &fakeEngine{}
	r := NewRenderer(staticStore{tmpl: "x"}, engine, utils.NewDiscardLogger())

	_, err := r.Render(context.Background(), nil)
	require.ErrorIs(t, err, ErrRenderingFailed)
	assert.Empty(t, engine.sizes)
}

func TestRenderTemplateUnavailable(t *testing.T) {
	engine := &fakeEngine{}
	r := NewRenderer(staticStore{err: os.ErrNotExist}, engine, utils.NewDiscardLogger())

	_, err := r.Render(context.Background(), []models.ShipmentRecord{{Order: "A"}})
	require.ErrorIs(t, err, ErrRenderingFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, engine.sizes)
}

func TestRenderEngineFailure(t *testing.T) {
	cause := errors.New("browser: launch timed out")
	r := NewRenderer(staticStore{tmpl: "x"}, &fakeEngine{err: cause}, utils.NewDiscardLogger())

	_, err := r.Render(context.Background(), []models.ShipmentRecord{{Order: "A"}})
	require.ErrorIs(t, err, ErrRenderingFailed)
	assert.ErrorIs(t, err, cause)
}

func TestLabelPageInches(t *testing.T) {
	w, h := LabelPage.inches()
	assert.Equal(t, 4.0, w)
	assert.Equal(t, 6.0, h)
}

// TestRodEngineRendersLabels needs a local Chrome; set CHROME_BIN to run it.
func TestRodEngineRendersLabels(t *testing.T) {
	bin := os.Getenv("CHROME_BIN")
	if bin == "" {
		t.Skip("CHROME_BIN not set")
	}

	engine := NewRodEngine(EngineConfig{Bin: bin, PhaseTimeout: 30 * time.Second})
	r := NewRenderer(FileTemplateStore{}, engine, utils.NewDiscardLogger())

	data, err := r.Render(context.Background(), []models.ShipmentRecord{
		{Order: "ORD123", Recipient: "John Doe 123 Main St Bangkok"},
		{Order: "ORD456", Recipient: "นายสมชาย ใจดี 99 ถนนสุขุมวิท กรุงเทพ 10110"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, pageCount(t, data))
}
