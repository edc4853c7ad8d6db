package labels

import (
	"embed"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
)

// PageBreak separates two filled label instances in the assembled document.
const PageBreak = "\n<div style='page-break-after:always'></div>\n"

// MaxAddressLines is the number of address slots in the template.
const MaxAddressLines = 4

//go:embed templates/label_spx.html
var templateFS embed.FS

// TemplateStore provides the label markup with its substitution slots.
type TemplateStore interface {
	Load() (string, error)
}

// FileTemplateStore reads the template from Path, or the embedded SPX
// template when Path is empty.
type FileTemplateStore struct {
	Path string
}

func (s FileTemplateStore) Load() (string, error) {
	var (
		b   []byte
		err error
	)
	if s.Path == "" {
		b, err = templateFS.ReadFile("templates/label_spx.html")
	} else {
		b, err = os.ReadFile(s.Path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load label template: %w", err)
	}
	return string(b), nil
}

// FillTemplate substitutes one record into the template. The recipient is
// wrapped into at most MaxAddressLines lines; unused slots become empty.
func FillTemplate(tmpl string, rec models.ShipmentRecord) string {
	lines := SplitTextSmart(rec.Recipient, DefaultLineChars)

	pairs := []string{"{{order_number}}", html.EscapeString(rec.Order)}
	for i := 0; i < MaxAddressLines; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		pairs = append(pairs, fmt.Sprintf("{{sender_line%d}}", i+1), html.EscapeString(line))
	}

	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// BuildDocument fills the template once per record, in order, separated by
// page breaks.
func BuildDocument(tmpl string, records []models.ShipmentRecord) string {
	filled := make([]string, len(records))
	for i, rec := range records {
		filled[i] = FillTemplate(tmpl, rec)
	}
	return strings.Join(filled, PageBreak)
}
