package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
)

const recordsSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "order":     {"type": ["string", "number", "null"]},
      "recipient": {"type": ["string", "null"]},
      "sender":    {"type": ["string", "null"]}
    }
  }
}`

var (
	recordsSchema = jsonschema.MustCompileString("shipment-records.json", recordsSchemaJSON)

	reFenceOpen  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	reFenceClose = regexp.MustCompile("\\s*```$")
)

// stripMarkdownJSON removes the ```json ... ``` fence models like to wrap
// their answers in.
func stripMarkdownJSON(content string) string {
	content = strings.TrimSpace(content)
	content = reFenceOpen.ReplaceAllString(content, "")
	content = reFenceClose.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// ParseRecords decodes a model answer into shipment records. The answer must
// be a JSON array of {order, recipient, sender} objects, optionally fenced.
// Numeric order ids keep their literal digits.
func ParseRecords(content string) ([]models.ShipmentRecord, error) {
	cleaned := stripMarkdownJSON(content)

	doc, err := decodeJSON(cleaned)
	if err != nil {
		// Fall back to the outermost array when the model added prose.
		start, end := strings.Index(cleaned, "["), strings.LastIndex(cleaned, "]")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
		if doc, err = decodeJSON(cleaned[start : end+1]); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	if err := recordsSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("LLM response does not match schema: %w", err)
	}

	items := doc.([]any)
	records := make([]models.ShipmentRecord, 0, len(items))
	for _, item := range items {
		obj := item.(map[string]any)
		records = append(records, models.ShipmentRecord{
			Order:     field(obj["order"]),
			Recipient: field(obj["recipient"]),
			Sender:    field(obj["sender"]),
		})
	}

	return records, nil
}

func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func field(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
