// File: services/intelligence/extraction.go
package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"apptbot/models"
)

// ErrMalformedExtraction is returned when no structured record can be isolated or decoded.
var ErrMalformedExtraction = errors.New("malformed extraction")

// IncompleteExtractionError lists required fields the oracle left unspecified.
type IncompleteExtractionError struct {
	Missing []string
}

func (e *IncompleteExtractionError) Error() string {
	return fmt.Sprintf("incomplete extraction: missing %s", strings.Join(e.Missing, ", "))
}

var codeFenceLine = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z0-9_-]*[ \t]*$")

// ParseExtraction isolates the first {...} object in raw oracle output and decodes it.
// Surrounding prose, code fences and trailing commentary are ignored.
func ParseExtraction(raw string) (models.ExtractionPayload, error) {
	cleaned := codeFenceLine.ReplaceAllString(strings.TrimSpace(raw), "")

	span, err := firstObjectSpan(cleaned)
	if err != nil {
		return models.ExtractionPayload{}, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(span)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return models.ExtractionPayload{}, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}

	return payloadFromFields(fields), nil
}

// RequireFields fails with *IncompleteExtractionError when any field is not present.
func RequireFields(p models.ExtractionPayload, fields ...string) error {
	if missing := p.Missing(fields...); len(missing) > 0 {
		return &IncompleteExtractionError{Missing: missing}
	}
	return nil
}

// firstObjectSpan returns the text from the first '{' to its matching '}'.
// Braces inside JSON string literals are not counted.
func firstObjectSpan(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedExtraction)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: unterminated JSON object", ErrMalformedExtraction)
}

func payloadFromFields(fields map[string]any) models.ExtractionPayload {
	var p models.ExtractionPayload
	p.Summary = stringField(fields[models.FieldSummary])
	if p.Summary == nil {
		p.Summary = stringField(fields["title"])
	}
	p.StartTime = stringField(fields[models.FieldStartTime])
	p.EndTime = stringField(fields[models.FieldEndTime])
	p.DurationMinutes = intField(fields[models.FieldDurationMinutes])
	p.Timezone = stringField(fields[models.FieldTimezone])
	return p
}

// stringField treats absent, null, blank and the literal strings "null"/"none" as unspecified.
func stringField(v any) *string {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case json.Number:
		s = t.String()
	default:
		return nil
	}
	switch strings.ToLower(s) {
	case "", "null", "none":
		return nil
	}
	return &s
}

func intField(v any) *int {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	n := int(math.Round(f))
	return &n
}
