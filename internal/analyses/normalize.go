package analyses

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Expected backend schema:
// {
//   "atsScore": <number 0-100>,
//   "missingKeywords": {
//     "skills": ["string"],
//     "tools": ["string"],
//     "softSkills": ["string"]
//   },
//   "suggestions": ["string"],   // 1-8 entries, practically 3-5
//   "strengths": ["string"]      // may be empty
// }

const maxSuggestions = 8

const (
	// NormalizeNotParseable means the raw response was not a JSON object.
	NormalizeNotParseable = "not_parseable"
	// NormalizeSchemaViolation means a required field was missing or mistyped.
	NormalizeSchemaViolation = "schema_violation"
)

// NormalizeError rejects backend output that does not match the schema.
// Raw keeps the offending response for diagnostics; it is never shown to
// end users.
type NormalizeError struct {
	Kind  string
	Field string
	Raw   []byte
}

func (e *NormalizeError) Error() string {
	if e.Kind == NormalizeSchemaViolation {
		return fmt.Sprintf("llm output invalid: schema violation at %s", e.Field)
	}
	return "llm output invalid: not parseable"
}

// NormalizeReport parses and validates raw backend output into a Report.
// The backend response is untrusted input: every required field is checked,
// nothing is defaulted. An out-of-range score is clamped rather than
// rejected since the rest of the report is still usable.
func NormalizeReport(raw []byte) (Report, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return Report{}, &NormalizeError{Kind: NormalizeNotParseable, Raw: raw}
	}

	score, err := requireNumber(top, "atsScore", raw)
	if err != nil {
		return Report{}, err
	}

	mkRaw, ok := top["missingKeywords"]
	if !ok {
		return Report{}, &NormalizeError{Kind: NormalizeSchemaViolation, Field: "missingKeywords", Raw: raw}
	}
	var mkTop map[string]json.RawMessage
	if err := json.Unmarshal(mkRaw, &mkTop); err != nil || mkTop == nil {
		return Report{}, &NormalizeError{Kind: NormalizeSchemaViolation, Field: "missingKeywords", Raw: raw}
	}

	skills, err := requireStringList(mkTop, "skills", "missingKeywords.skills", raw)
	if err != nil {
		return Report{}, err
	}
	tools, err := requireStringList(mkTop, "tools", "missingKeywords.tools", raw)
	if err != nil {
		return Report{}, err
	}
	softSkills, err := requireStringList(mkTop, "softSkills", "missingKeywords.softSkills", raw)
	if err != nil {
		return Report{}, err
	}

	suggestions, err := requireStringList(top, "suggestions", "suggestions", raw)
	if err != nil {
		return Report{}, err
	}
	if len(suggestions) == 0 {
		return Report{}, &NormalizeError{Kind: NormalizeSchemaViolation, Field: "suggestions", Raw: raw}
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	strengths, err := requireStringList(top, "strengths", "strengths", raw)
	if err != nil {
		return Report{}, err
	}

	return Report{
		ATSScore: clampScore(score),
		MissingKeywords: MissingKeywords{
			Skills:     skills,
			Tools:      tools,
			SoftSkills: softSkills,
		},
		Suggestions: suggestions,
		Strengths:   strengths,
	}, nil
}

func requireNumber(container map[string]json.RawMessage, key string, raw []byte) (float64, error) {
	fieldRaw, ok := container[key]
	if !ok {
		return 0, &NormalizeError{Kind: NormalizeSchemaViolation, Field: key, Raw: raw}
	}
	var value float64
	if err := json.Unmarshal(fieldRaw, &value); err != nil {
		return 0, &NormalizeError{Kind: NormalizeSchemaViolation, Field: key, Raw: raw}
	}
	return value, nil
}

// requireStringList validates a string array field. Empty entries are
// dropped as backend noise; a missing key or a non-string element is a
// schema violation.
func requireStringList(container map[string]json.RawMessage, key, fieldPath string, raw []byte) ([]string, error) {
	fieldRaw, ok := container[key]
	if !ok {
		return nil, &NormalizeError{Kind: NormalizeSchemaViolation, Field: fieldPath, Raw: raw}
	}
	var values []string
	if err := json.Unmarshal(fieldRaw, &values); err != nil || values == nil {
		return nil, &NormalizeError{Kind: NormalizeSchemaViolation, Field: fieldPath, Raw: raw}
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(math.Round(score))
}
