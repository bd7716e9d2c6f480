package analyses

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minResumeChars         = 100
	minJobDescriptionChars = 50
)

// FieldIssue describes one failing input field.
type FieldIssue struct {
	Field     string `json:"field"`
	Issue     string `json:"issue"`
	Shortfall int    `json:"shortfall,omitempty"`
}

// ValidationError reports which fields failed and by how many characters
// they fall short of the minimum.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Shortfall > 0 {
			parts = append(parts, fmt.Sprintf("%s %s by %d characters", issue.Field, issue.Issue, issue.Shortfall))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", issue.Field, issue.Issue))
		}
	}
	return "validation: " + strings.Join(parts, "; ")
}

// ValidateInput checks the submitted text pair against the minimum content
// lengths. Both fields are trimmed before measuring. Pure; no upper bound
// is enforced here.
func ValidateInput(resumeText, jobDescriptionText string) error {
	var issues []FieldIssue

	resume := strings.TrimSpace(resumeText)
	if resume == "" {
		issues = append(issues, FieldIssue{Field: "resumeText", Issue: "required"})
	} else if n := utf8.RuneCountInString(resume); n < minResumeChars {
		issues = append(issues, FieldIssue{
			Field:     "resumeText",
			Issue:     "too short",
			Shortfall: minResumeChars - n,
		})
	}

	jd := strings.TrimSpace(jobDescriptionText)
	if jd == "" {
		issues = append(issues, FieldIssue{Field: "jobDescriptionText", Issue: "required"})
	} else if n := utf8.RuneCountInString(jd); n < minJobDescriptionChars {
		issues = append(issues, FieldIssue{
			Field:     "jobDescriptionText",
			Issue:     "too short",
			Shortfall: minJobDescriptionChars - n,
		})
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
