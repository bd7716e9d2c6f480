package analyses

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeReportHappyPath(t *testing.T) {
	raw := []byte(`{
		"atsScore": 62,
		"missingKeywords": {
			"skills": ["Kubernetes", "Terraform"],
			"tools": ["Grafana"],
			"softSkills": []
		},
		"suggestions": ["Quantify the migration project impact", "Add a certifications section"],
		"strengths": ["Strong CI/CD coverage"]
	}`)
	report, err := NormalizeReport(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ATSScore != 62 {
		t.Fatalf("score: want 62, got %d", report.ATSScore)
	}
	if !reflect.DeepEqual(report.MissingKeywords.Skills, []string{"Kubernetes", "Terraform"}) {
		t.Fatalf("skills: %v", report.MissingKeywords.Skills)
	}
	if len(report.MissingKeywords.SoftSkills) != 0 {
		t.Fatalf("softSkills should be empty, got %v", report.MissingKeywords.SoftSkills)
	}
	if len(report.Suggestions) != 2 || len(report.Strengths) != 1 {
		t.Fatalf("suggestions/strengths: %v / %v", report.Suggestions, report.Strengths)
	}
}

func TestNormalizeReportNotParseable(t *testing.T) {
	for _, raw := range []string{`not json`, `[1,2,3]`, `"a string"`, `null`} {
		_, err := NormalizeReport([]byte(raw))
		var nerr *NormalizeError
		if !errors.As(err, &nerr) {
			t.Fatalf("%q: want NormalizeError, got %v", raw, err)
		}
		if nerr.Kind != NormalizeNotParseable {
			t.Fatalf("%q: want not_parseable, got %s", raw, nerr.Kind)
		}
	}
}

func TestNormalizeReportFieldOrder(t *testing.T) {
	// The first invalid field in schema order is the one reported.
	cases := []struct {
		name  string
		raw   string
		field string
	}{
		{"missing score", `{"missingKeywords":{"skills":[],"tools":[],"softSkills":[]},"suggestions":["x"],"strengths":[]}`, "atsScore"},
		{"score wrong type", `{"atsScore":"62","missingKeywords":{"skills":[],"tools":[],"softSkills":[]},"suggestions":["x"],"strengths":[]}`, "atsScore"},
		{"missing container", `{"atsScore":62,"suggestions":["x"],"strengths":[]}`, "missingKeywords"},
		{"container wrong type", `{"atsScore":62,"missingKeywords":[],"suggestions":["x"],"strengths":[]}`, "missingKeywords"},
		{"missing skills", `{"atsScore":62,"missingKeywords":{"tools":[],"softSkills":[]},"suggestions":["x"],"strengths":[]}`, "missingKeywords.skills"},
		{"tools wrong type", `{"atsScore":62,"missingKeywords":{"skills":[],"tools":"grafana","softSkills":[]},"suggestions":["x"],"strengths":[]}`, "missingKeywords.tools"},
		{"softSkills mixed types", `{"atsScore":62,"missingKeywords":{"skills":[],"tools":[],"softSkills":["a",3]},"suggestions":["x"],"strengths":[]}`, "missingKeywords.softSkills"},
		{"missing suggestions", `{"atsScore":62,"missingKeywords":{"skills":[],"tools":[],"softSkills":[]},"strengths":[]}`, "suggestions"},
		{"empty suggestions", `{"atsScore":62,"missingKeywords":{"skills":[],"tools":[],"softSkills":[]},"suggestions":[],"strengths":[]}`, "suggestions"},
		{"missing strengths", `{"atsScore":62,"missingKeywords":{"skills":[],"tools":[],"softSkills":[]},"suggestions":["x"]}`, "strengths"},
		{"score and skills both bad", `{"missingKeywords":{"tools":[],"softSkills":[]},"suggestions":["x"],"strengths":[]}`, "atsScore"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeReport([]byte(tc.raw))
			var nerr *NormalizeError
			if !errors.As(err, &nerr) {
				t.Fatalf("want NormalizeError, got %v", err)
			}
			if nerr.Kind != NormalizeSchemaViolation || nerr.Field != tc.field {
				t.Fatalf("want schema violation at %s, got %s/%s", tc.field, nerr.Kind, nerr.Field)
			}
		})
	}
}

func TestNormalizeReportClampsScore(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`-5`, 0},
		{`0`, 0},
		{`100`, 100},
		{`130`, 100},
		{`61.5`, 62},
		{`61.4`, 61},
	}
	for _, tc := range cases {
		raw := []byte(`{"atsScore":` + tc.raw + `,"missingKeywords":{"skills":[],"tools":[],"softSkills":[]},"suggestions":["x"],"strengths":[]}`)
		report, err := NormalizeReport(raw)
		if err != nil {
			t.Fatalf("score %s: unexpected error: %v", tc.raw, err)
		}
		if report.ATSScore != tc.want {
			t.Fatalf("score %s: want %d, got %d", tc.raw, tc.want, report.ATSScore)
		}
	}
}

func TestNormalizeReportDropsEmptyEntries(t *testing.T) {
	raw := []byte(`{
		"atsScore": 40,
		"missingKeywords": {"skills": ["Go", "", "  "], "tools": [], "softSkills": [""]},
		"suggestions": ["keep", ""],
		"strengths": [" ", "solid testing"]
	}`)
	report, err := NormalizeReport(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(report.MissingKeywords.Skills, []string{"Go"}) {
		t.Fatalf("skills: %v", report.MissingKeywords.Skills)
	}
	if len(report.MissingKeywords.SoftSkills) != 0 {
		t.Fatalf("softSkills: %v", report.MissingKeywords.SoftSkills)
	}
	if !reflect.DeepEqual(report.Suggestions, []string{"keep"}) {
		t.Fatalf("suggestions: %v", report.Suggestions)
	}
	if !reflect.DeepEqual(report.Strengths, []string{"solid testing"}) {
		t.Fatalf("strengths: %v", report.Strengths)
	}
}

func TestNormalizeReportTruncatesSuggestions(t *testing.T) {
	raw := []byte(`{
		"atsScore": 50,
		"missingKeywords": {"skills": [], "tools": [], "softSkills": []},
		"suggestions": ["1","2","3","4","5","6","7","8","9","10"],
		"strengths": []
	}`)
	report, err := NormalizeReport(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Suggestions) != maxSuggestions {
		t.Fatalf("want %d suggestions, got %d", maxSuggestions, len(report.Suggestions))
	}
	if report.Suggestions[0] != "1" || report.Suggestions[7] != "8" {
		t.Fatalf("truncation must keep leading entries: %v", report.Suggestions)
	}
}

func TestNormalizeReportNullListRejected(t *testing.T) {
	raw := []byte(`{"atsScore":50,"missingKeywords":{"skills":null,"tools":[],"softSkills":[]},"suggestions":["x"],"strengths":[]}`)
	_, err := NormalizeReport(raw)
	var nerr *NormalizeError
	if !errors.As(err, &nerr) || nerr.Field != "missingKeywords.skills" {
		t.Fatalf("want violation at missingKeywords.skills, got %v", err)
	}
}
