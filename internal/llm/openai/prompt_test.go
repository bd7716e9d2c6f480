package openai

import (
	"strings"
	"testing"
)

func TestBuildPromptIncludesResumeAndJobDescription(t *testing.T) {
	messages := BuildPrompt("my resume text", "my job description")

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" {
		t.Fatalf("expected system message first, got %q", messages[0].Role)
	}
	if !strings.Contains(messages[1].Content, `"atsScore"`) {
		t.Fatalf("expected developer message to pin the schema, got %q", messages[1].Content)
	}
	user := messages[2].Content
	if !strings.Contains(user, "my resume text") {
		t.Fatalf("expected resume text in user message")
	}
	if !strings.Contains(user, "my job description") {
		t.Fatalf("expected job description in user message")
	}
}

func TestBuildPromptSchemaNamesKeywordBuckets(t *testing.T) {
	messages := BuildPrompt("r", "j")
	developer := messages[1].Content
	for _, key := range []string{"skills", "tools", "softSkills", "suggestions", "strengths"} {
		if !strings.Contains(developer, key) {
			t.Fatalf("expected schema key %q in prompt template", key)
		}
	}
}

func TestBuildUserPromptDefaultsEmptyJobDescription(t *testing.T) {
	got := buildUserPrompt("resume", "  ")
	if !strings.Contains(got, "N/A") {
		t.Fatalf("expected N/A placeholder, got %q", got)
	}
}
