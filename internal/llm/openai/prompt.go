package openai

import (
	"fmt"
	"strings"

	"resumatch-backend/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const systemPromptStrict = "You are a resume analysis engine. Respond with JSON only. Output must match the schema exactly."

// BuildPrompt creates the chat messages for a resume analysis request.
func BuildPrompt(resumeText, jobDescription string) []Message {
	return []Message{
		{Role: "system", Content: systemPromptStrict},
		{Role: "developer", Content: llm.PromptTemplate()},
		{Role: "user", Content: buildUserPrompt(resumeText, jobDescription)},
	}
}

func buildUserPrompt(resumeText, jobDescription string) string {
	jd := jobDescription
	if strings.TrimSpace(jd) == "" {
		jd = "N/A"
	}
	return fmt.Sprintf("RESUME:\n%s\n\nJOB DESCRIPTION:\n%s", resumeText, jd)
}
