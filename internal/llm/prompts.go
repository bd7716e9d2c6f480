package llm

import _ "embed"

//go:embed prompts/ats_v1.txt
var promptATSV1 string

// PromptTemplate returns the analysis instruction template.
func PromptTemplate() string {
	return promptATSV1
}
