package types

// ChatMessage is a single turn of the edit conversation. Role is "user" or
// "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// EditSectionInput represents the input for editing a single resume section
type EditSectionInput struct {
	SectionName    string        `json:"sectionName"`
	SectionContent string        `json:"sectionContent"`
	Instruction    string        `json:"instruction"`
	ChatHistory    []ChatMessage `json:"chatHistory,omitempty"`
	JobDescription string        `json:"jobDescription,omitempty"`
}

// EditDocumentInput represents the input for editing the full LaTeX document
type EditDocumentInput struct {
	Document       string        `json:"document"`
	Instruction    string        `json:"instruction"`
	ChatHistory    []ChatMessage `json:"chatHistory,omitempty"`
	JobDescription string        `json:"jobDescription,omitempty"`
}

// EditOutput represents the raw collaborator reply for an edit operation
type EditOutput struct {
	Content string `json:"content"`
}

// SuggestInput represents the input for requesting section improvement ideas
type SuggestInput struct {
	SectionName    string `json:"sectionName"`
	SectionContent string `json:"sectionContent"`
}

// ClassifyKeywordsInput represents the input for job description keyword
// classification
type ClassifyKeywordsInput struct {
	JobDescription string `json:"jobDescription"`
}

// ClassifyKeywordsOutput represents the classified keyword buckets returned
// by the collaborator
type ClassifyKeywordsOutput struct {
	MustHave   []string `json:"must_have"`
	NiceToHave []string `json:"nice_to_have"`
	SoftSkills []string `json:"soft_skills"`
}
