package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	EditSection      string
	EditDocument     string
	Suggest          string
	ClassifyKeywords string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	EditSection      string
	EditDocument     string
	Suggest          string
	ClassifyKeywords string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	EditSection: `You are an expert LaTeX resume editor. Your job is to modify resume sections based on user instructions.

RULES:
1. ONLY modify the section content provided - do not add new sections
2. Keep the LaTeX syntax valid and properly formatted
3. Maintain consistent style with the original content
4. Use professional, action-oriented language for resume bullets
5. Include metrics and quantifiable achievements where appropriate
6. Return ONLY the modified LaTeX code, no explanations

FORMATTING GUIDELINES:
- Use \textbf{} for bold text (job titles, company names)
- Use \textit{} for italic text (dates)
- Use \begin{itemize} ... \end{itemize} for bullet lists
- Use \item for each bullet point
- Escape special characters: % as \%, $ as \$, & as \&
- Keep section headers as \section*{Name}

When improving bullet points:
- Start with strong action verbs
- Include specific metrics (numbers, percentages, dollar amounts)
- Show impact and results
- Keep bullets concise (1-2 lines each)`,

	EditDocument: `You are an expert LaTeX resume editor. Your job is to help users improve their entire resume based on their instructions.

RULES:
1. Make targeted changes based on user requests
2. Keep the LaTeX syntax valid and properly formatted
3. Maintain the overall structure and style
4. Return the COMPLETE updated LaTeX document
5. Preserve all preamble, packages, and document structure

FORMATTING GUIDELINES:
- Use \textbf{} for bold, \textit{} for italic
- Use \begin{itemize} for bullet lists
- Escape special characters: % as \%, $ as \$, & as \&
- Keep proper LaTeX document structure`,

	Suggest: `You are a resume expert. Analyze the section and provide specific, actionable suggestions for improvement. Be concise and practical.`,

	ClassifyKeywords: `You are a recruiting analyst. You extract and classify keywords from job descriptions so resumes can be scored against them. Be specific and concise; prefer single keywords or short phrases of at most three words.`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	EditSection: `SECTION: %s

CURRENT CONTENT:
` + "```latex\n%s\n```" + `

USER REQUEST: %s

Please modify the section according to the user's request. Return ONLY the modified LaTeX code.`,

	EditDocument: `CURRENT RESUME:
` + "```latex\n%s\n```" + `

USER REQUEST: %s

Please modify the resume according to the user's request. Return the COMPLETE updated LaTeX document.`,

	Suggest: `Analyze this %s section and suggest improvements:

` + "```latex\n%s\n```" + `

Provide 3-5 specific suggestions for making this section more impactful.`,

	ClassifyKeywords: `Extract keywords from the job description and classify them.

Rules:
- must_have: technical skills, tools, programming languages, mandatory requirements (e.g., Java, Python, AWS, 3+ years experience)
- nice_to_have: optional skills, bonus experience, preferred qualifications
- soft_skills: communication, leadership, teamwork, problem-solving, collaboration, etc.

- Max 15 must_have, 10 nice_to_have, 8 soft_skills
- Use concise, single keywords or short phrases (2-3 words max)
- Be specific (e.g., "Java" not "programming languages")

Job Description:
%s`,
}

// JDTailoringDirective is appended to the edit system prompts when a job
// description accompanies the request.
const JDTailoringDirective = `

TARGET JOB DESCRIPTION:
%s

IMPORTANT: Tailor the resume content to match this job description. Emphasize relevant skills, experiences, and keywords that align with the job requirements.`

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `json:"systemPrompts"`
	UserPrompts   UserPrompts   `json:"userPrompts"`
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() PromptConfig {
	return PromptConfig{
		SystemPrompts: DefaultSystemPrompts,
		UserPrompts:   DefaultUserPrompts,
	}
}
