package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongResume = `\documentclass[10pt]{article}
\begin{document}
Jane Smith \\
jane@example.com | (555) 987-6543 | linkedin.com/in/janesmith
\section*{Summary}
Senior software engineer with 8 years experience building cloud platforms.
\section*{Experience}
\begin{itemize}
\item Led a team of 12 engineers delivering a platform serving 50,000 users
\item Built data pipelines in Python and SQL, reducing processing time by 60\%
\item Improved deployment reliability by 45% across 30 projects
\item Reduced infrastructure costs by $200,000 annually
\item Increased test coverage 3x within 6 months
\end{itemize}
\section*{Skills}
Python, SQL, AWS, Docker, Kubernetes, leadership, communication
\section*{Education}
B.S. Computer Science, State University
\end{document}`

func TestScoreUniversalActionVerbs(t *testing.T) {
	doc := `\begin{document}
\begin{itemize}
\item Led a team of five engineers to deliver a platform
\item Built data pipelines processing records daily
\item Improved system reliability across services
\end{itemize}
\end{document}`

	result := ScoreUniversal(doc)
	assert.Equal(t, 100, result.ActionVerbsScore)
	assert.Equal(t, 3, result.ActionVerbsCount)
}

func TestScoreUniversalTabularDesign(t *testing.T) {
	doc := `\documentclass[10pt]{article}
\begin{document}
\begin{tabular}{ll}
Python & SQL \\
\end{tabular}
\end{document}`

	result := ScoreUniversal(doc)
	assert.Equal(t, 70, result.DesignScore)
	require.Len(t, result.DesignIssues, 1)
	assert.Contains(t, result.DesignIssues[0], "table")
}

func TestScoreUniversalEmptyInput(t *testing.T) {
	result := ScoreUniversal("")

	assert.Empty(t, result.FoundSections)
	assert.Equal(t, []string{"Experience", "Education", "Skills", "Contact Info"}, result.MissingSections)
	assert.Equal(t, 0, result.SectionScore)
	assert.Less(t, result.Score, 55)
	assert.Equal(t, "Needs Work", result.Rating)
}

func TestScoreUniversalCapsOnWeakComponent(t *testing.T) {
	// Strong sections and bullets but no quantifiable results at all.
	doc := `\documentclass[10pt]{article}
\begin{document}
Jane Smith \\
jane@example.com | linkedin.com/in/janesmith
\section*{Summary}
Senior software engineer and technical lead.
\section*{Experience}
\begin{itemize}
\item Led platform development for enterprise clients
\item Built scalable data pipelines in Python
\item Improved reliability of production services
\item Designed microservice architecture on AWS
\end{itemize}
\section*{Skills}
Python, AWS, Docker, leadership, communication
\section*{Education}
B.S. Computer Science
\end{document}`

	result := ScoreUniversal(doc)
	assert.Equal(t, 20, result.MetricsScore)
	assert.LessOrEqual(t, result.Score, 85)
}

func TestScoreUniversalStrongResume(t *testing.T) {
	result := ScoreUniversal(strongResume)

	assert.GreaterOrEqual(t, result.Score, 55)
	assert.Contains(t, result.FoundSections, "Experience")
	assert.Contains(t, result.FoundSections, "Education")
	assert.Contains(t, result.FoundSections, "Skills")
	assert.Contains(t, result.FoundSections, "Contact Info")
	assert.NotContains(t, result.MissingSections, "Hard Skills (Technical)")
	assert.NotContains(t, result.MissingSections, "Soft Skills")
	assert.GreaterOrEqual(t, result.MetricsCount, 5)
	assert.Equal(t, 100, result.ActionVerbsScore)
}

func TestScoreUniversalBounds(t *testing.T) {
	inputs := []string{
		"",
		"plain text with no latex at all",
		strongResume,
		`\begin{tabular}\includegraphics{photo.png}\tikz\fancyhead`,
		strings.Repeat("lorem ipsum dolor sit amet ", 300),
	}

	for _, input := range inputs {
		result := ScoreUniversal(input)
		for name, score := range map[string]int{
			"overall":     result.Score,
			"sections":    result.SectionScore,
			"metrics":     result.MetricsScore,
			"actionVerbs": result.ActionVerbsScore,
			"structure":   result.StructureScore,
			"design":      result.DesignScore,
		} {
			assert.GreaterOrEqual(t, score, 0, "%s score below 0", name)
			assert.LessOrEqual(t, score, 100, "%s score above 100", name)
		}
	}
}

func TestScoreUniversalDeterministic(t *testing.T) {
	first := ScoreUniversal(strongResume)
	second := ScoreUniversal(strongResume)
	assert.Equal(t, first, second)
}

func TestScoreUniversalMissingSkillIndicators(t *testing.T) {
	doc := `\section*{Skills}
Cooking, gardening
\section*{Experience}
Worked at a restaurant.
\section*{Education}
High school diploma.
email: someone@example.com`

	result := ScoreUniversal(doc)
	assert.Contains(t, result.MissingSections, "Hard Skills (Technical)")
	assert.Contains(t, result.MissingSections, "Soft Skills")
}

func TestScoreUniversalMathModePercent(t *testing.T) {
	doc := `\item Improved throughput by $60\%$ and cut latency by 40\%`
	_, count := scoreMetrics(doc)
	assert.GreaterOrEqual(t, count, 2)
}

func TestCheckTailoredTitle(t *testing.T) {
	withTitle := `\section*{Summary}
Data engineer with platform experience.
\section*{Experience}`
	has, _ := checkTailoredTitle(withTitle)
	assert.True(t, has)

	withoutSummary := `\section*{Experience}
Worked on things.`
	has, msg := checkTailoredTitle(withoutSummary)
	assert.False(t, has)
	assert.Equal(t, "No summary section found", msg)
}
