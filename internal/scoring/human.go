package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HumanResult is the outcome of human first-impression scoring. Unlike ATS
// scoring, it estimates whether a recruiter keeps reading after the initial
// six-second scan.
type HumanResult struct {
	Score  int    `json:"score"`
	Rating string `json:"rating"`

	FirstImpressionScore int `json:"firstImpressionScore"`
	ScannabilityScore    int `json:"scannabilityScore"`
	ImpactNumbersScore   int `json:"impactNumbersScore"`
	CredibilityScore     int `json:"credibilityScore"`
	ClarityScore         int `json:"clarityScore"`

	Summary           string   `json:"summary"`
	WhatRecruiterSees []string `json:"whatRecruiterSees"`
	Recommendations   []string `json:"recommendations"`
}

var (
	emailOrPhonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`[\w.-]+@[\w.-]+`),
		regexp.MustCompile(`\+?\d[\d\-\s]{8,}`),
		regexp.MustCompile(`linkedin`),
		regexp.MustCompile(`github`),
	}

	sectionHeaderPattern = regexp.MustCompile(`(?m)\\section\*?\{|^[A-Z][A-Z\s]+$`)

	dollarAmountPattern = regexp.MustCompile(`\$[\d,]+[kmb]?`)
	percentPattern      = regexp.MustCompile(`\d+%`)
	multiplierPattern   = regexp.MustCompile(`\d+x\b`)
	bigNumberPattern    = regexp.MustCompile(`[\d,]{4,}`)

	yearsPattern = regexp.MustCompile(`(\d+)\+?\s*years?`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b20\d{2}\b`),
		regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\b`),
		regexp.MustCompile(`present|current`),
	}
)

// firstThird returns the top portion of the document body, skipping the
// LaTeX preamble. This approximates what sits above the fold.
func firstThird(text string) string {
	docStart := strings.Index(text, `\begin{document}`)
	if docStart == -1 {
		docStart = 0
	} else {
		nl := strings.Index(text[docStart:], "\n")
		if nl == -1 {
			docStart = len(text)
		} else {
			docStart += nl + 1
		}
	}

	body := text[docStart:]
	if end := strings.Index(body, `\end{document}`); end != -1 {
		body = body[:end]
	}

	lines := strings.Split(body, "\n")
	third := len(lines) / 3
	if third < 1 {
		third = 1
	}
	return strings.Join(lines[:third], "\n")
}

func scoreFirstImpression(text string) (int, []string) {
	top := strings.ToLower(firstThird(text))
	var standouts []string
	score := 0

	summaryKeywords := []string{"summary", "professional summary", "objective", "profile", "about"}
	if containsAny(top, summaryKeywords) {
		score += 25
		standouts = append(standouts, "✓ Professional summary visible at top")
	}

	jobIndicators := []string{"experience", "work experience", "senior", "manager", "engineer",
		"developer", "analyst", "lead", "director", "associate"}
	if containsAny(top, jobIndicators) {
		score += 25
		standouts = append(standouts, "✓ Current role visible early")
	}

	for _, p := range emailOrPhonePatterns {
		if p.MatchString(top) {
			score += 25
			standouts = append(standouts, "✓ Contact info easy to find")
			break
		}
	}

	if strings.Contains(top, "skills") || strings.Contains(top, "technologies") {
		score += 25
		standouts = append(standouts, "✓ Skills section visible early")
	}

	if score > 100 {
		score = 100
	}
	return score, standouts
}

func scoreScannability(text string) int {
	score := 0
	clean := cleanText(text)

	hasBullets := strings.Contains(text, `\item`) ||
		strings.Contains(strings.ToLower(text), "itemize") || strings.Contains(text, "•")
	if hasBullets {
		score += 40
	}

	sections := sectionHeaderPattern.FindAllString(text, -1)
	if len(sections) >= 3 {
		score += 30
	} else if len(sections) >= 1 {
		score += 15
	}

	var lines []string
	for _, l := range strings.Split(clean, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	if len(lines) > 0 {
		totalWords := 0
		for _, l := range lines {
			totalWords += len(strings.Fields(l))
		}
		avg := float64(totalWords) / float64(len(lines))
		switch {
		case avg <= 15:
			score += 30
		case avg <= 20:
			score += 20
		default:
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

func scoreImpactNumbers(text string) (int, []string) {
	clean := cleanText(normalizePercents(text))
	firstHalf := clean[:len(clean)/2]

	var standouts []string

	dollarMatches := dollarAmountPattern.FindAllString(clean, -1)
	percentMatches := percentPattern.FindAllString(clean, -1)
	multiplierMatches := multiplierPattern.FindAllString(clean, -1)
	bigNumbers := bigNumberPattern.FindAllString(clean, -1)

	// Prominence matters: metrics buried in the bottom half draw far fewer
	// recruiter eyes.
	firstHalfMetrics := len(dollarAmountPattern.FindAllString(firstHalf, -1)) +
		len(percentPattern.FindAllString(firstHalf, -1)) +
		len(multiplierPattern.FindAllString(firstHalf, -1))

	totalMetrics := len(dollarMatches) + len(percentMatches) + len(multiplierMatches)

	if len(percentMatches) > 0 {
		standouts = append(standouts, fmt.Sprintf("📈 %s - percentage achievement", percentMatches[0]))
	}
	if len(bigNumbers) > 0 && len(dollarMatches) == 0 {
		standouts = append(standouts, fmt.Sprintf("🔢 Large numbers (%s) catch eye", bigNumbers[0]))
	}

	var score int
	switch {
	case totalMetrics >= 8 && firstHalfMetrics >= 3:
		score = 100
	case totalMetrics >= 5:
		score = 80
	case totalMetrics >= 3:
		score = 60
	case totalMetrics >= 1:
		score = 40
	default:
		score = 20
	}
	return score, standouts
}

func scoreCredibility(text string) (int, []string) {
	clean := cleanText(text)
	var standouts []string
	score := 30

	if m := yearsPattern.FindStringSubmatch(clean); m != nil {
		years, err := strconv.Atoi(m[1])
		if err == nil {
			if years >= 5 {
				score += 20
				standouts = append(standouts, fmt.Sprintf("⏱️ %d+ years experience", years))
			} else if years >= 2 {
				score += 10
				standouts = append(standouts, fmt.Sprintf("⏱️ %d years experience", years))
			}
		}
	}

	certKeywords := []string{"certified", "certification", "certificate", "aws", "pmp",
		"cpa", "cfa", "cissp", "professional"}
	if containsAny(clean, certKeywords) {
		score += 25
		standouts = append(standouts, "📜 Professional certification")
	}

	eduKeywords := []string{"university", "college", "bachelor", "master", "mba", "phd",
		"degree", "b.s.", "m.s.", "b.a.", "m.a."}
	if containsAny(clean, eduKeywords) {
		score += 25
		standouts = append(standouts, "🎓 Formal education visible")
	}

	if score > 100 {
		score = 100
	}
	return score, standouts
}

func scoreClarity(text string) int {
	clean := cleanText(text)
	score := 0

	datesFound := 0
	for _, p := range datePatterns {
		if p.MatchString(clean) {
			datesFound++
		}
	}
	if datesFound >= 2 {
		score += 30
	} else if datesFound >= 1 {
		score += 15
	}

	titleKeywords := []string{"manager", "engineer", "developer", "analyst", "designer",
		"director", "lead", "senior", "associate", "specialist",
		"coordinator", "consultant", "architect", "administrator"}
	titlesFound := 0
	for _, t := range titleKeywords {
		if strings.Contains(clean, t) {
			titlesFound++
		}
	}
	if titlesFound >= 3 {
		score += 35
	} else if titlesFound >= 1 {
		score += 20
	}

	companyIndicators := []string{"at ", "company", "inc", "llc", "ltd", "corp"}
	if containsAny(clean, companyIndicators) {
		score += 35
	}

	if score > 100 {
		score = 100
	}
	return score
}

// ScoreHumanImpact estimates the impression a resume makes during a
// recruiter's initial scan.
func ScoreHumanImpact(resumeText string) HumanResult {
	var standouts, recommendations []string

	firstScore, firstStandouts := scoreFirstImpression(resumeText)
	standouts = append(standouts, firstStandouts...)
	if firstScore < 60 {
		recommendations = append(recommendations, "Add a professional summary at the top")
	}

	scanScore := scoreScannability(resumeText)
	if scanScore < 60 {
		recommendations = append(recommendations, "Use shorter bullet points for better scannability")
	}

	impactScore, impactStandouts := scoreImpactNumbers(resumeText)
	standouts = append(standouts, impactStandouts...)
	if impactScore < 60 {
		recommendations = append(recommendations, "Add more metrics ($, %, numbers) that pop visually")
	}

	credScore, credStandouts := scoreCredibility(resumeText)
	standouts = append(standouts, credStandouts...)
	if credScore < 50 {
		recommendations = append(recommendations, "Highlight years of experience and certifications")
	}

	clarityScore := scoreClarity(resumeText)
	if clarityScore < 60 {
		recommendations = append(recommendations, "Make job titles and dates more prominent")
	}

	overall := int(
		float64(firstScore)*0.25 +
			float64(scanScore)*0.20 +
			float64(impactScore)*0.25 +
			float64(credScore)*0.15 +
			float64(clarityScore)*0.15)

	var rating, summary string
	switch {
	case overall >= 80:
		rating = "Excellent"
		summary = "Strong first impression! Recruiters will want to read more."
	case overall >= 60:
		rating = "Good"
		summary = "Good visual impact. Small tweaks could make it pop more."
	case overall >= 40:
		rating = "Fair"
		summary = "May not grab attention in a 6-second scan. Needs work."
	default:
		rating = "Needs Work"
		summary = "Likely to be skipped. Improve visual impact and structure."
	}

	if len(standouts) > 5 {
		standouts = standouts[:5]
	}
	if len(recommendations) > 4 {
		recommendations = recommendations[:4]
	}

	return HumanResult{
		Score:                overall,
		Rating:               rating,
		FirstImpressionScore: firstScore,
		ScannabilityScore:    scanScore,
		ImpactNumbersScore:   impactScore,
		CredibilityScore:     credScore,
		ClarityScore:         clarityScore,
		Summary:              summary,
		WhatRecruiterSees:    standouts,
		Recommendations:      recommendations,
	}
}
