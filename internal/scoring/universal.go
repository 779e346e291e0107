package scoring

import (
	"fmt"
	"regexp"
	"strings"
)

// UniversalResult is the outcome of universal ATS scoring. It needs no job
// description: the criteria are objective resume qualities recognized by
// every applicant tracking system.
type UniversalResult struct {
	Score  int    `json:"score"`
	Rating string `json:"rating"`

	SectionScore     int `json:"sectionScore"`
	MetricsScore     int `json:"metricsScore"`
	ActionVerbsScore int `json:"actionVerbsScore"`
	StructureScore   int `json:"structureScore"`
	DesignScore      int `json:"designScore"`

	FoundSections    []string `json:"foundSections"`
	MissingSections  []string `json:"missingSections"`
	MetricsCount     int      `json:"metricsCount"`
	ActionVerbsCount int      `json:"actionVerbsCount"`
	WordCount        int      `json:"wordCount"`
	DesignIssues     []string `json:"designIssues"`

	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// requiredSections holds universal section names and the header variants that
// count as present. Ordered so reports are deterministic.
var requiredSections = []struct {
	name     string
	variants []string
}{
	{"Experience", []string{"experience", "work experience", "professional experience",
		"employment", "work history", "career history"}},
	{"Education", []string{"education", "academic", "qualifications", "degrees",
		"academic background"}},
	{"Skills", []string{"skills", "technical skills", "core competencies", "expertise",
		"technologies", "competencies", "abilities"}},
}

// Contact info is detected by patterns rather than headers.
var contactIndicators = []string{"email", "phone", "linkedin", "@", "github"}

var hardSkillIndicators = []string{
	"python", "java", "javascript", "sql", "c++", "react", "angular", "vue",
	"aws", "azure", "docker", "kubernetes", "git", "jenkins", "terraform",
	"tableau", "power bi", "excel", "postgresql", "mysql", "mongodb",
	"tensorflow", "pytorch", "pandas", "numpy", "scikit-learn",
}

var softSkillIndicators = []string{
	"leadership", "communication", "teamwork", "collaboration", "problem-solving",
	"analytical", "time management", "project management", "mentoring",
}

var actionVerbs = map[string]bool{
	// Achievement
	"achieved": true, "accomplished": true, "attained": true, "exceeded": true, "delivered": true,
	// Creation
	"built": true, "created": true, "designed": true, "developed": true, "established": true, "launched": true,
	// Leadership
	"led": true, "managed": true, "directed": true, "supervised": true, "coordinated": true, "mentored": true,
	// Improvement
	"improved": true, "increased": true, "enhanced": true, "optimized": true, "streamlined": true, "reduced": true,
	// Execution
	"implemented": true, "executed": true, "performed": true, "conducted": true, "operated": true,
	// Analysis
	"analyzed": true, "evaluated": true, "assessed": true, "researched": true, "investigated": true,
	// Communication
	"presented": true, "negotiated": true, "collaborated": true, "partnered": true, "facilitated": true,
}

var metricPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`\$[\d,]+`),
	regexp.MustCompile(`[\d,]+\+`),
	regexp.MustCompile(`\d+x\b`),
	regexp.MustCompile(`\d+\s+years?`),
	regexp.MustCompile(`\d+\s+months?`),
	regexp.MustCompile(`\d+\s+team`),
	regexp.MustCompile(`\d+\s+projects?`),
	regexp.MustCompile(`\d+\s+clients?`),
	regexp.MustCompile(`[\d,]+\s+users?`),
	regexp.MustCompile(`[\d,]+\s+customers?`),
}

var (
	itemPattern          = regexp.MustCompile(`\\item\s+`)
	usepackagePattern    = regexp.MustCompile(`\\usepackage(?:\[[^\]]*\])?\{([^}]+)\}`)
	summaryHeaderPattern = regexp.MustCompile(`\\section\*\{[^}]*[Ss]ummary[^}]*\}`)
)

var roleIndicators = []string{
	"analyst", "engineer", "developer", "manager", "specialist", "consultant",
	"architect", "scientist", "designer", "coordinator", "director", "lead",
}

func scoreSections(text string) (int, []string, []string) {
	textLower := cleanText(text)
	var found, missing []string

	for _, section := range requiredSections {
		present := false
		for _, v := range section.variants {
			if strings.Contains(textLower, v) {
				present = true
				break
			}
		}
		if present {
			found = append(found, section.name)
		} else {
			missing = append(missing, section.name)
		}
	}

	hasContact := false
	for _, p := range contactIndicators {
		if strings.Contains(textLower, p) {
			hasContact = true
			break
		}
	}
	if hasContact {
		found = append(found, "Contact Info")
	} else {
		missing = append(missing, "Contact Info")
	}

	// A skills section without technical terms or soft skills is a gap even
	// though the header is present.
	skillsFound := false
	for _, v := range requiredSections[2].variants {
		if strings.Contains(textLower, v) {
			skillsFound = true
			break
		}
	}
	if skillsFound {
		if !containsAny(textLower, hardSkillIndicators) {
			missing = append(missing, "Hard Skills (Technical)")
		}
		if !containsAny(textLower, softSkillIndicators) {
			missing = append(missing, "Soft Skills")
		}
	}

	score := len(found) * 25
	if score > 100 {
		score = 100
	}
	return score, found, missing
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func scoreMetrics(text string) (int, int) {
	// Normalize math-mode and escaped percentages before cleaning so
	// $60\%$ and 60\% both survive as 60%.
	textClean := cleanText(normalizePercents(text))

	count := 0
	for _, pattern := range metricPatterns {
		count += len(pattern.FindAllString(textClean, -1))
	}

	var score int
	switch {
	case count >= 10:
		score = 100
	case count >= 6:
		score = 80
	case count >= 3:
		score = 60
	case count >= 1:
		score = 40
	default:
		score = 20
	}
	return score, count
}

// extractBullets returns the text of each \item entry that begins with an
// uppercase letter, truncated at the first following LaTeX command.
func extractBullets(text string) []string {
	locs := itemPattern.FindAllStringIndex(text, -1)
	bullets := make([]string, 0, len(locs))
	for i, loc := range locs {
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := text[start:end]
		if idx := strings.Index(segment, `\end`); idx != -1 {
			segment = segment[:idx]
		}
		if segment == "" || segment[0] < 'A' || segment[0] > 'Z' {
			continue
		}
		if idx := strings.IndexByte(segment, '\\'); idx != -1 {
			segment = segment[:idx]
		}
		bullets = append(bullets, segment)
	}
	return bullets
}

func scoreActionVerbs(text string) (int, int) {
	bullets := extractBullets(text)

	bulletsWithVerbs := 0
	totalVerbs := 0

	for _, bullet := range bullets {
		words := strings.Fields(cleanText(bullet))
		if len(words) > 0 {
			first := strings.TrimRight(words[0], ".,;:")
			if actionVerbs[first] {
				bulletsWithVerbs++
			}
		}
		for _, word := range words {
			if actionVerbs[strings.TrimRight(word, ".,;:")] {
				totalVerbs++
			}
		}
	}

	if len(bullets) > 0 {
		ratio := float64(bulletsWithVerbs) / float64(len(bullets))
		switch {
		case ratio >= 0.9:
			return 100, totalVerbs
		case ratio >= 0.7:
			return 80, totalVerbs
		case ratio >= 0.5:
			return 60, totalVerbs
		case ratio >= 0.3:
			return 40, totalVerbs
		default:
			return 20, totalVerbs
		}
	}

	// No bullets: fall back to counting action verbs anywhere in the text.
	words := strings.Fields(cleanText(text))
	count := 0
	for _, word := range words {
		if actionVerbs[strings.TrimRight(word, ".,;:")] {
			count++
		}
	}
	switch {
	case count >= 10:
		return 60, count
	case count >= 5:
		return 40, count
	default:
		return 20, count
	}
}

func scoreStructure(text string) (int, int) {
	wordCount := len(strings.Fields(cleanText(text)))

	hasBullets := strings.Contains(strings.ToLower(text), "itemize") ||
		strings.Contains(text, `\item`) || strings.Contains(text, "•")

	var lengthScore int
	switch {
	case wordCount >= 400 && wordCount <= 700:
		lengthScore = 50
	case (wordCount >= 300 && wordCount < 400) || (wordCount > 700 && wordCount <= 900):
		lengthScore = 40
	case (wordCount >= 200 && wordCount < 300) || (wordCount > 900 && wordCount <= 1100):
		lengthScore = 30
	default:
		lengthScore = 20
	}

	bulletScore := 20
	if hasBullets {
		bulletScore = 50
	}

	score := lengthScore + bulletScore
	if score > 100 {
		score = 100
	}
	return score, wordCount
}

func checkTailoredTitle(text string) (bool, string) {
	loc := summaryHeaderPattern.FindStringIndex(text)
	if loc == nil {
		return false, "No summary section found"
	}
	body := text[loc[1]:]
	if idx := strings.Index(body, `\section`); idx != -1 {
		body = body[:idx]
	}
	summary := cleanText(body)

	if containsAny(summary, roleIndicators) {
		return true, "Role/title mentioned in summary"
	}
	return false, "Add your target role/title in the summary section"
}

// scoreDesign checks template and layout constructs that trip up ATS
// parsers: tables, multi-column layouts, images, absolute positioning,
// custom headers, heavy package use, decorative fonts, colors and links.
func scoreDesign(text string) (int, []string) {
	var issues []string
	score := 100

	tableCount := strings.Count(text, `\begin{table}`) + strings.Count(text, `\begin{tabular}`)
	if tableCount > 0 {
		score -= 30
		issues = append(issues, fmt.Sprintf("Contains %d table(s) - ATS systems struggle with tables", tableCount))
	}

	if strings.Contains(text, `\begin{multicols}`) || strings.Contains(text, `\twocolumn`) {
		score -= 25
		issues = append(issues, "Uses multi-column layout - ATS prefers single column")
	}

	imageCount := strings.Count(text, `\includegraphics`) + strings.Count(text, `\graphicspath`)
	if imageCount > 0 {
		score -= 20
		issues = append(issues, fmt.Sprintf("Contains %d image(s) - Images can't be parsed by ATS", imageCount))
	}

	if strings.Contains(text, `\textbox`) || strings.Contains(text, `\tikz`) || strings.Contains(text, `\put(`) {
		score -= 15
		issues = append(issues, "Uses complex positioning - May confuse ATS parsers")
	}

	if strings.Contains(text, `\fancyhead`) || strings.Contains(text, `\fancyfoot`) || strings.Contains(text, `\pagestyle{fancy}`) {
		score -= 10
		issues = append(issues, "Uses custom headers/footers - May interfere with ATS parsing")
	}

	packageCount := len(usepackagePattern.FindAllString(text, -1))
	if packageCount > 15 {
		score -= 10
		issues = append(issues, fmt.Sprintf("Uses %d packages - Complex design may confuse ATS", packageCount))
	} else if packageCount > 10 {
		score -= 5
		issues = append(issues, fmt.Sprintf("Uses %d packages - Consider simplifying", packageCount))
	}

	decorativeFonts := []string{`\usepackage{fontspec}`, `\usepackage{fontawesome}`, `\usepackage{fontawesome5}`}
	decorativeCount := 0
	for _, font := range decorativeFonts {
		if strings.Contains(text, font) {
			decorativeCount++
		}
	}
	if decorativeCount > 1 {
		score -= 5
		issues = append(issues, "Uses multiple decorative font packages - Stick to standard fonts")
	}

	colorCommands := strings.Count(text, `\textcolor{`) + strings.Count(text, `\color{`)
	if colorCommands > 10 {
		score -= 5
		issues = append(issues, "Uses many colors - ATS works best with black text")
	}

	hyperlinkCount := strings.Count(text, `\href{`)
	if hyperlinkCount > 8 {
		score -= 5
		issues = append(issues, fmt.Sprintf("Contains %d hyperlinks - Consider reducing", hyperlinkCount))
	}

	if strings.Contains(text, `\documentclass{article}`) || strings.Contains(text, `\documentclass[11pt,a4paper]{article}`) {
		if score < 100 {
			score += 5
		}
	} else if strings.Contains(text, `\documentclass{moderncv}`) || strings.Contains(text, `\documentclass{altacv}`) {
		score -= 10
		issues = append(issues, "Uses CV-specific class - May have parsing issues")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, issues
}

// ScoreUniversal calculates the universal ATS score for a resume. A perfect
// score requires every component to be strong: the overall score is capped
// when any component falls below 70 or 80.
func ScoreUniversal(resumeText string) UniversalResult {
	var recommendations []string

	sectionScore, found, missing := scoreSections(resumeText)
	if len(missing) > 0 {
		recommendations = append(recommendations, "Add missing sections: "+strings.Join(missing, ", "))
	}

	metricsScore, metricsCount := scoreMetrics(resumeText)
	if metricsCount < 5 {
		recommendations = append(recommendations, "Add more quantifiable achievements (numbers, %, $)")
	}

	verbsScore, verbsCount := scoreActionVerbs(resumeText)
	bulletCount := len(itemPattern.FindAllString(resumeText, -1))
	if bulletCount > 0 && float64(verbsCount) < float64(bulletCount)*0.7 {
		recommendations = append(recommendations, "Start more bullets with action verbs (Led, Built, Achieved, Analyzed)")
	}

	structureScore, wordCount := scoreStructure(resumeText)
	if wordCount < 350 {
		recommendations = append(recommendations, "Resume may be too short - aim for 400-700 words")
	} else if wordCount > 800 {
		recommendations = append(recommendations, "Resume may be too long - aim for 400-700 words (1 page)")
	}

	designScore, designIssues := scoreDesign(resumeText)
	if len(designIssues) > 0 {
		top := designIssues
		if len(top) > 2 {
			top = top[:2]
		}
		recommendations = append(recommendations, top...)
	}

	hasTitle, _ := checkTailoredTitle(resumeText)
	titleScore := 50
	if hasTitle {
		titleScore = 100
	} else {
		recommendations = append(recommendations, "Add your target role/title in the summary section")
	}

	overall := int(
		float64(sectionScore)*0.20 +
			float64(metricsScore)*0.25 +
			float64(verbsScore)*0.25 +
			float64(structureScore)*0.15 +
			float64(designScore)*0.15 +
			float64(titleScore)*0.10)

	// A weak component caps the overall score so a resume cannot score
	// near-perfect on breadth alone.
	minComponent := sectionScore
	for _, s := range []int{metricsScore, verbsScore, structureScore, designScore} {
		if s < minComponent {
			minComponent = s
		}
	}
	if minComponent < 70 && overall > 85 {
		overall = 85
	} else if minComponent < 80 && overall > 90 {
		overall = 90
	}

	var rating, summary string
	switch {
	case overall >= 85:
		rating = "Excellent"
		summary = "Your resume follows ATS best practices well!"
	case overall >= 70:
		rating = "Good"
		summary = "Good foundation. Small improvements could boost your score."
	case overall >= 55:
		rating = "Fair"
		summary = "Your resume needs some optimization for ATS systems."
	default:
		rating = "Needs Work"
		summary = "Significant improvements needed for ATS compatibility."
	}

	if len(recommendations) > 6 {
		recommendations = recommendations[:6]
	}

	return UniversalResult{
		Score:            overall,
		Rating:           rating,
		SectionScore:     sectionScore,
		MetricsScore:     metricsScore,
		ActionVerbsScore: verbsScore,
		StructureScore:   structureScore,
		DesignScore:      designScore,
		FoundSections:    found,
		MissingSections:  missing,
		MetricsCount:     metricsCount,
		ActionVerbsCount: verbsCount,
		WordCount:        wordCount,
		DesignIssues:     designIssues,
		Summary:          summary,
		Recommendations:  recommendations,
	}
}
