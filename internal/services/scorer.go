package services

import (
	"regexp"
	"sort"
	"strings"

	"hrscreening/resume-screener/internal/models"
)

// ScorerService computes how well resume text matches the configured job
// description. Scoring is pure and stateless after construction, so a single
// instance is safe to share across request handlers.
type ScorerService interface {
	Score(resumeText string) int
	Decide(score int) models.Decision
	Threshold() int
	Keywords() []string
}

type scorerService struct {
	keywords  map[string]struct{}
	threshold int
}

var wordPattern = regexp.MustCompile(`\w+`)

// NewScorerService tokenizes the job description once into a deduplicated,
// lower-cased keyword set.
func NewScorerService(jobDescription string, threshold int) ScorerService {
	return &scorerService{
		keywords:  tokenize(jobDescription),
		threshold: threshold,
	}
}

// Score implements ScorerService. An empty or whitespace-only resume scores
// zero; failed text extraction upstream degrades to the worst score instead
// of an error.
func (s *scorerService) Score(resumeText string) int {
	if strings.TrimSpace(resumeText) == "" {
		return 0
	}

	words := tokenize(resumeText)

	matches := 0
	for keyword := range s.keywords {
		if _, ok := words[keyword]; ok {
			matches++
		}
	}

	// Integer division truncates toward zero, matching trunc(matches/|K|*100).
	score := matches * 100 / max(1, len(s.keywords))
	if score > 100 {
		score = 100
	}

	return score
}

// Decide implements ScorerService.
func (s *scorerService) Decide(score int) models.Decision {
	if score >= s.threshold {
		return models.DecisionAccepted
	}
	return models.DecisionRejected
}

// Threshold implements ScorerService.
func (s *scorerService) Threshold() int {
	return s.threshold
}

// Keywords implements ScorerService. Returned sorted for stable output.
func (s *scorerService) Keywords() []string {
	keywords := make([]string, 0, len(s.keywords))
	for keyword := range s.keywords {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}

// tokenize splits text into maximal runs of word characters, case-folded and
// deduplicated. Repeated occurrences count once.
func tokenize(text string) map[string]struct{} {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)

	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}

	return set
}
