// Package analyzer flags questionable page content and suggests
// constructive rewrites of aggressive text. Both paths prefer the
// capability manager and fall back to deterministic heuristics.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/capability"
)

const maxPageTextLength = 60000

// PageAnalysis is the outcome of analyzing one page's text.
type PageAnalysis struct {
	HasRedFlags bool     `json:"hasRedFlags"`
	Questions   []string `json:"questions"`
}

type Analyzer struct {
	manager *capability.Manager
	log     logger.ILogger
}

func NewAnalyzer(manager *capability.Manager, log logger.ILogger) *Analyzer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Analyzer{manager: manager, log: log}
}

const pageAnalysisPromptTemplate = `Based on the following summary of a webpage, identify potential red flags for a young user.
Red flags include: strong emotional language (fear, anger), urgent calls to action, claims without evidence, or a heavily biased perspective.
Then, generate exactly 3 short, simple critical thinking questions to help the user evaluate the content.
Return the response as a JSON object with two keys: "hasRedFlags" (boolean) and "questions" (an array of strings).

Summary: "%s"`

// AnalyzePage scores page text for manipulation signals and produces
// at most three critical-thinking questions. The AI path summarizes
// first to cut the prompt down; any failure lands on the heuristic
// scorer.
func (a *Analyzer) AnalyzePage(ctx context.Context, pageText string) PageAnalysis {
	truncated := truncateRunes(strings.TrimSpace(pageText), maxPageTextLength)

	result := a.analyzeWithAI(ctx, truncated)
	if result == nil {
		heuristic := HeuristicPageAnalysis(truncated)
		result = &heuristic
	}

	if len(result.Questions) == 0 {
		result.Questions = []string{
			"What evidence supports the main claims?",
			"Is the language emotional or neutral?",
			"Can you find a source with an opposing view?",
		}
	}
	if len(result.Questions) > 3 {
		result.Questions = result.Questions[:3]
	}
	return *result
}

func (a *Analyzer) analyzeWithAI(ctx context.Context, text string) *PageAnalysis {
	summary := a.manager.Summarize(ctx, text, capability.SummarizerOptions{Length: "short"})
	if strings.TrimSpace(summary) == "" {
		return nil
	}

	response := a.manager.Prompt(ctx, fmt.Sprintf(pageAnalysisPromptTemplate, summary), capability.LanguageModelOptions{})
	if response == "" {
		return nil
	}

	parsed := capability.ParseJSON(a.log, capability.SanitizeResponse(response), func() PageAnalysis {
		return PageAnalysis{}
	})
	if len(parsed.Questions) == 0 {
		// Fallback value or a degenerate response; treat both as a miss.
		return nil
	}
	return &parsed
}

var emotionalWords = []string{
	"shocking", "unbelievable", "disaster", "scandal", "ruined", "destroyed", "furious", "rage", "terrified", "panic",
	"urgent", "now", "immediately", "must", "exposed", "secret", "banned", "outrage", "humiliated", "crushed",
}

var clickbaitPhrases = []string{
	"you won't believe", "what happens next", "before it's too late", "the truth about", "nobody talks about",
	"shocking truth", "goes viral", "breaks the internet", "mind-blowing", "jaw-dropping", "click here", "free!!!",
}

// HeuristicPageAnalysis scores text without any model: emotional and
// clickbait vocabulary hits plus exclamation runs (>2) and ALL-CAPS
// words (>5) each contribute, red flags at a score of 2 or more.
func HeuristicPageAnalysis(text string) PageAnalysis {
	lower := strings.ToLower(text)

	score := 0
	for _, word := range emotionalWords {
		if strings.Contains(lower, word) {
			score++
		}
	}
	for _, phrase := range clickbaitPhrases {
		if strings.Contains(lower, phrase) {
			score++
		}
	}
	if countExclamationRuns(text) > 2 {
		score++
	}
	if countAllCapsWords(text) > 5 {
		score++
	}

	return PageAnalysis{
		HasRedFlags: score >= 2,
		Questions: []string{
			"What specific evidence or sources back these claims?",
			"Is the language trying to trigger a strong emotion?",
			"What might be the author's goal in sharing this?",
		},
	}
}

func countExclamationRuns(text string) int {
	runs := 0
	inRun := false
	for _, r := range text {
		if r == '!' {
			if !inRun {
				runs++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return runs
}

func countAllCapsWords(text string) int {
	count := 0
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !isASCIILetter(r)
	}) {
		if len(word) >= 4 && word == strings.ToUpper(word) && word != strings.ToLower(word) {
			count++
		}
	}
	return count
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
