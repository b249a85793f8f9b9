package analyzer

import (
	"context"
	"regexp"
	"strings"

	"studybuddy-be/pkg/capability"
)

// SuggestRewrite returns a constructive rephrasing of aggressive text,
// or "" when the text needs none. The tone check asks the language
// model for a strict YES/NO; when the model is unavailable a
// deterministic word-list check and rewrite take over.
func (a *Analyzer) SuggestRewrite(ctx context.Context, text string) string {
	input := strings.TrimSpace(text)
	if input == "" {
		return ""
	}

	toneCheck := a.manager.Prompt(ctx,
		"Is this text aggressive or non-constructive? Respond YES or NO.\n\n"+input,
		capability.LanguageModelOptions{})
	switch strings.ToUpper(strings.TrimSpace(toneCheck)) {
	case "YES":
		rewritten := a.manager.RewriteContent(ctx, input, capability.RewriterOptions{Tone: "more-casual"})
		if trimmed := strings.TrimSpace(rewritten); trimmed != "" && trimmed != input {
			return trimmed
		}
	case "NO":
		return ""
	}

	// Model unavailable or indecisive.
	if !HeuristicIsAggressive(input) {
		return ""
	}
	return HeuristicConstructiveRewrite(input)
}

var insultWords = []string{
	"idiot", "stupid", "dumb", "trash", "garbage", "shut up", "hate you", "loser", "moron", "worthless",
}

// HeuristicIsAggressive flags insults, more than two exclamation runs,
// or more than two ALL-CAPS words.
func HeuristicIsAggressive(text string) bool {
	lower := strings.ToLower(text)
	for _, insult := range insultWords {
		if strings.Contains(lower, insult) {
			return true
		}
	}
	return countExclamationRuns(text) > 2 || countAllCapsWords(text) > 2
}

var insultReplacements = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bidiot\b`), "person"},
	{regexp.MustCompile(`(?i)\bstupid\b`), "unhelpful"},
	{regexp.MustCompile(`(?i)\bdumb\b`), "not clear"},
	{regexp.MustCompile(`(?i)\btrash\b`), "not useful"},
	{regexp.MustCompile(`(?i)\bgarbage\b`), "not accurate"},
	{regexp.MustCompile(`(?i)\bmoron\b`), "person"},
	{regexp.MustCompile(`(?i)\bworthless\b`), "not helpful"},
}

var (
	exclamationRunPattern = regexp.MustCompile(`!{2,}`)
	questionRunPattern    = regexp.MustCompile(`\?{2,}`)
	allCapsPattern        = regexp.MustCompile(`\b[A-Z]{4,}\b`)
	youArePattern         = regexp.MustCompile(`(?i)\byou\s+are\b`)
	youShouldPattern      = regexp.MustCompile(`(?i)\byou\s+should\b`)
	softenerPattern       = regexp.MustCompile(`(?i)^\s*(i\s+(feel|think|suggest|believe)|let's)\b`)
)

// HeuristicConstructiveRewrite rewrites without a model: neutralize
// insults, collapse shouting punctuation, de-capitalize ALL-CAPS words,
// turn you-accusations into I-statements, and prepend a softener when
// none is present.
func HeuristicConstructiveRewrite(text string) string {
	out := text
	for _, sub := range insultReplacements {
		out = sub.pattern.ReplaceAllString(out, sub.replacement)
	}

	out = exclamationRunPattern.ReplaceAllString(out, "!")
	out = questionRunPattern.ReplaceAllString(out, "?")
	out = allCapsPattern.ReplaceAllStringFunc(out, titleCaseWord)

	out = youArePattern.ReplaceAllString(out, "I feel")
	out = youShouldPattern.ReplaceAllString(out, "I suggest we")

	if !softenerPattern.MatchString(out) {
		runes := []rune(out)
		if len(runes) > 0 {
			out = "I think " + strings.ToLower(string(runes[0])) + string(runes[1:])
		}
	}
	return strings.TrimSpace(out)
}

func titleCaseWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
