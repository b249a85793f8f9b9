package capability

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"studybuddy-be/internal/entity"
)

// ConceptExtraction pairs the ordered concept list with its insight map.
type ConceptExtraction struct {
	Concepts []string                         `json:"concepts"`
	Insights map[string]entity.ConceptInsight `json:"insights"`
}

// SimpleSummary is the deterministic extractive fallback used when the
// summarizer capability is unavailable: keep sentences longer than 10
// characters and take the leading min(3, ceil(n/3)) of them. Text with no
// qualifying sentences is truncated to 240 characters.
func SimpleSummary(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var sentences []string
	for _, raw := range strings.FieldsFunc(text, isSentenceTerminator) {
		sentence := strings.TrimSpace(raw)
		if len(sentence) > 10 {
			sentences = append(sentences, sentence)
		}
	}

	if len(sentences) == 0 {
		return truncateRunes(text, 240)
	}

	count := (len(sentences) + 2) / 3
	if count > 3 {
		count = 3
	}
	return strings.Join(sentences[:count], ". ") + "."
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// FallbackConcepts ranks the summary's words by frequency and promotes the
// top 5 to concepts, skipping words of 3 characters or fewer. Each concept
// gets a synthetic generic insight.
func FallbackConcepts(summary string) ConceptExtraction {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, summary)

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 3 {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	// Rank by frequency; first appearance breaks ties so output is stable.
	rank := make(map[string]int, len(order))
	for i, word := range order {
		rank[word] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return rank[order[i]] < rank[order[j]]
	})

	if len(order) > 5 {
		order = order[:5]
	}

	concepts := make([]string, 0, len(order))
	insights := make(map[string]entity.ConceptInsight, len(order))
	for _, word := range order {
		concept := titleCase(word)
		concepts = append(concepts, concept)
		insights[concept] = genericInsight(concept)
	}

	return ConceptExtraction{Concepts: concepts, Insights: insights}
}

func genericInsight(concept string) entity.ConceptInsight {
	return entity.ConceptInsight{
		Concept:     concept,
		KeyFact:     fmt.Sprintf("Understand the core idea behind %s.", concept),
		QuestionCue: fmt.Sprintf("Explain why %s matters in the topic.", concept),
	}
}

func titleCase(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func truncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
