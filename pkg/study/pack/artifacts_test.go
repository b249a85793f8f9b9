package pack

import (
	"strings"
	"testing"

	"studybuddy-be/internal/entity"
)

func fallbackFixture() entity.StudyArtifacts {
	return entity.StudyArtifacts{
		Headline:       "Fallback headline",
		Takeaways:      []string{"t1", "t2"},
		StudyQuestions: []string{"q1"},
		Flashcards:     []entity.Flashcard{{Front: "f", Back: "b"}},
		ActionSteps:    []string{"s1"},
		RecommendedBreakdown: entity.Breakdown{
			WarmUp:   "w",
			DeepDive: "d",
			Review:   "r",
		},
	}
}

func TestNormalizeArtifactsEmptyPayloadKeepsFallback(t *testing.T) {
	fallback := fallbackFixture()
	got := NormalizeArtifacts(ArtifactsPayload{}, fallback)

	if got.Headline != fallback.Headline {
		t.Errorf("headline = %q, want fallback", got.Headline)
	}
	if len(got.Takeaways) != 2 || len(got.StudyQuestions) != 1 || len(got.Flashcards) != 1 || len(got.ActionSteps) != 1 {
		t.Errorf("fallback fields not preserved: %+v", got)
	}
	if got.RecommendedBreakdown != fallback.RecommendedBreakdown {
		t.Errorf("breakdown = %+v, want fallback", got.RecommendedBreakdown)
	}
}

func TestNormalizeArtifactsMergesFieldByField(t *testing.T) {
	payload := ArtifactsPayload{
		Headline:  "  Model headline  ",
		Takeaways: []string{" one ", "", "two"},
	}
	payload.RecommendedBreakdown.DeepDive = "study the hard parts"

	got := NormalizeArtifacts(payload, fallbackFixture())

	if got.Headline != "Model headline" {
		t.Errorf("headline = %q", got.Headline)
	}
	if len(got.Takeaways) != 2 || got.Takeaways[0] != "one" || got.Takeaways[1] != "two" {
		t.Errorf("takeaways = %v", got.Takeaways)
	}
	// Untouched fields stay at fallback values.
	if len(got.StudyQuestions) != 1 || got.StudyQuestions[0] != "q1" {
		t.Errorf("studyQuestions = %v", got.StudyQuestions)
	}
	if got.RecommendedBreakdown.WarmUp != "w" || got.RecommendedBreakdown.DeepDive != "study the hard parts" || got.RecommendedBreakdown.Review != "r" {
		t.Errorf("breakdown = %+v", got.RecommendedBreakdown)
	}
}

func TestNormalizeArtifactsEnforcesBounds(t *testing.T) {
	payload := ArtifactsPayload{
		Takeaways:      manyStrings(9),
		StudyQuestions: manyStrings(9),
		ActionSteps:    manyStrings(9),
	}
	for i := 0; i < 9; i++ {
		payload.Flashcards = append(payload.Flashcards, struct {
			Front string `json:"front"`
			Back  string `json:"back"`
		}{Front: "front", Back: "back"})
	}

	got := NormalizeArtifacts(payload, fallbackFixture())

	if len(got.Takeaways) != maxTakeaways {
		t.Errorf("takeaways = %d, want %d", len(got.Takeaways), maxTakeaways)
	}
	if len(got.StudyQuestions) != maxStudyQuestions {
		t.Errorf("studyQuestions = %d, want %d", len(got.StudyQuestions), maxStudyQuestions)
	}
	if len(got.Flashcards) != maxFlashcards {
		t.Errorf("flashcards = %d, want %d", len(got.Flashcards), maxFlashcards)
	}
	if len(got.ActionSteps) != maxActionSteps {
		t.Errorf("actionSteps = %d, want %d", len(got.ActionSteps), maxActionSteps)
	}
}

func TestNormalizeArtifactsDropsHalfEmptyFlashcards(t *testing.T) {
	payload := ArtifactsPayload{}
	payload.Flashcards = append(payload.Flashcards, struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}{Front: "only front"})

	got := NormalizeArtifacts(payload, fallbackFixture())
	if len(got.Flashcards) != 1 || got.Flashcards[0].Front != "f" {
		t.Errorf("half-empty flashcard should be dropped in favor of fallback: %+v", got.Flashcards)
	}
}

func TestFallbackArtifactsCompleteAndBounded(t *testing.T) {
	note := &entity.Note{
		Summary: "The immune system defends the body against pathogens. " +
			"White blood cells identify and destroy invaders. " +
			"Vaccines train immune memory. Antibodies bind to antigens. " +
			"Inflammation signals the immune response. Fevers slow pathogen growth.",
		Concepts: []string{"Immunity", "Antibodies", "Vaccines", "Inflammation", "Pathogens", "Memory Cells", "Fever"},
		ConceptInsights: map[string]entity.ConceptInsight{
			"Immunity": {Concept: "Immunity", KeyFact: "The body's defense network.", QuestionCue: "How does immunity develop?"},
		},
	}

	got := FallbackArtifacts(note, &entity.Capture{Title: "Immune Basics"})

	if got.Headline != "Immune Basics" {
		t.Errorf("headline = %q, want capture title", got.Headline)
	}
	if len(got.Takeaways) == 0 || len(got.Takeaways) > maxTakeaways {
		t.Errorf("takeaways out of bounds: %d", len(got.Takeaways))
	}
	if len(got.StudyQuestions) == 0 || len(got.StudyQuestions) > maxStudyQuestions {
		t.Errorf("studyQuestions out of bounds: %d", len(got.StudyQuestions))
	}
	if len(got.Flashcards) == 0 || len(got.Flashcards) > maxFlashcards {
		t.Errorf("flashcards out of bounds: %d", len(got.Flashcards))
	}
	if got.StudyQuestions[0] != "How does immunity develop?" {
		t.Errorf("insight question cue not reused: %q", got.StudyQuestions[0])
	}
	if got.Flashcards[0].Back != "The body's defense network." {
		t.Errorf("insight key fact not reused: %q", got.Flashcards[0].Back)
	}
	breakdown := got.RecommendedBreakdown
	if breakdown.WarmUp == "" || breakdown.DeepDive == "" || breakdown.Review == "" {
		t.Errorf("breakdown incomplete: %+v", breakdown)
	}
}

func TestFallbackArtifactsWithoutCaptureUsesSummary(t *testing.T) {
	note := &entity.Note{Summary: "Plate tectonics shapes the surface of the earth."}
	got := FallbackArtifacts(note, nil)
	if !strings.HasPrefix(got.Headline, "Plate tectonics") {
		t.Errorf("headline = %q, want first summary sentence", got.Headline)
	}
}

func manyStrings(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "item"
	}
	return out
}
