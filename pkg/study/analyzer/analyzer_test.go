package analyzer

import (
	"context"
	"strings"
	"testing"

	"studybuddy-be/pkg/capability"
)

func emptyAnalyzer() *Analyzer {
	return NewAnalyzer(capability.NewManager(capability.NewRegistry(), nil), nil)
}

func TestHeuristicPageAnalysis(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantRedFlags bool
	}{
		{
			name:         "neutral text",
			text:         "The library opens at nine and offers quiet study rooms on the second floor.",
			wantRedFlags: false,
		},
		{
			name:         "emotional plus clickbait",
			text:         "SHOCKING truth about water! You won't believe what happens next.",
			wantRedFlags: true,
		},
		{
			name:         "single emotional word is not enough",
			text:         "The deadline is urgent but the plan is otherwise calm and reasonable.",
			wantRedFlags: false,
		},
		{
			name:         "shouting and exclamations",
			text:         "BUY NOW!!! AMAZING DEAL!!! LIMITED STOCK!!! DONT MISS THIS!!! FINAL HOURS!!! HUGE SAVINGS",
			wantRedFlags: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeuristicPageAnalysis(tt.text)
			if got.HasRedFlags != tt.wantRedFlags {
				t.Errorf("hasRedFlags = %v, want %v", got.HasRedFlags, tt.wantRedFlags)
			}
			if len(got.Questions) != 3 {
				t.Errorf("got %d questions, want 3", len(got.Questions))
			}
		})
	}
}

func TestAnalyzePageDegradesToHeuristics(t *testing.T) {
	analyzer := emptyAnalyzer()

	got := analyzer.AnalyzePage(context.Background(), "An ordinary article about gardening and soil health for beginners.")
	if got.HasRedFlags {
		t.Error("neutral text flagged")
	}
	if len(got.Questions) != 3 {
		t.Errorf("got %d questions, want exactly 3", len(got.Questions))
	}
}

func TestAnalyzePageCapsQuestionsAtThree(t *testing.T) {
	got := emptyAnalyzer().AnalyzePage(context.Background(), "Any content at all works for this check.")
	if len(got.Questions) > 3 {
		t.Errorf("questions = %d, want <= 3", len(got.Questions))
	}
}

func TestHeuristicIsAggressive(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"I think we could improve the introduction.", false},
		{"you are an idiot", true},
		{"This is fine! Really! Honestly!", true},
		{"STOP DOING THIS WRONG THING NOW", true},
		{"A perfectly calm sentence.", false},
	}
	for _, tt := range tests {
		if got := HeuristicIsAggressive(tt.text); got != tt.want {
			t.Errorf("HeuristicIsAggressive(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestHeuristicConstructiveRewrite(t *testing.T) {
	got := HeuristicConstructiveRewrite("You are an idiot!! This plan is garbage!!")

	lower := strings.ToLower(got)
	if strings.Contains(lower, "idiot") || strings.Contains(lower, "garbage") {
		t.Errorf("insults not neutralized: %q", got)
	}
	if strings.Contains(got, "!!") {
		t.Errorf("exclamation runs not collapsed: %q", got)
	}
	if !strings.Contains(got, "I feel") {
		t.Errorf("you-statement not converted: %q", got)
	}
}

func TestHeuristicRewriteAddsSoftener(t *testing.T) {
	got := HeuristicConstructiveRewrite("This is trash")
	if !strings.HasPrefix(got, "I think ") {
		t.Errorf("softener missing: %q", got)
	}
}

func TestHeuristicRewriteKeepsExistingSoftener(t *testing.T) {
	got := HeuristicConstructiveRewrite("I suggest we fix this garbage")
	if strings.HasPrefix(got, "I think I suggest") {
		t.Errorf("double softener: %q", got)
	}
}

func TestSuggestRewriteNonAggressiveReturnsEmpty(t *testing.T) {
	analyzer := emptyAnalyzer()
	if got := analyzer.SuggestRewrite(context.Background(), "Could we revisit the schedule?"); got != "" {
		t.Errorf("SuggestRewrite = %q, want empty for calm text", got)
	}
}

func TestSuggestRewriteAggressiveHeuristicPath(t *testing.T) {
	analyzer := emptyAnalyzer()
	got := analyzer.SuggestRewrite(context.Background(), "you are a MORON and this is GARBAGE and TRASH!!")
	if got == "" {
		t.Fatal("expected a rewrite for aggressive text")
	}
	if strings.Contains(strings.ToLower(got), "moron") {
		t.Errorf("insult survived the rewrite: %q", got)
	}
}

func TestSuggestRewriteEmptyInput(t *testing.T) {
	if got := emptyAnalyzer().SuggestRewrite(context.Background(), "   "); got != "" {
		t.Errorf("SuggestRewrite = %q, want empty", got)
	}
}
