package capability

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeSession implements every per-kind session interface and records
// what was asked of it.
type fakeSession struct {
	response  string
	err       error
	destroyed int

	lastText    string
	lastContext string
}

func (s *fakeSession) Destroy() { s.destroyed++ }

func (s *fakeSession) Summarize(_ context.Context, text, sharedContext string) (string, error) {
	s.lastText, s.lastContext = text, sharedContext
	return s.response, s.err
}

func (s *fakeSession) Prompt(_ context.Context, text string) (string, error) {
	s.lastText = text
	return s.response, s.err
}

func (s *fakeSession) Write(_ context.Context, task, sharedContext string) (string, error) {
	s.lastText, s.lastContext = task, sharedContext
	return s.response, s.err
}

func (s *fakeSession) Rewrite(_ context.Context, text string) (string, error) {
	s.lastText = text
	return s.response, s.err
}

func (s *fakeSession) Translate(_ context.Context, text string) (string, error) {
	s.lastText = text
	return s.response, s.err
}

type fakeProvider struct {
	state      Availability
	probeErr   error
	createErr  error
	session    Session
	probeCalls int
	creates    int
}

func (p *fakeProvider) Availability(context.Context, AvailabilityOptions) (Availability, error) {
	p.probeCalls++
	return p.state, p.probeErr
}

func (p *fakeProvider) Create(context.Context, CreateOptions) (Session, error) {
	p.creates++
	if p.createErr != nil {
		return nil, p.createErr
	}
	return p.session, nil
}

func newTestManager(kinds map[Kind]Provider) *Manager {
	registry := NewRegistry()
	for kind, provider := range kinds {
		registry.Register(kind, provider)
	}
	return NewManager(registry, nil)
}

func TestParseAvailability(t *testing.T) {
	tests := []struct {
		in   string
		want Availability
	}{
		{"available", AvailabilityAvailable},
		{"readily", AvailabilityAvailable},
		{"ready", AvailabilityAvailable},
		{"Available", AvailabilityAvailable},
		{"after-download", AvailabilityDownloadable},
		{"downloadable", AvailabilityDownloadable},
		{"downloading", AvailabilityDownloading},
		{"unavailable", AvailabilityUnavailable},
		{"", AvailabilityUnavailable},
		{"garbage", AvailabilityUnavailable},
	}
	for _, tt := range tests {
		if got := ParseAvailability(tt.in); got != tt.want {
			t.Errorf("ParseAvailability(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarizeUsesCapability(t *testing.T) {
	session := &fakeSession{response: "Condensed."}
	provider := &fakeProvider{state: AvailabilityAvailable, session: session}
	m := newTestManager(map[Kind]Provider{KindSummarizer: provider})

	got := m.Summarize(context.Background(), "Some long study material about cells.", SummarizerOptions{})
	if got != "Condensed." {
		t.Fatalf("Summarize = %q, want capability output", got)
	}
	if !strings.Contains(session.lastContext, "Respond in English only") {
		t.Errorf("shared context missing English instruction: %q", session.lastContext)
	}
}

func TestSummarizeFallsBackWithoutProvider(t *testing.T) {
	m := newTestManager(nil)

	text := "Photosynthesis converts light into chemical energy. It happens in chloroplasts."
	got := m.Summarize(context.Background(), text, SummarizerOptions{})
	if got != SimpleSummary(text) {
		t.Errorf("Summarize = %q, want SimpleSummary fallback", got)
	}
}

func TestSummarizeFallsBackOnCallError(t *testing.T) {
	session := &fakeSession{err: errors.New("boom")}
	provider := &fakeProvider{state: AvailabilityAvailable, session: session}
	m := newTestManager(map[Kind]Provider{KindSummarizer: provider})

	text := "The mitochondria is the powerhouse of the cell. It produces ATP for the cell."
	if got := m.Summarize(context.Background(), text, SummarizerOptions{}); got != SimpleSummary(text) {
		t.Errorf("Summarize = %q, want fallback on session error", got)
	}
}

func TestEnsureSessionIdempotent(t *testing.T) {
	session := &fakeSession{response: "ok"}
	provider := &fakeProvider{state: AvailabilityAvailable, session: session}
	m := newTestManager(map[Kind]Provider{KindSummarizer: provider})

	m.Summarize(context.Background(), "Material to summarize, long enough.", SummarizerOptions{})
	m.Summarize(context.Background(), "More material to summarize for reuse.", SummarizerOptions{})

	if provider.creates != 1 {
		t.Errorf("Create called %d times for identical options, want 1", provider.creates)
	}
	if session.destroyed != 0 {
		t.Errorf("session destroyed %d times, want 0", session.destroyed)
	}
}

func TestReconfigurationReplacesSession(t *testing.T) {
	session := &fakeSession{response: "ok"}
	provider := &fakeProvider{state: AvailabilityAvailable, session: session}
	m := newTestManager(map[Kind]Provider{KindSummarizer: provider})

	m.Summarize(context.Background(), "Long enough input text goes right here.", SummarizerOptions{})
	m.Summarize(context.Background(), "Long enough input text goes right here.", SummarizerOptions{Length: "short"})

	if provider.creates != 2 {
		t.Errorf("Create called %d times across reconfiguration, want 2", provider.creates)
	}
	if session.destroyed != 1 {
		t.Errorf("old session destroyed %d times, want 1", session.destroyed)
	}
}

func TestExtractConceptsParsesModelOutput(t *testing.T) {
	session := &fakeSession{response: "```json\n" + `{
		"concepts": ["Osmosis", "Diffusion"],
		"insights": [
			{"concept": "Osmosis", "keyFact": "Water crosses a membrane.", "questionCue": "Ask about gradients."}
		]
	}` + "\n```"}
	provider := &fakeProvider{state: AvailabilityAvailable, session: session}
	m := newTestManager(map[Kind]Provider{KindLanguageModel: provider})

	got := m.ExtractConcepts(context.Background(), "Summary about transport.", LanguageModelOptions{})

	if !reflect.DeepEqual(got.Concepts, []string{"Osmosis", "Diffusion"}) {
		t.Fatalf("concepts = %v", got.Concepts)
	}
	if got.Insights["Osmosis"].KeyFact != "Water crosses a membrane." {
		t.Errorf("Osmosis insight not taken from model: %+v", got.Insights["Osmosis"])
	}
	// The model skipped Diffusion; its insight must be synthesized.
	if got.Insights["Diffusion"].KeyFact != "Understand the role of Diffusion." {
		t.Errorf("missing synthesized insight: %+v", got.Insights["Diffusion"])
	}
}

func TestExtractConceptsFallsBackOnMalformedJSON(t *testing.T) {
	session := &fakeSession{response: "sorry, I cannot do that"}
	provider := &fakeProvider{state: AvailabilityAvailable, session: session}
	m := newTestManager(map[Kind]Provider{KindLanguageModel: provider})

	summary := "Mitochondria mitochondria produce energy energy inside cells"
	got := m.ExtractConcepts(context.Background(), summary, LanguageModelOptions{})

	if !reflect.DeepEqual(got, FallbackConcepts(summary)) {
		t.Errorf("expected frequency fallback, got %+v", got)
	}
}

func TestGenerateContentEmptyWithoutWriter(t *testing.T) {
	m := newTestManager(nil)
	if got := m.GenerateContent(context.Background(), "draft something", WriterOptions{}); got != "" {
		t.Errorf("GenerateContent = %q, want empty on unavailability", got)
	}
}

func TestRewriteContentReturnsInputOnFailure(t *testing.T) {
	m := newTestManager(nil)
	if got := m.RewriteContent(context.Background(), "keep me", RewriterOptions{}); got != "keep me" {
		t.Errorf("RewriteContent = %q, want original text", got)
	}
}

func TestDetectLanguageShortTextSkipsProbe(t *testing.T) {
	provider := &fakeProvider{state: AvailabilityAvailable}
	m := newTestManager(map[Kind]Provider{KindLanguageDetector: provider})

	if got := m.DetectLanguage(context.Background(), "short text", DetectorOptions{}); got != nil {
		t.Errorf("DetectLanguage = %+v, want nil for short text", got)
	}
	if provider.probeCalls != 0 {
		t.Errorf("availability probed %d times for short text, want 0", provider.probeCalls)
	}
}

func TestTranslateTextCachesNegativeResult(t *testing.T) {
	provider := &fakeProvider{state: AvailabilityUnavailable}
	m := newTestManager(map[Kind]Provider{KindTranslator: provider})

	if got := m.TranslateText(context.Background(), "hola", "en", "es"); got != "" {
		t.Fatalf("TranslateText = %q, want empty", got)
	}
	m.TranslateText(context.Background(), "hola otra vez", "en", "es")

	if provider.probeCalls != 1 {
		t.Errorf("availability probed %d times, want 1 (negative result cached)", provider.probeCalls)
	}
}

func TestTranslateTextUsesPairSessions(t *testing.T) {
	session := &fakeSession{response: "hello"}
	provider := &fakeProvider{state: AvailabilityAvailable, session: session}
	m := newTestManager(map[Kind]Provider{KindTranslator: provider})

	if got := m.TranslateText(context.Background(), "hola", "en", "es"); got != "hello" {
		t.Fatalf("TranslateText = %q, want %q", got, "hello")
	}
	m.TranslateText(context.Background(), "bonjour", "en", "fr")

	if provider.creates != 2 {
		t.Errorf("Create called %d times, want one session per language pair", provider.creates)
	}
}

func TestRequestStructuredJSONFallbackWhenNothingAvailable(t *testing.T) {
	type bundle struct {
		Headline  string   `json:"headline"`
		Takeaways []string `json:"takeaways"`
	}

	m := newTestManager(nil)
	want := bundle{Headline: "default", Takeaways: []string{"a", "b"}}

	got := RequestStructuredJSON(context.Background(), m, "give me json", func() bundle {
		return bundle{Headline: "default", Takeaways: []string{"a", "b"}}
	})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback not returned exactly: got %+v, want %+v", got, want)
	}
}

func TestRequestStructuredJSONWriterPath(t *testing.T) {
	type bundle struct {
		Headline string `json:"headline"`
	}

	writer := &fakeSession{response: "```json\n{\"headline\":\"from writer\"}\n```"}
	m := newTestManager(map[Kind]Provider{
		KindWriter: &fakeProvider{state: AvailabilityAvailable, session: writer},
	})

	got := RequestStructuredJSON(context.Background(), m, "give me json", func() bundle {
		return bundle{Headline: "fallback"}
	})
	if got.Headline != "from writer" {
		t.Errorf("writer path not used: %+v", got)
	}
}

func TestRequestStructuredJSONLanguageModelPath(t *testing.T) {
	type bundle struct {
		Headline string `json:"headline"`
	}

	prompt := &fakeSession{response: "{\"headline\":\"from model\"}"}
	m := newTestManager(map[Kind]Provider{
		KindLanguageModel: &fakeProvider{state: AvailabilityAvailable, session: prompt},
	})

	got := RequestStructuredJSON(context.Background(), m, "give me json", func() bundle {
		return bundle{Headline: "fallback"}
	})
	if got.Headline != "from model" {
		t.Errorf("language model path not used: %+v", got)
	}
	if !strings.Contains(prompt.lastText, "Respond strictly with valid JSON.") {
		t.Errorf("strict JSON instruction missing from prompt: %q", prompt.lastText)
	}
}

func TestRegistryResolveMissingKind(t *testing.T) {
	registry := NewRegistry()
	if got := registry.Resolve(KindWriter); got != nil {
		t.Errorf("Resolve on empty registry = %v, want nil", got)
	}

	provider := &fakeProvider{}
	registry.Register(KindWriter, provider)
	if registry.Resolve(KindWriter) != provider {
		t.Error("Resolve did not return the registered provider")
	}

	registry.Register(KindWriter, nil)
	if registry.Resolve(KindWriter) != nil {
		t.Error("nil registration should unregister the provider")
	}
}
