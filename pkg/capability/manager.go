package capability

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
)

// ErrImageCapabilityUnavailable is returned by ExtractTextFromImage when no
// multimodal language model can be created. It is the one manager operation
// without a deterministic fallback.
var ErrImageCapabilityUnavailable = goerr.New("language model not available for image processing")

// Manager is the façade over the capability registry: one method per
// capability kind, each degrading to a deterministic heuristic (or a
// documented nil result) when the capability is missing or fails. Apart
// from ExtractTextFromImage, no capability failure escapes this type.
type Manager struct {
	log        logger.ILogger
	cache      *sessionCache
	prefs      LanguagePreferences
	onProgress ProgressFunc
}

func NewManager(registry *Registry, log logger.ILogger) *Manager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Manager{
		log:   log,
		cache: newSessionCache(registry, log),
		prefs: defaultLanguagePreferences(),
	}
}

// SetLanguagePreferences updates the defaults applied during option
// normalization. Empty fields leave the current preference untouched.
func (m *Manager) SetLanguagePreferences(prefs LanguagePreferences) {
	if len(prefs.Input) > 0 {
		m.prefs.Input = uniqueLanguages(prefs.Input)
	}
	if prefs.Output != "" {
		m.prefs.Output = prefs.Output
	}
	if len(prefs.Context) > 0 {
		m.prefs.Context = uniqueLanguages(prefs.Context)
	}
}

// SetDownloadMonitor installs a progress callback for capability model
// downloads. The callback never affects session cache identity.
func (m *Manager) SetDownloadMonitor(fn ProgressFunc) {
	m.onProgress = fn
}

// Destroy tears down every cached session.
func (m *Manager) Destroy() {
	m.cache.destroyAll()
}

func (m *Manager) monitor(kind Kind) ProgressFunc {
	if m.onProgress == nil {
		return nil
	}
	fn := m.onProgress
	return func(_ Kind, loaded, total uint64) {
		fn(kind, loaded, total)
	}
}

// Summarize condenses text with the summarizer capability, or falls back
// to the extractive SimpleSummary heuristic. Never empty for non-empty
// input.
func (m *Manager) Summarize(ctx context.Context, text string, opts SummarizerOptions) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	create := normalizeSummarizerOptions(opts, m.prefs, m.monitor(KindSummarizer))
	if session, ok := m.cache.ensureSession(ctx, KindSummarizer, create).(SummarizerSession); ok && session != nil {
		sharedContext := strings.TrimSpace(opts.SharedContext + "\nRespond in English only with concise, high-signal key points. Avoid repetition.")
		summary, err := session.Summarize(ctx, text, sharedContext)
		if err == nil && summary != "" {
			return summary
		}
		if err != nil {
			m.log.Warn("capability", "summarizer call failed, falling back to simple summary", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return SimpleSummary(text)
}

const conceptPromptTemplate = `You are an expert study coach.
Analyze the summary below and return the most exam-relevant ideas in English.
Respond ONLY with JSON using this schema:
{
  "concepts": ["short English title", ...],
  "insights": [
    {
      "concept": "matching concept name",
      "keyFact": "one precise fact or definition (max 20 words)",
      "questionCue": "hint for an assessment question"
    }
  ]
}
Ensure there are between 4 and 6 concepts. Keep text concise.
Summary:
"""
%s
"""
JSON:`

type conceptPayload struct {
	Concepts []string `json:"concepts"`
	Insights []struct {
		Concept     string `json:"concept"`
		KeyFact     string `json:"keyFact"`
		QuestionCue string `json:"questionCue"`
	} `json:"insights"`
}

// ExtractConcepts asks the language model for 4-6 exam-relevant concepts
// with insights. Any malformed or empty response degrades to frequency
// analysis over the summary.
func (m *Manager) ExtractConcepts(ctx context.Context, summary string, opts LanguageModelOptions) ConceptExtraction {
	if summary == "" {
		return FallbackConcepts("")
	}

	create := normalizeLanguageModelOptions(opts, m.prefs, m.monitor(KindLanguageModel))
	session, ok := m.cache.ensureSession(ctx, KindLanguageModel, create).(PromptSession)
	if !ok || session == nil {
		return FallbackConcepts(summary)
	}

	response, err := session.Prompt(ctx, fmt.Sprintf(conceptPromptTemplate, summary))
	if err != nil {
		m.log.Warn("capability", "concept extraction prompt failed", map[string]interface{}{
			"error": err.Error(),
		})
		return FallbackConcepts(summary)
	}

	cleaned := SanitizeResponse(response)
	if cleaned == "" {
		return FallbackConcepts(summary)
	}

	var parsed conceptPayload
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		m.log.Warn("capability", "concept extraction returned invalid JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return FallbackConcepts(summary)
	}

	concepts := make([]string, 0, len(parsed.Concepts))
	for _, concept := range parsed.Concepts {
		if trimmed := strings.TrimSpace(concept); trimmed != "" {
			concepts = append(concepts, trimmed)
		}
	}
	if len(concepts) == 0 {
		return FallbackConcepts(summary)
	}

	insights := make(map[string]entity.ConceptInsight, len(concepts))
	for _, item := range parsed.Insights {
		name := strings.TrimSpace(item.Concept)
		if name == "" {
			continue
		}
		insight := entity.ConceptInsight{
			Concept:     name,
			KeyFact:     strings.TrimSpace(item.KeyFact),
			QuestionCue: strings.TrimSpace(item.QuestionCue),
		}
		if insight.KeyFact == "" {
			insight.KeyFact = fmt.Sprintf("Key detail about %s.", name)
		}
		if insight.QuestionCue == "" {
			insight.QuestionCue = fmt.Sprintf("Ask about the importance of %s.", name)
		}
		insights[name] = insight
	}

	// Every listed concept carries an insight, synthesized if the model
	// left one out.
	for _, concept := range concepts {
		if _, ok := insights[concept]; !ok {
			insights[concept] = entity.ConceptInsight{
				Concept:     concept,
				KeyFact:     fmt.Sprintf("Understand the role of %s.", concept),
				QuestionCue: fmt.Sprintf("Explain why %s matters in the topic.", concept),
			}
		}
	}

	return ConceptExtraction{Concepts: concepts, Insights: insights}
}

const imageExtractionPrompt = `Describe the text in this study note image.
Return only English text exactly as written.
If there are diagrams, describe them succinctly.`

// ExtractTextFromImage runs OCR-style extraction through a one-shot
// multimodal language-model session. The session is destroyed on every
// path. This is the only manager operation that fails loudly: extraction
// quality cannot be approximated deterministically.
func (m *Manager) ExtractTextFromImage(ctx context.Context, imageData string) (string, error) {
	if imageData == "" {
		return "", goerr.New("image data is required")
	}

	image, err := dataURLToBytes(imageData)
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode image payload")
	}

	temperature := 0.3
	topK := 1
	create := CreateOptions{
		Temperature:     &temperature,
		TopK:            &topK,
		ExpectedInputs:  []ExpectedIO{{Type: "image"}},
		ExpectedOutputs: []ExpectedIO{{Type: "text", Languages: []string{"en"}}},
		Monitor:         m.monitor(KindLanguageModel),
	}

	raw := m.cache.createSession(ctx, KindLanguageModel, create, create.availability())
	if raw == nil {
		return "", ErrImageCapabilityUnavailable
	}
	session, ok := raw.(MultimodalPromptSession)
	if !ok {
		raw.Destroy()
		return "", ErrImageCapabilityUnavailable
	}
	defer session.Destroy()

	response, err := session.PromptWithImage(ctx, imageExtractionPrompt, image)
	if err != nil {
		return "", goerr.Wrap(err, "image text extraction failed")
	}
	return response, nil
}

// GenerateContent drafts text with the writer capability. An empty result
// means "capability unavailable or failed"; callers treat it as a cue to
// try their next strategy, never as an error.
func (m *Manager) GenerateContent(ctx context.Context, prompt string, opts WriterOptions) string {
	create := normalizeWriterOptions(opts, m.prefs, m.monitor(KindWriter))
	session, ok := m.cache.ensureSession(ctx, KindWriter, create).(WriterSession)
	if !ok || session == nil {
		return ""
	}

	result, err := session.Write(ctx, prompt+"\nRespond strictly in English.", opts.Context)
	if err != nil {
		m.log.Warn("capability", "writer call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}
	return result
}

// RewriteContent reshapes text with the rewriter capability, returning the
// original text unchanged when the capability is missing or fails.
func (m *Manager) RewriteContent(ctx context.Context, text string, opts RewriterOptions) string {
	create := normalizeRewriterOptions(opts, m.prefs, m.monitor(KindRewriter))
	session, ok := m.cache.ensureSession(ctx, KindRewriter, create).(RewriterSession)
	if !ok || session == nil {
		return text
	}

	result, err := session.Rewrite(ctx, text)
	if err != nil || result == "" {
		if err != nil {
			m.log.Warn("capability", "rewriter call failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return text
	}
	return result
}

// LanguageDetectionResult is the best detection with its full candidate
// list.
type LanguageDetectionResult struct {
	Language   string              `json:"language"`
	Confidence float64             `json:"confidence"`
	Candidates []LanguageDetection `json:"candidates"`
}

// DetectLanguage probes the detector capability. Text shorter than 20
// characters returns nil immediately; there is no deterministic fallback,
// callers treat nil as "assume the configured target language".
func (m *Manager) DetectLanguage(ctx context.Context, text string, opts DetectorOptions) *LanguageDetectionResult {
	if utf8.RuneCountInString(text) < 20 {
		return nil
	}

	create := normalizeDetectorOptions(opts, m.monitor(KindLanguageDetector))
	session, ok := m.cache.ensureSession(ctx, KindLanguageDetector, create).(DetectorSession)
	if !ok || session == nil {
		return nil
	}

	results, err := session.Detect(ctx, text)
	if err != nil {
		m.log.Warn("capability", "language detection failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	return &LanguageDetectionResult{
		Language:   results[0].DetectedLanguage,
		Confidence: results[0].Confidence,
		Candidates: results,
	}
}

// TranslateText translates through a per-language-pair session. Returns ""
// on unavailability or failure; callers must keep the original text then.
func (m *Manager) TranslateText(ctx context.Context, text, targetLanguage, sourceLanguage string) string {
	if text == "" || targetLanguage == "" {
		return ""
	}

	translator := m.cache.ensureTranslator(ctx, sourceLanguage, targetLanguage)
	if translator == nil {
		return ""
	}

	result, err := translator.Translate(ctx, text)
	if err != nil {
		m.log.Warn("capability", "translation failed", map[string]interface{}{
			"error":  err.Error(),
			"target": targetLanguage,
		})
		return ""
	}
	return result
}

// Prompt issues a free-form prompt against the language model. Returns ""
// on unavailability or failure, matching the GenerateContent convention.
func (m *Manager) Prompt(ctx context.Context, prompt string, opts LanguageModelOptions) string {
	response, _ := m.languageModelPrompt(ctx, prompt, opts)
	return response
}

// languageModelPrompt issues a raw prompt against the cached language-model
// session. Empty result means unavailable/failed.
func (m *Manager) languageModelPrompt(ctx context.Context, prompt string, opts LanguageModelOptions) (string, bool) {
	create := normalizeLanguageModelOptions(opts, m.prefs, m.monitor(KindLanguageModel))
	session, ok := m.cache.ensureSession(ctx, KindLanguageModel, create).(PromptSession)
	if !ok || session == nil {
		return "", false
	}
	response, err := session.Prompt(ctx, prompt)
	if err != nil {
		m.log.Warn("capability", "language model prompt failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}
	return response, true
}

// RequestStructuredJSON asks for a JSON document matching T, trying the
// writer capability first and the language model second. The two backends
// are independently available, so either may succeed when the other does
// not. fallback() is the ultimate value and is returned untouched when
// both paths fail.
func RequestStructuredJSON[T any](ctx context.Context, m *Manager, prompt string, fallback func() T) T {
	if writerResult := m.GenerateContent(ctx, prompt, WriterOptions{}); writerResult != "" {
		cleaned := SanitizeResponse(writerResult)
		var parsed T
		if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
			return parsed
		}
		m.log.Warn("capability", "writer structured JSON was malformed, trying language model", nil)
	}

	response, ok := m.languageModelPrompt(ctx, prompt+"\nRespond strictly with valid JSON.", LanguageModelOptions{})
	if !ok {
		return fallback()
	}
	return ParseJSON(m.log, SanitizeResponse(response), fallback)
}

// dataURLToBytes decodes a data-URL (or bare base64) image payload.
func dataURLToBytes(dataURL string) ([]byte, error) {
	payload := dataURL
	if idx := strings.IndexByte(dataURL, ','); idx >= 0 && strings.HasPrefix(dataURL, "data:") {
		payload = dataURL[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	return decoded, nil
}
