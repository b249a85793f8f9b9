// Package ollamaprov adapts a local LLM backend into capability providers.
// One provider is registered per capability kind; availability reflects
// whether the backing model is installed on the server.
package ollamaprov

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"studybuddy-be/pkg/capability"
	"studybuddy-be/pkg/llm"
)

// Provider serves one capability kind from a shared LLM backend.
type Provider struct {
	kind        capability.Kind
	backend     llm.LLMProvider
	model       string
	visionModel string
}

var _ capability.Provider = &Provider{}

func New(kind capability.Kind, backend llm.LLMProvider, model string) *Provider {
	return &Provider{kind: kind, backend: backend, model: model}
}

// WithVisionModel sets the model used for image prompts. Without it,
// image prompts go to the text model.
func (p *Provider) WithVisionModel(model string) *Provider {
	p.visionModel = model
	return p
}

// RegisterAll binds every capability kind to the same backend. The vision
// model only matters for the languageModel kind, which handles image
// prompts.
func RegisterAll(registry *capability.Registry, backend llm.LLMProvider, model, visionModel string) {
	for _, kind := range []capability.Kind{
		capability.KindSummarizer,
		capability.KindLanguageModel,
		capability.KindWriter,
		capability.KindRewriter,
		capability.KindLanguageDetector,
		capability.KindTranslator,
	} {
		registry.Register(kind, New(kind, backend, model).WithVisionModel(visionModel))
	}
}

// Availability probes the backend. A server we cannot reach is
// unavailable; a reachable server without the model reports downloadable
// (ollama pulls on demand); otherwise available. Backends that cannot
// enumerate models are assumed available and fail at call time instead.
func (p *Provider) Availability(ctx context.Context, _ capability.AvailabilityOptions) (capability.Availability, error) {
	lister, ok := p.backend.(llm.ModelLister)
	if !ok {
		return capability.AvailabilityAvailable, nil
	}

	models, err := lister.Models(ctx)
	if err != nil {
		return capability.AvailabilityUnavailable, nil
	}
	for _, name := range models {
		if name == p.model || strings.SplitN(name, ":", 2)[0] == p.model {
			return capability.AvailabilityAvailable, nil
		}
	}
	return capability.AvailabilityDownloadable, nil
}

func (p *Provider) Create(_ context.Context, opts capability.CreateOptions) (capability.Session, error) {
	session := &session{
		kind:        p.kind,
		backend:     p.backend,
		model:       p.model,
		visionModel: p.visionModel,
		opts:        opts,
	}

	switch p.kind {
	case capability.KindSummarizer:
		return (*summarizerSession)(session), nil
	case capability.KindLanguageModel:
		return (*promptSession)(session), nil
	case capability.KindWriter:
		return (*writerSession)(session), nil
	case capability.KindRewriter:
		return (*rewriterSession)(session), nil
	case capability.KindLanguageDetector:
		return (*detectorSession)(session), nil
	case capability.KindTranslator:
		return (*translatorSession)(session), nil
	default:
		return nil, fmt.Errorf("unsupported capability kind: %s", p.kind)
	}
}

// session holds the shared state of every kind-specific session view.
// The HTTP backend is stateless, so Destroy releases nothing.
type session struct {
	kind        capability.Kind
	backend     llm.LLMProvider
	model       string
	visionModel string
	opts        capability.CreateOptions
}

func (s *session) Destroy() {}

func (s *session) callOptions() []llm.Option {
	opts := []llm.Option{llm.WithModel(s.model)}
	if s.opts.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*s.opts.Temperature))
	}
	if s.opts.TopK != nil {
		opts = append(opts, llm.WithTopK(*s.opts.TopK))
	}
	return opts
}

type summarizerSession session

func (s *summarizerSession) Destroy() {}

func (s *summarizerSession) Summarize(ctx context.Context, text string, sharedContext string) (string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Summarize the text below as %s, %s length, in %s format.\n",
		s.opts.Type, s.opts.Length, s.opts.Format)
	if sharedContext != "" {
		prompt.WriteString("Context: " + sharedContext + "\n")
	}
	prompt.WriteString("Output only the summary.\n\nText:\n" + text)

	return s.backend.Generate(ctx, prompt.String(), (*session)(s).callOptions()...)
}

type promptSession session

func (s *promptSession) Destroy() {}

func (s *promptSession) Prompt(ctx context.Context, text string) (string, error) {
	history := make([]llm.Message, 0, len(s.opts.InitialPrompts)+1)
	for _, initial := range s.opts.InitialPrompts {
		history = append(history, llm.Message{Role: "system", Content: initial})
	}
	history = append(history, llm.Message{Role: "user", Content: text})
	return s.backend.Chat(ctx, history, (*session)(s).callOptions()...)
}

func (s *promptSession) PromptWithImage(ctx context.Context, text string, image []byte) (string, error) {
	opts := append((*session)(s).callOptions(), llm.WithImage(image))
	if s.visionModel != "" {
		opts = append(opts, llm.WithModel(s.visionModel))
	}
	return s.backend.Chat(ctx, []llm.Message{{Role: "user", Content: text}}, opts...)
}

type writerSession session

func (s *writerSession) Destroy() {}

func (s *writerSession) Write(ctx context.Context, task string, writingContext string) (string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "You are a writing assistant. Tone: %s. Length: %s. Format: %s.\n",
		s.opts.Tone, s.opts.Length, s.opts.Format)
	if s.opts.SharedContext != "" {
		prompt.WriteString("Shared context: " + s.opts.SharedContext + "\n")
	}
	if writingContext != "" {
		prompt.WriteString("Context: " + writingContext + "\n")
	}
	prompt.WriteString("Task:\n" + task)

	return s.backend.Generate(ctx, prompt.String(), (*session)(s).callOptions()...)
}

type rewriterSession session

func (s *rewriterSession) Destroy() {}

func (s *rewriterSession) Rewrite(ctx context.Context, text string) (string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Rewrite the text below. Tone: %s. Length: %s. Format: %s.\n",
		s.opts.Tone, s.opts.Length, s.opts.Format)
	prompt.WriteString("Output only the rewritten text.\n\nText:\n" + text)

	return s.backend.Generate(ctx, prompt.String(), (*session)(s).callOptions()...)
}

type detectorSession session

func (s *detectorSession) Destroy() {}

const detectPrompt = `Identify the language of the text below.
Respond ONLY with a JSON array of candidates ordered by confidence:
[{"detectedLanguage": "BCP-47 code", "confidence": 0.95}]

Text:
%s`

func (s *detectorSession) Detect(ctx context.Context, text string) ([]capability.LanguageDetection, error) {
	response, err := s.backend.Generate(ctx, fmt.Sprintf(detectPrompt, text), (*session)(s).callOptions()...)
	if err != nil {
		return nil, err
	}

	var detections []capability.LanguageDetection
	if err := json.Unmarshal([]byte(capability.SanitizeResponse(response)), &detections); err != nil {
		return nil, fmt.Errorf("detector returned malformed candidates: %w", err)
	}
	return detections, nil
}

type translatorSession session

func (s *translatorSession) Destroy() {}

func (s *translatorSession) Translate(ctx context.Context, text string) (string, error) {
	source := s.opts.SourceLanguage
	if source == "" {
		source = "the source language"
	}
	prompt := fmt.Sprintf("Translate the text below from %s to %s. Output only the translation.\n\nText:\n%s",
		source, s.opts.TargetLanguage, text)

	return s.backend.Generate(ctx, prompt, (*session)(s).callOptions()...)
}
