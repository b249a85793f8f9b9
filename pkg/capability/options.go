package capability

import "encoding/json"

// LanguagePreferences steer option normalization for every kind.
type LanguagePreferences struct {
	Input   []string `json:"input"`
	Output  string   `json:"output"`
	Context []string `json:"context"`
}

func defaultLanguagePreferences() LanguagePreferences {
	return LanguagePreferences{
		Input:   []string{"en"},
		Output:  "en",
		Context: []string{"en"},
	}
}

// ExpectedIO declares one expected input or output channel of a
// language-model session.
type ExpectedIO struct {
	Type      string   `json:"type"`
	Languages []string `json:"languages,omitempty"`
}

// CreateOptions is the full configuration handed to Provider.Create.
// The Monitor callback is excluded from cache identity and availability
// probing.
type CreateOptions struct {
	Type                     string       `json:"type,omitempty"`
	Tone                     string       `json:"tone,omitempty"`
	Format                   string       `json:"format,omitempty"`
	Length                   string       `json:"length,omitempty"`
	Temperature              *float64     `json:"temperature,omitempty"`
	TopK                     *int         `json:"topK,omitempty"`
	ExpectedInputLanguages   []string     `json:"expectedInputLanguages,omitempty"`
	ExpectedContextLanguages []string     `json:"expectedContextLanguages,omitempty"`
	ExpectedInputs           []ExpectedIO `json:"expectedInputs,omitempty"`
	ExpectedOutputs          []ExpectedIO `json:"expectedOutputs,omitempty"`
	OutputLanguage           string       `json:"outputLanguage,omitempty"`
	SharedContext            string       `json:"sharedContext,omitempty"`
	SourceLanguage           string       `json:"sourceLanguage,omitempty"`
	TargetLanguage           string       `json:"targetLanguage,omitempty"`
	InitialPrompts           []string     `json:"-"`
	Monitor                  ProgressFunc `json:"-"`
}

// AvailabilityOptions is the reduced view of CreateOptions relevant to
// capability gating. Two session configurations are equal iff their
// availability options serialize identically.
type AvailabilityOptions struct {
	Type                     string       `json:"type,omitempty"`
	Tone                     string       `json:"tone,omitempty"`
	Format                   string       `json:"format,omitempty"`
	Length                   string       `json:"length,omitempty"`
	Temperature              *float64     `json:"temperature,omitempty"`
	TopK                     *int         `json:"topK,omitempty"`
	ExpectedInputLanguages   []string     `json:"expectedInputLanguages,omitempty"`
	ExpectedContextLanguages []string     `json:"expectedContextLanguages,omitempty"`
	ExpectedInputs           []ExpectedIO `json:"expectedInputs,omitempty"`
	ExpectedOutputs          []ExpectedIO `json:"expectedOutputs,omitempty"`
	OutputLanguage           string       `json:"outputLanguage,omitempty"`
	SourceLanguage           string       `json:"sourceLanguage,omitempty"`
	TargetLanguage           string       `json:"targetLanguage,omitempty"`
}

func (o CreateOptions) availability() AvailabilityOptions {
	return AvailabilityOptions{
		Type:                     o.Type,
		Tone:                     o.Tone,
		Format:                   o.Format,
		Length:                   o.Length,
		Temperature:              o.Temperature,
		TopK:                     o.TopK,
		ExpectedInputLanguages:   o.ExpectedInputLanguages,
		ExpectedContextLanguages: o.ExpectedContextLanguages,
		ExpectedInputs:           o.ExpectedInputs,
		ExpectedOutputs:          o.ExpectedOutputs,
		OutputLanguage:           o.OutputLanguage,
		SourceLanguage:           o.SourceLanguage,
		TargetLanguage:           o.TargetLanguage,
	}
}

type cacheKeyEnvelope struct {
	Kind    Kind                `json:"kind"`
	Options AvailabilityOptions `json:"options"`
}

// cacheKey canonically serializes the cache identity of a configuration.
// Struct field order keeps the serialization stable.
func cacheKey(kind Kind, opts AvailabilityOptions) string {
	data, err := json.Marshal(cacheKeyEnvelope{Kind: kind, Options: opts})
	if err != nil {
		// Options are plain data; marshal cannot realistically fail.
		return string(kind)
	}
	return string(data)
}

// Per-kind caller-facing options. Zero values mean "use defaults".

type SummarizerOptions struct {
	Type                     string
	Format                   string
	Length                   string
	ExpectedInputLanguages   []string
	ExpectedContextLanguages []string
	OutputLanguage           string
	SharedContext            string
}

type LanguageModelOptions struct {
	Temperature             *float64
	TopK                    *int
	ExpectedInputLanguages  []string
	ExpectedOutputLanguages []string
	ExpectedInputs          []ExpectedIO
	ExpectedOutputs         []ExpectedIO
	InitialPrompts          []string
}

type WriterOptions struct {
	Tone                     string
	Format                   string
	Length                   string
	ExpectedInputLanguages   []string
	ExpectedContextLanguages []string
	OutputLanguage           string
	SharedContext            string
	Context                  string
}

type RewriterOptions struct {
	Tone                     string
	Format                   string
	Length                   string
	ExpectedInputLanguages   []string
	ExpectedContextLanguages []string
	OutputLanguage           string
	SharedContext            string
}

type DetectorOptions struct {
	ExpectedInputLanguages []string
}

func normalizeSummarizerOptions(o SummarizerOptions, prefs LanguagePreferences, monitor ProgressFunc) CreateOptions {
	create := CreateOptions{
		Type:                     orDefault(o.Type, "key-points"),
		Format:                   orDefault(o.Format, "markdown"),
		Length:                   orDefault(o.Length, "medium"),
		ExpectedInputLanguages:   uniqueLanguages(o.ExpectedInputLanguages, prefs.Input, []string{"en"}),
		ExpectedContextLanguages: firstNonEmpty(o.ExpectedContextLanguages, prefs.Context),
		OutputLanguage:           orDefault(o.OutputLanguage, "en"),
		SharedContext:            o.SharedContext,
		Monitor:                  monitor,
	}
	return create
}

func normalizeLanguageModelOptions(o LanguageModelOptions, prefs LanguagePreferences, monitor ProgressFunc) CreateOptions {
	inputLanguages := uniqueLanguages(o.ExpectedInputLanguages, prefs.Input, []string{"en"})
	outputLanguages := uniqueLanguages(o.ExpectedOutputLanguages, []string{orDefault(prefs.Output, "en")}, []string{"en"})

	inputs := o.ExpectedInputs
	if len(inputs) == 0 {
		inputs = []ExpectedIO{{Type: "text", Languages: inputLanguages}}
	}
	outputs := o.ExpectedOutputs
	if len(outputs) == 0 {
		outputs = []ExpectedIO{{Type: "text", Languages: outputLanguages}}
	}

	return CreateOptions{
		Temperature:     orDefaultFloat(o.Temperature, 0.7),
		TopK:            orDefaultInt(o.TopK, 3),
		ExpectedInputs:  inputs,
		ExpectedOutputs: outputs,
		InitialPrompts:  o.InitialPrompts,
		Monitor:         monitor,
	}
}

func normalizeWriterOptions(o WriterOptions, prefs LanguagePreferences, monitor ProgressFunc) CreateOptions {
	return CreateOptions{
		Tone:                     orDefault(o.Tone, "neutral"),
		Format:                   orDefault(o.Format, "plain-text"),
		Length:                   orDefault(o.Length, "medium"),
		ExpectedInputLanguages:   uniqueLanguages(o.ExpectedInputLanguages, prefs.Input, []string{"en"}),
		ExpectedContextLanguages: uniqueLanguages(o.ExpectedContextLanguages, prefs.Context, []string{"en"}),
		OutputLanguage:           orDefault(o.OutputLanguage, "en"),
		SharedContext:            o.SharedContext,
		Monitor:                  monitor,
	}
}

func normalizeRewriterOptions(o RewriterOptions, prefs LanguagePreferences, monitor ProgressFunc) CreateOptions {
	return CreateOptions{
		Tone:                     orDefault(o.Tone, "more-formal"),
		Format:                   orDefault(o.Format, "plain-text"),
		Length:                   orDefault(o.Length, "as-is"),
		ExpectedInputLanguages:   uniqueLanguages(o.ExpectedInputLanguages, prefs.Input, []string{"en"}),
		ExpectedContextLanguages: uniqueLanguages(o.ExpectedContextLanguages, prefs.Context, []string{"en"}),
		OutputLanguage:           orDefault(o.OutputLanguage, "en"),
		SharedContext:            o.SharedContext,
		Monitor:                  monitor,
	}
}

func normalizeDetectorOptions(o DetectorOptions, monitor ProgressFunc) CreateOptions {
	return CreateOptions{
		ExpectedInputLanguages: o.ExpectedInputLanguages,
		Monitor:                monitor,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orDefaultFloat(value *float64, fallback float64) *float64 {
	if value == nil {
		return &fallback
	}
	return value
}

func orDefaultInt(value *int, fallback int) *int {
	if value == nil {
		return &fallback
	}
	return value
}

func firstNonEmpty(lists ...[]string) []string {
	for _, list := range lists {
		if len(list) > 0 {
			return list
		}
	}
	return nil
}

// uniqueLanguages unions the lists preserving first-seen order.
func uniqueLanguages(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, lang := range list {
			if lang == "" || seen[lang] {
				continue
			}
			seen[lang] = true
			out = append(out, lang)
		}
	}
	return out
}
