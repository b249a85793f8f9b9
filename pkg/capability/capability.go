package capability

import (
	"context"
	"strings"
)

// Kind identifies one generative capability exposed by the host environment.
type Kind string

const (
	KindSummarizer       Kind = "summarizer"
	KindLanguageModel    Kind = "languageModel"
	KindWriter           Kind = "writer"
	KindRewriter         Kind = "rewriter"
	KindLanguageDetector Kind = "languageDetector"
	KindTranslator       Kind = "translator"
)

// Availability reports whether a capability can currently serve sessions.
type Availability string

const (
	AvailabilityUnavailable  Availability = "unavailable"
	AvailabilityDownloadable Availability = "downloadable"
	AvailabilityDownloading  Availability = "downloading"
	AvailabilityAvailable    Availability = "available"
)

// Usable reports whether session creation is permitted in this state.
func (a Availability) Usable() bool {
	return a != AvailabilityUnavailable && a != ""
}

// ParseAvailability normalizes the state strings different capability
// backends report. Anything unrecognized is treated as unavailable.
func ParseAvailability(state string) Availability {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "available", "readily", "ready":
		return AvailabilityAvailable
	case "after-download", "downloadable":
		return AvailabilityDownloadable
	case "downloading":
		return AvailabilityDownloading
	default:
		return AvailabilityUnavailable
	}
}

// ProgressFunc receives model download progress for a capability kind.
// Progress callbacks never participate in session cache identity.
type ProgressFunc func(kind Kind, loaded, total uint64)

// Provider backs one capability kind. Implementations must not panic;
// lookup or probe trouble is reported through the error return.
type Provider interface {
	Availability(ctx context.Context, opts AvailabilityOptions) (Availability, error)
	Create(ctx context.Context, opts CreateOptions) (Session, error)
}

// Session is an opaque handle bound to one configuration of a capability.
// Concrete abilities are discovered by asserting the per-kind interfaces
// below; a session that lacks an ability simply does not implement it.
type Session interface {
	Destroy()
}

type SummarizerSession interface {
	Session
	Summarize(ctx context.Context, text string, sharedContext string) (string, error)
}

type PromptSession interface {
	Session
	Prompt(ctx context.Context, text string) (string, error)
}

// MultimodalPromptSession accepts a binary image payload alongside the prompt.
type MultimodalPromptSession interface {
	Session
	PromptWithImage(ctx context.Context, text string, image []byte) (string, error)
}

type WriterSession interface {
	Session
	Write(ctx context.Context, task string, sharedContext string) (string, error)
}

type RewriterSession interface {
	Session
	Rewrite(ctx context.Context, text string) (string, error)
}

// LanguageDetection is one candidate result from a detector session,
// ordered most confident first.
type LanguageDetection struct {
	DetectedLanguage string  `json:"detectedLanguage"`
	Confidence       float64 `json:"confidence"`
}

type DetectorSession interface {
	Session
	Detect(ctx context.Context, text string) ([]LanguageDetection, error)
}

type TranslatorSession interface {
	Session
	Translate(ctx context.Context, text string) (string, error)
}
