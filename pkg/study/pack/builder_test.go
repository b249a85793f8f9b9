package pack

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"studybuddy-be/internal/entity"
	"studybuddy-be/pkg/capability"
	"studybuddy-be/pkg/study/notes"
	"studybuddy-be/pkg/study/quiz"
)

const captureText = "The water cycle describes how water moves through the atmosphere. " +
	"Evaporation lifts water from oceans and lakes. Condensation forms clouds. " +
	"Precipitation returns water to the surface where collection starts the cycle again."

func newBuilder(registry *capability.Registry) *Builder {
	manager := capability.NewManager(registry, nil)
	return NewBuilder(
		notes.NewProcessor(manager, nil),
		quiz.NewGenerator(manager, nil),
		manager,
		nil,
	)
}

func testCapture() entity.Capture {
	return entity.Capture{
		Title:       "The Water Cycle",
		URL:         "https://example.com/water-cycle",
		TextContent: captureText,
		Language:    "en",
	}
}

func drainUpgrades(t *testing.T, upgrades <-chan *entity.StudyPack) []*entity.StudyPack {
	t.Helper()
	var got []*entity.StudyPack
	timeout := time.After(5 * time.Second)
	for {
		select {
		case snapshot, ok := <-upgrades:
			if !ok {
				return got
			}
			got = append(got, snapshot)
		case <-timeout:
			t.Fatal("upgrade channel never closed")
		}
	}
}

func TestBuildFromCaptureRejectsEmptyText(t *testing.T) {
	builder := newBuilder(capability.NewRegistry())

	_, err := builder.BuildFromCapture(context.Background(), entity.Capture{TextContent: "   "}, quiz.Options{})
	if !errors.Is(err, ErrNoReadableText) {
		t.Errorf("error = %v, want ErrNoReadableText", err)
	}
}

func TestBuildFromCaptureFastPath(t *testing.T) {
	builder := newBuilder(capability.NewRegistry())

	result, err := builder.BuildFromCapture(context.Background(), testCapture(), quiz.Options{})
	if err != nil {
		t.Fatalf("BuildFromCapture: %v", err)
	}
	pack := result.Immediate

	if !strings.HasPrefix(pack.Id, "pack_") {
		t.Errorf("pack id %q lacks pack_ prefix", pack.Id)
	}
	if pack.Source.Title != "The Water Cycle" {
		t.Errorf("source title = %q", pack.Source.Title)
	}
	if pack.Summary == "" || len(pack.Concepts) == 0 {
		t.Error("pack missing note-derived summary/concepts")
	}

	artifacts := pack.Artifacts
	if artifacts.Headline == "" {
		t.Error("fallback artifacts missing headline")
	}
	if len(artifacts.Takeaways) == 0 || len(artifacts.Takeaways) > 5 {
		t.Errorf("takeaways out of bounds: %d", len(artifacts.Takeaways))
	}
	if len(artifacts.StudyQuestions) == 0 || len(artifacts.StudyQuestions) > 6 {
		t.Errorf("studyQuestions out of bounds: %d", len(artifacts.StudyQuestions))
	}
	if len(artifacts.Flashcards) == 0 || len(artifacts.Flashcards) > 6 {
		t.Errorf("flashcards out of bounds: %d", len(artifacts.Flashcards))
	}
	if len(artifacts.ActionSteps) == 0 || len(artifacts.ActionSteps) > 5 {
		t.Errorf("actionSteps out of bounds: %d", len(artifacts.ActionSteps))
	}
	breakdown := artifacts.RecommendedBreakdown
	if breakdown.WarmUp == "" || breakdown.DeepDive == "" || breakdown.Review == "" {
		t.Errorf("breakdown incomplete: %+v", breakdown)
	}

	// Local quiz generation succeeds, so the micro quiz rides along.
	if len(pack.MicroQuiz) == 0 || len(pack.MicroQuiz) > 3 {
		t.Errorf("micro quiz size = %d, want 1..3", len(pack.MicroQuiz))
	}
	if pack.Metrics.ExtractedWordCount == 0 || pack.Metrics.EstimatedReadingTimeMinutes < 1 {
		t.Errorf("metrics not derived: %+v", pack.Metrics)
	}

	// With no capabilities there is nothing to upgrade to.
	if snapshots := drainUpgrades(t, result.Upgrade); len(snapshots) != 0 {
		t.Errorf("expected no upgrades, got %d", len(snapshots))
	}
}

func TestBuildFromCaptureArtifactUpgrade(t *testing.T) {
	registry := capability.NewRegistry()
	registry.Register(capability.KindWriter, artifactsWriterProvider{})
	builder := newBuilder(registry)

	result, err := builder.BuildFromCapture(context.Background(), testCapture(), quiz.Options{})
	if err != nil {
		t.Fatalf("BuildFromCapture: %v", err)
	}

	immediate := result.Immediate
	if immediate.Artifacts.Headline == "Water, Round and Round" {
		t.Fatal("fast path must not carry AI artifacts")
	}

	snapshots := drainUpgrades(t, result.Upgrade)
	if len(snapshots) != 1 {
		t.Fatalf("got %d upgrade snapshots, want 1", len(snapshots))
	}
	upgraded := snapshots[0]

	if upgraded.Id != immediate.Id {
		t.Errorf("upgrade changed pack id: %q -> %q", immediate.Id, upgraded.Id)
	}
	if upgraded.Artifacts.Headline != "Water, Round and Round" {
		t.Errorf("upgraded headline = %q", upgraded.Artifacts.Headline)
	}
	if len(upgraded.Artifacts.Takeaways) != 2 {
		t.Errorf("upgraded takeaways = %v", upgraded.Artifacts.Takeaways)
	}
	// Fields the model omitted keep their fallback values.
	if len(upgraded.Artifacts.ActionSteps) == 0 {
		t.Error("omitted actionSteps should keep fallback values")
	}
}

// An HTTP handler's context dies as soon as the response is written;
// upgrades are computed after that and must not die with it.
func TestBuildFromCaptureUpgradeSurvivesCallerCancel(t *testing.T) {
	release := make(chan struct{})
	registry := capability.NewRegistry()
	registry.Register(capability.KindWriter, gatedWriterProvider{release: release})
	builder := newBuilder(registry)

	ctx, cancel := context.WithCancel(context.Background())
	result, err := builder.BuildFromCapture(ctx, testCapture(), quiz.Options{})
	if err != nil {
		t.Fatalf("BuildFromCapture: %v", err)
	}

	cancel()
	close(release)

	snapshots := drainUpgrades(t, result.Upgrade)
	if len(snapshots) != 1 {
		t.Fatalf("got %d upgrade snapshots after caller cancellation, want 1", len(snapshots))
	}
	upgraded := snapshots[0]
	if upgraded.Id != result.Immediate.Id {
		t.Errorf("upgrade changed pack id: %q -> %q", result.Immediate.Id, upgraded.Id)
	}
	if upgraded.Artifacts.Headline != "Water, Round and Round" {
		t.Errorf("upgraded headline = %q", upgraded.Artifacts.Headline)
	}
}

func TestCreateQuizWithFastFallbackLocalWins(t *testing.T) {
	builder := newBuilder(capability.NewRegistry())
	note := &entity.Note{
		Id:       "note_race",
		Summary:  "Evaporation and condensation move water through the sky.",
		Concepts: []string{"Evaporation", "Condensation"},
	}

	result := builder.CreateQuizWithFastFallback(context.Background(), note, quiz.Options{QuestionCount: 2})
	if result.Immediate == nil {
		t.Fatal("expected a local quiz when the AI path is unavailable")
	}
	if !result.Immediate.IsLocal {
		t.Error("winning quiz should be the local one")
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case upgraded, ok := <-result.Upgrade:
			if !ok {
				return
			}
			t.Errorf("unexpected upgrade %+v with no AI available", upgraded)
		case <-timeout:
			t.Fatal("quiz upgrade channel never closed")
		}
	}
}

func TestCreateQuizWithFastFallbackNoConcepts(t *testing.T) {
	builder := newBuilder(capability.NewRegistry())
	note := &entity.Note{Id: "note_empty", Summary: "s"}

	result := builder.CreateQuizWithFastFallback(context.Background(), note, quiz.Options{})
	if result.Immediate != nil {
		t.Errorf("expected nil quiz, got %+v", result.Immediate)
	}
}

type artifactsWriterSession struct{}

func (artifactsWriterSession) Destroy() {}

func (artifactsWriterSession) Write(context.Context, string, string) (string, error) {
	return `{"headline":"Water, Round and Round",` +
		`"takeaways":["Water constantly cycles.","The sun powers evaporation."],` +
		`"studyQuestions":["What drives evaporation?"],` +
		`"flashcards":[{"front":"Condensation","back":"Vapor turning into droplets"}],` +
		`"recommendedBreakdown":{"warmUp":"Sketch the cycle."}}`, nil
}

// gatedWriterSession fails like a real HTTP backend when its context is
// canceled, and otherwise blocks until released by the test.
type gatedWriterSession struct {
	release <-chan struct{}
}

func (gatedWriterSession) Destroy() {}

func (s gatedWriterSession) Write(ctx context.Context, task, sharedContext string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.release:
		return artifactsWriterSession{}.Write(ctx, task, sharedContext)
	}
}

type gatedWriterProvider struct {
	release <-chan struct{}
}

func (gatedWriterProvider) Availability(context.Context, capability.AvailabilityOptions) (capability.Availability, error) {
	return capability.AvailabilityAvailable, nil
}

func (p gatedWriterProvider) Create(context.Context, capability.CreateOptions) (capability.Session, error) {
	return gatedWriterSession{release: p.release}, nil
}

type artifactsWriterProvider struct{}

func (artifactsWriterProvider) Availability(context.Context, capability.AvailabilityOptions) (capability.Availability, error) {
	return capability.AvailabilityAvailable, nil
}

func (artifactsWriterProvider) Create(context.Context, capability.CreateOptions) (capability.Session, error) {
	return artifactsWriterSession{}, nil
}
