package service

import (
	"context"
	"errors"
	"testing"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/internal/repository/implementation"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/pkg/capability"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/study/notes"
)

const serviceSampleText = "The water cycle describes how water moves through Earth's systems. " +
	"Evaporation turns liquid water into vapor that rises upward. " +
	"Condensation forms clouds as the vapor cools at altitude. " +
	"Precipitation returns the water to the surface as rain or snow."

// newNoteService wires a note service against an empty capability registry,
// so every capability call takes its deterministic fallback path.
func newNoteService(t *testing.T) (INoteService, contract.HistoryRepository, *events.Bus) {
	t.Helper()
	manager := capability.NewManager(capability.NewRegistry(), nil)
	history := implementation.NewHistoryRepository(memory.NewDocumentStore())
	bus := events.NewBus()
	t.Cleanup(func() { bus.Close() })

	processor := notes.NewProcessor(manager, nil)
	return NewNoteService(processor, history, bus, logger.NewNopLogger()), history, bus
}

func TestNoteServiceProcessTextPersists(t *testing.T) {
	svc, history, _ := newNoteService(t)
	ctx := context.Background()

	res, err := svc.ProcessText(ctx, &dto.ProcessTextRequest{Text: serviceSampleText})
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Note == nil || res.Note.Id == "" {
		t.Fatal("ProcessText returned no note")
	}

	stored, err := history.GetNote(ctx, res.Note.Id)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if stored == nil {
		t.Fatal("processed note was not persisted")
	}
	if stored.Summary != res.Note.Summary {
		t.Errorf("stored summary = %q, want %q", stored.Summary, res.Note.Summary)
	}
}

func TestNoteServiceProcessTextTooShort(t *testing.T) {
	svc, _, _ := newNoteService(t)

	_, err := svc.ProcessText(context.Background(), &dto.ProcessTextRequest{Text: "too short"})
	if !errors.Is(err, notes.ErrInputTooShort) {
		t.Errorf("error = %v, want ErrInputTooShort", err)
	}
}

func TestNoteServiceShowMissing(t *testing.T) {
	svc, _, _ := newNoteService(t)

	_, err := svc.Show(context.Background(), "note_missing")
	if !errors.Is(err, serverutils.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestNoteServiceStats(t *testing.T) {
	svc, _, _ := newNoteService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.ProcessText(ctx, &dto.ProcessTextRequest{Text: serviceSampleText}); err != nil {
			t.Fatalf("ProcessText: %v", err)
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalNotes != 2 {
		t.Errorf("TotalNotes = %d, want 2", stats.TotalNotes)
	}
	if stats.NotesByType["text"] != 2 {
		t.Errorf("NotesByType[text] = %d, want 2", stats.NotesByType["text"])
	}
	if stats.TotalConcepts == 0 {
		t.Error("TotalConcepts = 0, want fallback concepts counted")
	}
	if stats.LastProcessedAt == nil {
		t.Error("LastProcessedAt missing")
	}
}

func TestNoteServiceDeleteIsIdempotent(t *testing.T) {
	svc, _, _ := newNoteService(t)
	ctx := context.Background()

	res, err := svc.ProcessText(ctx, &dto.ProcessTextRequest{Text: serviceSampleText})
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}

	if err := svc.Delete(ctx, res.Note.Id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, res.Note.Id); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Total != 0 {
		t.Errorf("Total after delete = %d, want 0", list.Total)
	}
}
