package service

import (
	"context"
	"sort"
	"time"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/pkg/capability"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/study/notes"
)

type INoteService interface {
	ProcessText(ctx context.Context, req *dto.ProcessTextRequest) (*dto.NoteResponse, error)
	ProcessImage(ctx context.Context, req *dto.ProcessImageRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, id string) (*dto.NoteResponse, error)
	List(ctx context.Context) (*dto.NoteListResponse, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*dto.NoteStatsResponse, error)
}

type noteService struct {
	processor *notes.Processor
	history   contract.HistoryRepository
	bus       *events.Bus
	logger    logger.ILogger
}

func NewNoteService(
	processor *notes.Processor,
	history contract.HistoryRepository,
	bus *events.Bus,
	log logger.ILogger,
) INoteService {
	return &noteService{
		processor: processor,
		history:   history,
		bus:       bus,
		logger:    log,
	}
}

func (s *noteService) ProcessText(ctx context.Context, req *dto.ProcessTextRequest) (*dto.NoteResponse, error) {
	note, err := s.processor.ProcessText(ctx, req.Text, notes.Options{
		SummarizerOptions: capability.SummarizerOptions{
			Type:   req.SummaryType,
			Length: req.SummaryLength,
		},
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	if err := s.history.SaveNote(ctx, note); err != nil {
		return nil, err
	}
	s.publishProcessed(note)

	return &dto.NoteResponse{Note: note}, nil
}

func (s *noteService) ProcessImage(ctx context.Context, req *dto.ProcessImageRequest) (*dto.NoteResponse, error) {
	note, err := s.processor.ProcessImage(ctx, req.ImageData, notes.Options{
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	if err := s.history.SaveNote(ctx, note); err != nil {
		return nil, err
	}
	s.publishProcessed(note)

	return &dto.NoteResponse{Note: note}, nil
}

func (s *noteService) publishProcessed(note *entity.Note) {
	if err := s.bus.Publish(events.NewNoteProcessed(note.Id, note.Type, len(note.Concepts))); err != nil {
		s.logger.Warn("NoteService", "Failed to publish note event", map[string]interface{}{
			"note_id": note.Id,
			"error":   err.Error(),
		})
	}
}

func (s *noteService) Show(ctx context.Context, id string) (*dto.NoteResponse, error) {
	note, err := s.history.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.ErrNotFound
	}
	return &dto.NoteResponse{Note: note}, nil
}

func (s *noteService) List(ctx context.Context) (*dto.NoteListResponse, error) {
	noteList, err := s.history.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	// Newest first; the store does not guarantee order.
	sort.Slice(noteList, func(i, j int) bool {
		return noteList[i].ProcessedAt.After(noteList[j].ProcessedAt)
	})

	return &dto.NoteListResponse{Notes: noteList, Total: len(noteList)}, nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	return s.history.DeleteNote(ctx, id)
}

func (s *noteService) Stats(ctx context.Context) (*dto.NoteStatsResponse, error) {
	noteList, err := s.history.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.NoteStatsResponse{
		NotesByType: map[string]int{},
	}
	var last time.Time
	for _, note := range noteList {
		stats.TotalNotes++
		stats.TotalConcepts += len(note.Concepts)
		stats.NotesByType[note.Type]++
		if note.ProcessedAt.After(last) {
			last = note.ProcessedAt
		}
	}
	if !last.IsZero() {
		stats.LastProcessedAt = &last
	}
	return stats, nil
}
