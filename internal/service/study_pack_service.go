package service

import (
	"context"
	"sort"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/study/pack"
	"studybuddy-be/pkg/study/quiz"
)

type IStudyPackService interface {
	BuildFromCapture(ctx context.Context, req *dto.BuildPackRequest) (*dto.BuildPackResponse, error)
	Show(ctx context.Context, id string) (*dto.PackResponse, error)
	List(ctx context.Context) (*dto.PackListResponse, error)
	Delete(ctx context.Context, id string) error
}

type studyPackService struct {
	builder *pack.Builder
	history contract.HistoryRepository
	bus     *events.Bus
	logger  logger.ILogger
}

func NewStudyPackService(
	builder *pack.Builder,
	history contract.HistoryRepository,
	bus *events.Bus,
	log logger.ILogger,
) IStudyPackService {
	return &studyPackService{
		builder: builder,
		history: history,
		bus:     bus,
		logger:  log,
	}
}

// BuildFromCapture returns the fast pack right away and keeps consuming
// upgrade snapshots in the background. Each snapshot overwrites the stored
// pack and goes out on the event bus so connected clients can swap it in.
func (s *studyPackService) BuildFromCapture(ctx context.Context, req *dto.BuildPackRequest) (*dto.BuildPackResponse, error) {
	result, err := s.builder.BuildFromCapture(ctx, req.ToCapture(), quiz.Options{
		QuestionCount: req.QuestionCount,
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		return nil, err
	}

	if result.Note != nil {
		if err := s.history.SaveNote(ctx, result.Note); err != nil {
			return nil, err
		}
	}
	if err := s.history.SavePack(ctx, result.Immediate); err != nil {
		return nil, err
	}
	if err := s.bus.Publish(events.NewStudyPackCreated(result.Immediate.Id, result.Immediate.NoteId, result.Immediate.Source.URL)); err != nil {
		s.logger.Warn("StudyPackService", "Failed to publish pack event", map[string]interface{}{
			"pack_id": result.Immediate.Id,
			"error":   err.Error(),
		})
	}

	go s.consumeUpgrades(result.Upgrade)

	return &dto.BuildPackResponse{Pack: result.Immediate, UpgradePending: true}, nil
}

func (s *studyPackService) consumeUpgrades(upgrades <-chan *entity.StudyPack) {
	// The request context is gone by now; persistence uses its own.
	ctx := context.Background()

	for snapshot := range upgrades {
		if err := s.history.SavePack(ctx, snapshot); err != nil {
			s.logger.Error("StudyPackService", "Failed to persist upgraded pack", map[string]interface{}{
				"pack_id": snapshot.Id,
				"error":   err.Error(),
			})
			continue
		}
		if err := s.bus.Publish(events.NewStudyPackUpgraded(snapshot.Id, snapshot)); err != nil {
			s.logger.Warn("StudyPackService", "Failed to publish upgrade event", map[string]interface{}{
				"pack_id": snapshot.Id,
				"error":   err.Error(),
			})
		}
	}
}

func (s *studyPackService) Show(ctx context.Context, id string) (*dto.PackResponse, error) {
	stored, err := s.history.GetPack(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, serverutils.ErrNotFound
	}
	return &dto.PackResponse{Pack: stored}, nil
}

func (s *studyPackService) List(ctx context.Context) (*dto.PackListResponse, error) {
	packs, err := s.history.ListPacks(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(packs, func(i, j int) bool {
		return packs[i].GeneratedAt.After(packs[j].GeneratedAt)
	})

	return &dto.PackListResponse{Packs: packs, Total: len(packs)}, nil
}

func (s *studyPackService) Delete(ctx context.Context, id string) error {
	return s.history.DeletePack(ctx, id)
}
