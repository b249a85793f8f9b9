package service

import (
	"context"
	"errors"
	"sort"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/study/quiz"
)

type IQuizService interface {
	Generate(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	Show(ctx context.Context, id string) (*dto.QuizResponse, error)
	List(ctx context.Context) (*dto.QuizListResponse, error)
	Delete(ctx context.Context, id string) error
	SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	GetProgress(ctx context.Context, quizId string) (*entity.QuizProgress, error)
}

type quizService struct {
	generator *quiz.Generator
	history   contract.HistoryRepository
	bus       *events.Bus
	logger    logger.ILogger
}

func NewQuizService(
	generator *quiz.Generator,
	history contract.HistoryRepository,
	bus *events.Bus,
	log logger.ILogger,
) IQuizService {
	return &quizService{
		generator: generator,
		history:   history,
		bus:       bus,
		logger:    log,
	}
}

func (s *quizService) Generate(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	note, err := s.history.GetNote(ctx, req.NoteId)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.ErrNotFound
	}

	opts := quiz.Options{
		QuestionCount: req.QuestionCount,
		Difficulty:    req.Difficulty,
		QuestionTypes: req.QuestionTypes,
	}

	generated, err := s.generator.Generate(ctx, note, opts)
	if errors.Is(err, quiz.ErrNoQuestionsGenerated) {
		// Model produced nothing usable; the local templates always can.
		s.logger.Info("QuizService", "Falling back to local quiz generation", map[string]interface{}{
			"note_id": note.Id,
		})
		generated, err = s.generator.GenerateLocal(ctx, note, opts)
	}
	if err != nil {
		return nil, err
	}

	if err := s.history.SaveQuiz(ctx, generated); err != nil {
		return nil, err
	}
	if err := s.bus.Publish(events.NewQuizGenerated(generated.Id, note.Id, len(generated.Questions), generated.IsLocal)); err != nil {
		s.logger.Warn("QuizService", "Failed to publish quiz event", map[string]interface{}{
			"quiz_id": generated.Id,
			"error":   err.Error(),
		})
	}

	if generated.IsLocal {
		go s.upgradeQuiz(note, generated.Id, opts)
	}

	return &dto.QuizResponse{Quiz: generated}, nil
}

// upgradeQuiz retries model generation after a local quiz was served and
// replaces the stored quiz in place when the model comes through.
func (s *quizService) upgradeQuiz(note *entity.Note, quizId string, opts quiz.Options) {
	// Runs after the response is sent; the request context is gone.
	ctx := context.Background()

	upgraded, err := s.generator.Generate(ctx, note, opts)
	if err != nil {
		return
	}

	upgraded.Id = quizId
	if err := s.history.SaveQuiz(ctx, upgraded); err != nil {
		s.logger.Error("QuizService", "Failed to persist upgraded quiz", map[string]interface{}{
			"quiz_id": quizId,
			"error":   err.Error(),
		})
		return
	}
	if err := s.bus.Publish(events.NewQuizUpgraded(quizId, note.Id, len(upgraded.Questions))); err != nil {
		s.logger.Warn("QuizService", "Failed to publish quiz upgrade event", map[string]interface{}{
			"quiz_id": quizId,
			"error":   err.Error(),
		})
	}
}

func (s *quizService) Show(ctx context.Context, id string) (*dto.QuizResponse, error) {
	stored, err := s.history.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, serverutils.ErrNotFound
	}
	return &dto.QuizResponse{Quiz: stored}, nil
}

func (s *quizService) List(ctx context.Context) (*dto.QuizListResponse, error) {
	quizzes, err := s.history.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})

	return &dto.QuizListResponse{Quizzes: quizzes, Total: len(quizzes)}, nil
}

// Delete removes a quiz together with its progress record.
func (s *quizService) Delete(ctx context.Context, id string) error {
	if err := s.history.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	return s.history.DeleteProgress(ctx, id)
}

func (s *quizService) SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	stored, err := s.history.GetQuiz(ctx, req.QuizId)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, serverutils.ErrNotFound
	}

	var question *entity.Question
	for i := range stored.Questions {
		if stored.Questions[i].Id == req.QuestionId {
			question = &stored.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, serverutils.ErrNotFound
	}

	correct := quiz.EvaluateAnswer(*question, req.Answer)

	progress, err := s.history.GetProgress(ctx, stored.Id)
	if err != nil {
		return nil, err
	}
	progress = quiz.ApplyProgress(progress, stored, correct, req.TimeSpentMs)
	if err := s.history.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}

	correctAnswer := question.CorrectAnswer
	if question.Type == entity.QuestionTypeShortAnswer {
		correctAnswer = question.AnswerKey
	}

	return &dto.SubmitAnswerResponse{
		Correct:       correct,
		CorrectAnswer: correctAnswer,
		Explanation:   question.Explanation,
		Progress:      progress,
	}, nil
}

func (s *quizService) GetProgress(ctx context.Context, quizId string) (*entity.QuizProgress, error) {
	progress, err := s.history.GetProgress(ctx, quizId)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, serverutils.ErrNotFound
	}
	return progress, nil
}
