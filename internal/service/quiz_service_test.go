package service

import (
	"context"
	"errors"
	"testing"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/internal/repository/implementation"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/pkg/capability"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/study/notes"
	"studybuddy-be/pkg/study/quiz"
)

func newQuizService(t *testing.T) (IQuizService, contract.HistoryRepository) {
	t.Helper()
	manager := capability.NewManager(capability.NewRegistry(), nil)
	history := implementation.NewHistoryRepository(memory.NewDocumentStore())
	bus := events.NewBus()
	t.Cleanup(func() { bus.Close() })

	generator := quiz.NewGenerator(manager, nil)
	return NewQuizService(generator, history, bus, logger.NewNopLogger()), history
}

func seedNote(t *testing.T, history contract.HistoryRepository) *entity.Note {
	t.Helper()
	manager := capability.NewManager(capability.NewRegistry(), nil)
	processor := notes.NewProcessor(manager, nil)

	note, err := processor.ProcessText(context.Background(), serviceSampleText, notes.Options{})
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if err := history.SaveNote(context.Background(), note); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	return note
}

func TestQuizServiceGenerateFallsBackToLocal(t *testing.T) {
	svc, history := newQuizService(t)
	note := seedNote(t, history)
	ctx := context.Background()

	res, err := svc.Generate(ctx, &dto.GenerateQuizRequest{NoteId: note.Id, QuestionCount: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.Quiz.IsLocal {
		t.Error("quiz should be local when no capability is available")
	}
	if len(res.Quiz.Questions) == 0 {
		t.Fatal("quiz has no questions")
	}

	stored, err := history.GetQuiz(ctx, res.Quiz.Id)
	if err != nil || stored == nil {
		t.Fatalf("generated quiz was not persisted: (%v, %v)", stored, err)
	}
}

func TestQuizServiceGenerateMissingNote(t *testing.T) {
	svc, _ := newQuizService(t)

	_, err := svc.Generate(context.Background(), &dto.GenerateQuizRequest{NoteId: "note_missing"})
	if !errors.Is(err, serverutils.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestQuizServiceSubmitAnswerTracksProgress(t *testing.T) {
	svc, history := newQuizService(t)
	note := seedNote(t, history)
	ctx := context.Background()

	generated, err := svc.Generate(ctx, &dto.GenerateQuizRequest{NoteId: note.Id, QuestionCount: 2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	question := generated.Quiz.Questions[0]

	answer := question.CorrectAnswer
	if question.Type == entity.QuestionTypeShortAnswer {
		answer = question.AnswerKey
	}
	res, err := svc.SubmitAnswer(ctx, &dto.SubmitAnswerRequest{
		QuizId:      generated.Quiz.Id,
		QuestionId:  question.Id,
		Answer:      answer,
		TimeSpentMs: 5000,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !res.Correct {
		t.Error("answering with the correct answer should be correct")
	}
	if res.Progress == nil || res.Progress.QuestionsAnswered != 1 || res.Progress.CorrectAnswers != 1 {
		t.Errorf("progress = %+v, want 1 answered 1 correct", res.Progress)
	}

	// A second, wrong answer only grows the answered counter.
	res, err = svc.SubmitAnswer(ctx, &dto.SubmitAnswerRequest{
		QuizId:     generated.Quiz.Id,
		QuestionId: question.Id,
		Answer:     "definitely wrong",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if res.Correct {
		t.Error("wrong answer marked correct")
	}
	if res.Progress.QuestionsAnswered != 2 || res.Progress.CorrectAnswers != 1 {
		t.Errorf("progress = %+v, want 2 answered 1 correct", res.Progress)
	}
}

func TestQuizServiceSubmitAnswerUnknownQuestion(t *testing.T) {
	svc, history := newQuizService(t)
	note := seedNote(t, history)
	ctx := context.Background()

	generated, err := svc.Generate(ctx, &dto.GenerateQuizRequest{NoteId: note.Id})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	_, err = svc.SubmitAnswer(ctx, &dto.SubmitAnswerRequest{
		QuizId:     generated.Quiz.Id,
		QuestionId: "q_unknown",
		Answer:     "A",
	})
	if !errors.Is(err, serverutils.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestQuizServiceDeleteRemovesProgress(t *testing.T) {
	svc, history := newQuizService(t)
	note := seedNote(t, history)
	ctx := context.Background()

	generated, err := svc.Generate(ctx, &dto.GenerateQuizRequest{NoteId: note.Id})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	question := generated.Quiz.Questions[0]
	if _, err := svc.SubmitAnswer(ctx, &dto.SubmitAnswerRequest{
		QuizId:     generated.Quiz.Id,
		QuestionId: question.Id,
		Answer:     "A",
	}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if err := svc.Delete(ctx, generated.Quiz.Id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	progress, err := history.GetProgress(ctx, generated.Quiz.Id)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if progress != nil {
		t.Error("progress should be deleted with its quiz")
	}
}
