package contract

import (
	"context"

	"studybuddy-be/internal/entity"
)

// HistoryRepository is the typed view over the history store. Lookups for
// missing records return (nil, nil); deletes of missing records are no-ops.
type HistoryRepository interface {
	SaveNote(ctx context.Context, note *entity.Note) error
	GetNote(ctx context.Context, id string) (*entity.Note, error)
	ListNotes(ctx context.Context) ([]*entity.Note, error)
	DeleteNote(ctx context.Context, id string) error

	SaveQuiz(ctx context.Context, quiz *entity.Quiz) error
	GetQuiz(ctx context.Context, id string) (*entity.Quiz, error)
	ListQuizzes(ctx context.Context) ([]*entity.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error

	SaveProgress(ctx context.Context, progress *entity.QuizProgress) error
	GetProgress(ctx context.Context, quizId string) (*entity.QuizProgress, error)
	DeleteProgress(ctx context.Context, quizId string) error

	SavePack(ctx context.Context, pack *entity.StudyPack) error
	GetPack(ctx context.Context, id string) (*entity.StudyPack, error)
	ListPacks(ctx context.Context) ([]*entity.StudyPack, error)
	DeletePack(ctx context.Context, id string) error
}
