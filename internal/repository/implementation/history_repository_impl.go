package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/contract"
)

type historyRepositoryImpl struct {
	store contract.DocumentStore
}

// NewHistoryRepository builds the typed history view over any document
// store backend.
func NewHistoryRepository(store contract.DocumentStore) contract.HistoryRepository {
	return &historyRepositoryImpl{store: store}
}

func saveDocument[T any](ctx context.Context, store contract.DocumentStore, collection, id string, record *T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", collection, err)
	}
	return store.Set(ctx, collection, id, data)
}

func getDocument[T any](ctx context.Context, store contract.DocumentStore, collection, id string) (*T, error) {
	data, err := store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s record: %w", collection, err)
	}
	return &record, nil
}

func listDocuments[T any](ctx context.Context, store contract.DocumentStore, collection string) ([]*T, error) {
	raws, err := store.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s record: %w", collection, err)
		}
		out = append(out, &record)
	}
	return out, nil
}

func (r *historyRepositoryImpl) SaveNote(ctx context.Context, note *entity.Note) error {
	return saveDocument(ctx, r.store, contract.CollectionNotes, note.Id, note)
}

func (r *historyRepositoryImpl) GetNote(ctx context.Context, id string) (*entity.Note, error) {
	return getDocument[entity.Note](ctx, r.store, contract.CollectionNotes, id)
}

func (r *historyRepositoryImpl) ListNotes(ctx context.Context) ([]*entity.Note, error) {
	return listDocuments[entity.Note](ctx, r.store, contract.CollectionNotes)
}

func (r *historyRepositoryImpl) DeleteNote(ctx context.Context, id string) error {
	return r.store.Remove(ctx, contract.CollectionNotes, id)
}

func (r *historyRepositoryImpl) SaveQuiz(ctx context.Context, quiz *entity.Quiz) error {
	return saveDocument(ctx, r.store, contract.CollectionQuizzes, quiz.Id, quiz)
}

func (r *historyRepositoryImpl) GetQuiz(ctx context.Context, id string) (*entity.Quiz, error) {
	return getDocument[entity.Quiz](ctx, r.store, contract.CollectionQuizzes, id)
}

func (r *historyRepositoryImpl) ListQuizzes(ctx context.Context) ([]*entity.Quiz, error) {
	return listDocuments[entity.Quiz](ctx, r.store, contract.CollectionQuizzes)
}

func (r *historyRepositoryImpl) DeleteQuiz(ctx context.Context, id string) error {
	return r.store.Remove(ctx, contract.CollectionQuizzes, id)
}

func (r *historyRepositoryImpl) SaveProgress(ctx context.Context, progress *entity.QuizProgress) error {
	return saveDocument(ctx, r.store, contract.CollectionProgress, progress.QuizId, progress)
}

func (r *historyRepositoryImpl) GetProgress(ctx context.Context, quizId string) (*entity.QuizProgress, error) {
	return getDocument[entity.QuizProgress](ctx, r.store, contract.CollectionProgress, quizId)
}

func (r *historyRepositoryImpl) DeleteProgress(ctx context.Context, quizId string) error {
	return r.store.Remove(ctx, contract.CollectionProgress, quizId)
}

func (r *historyRepositoryImpl) SavePack(ctx context.Context, pack *entity.StudyPack) error {
	return saveDocument(ctx, r.store, contract.CollectionPacks, pack.Id, pack)
}

func (r *historyRepositoryImpl) GetPack(ctx context.Context, id string) (*entity.StudyPack, error) {
	return getDocument[entity.StudyPack](ctx, r.store, contract.CollectionPacks, id)
}

func (r *historyRepositoryImpl) ListPacks(ctx context.Context) ([]*entity.StudyPack, error) {
	return listDocuments[entity.StudyPack](ctx, r.store, contract.CollectionPacks)
}

func (r *historyRepositoryImpl) DeletePack(ctx context.Context, id string) error {
	return r.store.Remove(ctx, contract.CollectionPacks, id)
}
