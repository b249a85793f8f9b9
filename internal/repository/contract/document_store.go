package contract

import "context"

// Collections used by the history store. Every record lives in exactly one
// collection and is addressed by its own id.
const (
	CollectionNotes    = "notes"
	CollectionQuizzes  = "quizzes"
	CollectionProgress = "progress"
	CollectionPacks    = "packs"
)

// DocumentStore persists whole JSON documents keyed by (collection, id).
// Writes replace the full value; there are no partial updates. Get returns
// (nil, nil) when the document does not exist.
type DocumentStore interface {
	Set(ctx context.Context, collection string, id string, data []byte) error
	Get(ctx context.Context, collection string, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([][]byte, error)
	Remove(ctx context.Context, collection string, id string) error
}
