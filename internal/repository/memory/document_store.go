package memory

import (
	"context"
	"strings"

	"studybuddy-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// DocumentStore keeps history records in process memory. Records never
// expire; they live until removed or until the process exits. This is the
// default backend when no external storage is configured.
type DocumentStore struct {
	cache *cache.Cache
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func key(collection, id string) string {
	return collection + "/" + id
}

func (s *DocumentStore) Set(ctx context.Context, collection string, id string, data []byte) error {
	copied := make([]byte, len(data))
	copy(copied, data)
	s.cache.Set(key(collection, id), copied, cache.NoExpiration)
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, collection string, id string) ([]byte, error) {
	if x, found := s.cache.Get(key(collection, id)); found {
		return x.([]byte), nil
	}
	return nil, nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([][]byte, error) {
	prefix := collection + "/"
	var out [][]byte
	for k, item := range s.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, item.Object.([]byte))
		}
	}
	return out, nil
}

func (s *DocumentStore) Remove(ctx context.Context, collection string, id string) error {
	s.cache.Delete(key(collection, id))
	return nil
}

var _ contract.DocumentStore = (*DocumentStore)(nil)
