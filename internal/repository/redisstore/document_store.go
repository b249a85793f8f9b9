package redisstore

import (
	"context"
	"errors"
	"fmt"

	"studybuddy-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

// DocumentStore persists history records as JSON strings in Redis. Keys are
// namespaced "studybuddy:<collection>:<id>" so several apps can share one
// instance.
type DocumentStore struct {
	client *redis.Client
}

func NewDocumentStore(connection string) (*DocumentStore, error) {
	opts, err := redis.ParseURL(connection)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &DocumentStore{client: client}, nil
}

func key(collection, id string) string {
	return "studybuddy:" + collection + ":" + id
}

func (s *DocumentStore) Set(ctx context.Context, collection string, id string, data []byte) error {
	return s.client.Set(ctx, key(collection, id), data, 0).Err()
}

func (s *DocumentStore) Get(ctx context.Context, collection string, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, key(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([][]byte, error) {
	pattern := key(collection, "*")

	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(values))
	for _, v := range values {
		// A key may expire between SCAN and MGET.
		if str, ok := v.(string); ok {
			out = append(out, []byte(str))
		}
	}
	return out, nil
}

func (s *DocumentStore) Remove(ctx context.Context, collection string, id string) error {
	return s.client.Del(ctx, key(collection, id)).Err()
}

func (s *DocumentStore) Close() error {
	return s.client.Close()
}

var _ contract.DocumentStore = (*DocumentStore)(nil)
