package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/internal/repository/gormstore"
	"studybuddy-be/internal/repository/implementation"
	"studybuddy-be/internal/repository/redisstore"
	"studybuddy-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEnv() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
}

func exerciseHistory(t *testing.T, store contract.DocumentStore) {
	t.Helper()
	repo := implementation.NewHistoryRepository(store)
	ctx := context.Background()

	note := &entity.Note{
		Id:          "note_integration_roundtrip",
		Summary:     "Integration test note.",
		Concepts:    []string{"Testing"},
		Type:        entity.NoteTypeText,
		ProcessedAt: time.Now(),
	}
	require.NoError(t, repo.SaveNote(ctx, note))
	defer repo.DeleteNote(ctx, note.Id)

	got, err := repo.GetNote(ctx, note.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, note.Summary, got.Summary)

	listed, err := repo.ListNotes(ctx)
	require.NoError(t, err)
	found := false
	for _, n := range listed {
		if n.Id == note.Id {
			found = true
		}
	}
	assert.True(t, found, "saved note should appear in listing")

	require.NoError(t, repo.DeleteNote(ctx, note.Id))
	got, err = repo.GetNote(ctx, note.Id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDocumentStore(t *testing.T) {
	loadEnv()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	store, err := redisstore.NewDocumentStore(url)
	require.NoError(t, err)
	defer store.Close()

	exerciseHistory(t, store)
}

func TestGormDocumentStore(t *testing.T) {
	loadEnv()
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	store, err := gormstore.NewDocumentStore(db)
	require.NoError(t, err)

	exerciseHistory(t, store)
}
