package gormstore

import (
	"context"
	"errors"
	"time"

	"studybuddy-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentModel is a single history record stored as a JSON document. The
// (collection, doc_id) pair is the primary key; writes upsert the full body.
type documentModel struct {
	Collection string         `gorm:"primaryKey;size:32"`
	DocId      string         `gorm:"primaryKey;size:128;column:doc_id"`
	Data       datatypes.JSON `gorm:"not null"`
	UpdatedAt  time.Time
}

func (documentModel) TableName() string {
	return "study_documents"
}

// DocumentStore persists history records in Postgres via gorm.
type DocumentStore struct {
	db *gorm.DB
}

func NewDocumentStore(db *gorm.DB) (*DocumentStore, error) {
	if err := db.AutoMigrate(&documentModel{}); err != nil {
		return nil, err
	}
	return &DocumentStore{db: db}, nil
}

func (s *DocumentStore) Set(ctx context.Context, collection string, id string, data []byte) error {
	record := documentModel{
		Collection: collection,
		DocId:      id,
		Data:       datatypes.JSON(data),
		UpdatedAt:  time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *DocumentStore) Get(ctx context.Context, collection string, id string) ([]byte, error) {
	var record documentModel
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(record.Data), nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([][]byte, error) {
	var records []documentModel
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(records))
	for _, record := range records {
		out = append(out, []byte(record.Data))
	}
	return out, nil
}

func (s *DocumentStore) Remove(ctx context.Context, collection string, id string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&documentModel{}).Error
}

var _ contract.DocumentStore = (*DocumentStore)(nil)
