package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID       `gorm:"type:uuid;not null;index:idx_chunks_document_id;uniqueIndex:idx_chunks_document_chunk"`
	ChunkIndex int             `gorm:"not null;uniqueIndex:idx_chunks_document_chunk"` // 0-based position within the document
	Content    string          `gorm:"type:text;not null"`
	Embedding  pgvector.Vector `gorm:"type:vector(384)"` // width resized by cmd/migrate from EMBEDDING_DIMENSION
	PageNumber *int
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
