package mapper

import (
	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}
	return &entity.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		PageNumber: c.PageNumber,
		Metadata:   c.Metadata,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(e *entity.DocumentChunk) *model.DocumentChunk {
	if e == nil {
		return nil
	}
	var metadata datatypes.JSONMap
	if e.Metadata != nil {
		metadata = datatypes.JSONMap(e.Metadata)
	}
	return &model.DocumentChunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		ChunkIndex: e.ChunkIndex,
		Content:    e.Content,
		Embedding:  pgvector.NewVector(e.Embedding),
		PageNumber: e.PageNumber,
		Metadata:   metadata,
		CreatedAt:  e.CreatedAt,
	}
}
