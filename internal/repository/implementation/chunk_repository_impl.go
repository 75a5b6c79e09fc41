package implementation

import (
	"context"

	"intelidoc-rag-be/internal/apperror"
	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/internal/mapper"
	"intelidoc-rag-be/internal/model"
	"intelidoc-rag-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkRepositoryImpl struct {
	db        *gorm.DB
	dimension int
	mapper    *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB, dimension int) contract.ChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:        db,
		dimension: dimension,
		mapper:    mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) StoreChunks(ctx context.Context, documentId uuid.UUID, chunks []entity.ChunkInput) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	// Validate the whole batch before touching the database so a mismatch
	// never commits partial rows.
	for _, c := range chunks {
		if len(c.Embedding) != r.dimension {
			return 0, &apperror.DimensionError{Want: r.dimension, Got: len(c.Embedding)}
		}
	}

	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(&entity.DocumentChunk{
			DocumentId: documentId,
			ChunkIndex: i,
			Content:    c.Content,
			Embedding:  c.Embedding,
			PageNumber: c.PageNumber,
			Metadata:   c.Metadata,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(models).Error
	})
	if err != nil {
		return 0, err
	}
	return len(models), nil
}

func (r *DocumentChunkRepositoryImpl) SimilaritySearch(ctx context.Context, queryEmbedding []float32, topK int, documentIds []uuid.UUID) ([]*entity.SearchResult, error) {
	if len(queryEmbedding) != r.dimension {
		return nil, &apperror.DimensionError{Want: r.dimension, Got: len(queryEmbedding)}
	}
	if topK <= 0 {
		topK = 5
	}

	type row struct {
		Id               uuid.UUID
		DocumentId       uuid.UUID
		Content          string
		PageNumber       *int
		OriginalFilename string
		Similarity       float64
	}
	var rows []row

	queryVector := pgvector.NewVector(queryEmbedding)

	// Cosine distance in pgvector is 1 - cosine_similarity, so the score is
	// 1 - (embedding <=> query). Only completed documents are searchable:
	// partially ingested or failed uploads must never pollute retrieval.
	query := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.id, document_chunks.document_id, document_chunks.content, document_chunks.page_number, documents.original_filename, 1 - (document_chunks.embedding <=> ?) AS similarity", queryVector).
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Where("documents.status = ?", model.DocumentStatusCompleted)

	if len(documentIds) > 0 {
		query = query.Where("document_chunks.document_id IN ?", documentIds)
	}

	err := query.
		Order("similarity DESC, document_chunks.created_at ASC").
		Limit(topK).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]*entity.SearchResult, len(rows))
	for i, rw := range rows {
		results[i] = &entity.SearchResult{
			ChunkId:          rw.Id,
			DocumentId:       rw.DocumentId,
			DocumentFilename: rw.OriginalFilename,
			Content:          rw.Content,
			PageNumber:       rw.PageNumber,
			SimilarityScore:  rw.Similarity,
		}
	}
	return results, nil
}

func (r *DocumentChunkRepositoryImpl) CountByDocument(ctx context.Context, documentId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentChunk{}).
		Where("document_id = ?", documentId).
		Count(&count).Error
	return count, err
}
