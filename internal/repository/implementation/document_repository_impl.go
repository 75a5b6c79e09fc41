package implementation

import (
	"context"
	"errors"
	"time"

	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/internal/mapper"
	"intelidoc-rag-be/internal/model"
	"intelidoc-rag-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, document *entity.Document) error {
	m := r.mapper.ToModel(document)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var m model.Document
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) List(ctx context.Context, page, pageSize int, status string) ([]*entity.Document, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := r.db.WithContext(ctx).Model(&model.Document{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.Document
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	documents := make([]*entity.Document, len(models))
	for i, m := range models {
		documents[i] = r.mapper.ToEntity(m)
	}
	return documents, total, nil
}

func (r *DocumentRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string, pageCount *int, errorMessage string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if pageCount != nil {
		updates["page_count"] = *pageCount
	}
	if errorMessage != "" {
		updates["error_message"] = errorMessage
	}

	// Updates on a nonexistent id affect zero rows, which is fine here.
	return r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Document{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DocumentRepositoryImpl) MarkStaleProcessingFailed(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("status = ? AND updated_at < ?", model.DocumentStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":        model.DocumentStatusFailed,
			"error_message": "Processing interrupted by restart",
			"updated_at":    time.Now(),
		})
	return res.RowsAffected, res.Error
}
