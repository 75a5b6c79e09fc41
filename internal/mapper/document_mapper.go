package mapper

import (
	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:               d.Id,
		Filename:         d.Filename,
		OriginalFilename: d.OriginalFilename,
		ContentType:      d.ContentType,
		FileSize:         d.FileSize,
		PageCount:        d.PageCount,
		Status:           d.Status,
		ErrorMessage:     d.ErrorMessage,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	if e == nil {
		return nil
	}
	return &model.Document{
		Id:               e.Id,
		Filename:         e.Filename,
		OriginalFilename: e.OriginalFilename,
		ContentType:      e.ContentType,
		FileSize:         e.FileSize,
		PageCount:        e.PageCount,
		Status:           e.Status,
		ErrorMessage:     e.ErrorMessage,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
