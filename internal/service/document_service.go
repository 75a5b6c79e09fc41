package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"intelidoc-rag-be/internal/dto"
	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/internal/model"
	"intelidoc-rag-be/internal/pkg/logger"
	"intelidoc-rag-be/internal/repository/contract"

	"github.com/google/uuid"
)

// allowedContentTypes are the formats the extraction service can parse.
var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/msword": ".doc",
	"text/plain":         ".txt",
	"text/markdown":      ".md",
	"text/html":          ".html",
}

type IDocumentService interface {
	// Upload persists the file, records a pending document, and queues the
	// ingestion job. Processing happens asynchronously.
	Upload(ctx context.Context, filename, contentType string, content []byte) (*dto.UploadResponse, error)

	List(ctx context.Context, page, pageSize int, status string) (*dto.DocumentListResponse, error)

	// Show returns (nil, nil) when the document does not exist.
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)

	// Delete reports whether the document existed. Chunks and the stored file
	// are removed with it.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type documentService struct {
	docRepo          contract.DocumentRepository
	chunkRepo        contract.ChunkRepository
	publisherService IPublisherService
	uploadDir        string
	logger           logger.ILogger
}

func NewDocumentService(
	docRepo contract.DocumentRepository,
	chunkRepo contract.ChunkRepository,
	publisherService IPublisherService,
	uploadDir string,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		docRepo:          docRepo,
		chunkRepo:        chunkRepo,
		publisherService: publisherService,
		uploadDir:        uploadDir,
		logger:           log,
	}
}

func (s *documentService) Upload(ctx context.Context, filename, contentType string, content []byte) (*dto.UploadResponse, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("uploaded file is empty")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	// Stored under a fresh UUID so colliding upload names never overwrite.
	docId := uuid.New()
	storedName := docId.String() + ext
	storedPath := filepath.Join(s.uploadDir, storedName)

	if err := os.WriteFile(storedPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("save uploaded file: %w", err)
	}

	doc := &entity.Document{
		Id:               docId,
		Filename:         storedName,
		OriginalFilename: filename,
		ContentType:      contentType,
		FileSize:         int64(len(content)),
		Status:           model.DocumentStatusPending,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		os.Remove(storedPath)
		return nil, err
	}

	msgPayload := dto.IngestJobMessage{
		DocumentId:       docId,
		FilePath:         storedPath,
		OriginalFilename: filename,
		ContentType:      contentType,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		// The document stays pending; the startup sweep will not touch it, so
		// surface the failure to the caller.
		s.logger.Error("DocumentService", "Failed to queue ingestion job", map[string]interface{}{
			"document_id": docId.String(),
			"error":       err.Error(),
		})
		return nil, err
	}

	s.logger.Info("DocumentService", "Document uploaded and queued", map[string]interface{}{
		"document_id": docId.String(),
		"filename":    filename,
		"size":        len(content),
	})

	return &dto.UploadResponse{
		DocumentId: docId,
		Filename:   filename,
		Status:     model.DocumentStatusPending,
		Message:    "Document uploaded, processing started",
	}, nil
}

func (s *documentService) List(ctx context.Context, page, pageSize int, status string) (*dto.DocumentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	docs, total, err := s.docRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, s.toResponse(ctx, doc))
	}

	return &dto.DocumentListResponse{
		Documents: responses,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return s.toResponse(ctx, doc), nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}

	deleted, err := s.docRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted && doc.Filename != "" {
		storedPath := filepath.Join(s.uploadDir, doc.Filename)
		if err := os.Remove(storedPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("DocumentService", "Failed to remove stored file", map[string]interface{}{
				"path":  storedPath,
				"error": err.Error(),
			})
		}
	}

	return deleted, nil
}

func (s *documentService) toResponse(ctx context.Context, doc *entity.Document) *dto.DocumentResponse {
	chunkCount, err := s.chunkRepo.CountByDocument(ctx, doc.Id)
	if err != nil {
		s.logger.Warn("DocumentService", "Failed to count chunks", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
	}
	return &dto.DocumentResponse{
		Id:               doc.Id,
		Filename:         doc.Filename,
		OriginalFilename: doc.OriginalFilename,
		ContentType:      doc.ContentType,
		FileSize:         doc.FileSize,
		PageCount:        doc.PageCount,
		Status:           doc.Status,
		ErrorMessage:     doc.ErrorMessage,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
		ChunkCount:       chunkCount,
	}
}
