package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"intelidoc-rag-be/internal/dto"
	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/internal/model"
	"intelidoc-rag-be/internal/pkg/logger"
	"intelidoc-rag-be/internal/repository/contract"
	"intelidoc-rag-be/pkg/docling"
	"intelidoc-rag-be/pkg/embedding"
	"intelidoc-rag-be/pkg/events"
	pktNats "intelidoc-rag-be/pkg/nats"
	"intelidoc-rag-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// errNoTextContent is stored verbatim as the document's error message, so
// clients see a readable reason rather than a wrapped chain.
var errNoTextContent = errors.New("No text content extracted from document")

// DocumentExtractor parses raw document bytes into text chunks.
type DocumentExtractor interface {
	Process(ctx context.Context, fileContent []byte, filename, contentType string, chunkSize, chunkOverlap int) ([]docling.ProcessedChunk, error)
}

// StatusNotifier pushes document status events to connected clients.
type StatusNotifier interface {
	Broadcast(event dto.DocumentStatusEvent)
}

type IIngestService interface {
	// Consume starts the background worker draining the ingestion queue.
	Consume(ctx context.Context) error

	// ReconcileStale fails documents stuck in processing since before the
	// last restart. Run once at startup, before Consume.
	ReconcileStale(ctx context.Context) error
}

type ingestService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	docRepo      contract.DocumentRepository
	chunkRepo    contract.ChunkRepository
	extractor    DocumentExtractor
	embedder     embedding.Provider
	notifier     StatusNotifier
	natsPub      *pktNats.Publisher
	chunkSize    int
	chunkOverlap int
	staleAfter   time.Duration
	logger       logger.ILogger
}

func NewIngestService(
	pubSub *gochannel.GoChannel,
	topicName string,
	docRepo contract.DocumentRepository,
	chunkRepo contract.ChunkRepository,
	extractor DocumentExtractor,
	embedder embedding.Provider,
	notifier StatusNotifier,
	natsPub *pktNats.Publisher,
	chunkSize, chunkOverlap int,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		pubSub:       pubSub,
		topicName:    topicName,
		docRepo:      docRepo,
		chunkRepo:    chunkRepo,
		extractor:    extractor,
		embedder:     embedder,
		notifier:     notifier,
		natsPub:      natsPub,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		staleAfter:   30 * time.Minute,
		logger:       log,
	}
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestService) ReconcileStale(ctx context.Context) error {
	count, err := s.docRepo.MarkStaleProcessingFailed(ctx, s.staleAfter)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Warn("IngestService", "Reconciled stale processing documents", map[string]interface{}{
			"count": count,
		})
	}
	return nil
}

// processMessage runs one document through the full pipeline. Every failure
// is absorbed here: the document is marked failed and the message acked, so a
// poisonous document can never wedge the queue.
func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestJobMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("IngestService", "Failed to unmarshal job message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	s.logger.Info("IngestService", "Processing document", map[string]interface{}{
		"document_id": payload.DocumentId.String(),
		"filename":    payload.OriginalFilename,
	})

	doc, err := s.docRepo.FindByID(ctx, payload.DocumentId)
	if err != nil {
		s.logger.Error("IngestService", "Failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack() // Transient DB error, retry
		return
	}
	if doc == nil {
		// Deleted between upload and processing. Nothing to do.
		msg.Ack()
		return
	}

	if err := s.ingest(ctx, payload); err != nil {
		s.fail(ctx, payload, err)
	}
	msg.Ack()
}

func (s *ingestService) ingest(ctx context.Context, job dto.IngestJobMessage) error {
	if err := s.docRepo.UpdateStatus(ctx, job.DocumentId, model.DocumentStatusProcessing, nil, ""); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	s.emit(ctx, job, model.DocumentStatusProcessing, 10, "Starting document processing", 0, "")

	content, err := os.ReadFile(job.FilePath)
	if err != nil {
		return fmt.Errorf("read uploaded file: %w", err)
	}

	// Emitted before the parser call so a slow extraction shows the right
	// checkpoint while it runs.
	s.emit(ctx, job, model.DocumentStatusProcessing, 20, "Parsing document", 0, "")
	chunks, err := s.extract(ctx, content, job)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return errNoTextContent
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks))
	}
	s.emit(ctx, job, model.DocumentStatusProcessing, 60, "Embeddings generated", 0, "")

	inputs := make([]entity.ChunkInput, len(chunks))
	for i, chunk := range chunks {
		inputs[i] = entity.ChunkInput{
			Content:    chunk.Content,
			Embedding:  vectors[i],
			PageNumber: chunk.PageNumber,
			Metadata:   chunk.Metadata,
		}
	}
	stored, err := s.chunkRepo.StoreChunks(ctx, job.DocumentId, inputs)
	if err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	s.emit(ctx, job, model.DocumentStatusProcessing, 80, "Chunks stored", stored, "")

	pageCount := maxPageNumber(chunks)
	if err := s.docRepo.UpdateStatus(ctx, job.DocumentId, model.DocumentStatusCompleted, pageCount, ""); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	s.emit(ctx, job, model.DocumentStatusCompleted, 100, "Document processed successfully", stored, "")

	s.logger.Info("IngestService", "Document processed", map[string]interface{}{
		"document_id": job.DocumentId.String(),
		"chunks":      stored,
	})
	return nil
}

// extract turns raw bytes into text chunks. Plain text and markdown are
// split locally; everything else (PDF, DOCX, HTML) needs the external parser.
func (s *ingestService) extract(ctx context.Context, content []byte, job dto.IngestJobMessage) ([]docling.ProcessedChunk, error) {
	switch job.ContentType {
	case "text/plain", "text/markdown":
		pieces := utils.SplitText(string(content), s.chunkSize, s.chunkOverlap)
		chunks := make([]docling.ProcessedChunk, len(pieces))
		for i, piece := range pieces {
			chunks[i] = docling.ProcessedChunk{Content: piece}
		}
		return chunks, nil
	default:
		return s.extractor.Process(ctx, content, job.OriginalFilename, job.ContentType, s.chunkSize, s.chunkOverlap)
	}
}

func (s *ingestService) fail(ctx context.Context, job dto.IngestJobMessage, cause error) {
	s.logger.Error("IngestService", "Document processing failed", map[string]interface{}{
		"document_id": job.DocumentId.String(),
		"error":       cause.Error(),
	})

	if err := s.docRepo.UpdateStatus(ctx, job.DocumentId, model.DocumentStatusFailed, nil, cause.Error()); err != nil {
		s.logger.Error("IngestService", "Failed to record failure", map[string]interface{}{
			"document_id": job.DocumentId.String(),
			"error":       err.Error(),
		})
	}
	// Progress resets to 0 on failure; clients treat the error field as the
	// terminal state, not the percentage.
	s.emit(ctx, job, model.DocumentStatusFailed, 0, "", 0, cause.Error())
}

func (s *ingestService) emit(ctx context.Context, job dto.IngestJobMessage, status string, progress int, message string, chunkCount int, errorDetail string) {
	event := dto.DocumentStatusEvent{
		Type:       "document_status",
		DocumentId: job.DocumentId,
		Status:     status,
		Filename:   job.OriginalFilename,
		Progress:   progress,
		Message:    message,
		ChunkCount: chunkCount,
		Error:      errorDetail,
	}
	if s.notifier != nil {
		s.notifier.Broadcast(event)
	}

	// External bus is auxiliary; a publish failure never fails the pipeline.
	if s.natsPub != nil {
		evt := events.NewDocumentStatusChanged(job.DocumentId, status, job.OriginalFilename, progress, message, errorDetail)
		if err := s.natsPub.Publish(ctx, evt); err != nil {
			s.logger.Warn("IngestService", "Failed to publish status event", map[string]interface{}{
				"document_id": job.DocumentId.String(),
				"error":       err.Error(),
			})
		}
	}
}

func maxPageNumber(chunks []docling.ProcessedChunk) *int {
	var max int
	found := false
	for _, chunk := range chunks {
		if chunk.PageNumber != nil && *chunk.PageNumber > max {
			max = *chunk.PageNumber
			found = true
		}
	}
	if !found {
		return nil
	}
	return &max
}
