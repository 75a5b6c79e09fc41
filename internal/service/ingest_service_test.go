package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"intelidoc-rag-be/internal/dto"
	"intelidoc-rag-be/internal/entity"
	"intelidoc-rag-be/internal/model"
	"intelidoc-rag-be/pkg/docling"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type statusUpdate struct {
	status       string
	pageCount    *int
	errorMessage string
}

type fakeDocRepo struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]*entity.Document
	updates []statusUpdate
	stale   int64
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[uuid.UUID]*entity.Document)}
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.Id] = doc
	return nil
}

func (f *fakeDocRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[id], nil
}

func (f *fakeDocRepo) List(ctx context.Context, page, pageSize int, status string) ([]*entity.Document, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var docs []*entity.Document
	for _, doc := range f.docs {
		docs = append(docs, doc)
	}
	return docs, int64(len(docs)), nil
}

func (f *fakeDocRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, pageCount *int, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, statusUpdate{status: status, pageCount: pageCount, errorMessage: errorMessage})
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
		if pageCount != nil {
			doc.PageCount = pageCount
		}
		doc.ErrorMessage = errorMessage
	}
	return nil
}

func (f *fakeDocRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return false, nil
	}
	delete(f.docs, id)
	return true, nil
}

func (f *fakeDocRepo) MarkStaleProcessingFailed(ctx context.Context, olderThan time.Duration) (int64, error) {
	return f.stale, nil
}

type fakeChunkStore struct {
	mu     sync.Mutex
	stored []entity.ChunkInput
	err    error
}

func (f *fakeChunkStore) StoreChunks(ctx context.Context, documentId uuid.UUID, chunks []entity.ChunkInput) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, chunks...)
	return len(chunks), nil
}

func (f *fakeChunkStore) SimilaritySearch(ctx context.Context, queryEmbedding []float32, topK int, documentIds []uuid.UUID) ([]*entity.SearchResult, error) {
	return nil, nil
}

func (f *fakeChunkStore) CountByDocument(ctx context.Context, documentId uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.stored)), nil
}

type fakeExtractor struct {
	chunks []docling.ProcessedChunk
	err    error
}

func (f *fakeExtractor) Process(ctx context.Context, fileContent []byte, filename, contentType string, chunkSize, chunkOverlap int) ([]docling.ProcessedChunk, error) {
	return f.chunks, f.err
}

type fakeDocEmbedder struct {
	err error
}

func (f *fakeDocEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeDocEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, f.err
}

func (f *fakeDocEmbedder) Dimension() int { return 3 }

func (f *fakeDocEmbedder) HealthCheck(ctx context.Context) bool { return f.err == nil }

type recordingNotifier struct {
	mu     sync.Mutex
	events []dto.DocumentStatusEvent
}

func (r *recordingNotifier) Broadcast(event dto.DocumentStatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) progressValues() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	values := make([]int, len(r.events))
	for i, e := range r.events {
		values[i] = e.Progress
	}
	return values
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func intPtr(v int) *int { return &v }

type ingestFixture struct {
	service   *ingestService
	docRepo   *fakeDocRepo
	chunkRepo *fakeChunkStore
	notifier  *recordingNotifier
	job       dto.IngestJobMessage
}

func newIngestFixture(t *testing.T, extractor *fakeExtractor, embedder *fakeDocEmbedder) *ingestFixture {
	t.Helper()

	docRepo := newFakeDocRepo()
	chunkRepo := &fakeChunkStore{}
	notifier := &recordingNotifier{}

	svc := NewIngestService(nil, "document.ingest", docRepo, chunkRepo, extractor, embedder, notifier, nil, 500, 50, nopLogger{}).(*ingestService)

	docId := uuid.New()
	filePath := filepath.Join(t.TempDir(), "upload.pdf")
	if err := os.WriteFile(filePath, []byte("%PDF-1.4 some document"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	docRepo.Create(context.Background(), &entity.Document{
		Id:               docId,
		OriginalFilename: "upload.pdf",
		Status:           model.DocumentStatusPending,
	})

	return &ingestFixture{
		service:   svc,
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		notifier:  notifier,
		job: dto.IngestJobMessage{
			DocumentId:       docId,
			FilePath:         filePath,
			OriginalFilename: "upload.pdf",
			ContentType:      "application/pdf",
		},
	}
}

func (fx *ingestFixture) deliver(t *testing.T) {
	t.Helper()
	payload, err := json.Marshal(fx.job)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	fx.service.processMessage(context.Background(), msg)
}

func TestIngestHappyPath(t *testing.T) {
	extractor := &fakeExtractor{chunks: []docling.ProcessedChunk{
		{Content: "chunk one", PageNumber: intPtr(1)},
		{Content: "chunk two", PageNumber: intPtr(3)},
		{Content: "chunk three", PageNumber: intPtr(2)},
	}}
	fx := newIngestFixture(t, extractor, &fakeDocEmbedder{})

	fx.deliver(t)

	doc, _ := fx.docRepo.FindByID(context.Background(), fx.job.DocumentId)
	if doc.Status != model.DocumentStatusCompleted {
		t.Fatalf("status = %q, want completed (error: %s)", doc.Status, doc.ErrorMessage)
	}
	if doc.PageCount == nil || *doc.PageCount != 3 {
		t.Errorf("page count = %v, want 3", doc.PageCount)
	}
	if len(fx.chunkRepo.stored) != 3 {
		t.Errorf("stored chunks = %d, want 3", len(fx.chunkRepo.stored))
	}

	progress := fx.notifier.progressValues()
	want := []int{10, 20, 60, 80, 100}
	if len(progress) != len(want) {
		t.Fatalf("progress events = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress[%d] = %d, want %d", i, progress[i], want[i])
		}
	}

	if fx.notifier.events[1].Message != "Parsing document" {
		t.Errorf("second event message = %q, want parsing checkpoint", fx.notifier.events[1].Message)
	}

	last := fx.notifier.events[len(fx.notifier.events)-1]
	if last.Status != model.DocumentStatusCompleted || last.ChunkCount != 3 {
		t.Errorf("final event = %+v", last)
	}
}

func TestIngestExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("parser crashed")}
	fx := newIngestFixture(t, extractor, &fakeDocEmbedder{})

	fx.deliver(t)

	doc, _ := fx.docRepo.FindByID(context.Background(), fx.job.DocumentId)
	if doc.Status != model.DocumentStatusFailed {
		t.Fatalf("status = %q, want failed", doc.Status)
	}
	if doc.ErrorMessage != "parser crashed" {
		t.Errorf("error message = %q", doc.ErrorMessage)
	}

	last := fx.notifier.events[len(fx.notifier.events)-1]
	if last.Status != model.DocumentStatusFailed || last.Error == "" {
		t.Errorf("final event = %+v", last)
	}
	if last.Progress != 0 {
		t.Errorf("failure event progress = %d, want 0", last.Progress)
	}

	progress := fx.notifier.progressValues()
	want := []int{10, 20, 0}
	if len(progress) != len(want) {
		t.Fatalf("progress events = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress[%d] = %d, want %d", i, progress[i], want[i])
		}
	}
}

func TestIngestEmptyExtraction(t *testing.T) {
	fx := newIngestFixture(t, &fakeExtractor{}, &fakeDocEmbedder{})

	fx.deliver(t)

	doc, _ := fx.docRepo.FindByID(context.Background(), fx.job.DocumentId)
	if doc.Status != model.DocumentStatusFailed {
		t.Fatalf("status = %q, want failed", doc.Status)
	}
	if doc.ErrorMessage != "No text content extracted from document" {
		t.Errorf("error message = %q", doc.ErrorMessage)
	}

	last := fx.notifier.events[len(fx.notifier.events)-1]
	if last.Progress != 0 {
		t.Errorf("failure event progress = %d, want 0", last.Progress)
	}
	if last.Error != "No text content extracted from document" {
		t.Errorf("failure event error = %q", last.Error)
	}
}

func TestIngestEmbeddingFailure(t *testing.T) {
	extractor := &fakeExtractor{chunks: []docling.ProcessedChunk{{Content: "chunk"}}}
	fx := newIngestFixture(t, extractor, &fakeDocEmbedder{err: errors.New("backend down")})

	fx.deliver(t)

	doc, _ := fx.docRepo.FindByID(context.Background(), fx.job.DocumentId)
	if doc.Status != model.DocumentStatusFailed {
		t.Fatalf("status = %q, want failed", doc.Status)
	}
	if len(fx.chunkRepo.stored) != 0 {
		t.Errorf("stored chunks = %d, want 0", len(fx.chunkRepo.stored))
	}
}

func TestIngestDeletedDocumentIsSkipped(t *testing.T) {
	extractor := &fakeExtractor{chunks: []docling.ProcessedChunk{{Content: "chunk"}}}
	fx := newIngestFixture(t, extractor, &fakeDocEmbedder{})

	fx.docRepo.Delete(context.Background(), fx.job.DocumentId)
	fx.deliver(t)

	if len(fx.docRepo.updates) != 0 {
		t.Errorf("updates = %v, want none", fx.docRepo.updates)
	}
	if len(fx.notifier.events) != 0 {
		t.Errorf("events = %v, want none", fx.notifier.events)
	}
}

func TestIngestPlainTextSplitsLocally(t *testing.T) {
	// A failing extractor proves plain text never reaches it.
	extractor := &fakeExtractor{err: errors.New("should not be called")}
	fx := newIngestFixture(t, extractor, &fakeDocEmbedder{})

	filePath := filepath.Join(t.TempDir(), "notes.txt")
	text := "First sentence about the project. Second sentence with more detail. Third sentence to close."
	if err := os.WriteFile(filePath, []byte(text), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	fx.job.FilePath = filePath
	fx.job.OriginalFilename = "notes.txt"
	fx.job.ContentType = "text/plain"

	fx.deliver(t)

	doc, _ := fx.docRepo.FindByID(context.Background(), fx.job.DocumentId)
	if doc.Status != model.DocumentStatusCompleted {
		t.Fatalf("status = %q, want completed (error: %s)", doc.Status, doc.ErrorMessage)
	}
	if len(fx.chunkRepo.stored) == 0 {
		t.Fatal("no chunks stored from local split")
	}
	if doc.PageCount != nil {
		t.Errorf("page count = %v, want nil for plain text", doc.PageCount)
	}
}

func TestIngestMissingFileFails(t *testing.T) {
	extractor := &fakeExtractor{chunks: []docling.ProcessedChunk{{Content: "chunk"}}}
	fx := newIngestFixture(t, extractor, &fakeDocEmbedder{})

	fx.job.FilePath = filepath.Join(t.TempDir(), "missing.txt")
	fx.deliver(t)

	doc, _ := fx.docRepo.FindByID(context.Background(), fx.job.DocumentId)
	if doc.Status != model.DocumentStatusFailed {
		t.Fatalf("status = %q, want failed", doc.Status)
	}
}
