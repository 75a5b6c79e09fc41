package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"intelidoc-rag-be/internal/dto"
	"intelidoc-rag-be/internal/model"
)

type recordingPublisher struct {
	payloads [][]byte
	err      error
}

func (r *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	if r.err != nil {
		return r.err
	}
	r.payloads = append(r.payloads, payload)
	return nil
}

func TestUploadQueuesIngestJob(t *testing.T) {
	docRepo := newFakeDocRepo()
	chunkRepo := &fakeChunkStore{}
	publisher := &recordingPublisher{}
	uploadDir := t.TempDir()

	svc := NewDocumentService(docRepo, chunkRepo, publisher, uploadDir, nopLogger{})

	res, err := svc.Upload(context.Background(), "notes.txt", "text/plain", []byte("hello world"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Status != model.DocumentStatusPending {
		t.Errorf("status = %q, want pending", res.Status)
	}
	if res.Filename != "notes.txt" {
		t.Errorf("filename = %q", res.Filename)
	}

	doc, _ := docRepo.FindByID(context.Background(), res.DocumentId)
	if doc == nil {
		t.Fatal("document not persisted")
	}
	if doc.OriginalFilename != "notes.txt" || doc.FileSize != 11 {
		t.Errorf("document = %+v", doc)
	}

	if len(publisher.payloads) != 1 {
		t.Fatalf("published %d messages, want 1", len(publisher.payloads))
	}
	var job dto.IngestJobMessage
	if err := json.Unmarshal(publisher.payloads[0], &job); err != nil {
		t.Fatalf("unmarshal job: %v", err)
	}
	if job.DocumentId != res.DocumentId {
		t.Errorf("job document id = %s, want %s", job.DocumentId, res.DocumentId)
	}

	// Stored file must exist under the uuid-derived name, not the upload name.
	if _, err := os.Stat(job.FilePath); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	if filepath.Base(job.FilePath) == "notes.txt" {
		t.Error("stored file kept the client-supplied name")
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := NewDocumentService(newFakeDocRepo(), &fakeChunkStore{}, &recordingPublisher{}, t.TempDir(), nopLogger{})

	if _, err := svc.Upload(context.Background(), "archive.zip", "application/zip", []byte("PK")); err == nil {
		t.Fatal("expected error for unsupported content type")
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := NewDocumentService(newFakeDocRepo(), &fakeChunkStore{}, &recordingPublisher{}, t.TempDir(), nopLogger{})

	if _, err := svc.Upload(context.Background(), "empty.txt", "text/plain", nil); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestDeleteRemovesStoredFile(t *testing.T) {
	docRepo := newFakeDocRepo()
	uploadDir := t.TempDir()
	svc := NewDocumentService(docRepo, &fakeChunkStore{}, &recordingPublisher{}, uploadDir, nopLogger{})

	res, err := svc.Upload(context.Background(), "notes.md", "text/markdown", []byte("# title"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	deleted, err := svc.Delete(context.Background(), res.DocumentId)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete reported false for existing document")
	}

	entries, _ := os.ReadDir(uploadDir)
	if len(entries) != 0 {
		t.Errorf("upload dir still has %d entries", len(entries))
	}
}

func TestDeleteMissingDocument(t *testing.T) {
	svc := NewDocumentService(newFakeDocRepo(), &fakeChunkStore{}, &recordingPublisher{}, t.TempDir(), nopLogger{})

	res, err := svc.Upload(context.Background(), "a.txt", "text/plain", []byte("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Delete(context.Background(), res.DocumentId); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	deleted, err := svc.Delete(context.Background(), res.DocumentId)
	if err != nil {
		t.Fatalf("Delete second time: %v", err)
	}
	if deleted {
		t.Error("Delete reported true for missing document")
	}
}
