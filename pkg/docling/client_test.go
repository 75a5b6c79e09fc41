package docling

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"intelidoc-rag-be/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/process", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "500", r.FormValue("chunk_size"))
		assert.Equal(t, "50", r.FormValue("chunk_overlap"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"filename": "report.pdf",
			"total_chunks": 2,
			"total_pages": 3,
			"chunks": [
				{"content": "first chunk", "page_number": 1},
				{"content": "second chunk", "page_number": 3, "metadata": {"section": "summary"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	chunks, err := client.Process(context.Background(), []byte("%PDF-1.4"), "report.pdf", "application/pdf", 500, 50)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "first chunk", chunks[0].Content)
	require.NotNil(t, chunks[1].PageNumber)
	assert.Equal(t, 3, *chunks[1].PageNumber)
	assert.Equal(t, "summary", chunks[1].Metadata["section"])
}

func TestProcessUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unsupported format"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Process(context.Background(), []byte("data"), "file.xyz", "application/octet-stream", 500, 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrExtraction))
}

func TestProcessConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	_, err := client.Process(context.Background(), []byte("data"), "file.pdf", "application/pdf", 500, 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrExtraction))
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	assert.True(t, NewClient(server.URL).HealthCheck(context.Background()))
	assert.False(t, NewClient("http://127.0.0.1:1").HealthCheck(context.Background()))
}
