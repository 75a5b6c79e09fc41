package docling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"time"

	"intelidoc-rag-be/internal/apperror"
)

// ProcessedChunk is one text chunk returned by the extraction service.
// PageNumber is a linear-interpolation estimate over chunk position, not a
// structural mapping; treat it as approximate.
type ProcessedChunk struct {
	Content    string                 `json:"content"`
	PageNumber *int                   `json:"page_number,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type processResponse struct {
	Filename    string           `json:"filename"`
	TotalChunks int              `json:"total_chunks"`
	TotalPages  *int             `json:"total_pages,omitempty"`
	Chunks      []ProcessedChunk `json:"chunks"`
}

// Client talks to the docling extraction service, which parses documents
// (PDF with OCR, DOCX, HTML, images, markdown) and splits them into chunks.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8001"
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			// Document parsing with OCR can legitimately take minutes.
			Timeout: 300 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			},
		},
	}
}

// Process sends raw document bytes for parsing and chunking. Transport and
// parsing failures surface uniformly as *apperror.ExtractionError.
func (c *Client) Process(ctx context.Context, fileContent []byte, filename, contentType string, chunkSize, chunkOverlap int) ([]ProcessedChunk, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(fileContent); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.WriteField("chunk_size", strconv.Itoa(chunkSize)); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	if err := writer.WriteField("chunk_overlap", strconv.Itoa(chunkOverlap)); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/process", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperror.ExtractionError{Detail: "could not connect to document processing service", Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperror.ExtractionError{Detail: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apperror.ExtractionError{
			Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, string(bodyBytes)),
		}
	}

	var result processResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, &apperror.ExtractionError{Detail: "unmarshal response", Err: err}
	}

	return result.Chunks, nil
}

func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
