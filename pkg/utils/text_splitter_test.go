package utils

import (
	"strings"
	"testing"
)

func TestSplitTextBasics(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		want      []string
	}{
		{
			name:      "empty text",
			text:      "",
			chunkSize: 100,
			overlap:   10,
			want:      nil,
		},
		{
			name:      "whitespace only",
			text:      "   \n\n  ",
			chunkSize: 100,
			overlap:   10,
			want:      nil,
		},
		{
			name:      "shorter than chunk size",
			text:      "  hello world  ",
			chunkSize: 100,
			overlap:   10,
			want:      []string{"hello world"},
		},
		{
			name:      "exactly chunk size",
			text:      strings.Repeat("a", 100),
			chunkSize: 100,
			overlap:   10,
			want:      []string{strings.Repeat("a", 100)},
		},
		{
			name:      "breaks at sentence boundary",
			text:      "First sentence. Second sentence that continues on.",
			chunkSize: 20,
			overlap:   0,
			want:      []string{"First sentence.", "Second sentence", "that continues on."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(got) != len(tt.want) {
				t.Fatalf("chunk count = %d, want %d (%q)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	first := SplitText(text, 500, 50)
	second := SplitText(text, 500, 50)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk[%d] differs between runs", i)
		}
	}
}

func TestSplitTextMaxSize(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 50)

	for _, chunk := range SplitText(text, 500, 50) {
		if len(chunk) > 500 {
			t.Errorf("chunk length %d exceeds size limit 500", len(chunk))
		}
		if chunk == "" {
			t.Error("empty chunk in output")
		}
	}
}

// Concatenated chunks must cover the input contiguously: every chunk has to
// appear in the text at or before the end of its predecessor's window, so no
// region between chunks is lost.
func TestSplitTextCoverage(t *testing.T) {
	text := strings.Repeat("Sentence number one is here. And sentence two follows it.\n", 30)
	chunks := SplitText(text, 400, 60)

	offset := 0
	for i, chunk := range chunks {
		idx := strings.Index(text[offset:], chunk)
		if idx < 0 {
			t.Fatalf("chunk[%d] not found in remaining text", i)
		}
		// The next chunk must begin within this chunk's span (overlap) or
		// directly after it. A gap would mean dropped text.
		gap := idx
		if i > 0 && gap > len(chunks[i-1]) {
			t.Fatalf("gap of %d bytes before chunk[%d]", gap, i)
		}
		offset += idx + 1
	}
}

func TestSplitTextOverlap(t *testing.T) {
	// 1400 chars of plain sentences, size 500, overlap 50: expect 3-4 chunks
	// with consecutive chunks sharing content at the boundary.
	sentence := "This document describes the ingestion pipeline in detail. "
	text := strings.Repeat(sentence, 25)[:1400]

	chunks := SplitText(text, 500, 50)

	if len(chunks) < 3 || len(chunks) > 4 {
		t.Fatalf("chunk count = %d, want 3-4", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 500 {
			t.Errorf("chunk[%d] length %d exceeds 500", i, len(chunk))
		}
	}
	for i := 1; i < len(chunks); i++ {
		// The head of each chunk must appear inside its predecessor.
		head := chunks[i]
		if len(head) > 40 {
			head = head[:40]
		}
		if !strings.Contains(chunks[i-1], head) {
			t.Errorf("chunk[%d] does not overlap with chunk[%d]", i, i-1)
		}
	}
}

func TestSplitTextTerminates(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
	}{
		{"no separators", strings.Repeat("x", 10000), 100, 50},
		{"overlap equals size", strings.Repeat("word ", 2000), 100, 100},
		{"overlap exceeds size", strings.Repeat("word ", 2000), 50, 400},
		{"tiny chunks", strings.Repeat("a b ", 5000), 2, 1},
		{"multibyte runes", strings.Repeat("héllo wörld ", 1000), 64, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			// Generous ceiling: the cursor advances at least one byte per
			// iteration, so output is bounded by input length.
			if len(chunks) > len(tt.text) {
				t.Fatalf("suspicious chunk count %d for input of %d bytes", len(chunks), len(tt.text))
			}
		})
	}
}
