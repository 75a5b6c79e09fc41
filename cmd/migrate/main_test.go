package main

import "testing"

func TestEmbeddingColumnSQL(t *testing.T) {
	tests := []struct {
		dimension int
		want      string
	}{
		{384, `ALTER TABLE document_chunks ALTER COLUMN embedding TYPE vector(384);`},
		{768, `ALTER TABLE document_chunks ALTER COLUMN embedding TYPE vector(768);`},
	}
	for _, tt := range tests {
		if got := embeddingColumnSQL(tt.dimension); got != tt.want {
			t.Errorf("embeddingColumnSQL(%d) = %q, want %q", tt.dimension, got, tt.want)
		}
	}
}

func TestEmbeddingDimension(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"unset falls back to default", "", 384},
		{"configured dimension wins", "768", 768},
		{"garbage falls back to default", "abc", 384},
		{"non-positive falls back to default", "-1", 384},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EMBEDDING_DIMENSION", tt.env)
			if got := embeddingDimension(); got != tt.want {
				t.Errorf("embeddingDimension() = %d, want %d", got, tt.want)
			}
		})
	}
}
