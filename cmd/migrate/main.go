package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"intelidoc-rag-be/internal/model"
	"intelidoc-rag-be/pkg/database"

	"github.com/joho/godotenv"
)

const defaultEmbeddingDimension = 384

// embeddingDimension reads EMBEDDING_DIMENSION so the column matches what the
// application will write.
func embeddingDimension() int {
	raw := os.Getenv("EMBEDDING_DIMENSION")
	if raw == "" {
		return defaultEmbeddingDimension
	}
	dim, err := strconv.Atoi(raw)
	if err != nil || dim <= 0 {
		log.Printf("Warn: invalid EMBEDDING_DIMENSION %q, using %d", raw, defaultEmbeddingDimension)
		return defaultEmbeddingDimension
	}
	return dim
}

func embeddingColumnSQL(dimension int) string {
	return fmt.Sprintf(`ALTER TABLE document_chunks ALTER COLUMN embedding TYPE vector(%d);`, dimension)
}

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (GORM AutoMigrate cannot create these)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Document{},
		&model.DocumentChunk{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Size the embedding column. AutoMigrate creates it from the struct tag
	// default; a non-default EMBEDDING_DIMENSION must be applied here or every
	// insert bounces off the column width.
	dim := embeddingDimension()
	log.Printf("Step 3: Sizing embedding column to vector(%d)...", dim)

	if err := db.Exec(embeddingColumnSQL(dim)).Error; err != nil {
		log.Fatalf("Error: Failed to size embedding column: %v", err)
	}

	// 6. Post-Migration: Vector Index
	// ivfflat needs rows to build useful lists; creating it up front is still
	// fine, pgvector falls back to exact scan below the training threshold.
	log.Println("Step 4: Creating Vector Index...")

	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_chunks_embedding ON document_chunks
		 USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
