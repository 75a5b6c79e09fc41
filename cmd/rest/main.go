package main

import (
	"context"
	"log"

	"intelidoc-rag-be/internal/bootstrap"
	"intelidoc-rag-be/internal/config"
	"intelidoc-rag-be/internal/server"
	"intelidoc-rag-be/internal/tracer"
	"intelidoc-rag-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Reconcile documents left in processing by a previous run, then start
	// the ingestion worker.
	if err := container.IngestService.ReconcileStale(context.Background()); err != nil {
		log.Printf("Warning: stale document reconciliation failed: %v", err)
	}

	go func() {
		log.Println("Background: Starting Ingestion Worker...")
		if err := container.IngestService.Consume(context.Background()); err != nil {
			log.Printf("Background Ingestion Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
