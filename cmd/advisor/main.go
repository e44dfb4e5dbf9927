// Advisor server - streams course-planning chat answers over HTTP and
// serves catalog and lecturer-rating lookups.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	chromem "github.com/philippgille/chromem-go"

	"github.com/B3rK-3/ViewNJIT/pkg/api"
	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/config"
	"github.com/B3rK-3/ViewNJIT/pkg/database"
	"github.com/B3rK-3/ViewNJIT/pkg/events"
	"github.com/B3rK-3/ViewNJIT/pkg/llm"
	"github.com/B3rK-3/ViewNJIT/pkg/orchestrator"
	"github.com/B3rK-3/ViewNJIT/pkg/schedule"
	"github.com/B3rK-3/ViewNJIT/pkg/semantic"
	"github.com/B3rK-3/ViewNJIT/pkg/session"
	"github.com/B3rK-3/ViewNJIT/pkg/tools"
	"github.com/B3rK-3/ViewNJIT/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config",
		getEnv("ADVISOR_CONFIG", "config/advisor.yaml"),
		"Path to configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	gin.SetMode(getEnv("GIN_MODE", "release"))
	log.Printf("Starting %s", version.Full())

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	redisCfg, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load redis config: %v", err)
	}
	rdb, err := database.NewClient(ctx, redisCfg)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("Error closing redis client: %v", err)
		}
	}()

	// Catalog and lecturer stores: prefer the Redis mirrors, fall back
	// to the on-disk datasets.
	store := catalog.NewStore()
	source := store.Bootstrap(ctx, rdb, cfg.Data.GraphFile)
	slog.Info("Catalog loaded", "courses", store.Len(), "source", source)

	lecturers := catalog.NewLecturerMap()
	source = lecturers.Bootstrap(ctx, rdb, cfg.Data.LecturersFile)
	slog.Info("Lecturer ratings loaded", "instructors", lecturers.Len(), "source", source)

	// Vector index, reconciled against the catalog by content hash.
	vectorDB, err := chromem.NewPersistentDB(cfg.Data.ChromaDir, false)
	if err != nil {
		log.Fatalf("Failed to open vector database: %v", err)
	}
	index, err := semantic.NewIndex(vectorDB, cfg.Semantic.Collection,
		chromem.NewEmbeddingFuncDefault(),
		store,
		semantic.NewHTTPCrossEncoder(cfg.Semantic.CrossEncoderURL))
	if err != nil {
		log.Fatalf("Failed to open semantic index: %v", err)
	}
	upserted, err := index.Reconcile(ctx)
	if err != nil {
		log.Fatalf("Failed to reconcile semantic index: %v", err)
	}
	slog.Info("Semantic index reconciled", "upserted", upserted)

	llmClient, err := llm.NewGoogleClient(ctx, cfg.GeminiAPIKey, cfg.LLM.ChatModel)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	deps := tools.Deps{
		Catalog:   store,
		Lecturers: lecturers,
		Index:     index,
		Builder:   schedule.NewBuilder(store, lecturers),
	}
	sessions := session.NewStore(rdb)
	orch := orchestrator.New(llmClient, sessions, deps, cfg.Data.ChatPrompt)

	// Refresh notifications from the scraper process.
	listener := events.NewListener(rdb)
	listener.Handle(events.ChannelCourseUpdates, func(ctx context.Context) {
		if err := store.ReloadFromRedis(ctx, rdb); err != nil {
			slog.Error("Catalog reload failed", "error", err)
			return
		}
		slog.Info("Catalog reloaded after scrape", "courses", store.Len())
		if n, err := index.Reconcile(ctx); err != nil {
			slog.Error("Semantic reconcile after scrape failed", "error", err)
		} else if n > 0 {
			slog.Info("Semantic index updated after scrape", "upserted", n)
		}
	})
	listener.Handle(events.ChannelLecturerUpdates, func(ctx context.Context) {
		if err := lecturers.ReloadFromRedis(ctx, rdb); err != nil {
			slog.Error("Lecturer reload failed", "error", err)
			return
		}
		slog.Info("Lecturer ratings reloaded after scrape", "instructors", lecturers.Len())
	})
	listener.Start(ctx)
	defer listener.Stop()

	server := api.NewServer(orch, store, lecturers, rdb)

	go func() {
		log.Printf("HTTP server listening on %s", cfg.Server.Addr)
		if err := server.Start(cfg.Server.Addr); err != nil {
			slog.Error("HTTP server stopped", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
