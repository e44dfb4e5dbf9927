// Scrapers process - periodically refreshes the course catalog and
// lecturer ratings, mirrors them to Redis and publishes refresh
// notifications for the advisor server.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/config"
	"github.com/B3rK-3/ViewNJIT/pkg/database"
	"github.com/B3rK-3/ViewNJIT/pkg/events"
	"github.com/B3rK-3/ViewNJIT/pkg/llm"
	"github.com/B3rK-3/ViewNJIT/pkg/scraper"
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
	log.Printf("Starting %s scrapers", version.Full())

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

	// The scrapers refuse to run against empty datasets: a cycle over an
	// empty catalog would wipe the mirrors the server depends on.
	store := catalog.NewStore()
	store.Bootstrap(ctx, rdb, cfg.Data.GraphFile)
	if store.Len() == 0 {
		log.Fatalf("Course dataset not loaded (checked redis and %s)", cfg.Data.GraphFile)
	}
	lecturers := catalog.NewLecturerMap()
	lecturers.Bootstrap(ctx, rdb, cfg.Data.LecturersFile)
	if lecturers.Len() == 0 {
		log.Fatalf("Lecturer dataset not loaded (checked redis and %s)", cfg.Data.LecturersFile)
	}

	subjects, err := scraper.LoadSubjects(cfg.Data.SubjectsFile)
	if err != nil {
		log.Fatalf("Failed to load subjects: %v", err)
	}

	llmClient, err := llm.NewGoogleClient(ctx, cfg.GeminiAPIKey, cfg.LLM.ExtractModel)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	publisher := events.NewPublisher(rdb)
	courseScraper := scraper.NewCourseScraper(
		scraper.NewBannerClient(cfg.Scrape.BannerURL, cfg.Scrape.BannerReferer),
		scraper.NewCatalogPageClient(cfg.Scrape.CatalogURL),
		scraper.NewTreeExtractor(llmClient, cfg.Data.ExtractPrompt),
		store, rdb, publisher, subjects, cfg.Data.TermFile,
	)
	lecturerScraper := scraper.NewLecturerScraper(
		cfg.Scrape.RMPProxyURL, store, lecturers, rdb, publisher, cfg.Data.LecturersFile,
	)

	service := scraper.NewService(courseScraper, lecturerScraper,
		cfg.Scrape.CourseInterval.Std(), cfg.Scrape.LecturerInterval.Std())
	service.Start(ctx)
	slog.Info("Both scrapers are running in the background")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("Stopping all scrapers")
	service.Stop()
}
