package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/khalids/topicwire/internal/config"
	"github.com/khalids/topicwire/internal/database"
	"github.com/khalids/topicwire/internal/extractor"
	"github.com/khalids/topicwire/internal/headlines"
	"github.com/khalids/topicwire/internal/pipeline"
	"github.com/khalids/topicwire/internal/resolver"
	"github.com/khalids/topicwire/internal/server"
)

type options struct {
	TopicID string `long:"topic-id" description:"Google News topic ID (overrides TOPIC_ID)"`
	Title   string `long:"title" description:"Topic title, used for the raw JSON dump filename (overrides TOPIC_TITLE)"`
	Limit   *int   `long:"limit" description:"Max number of entries to process (overrides ENTRY_LIMIT)"`
	Serve   bool   `long:"serve" description:"Run the HTTP server instead of a one-shot ingest"`
	Port    *int   `long:"port" description:"HTTP port for serve mode (overrides PORT)"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	// Credentials may live in a local .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.TopicID != "" {
		cfg.TopicID = opts.TopicID
	}
	if opts.Title != "" {
		cfg.TopicTitle = opts.Title
	}
	if opts.Limit != nil {
		cfg.EntryLimit = *opts.Limit
	}
	if opts.Port != nil {
		cfg.Port = *opts.Port
	}

	ctx := context.Background()

	log.Println("Starting topicwire...")

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	fetcher := headlines.New(cfg.FeedLanguage, cfg.FeedCountry, cfg.FetchTimeout)
	pipe := pipeline.New(
		resolver.New(cfg.ResolverSettle, cfg.ResolverTimeout, cfg.ScraperHeadless),
		extractor.New(cfg.FetchTimeout),
		db,
	)
	ingestor := pipeline.NewIngestor(fetcher, pipe, cfg.TopicID, cfg.TopicTitle, cfg.EntryLimit, cfg.DumpDir)

	if opts.Serve {
		srv := server.New(db, ingestor, cfg)
		log.Println("Initialized server")

		// Handle graceful shutdown
		go func() {
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan
			log.Println("Shutting down gracefully...")
			os.Exit(0)
		}()

		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Printf("Server starting on http://localhost%s", addr)
		return srv.Start(addr)
	}

	count, err := ingestor.IngestTopic(ctx)
	if err != nil {
		return err
	}

	log.Printf("Completed. Total upserted articles: %d", count)
	if count == 0 {
		// Nonzero exit tells the scheduler nothing new was ingested
		return fmt.Errorf("no new articles ingested")
	}

	return nil
}
