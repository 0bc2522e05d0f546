package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mercalytics/catalog-crawler/internal/api"
	"github.com/mercalytics/catalog-crawler/internal/clock/system"
	"github.com/mercalytics/catalog-crawler/internal/crawl"
	collyfetcher "github.com/mercalytics/catalog-crawler/internal/fetcher/colly"
	"github.com/mercalytics/catalog-crawler/internal/hash/sha256"
	uuidgen "github.com/mercalytics/catalog-crawler/internal/id/uuid"
	"github.com/mercalytics/catalog-crawler/internal/sink"
)

// newCrawlCmd creates the 'crawl' subcommand: the full pipeline from fetch
// through the full-replace store write.
func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Runs the full crawl-and-normalize pipeline",
		Long: `Walks the configured search endpoint up to the page budget, writes the raw
listings to the JSON interchange file, normalizes them, and replaces the
catalog table with this run's records.`,

		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.Config()
	logger := appInstance.Logger()

	runID, err := uuidgen.NewGenerator().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger = logger.With(zap.String("run_id", runID))

	if cfg.Server.Enabled {
		ops := api.New(cfg.Server.Port, logger)
		ops.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := ops.Shutdown(shutdownCtx); serr != nil {
				logger.Warn("Failed to stop ops server", zap.Error(serr))
			}
		}()
	}

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:         cfg.Crawler.UserAgent,
		AllowedDomains:    []string{cfg.Crawler.AllowedDomain},
		Timeout:           cfg.HTTPTimeout(),
		RequestsPerSecond: cfg.Crawler.RequestsPerSecond,
	})
	orchestrator := crawl.NewOrchestrator(crawl.Config{
		StartURL:      cfg.Crawler.StartURL,
		AllowedDomain: cfg.Crawler.AllowedDomain,
		MaxPages:      cfg.Crawler.MaxPages,
	}, fetcher, logger)

	result, err := orchestrator.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	if err := sink.WriteRaw(cfg.Sink.OutputPath, result.Raw); err != nil {
		return fmt.Errorf("write interchange file: %w", err)
	}
	checksum, err := sha256.File(cfg.Sink.OutputPath)
	if err != nil {
		return fmt.Errorf("fingerprint interchange file: %w", err)
	}
	logger.Info("Wrote interchange file",
		zap.String("path", cfg.Sink.OutputPath),
		zap.Int("listings", len(result.Raw)),
		zap.String("sha256", checksum),
	)

	landing := sink.New(appInstance.Store(), system.New(), cfg.Crawler.StartURL, logger)
	crawledAt, err := landing.Flush(cmd.Context(), result.Products)
	if err != nil {
		return fmt.Errorf("land run output: %w", err)
	}

	logger.Info("Crawl run complete",
		zap.Int("pages", result.Pages),
		zap.Int("listings", len(result.Products)),
		zap.Stringer("outcome", result.Outcome),
		zap.Time("crawled_at", crawledAt),
		zap.Duration("duration", result.Duration),
	)
	return nil
}
