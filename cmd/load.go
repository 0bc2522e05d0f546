package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mercalytics/catalog-crawler/internal/clock/system"
	"github.com/mercalytics/catalog-crawler/internal/hash/sha256"
	"github.com/mercalytics/catalog-crawler/internal/normalize"
	"github.com/mercalytics/catalog-crawler/internal/sink"
)

// newLoadCmd creates the 'load' subcommand, which re-runs the normalize and
// store stages from a previously written interchange file without touching
// the network.
func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Loads a JSON interchange file into the store",
		Long: `Reads raw listings from a previously written interchange file (JSON array
or line-delimited), normalizes them, and replaces the catalog table. With no
argument the configured sink output path is used.`,

		Args: cobra.MaximumNArgs(1),
		RunE: runLoadCommand,
	}
	return cmd
}

func runLoadCommand(cmd *cobra.Command, args []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.Config()
	logger := appInstance.Logger()

	path := cfg.Sink.OutputPath
	if len(args) == 1 {
		path = args[0]
	}

	raws, err := sink.ReadRaw(path)
	if err != nil {
		return fmt.Errorf("read interchange file: %w", err)
	}
	checksum, err := sha256.File(path)
	if err != nil {
		return fmt.Errorf("fingerprint interchange file: %w", err)
	}
	logger.Info("Read interchange file",
		zap.String("path", path),
		zap.Int("listings", len(raws)),
		zap.String("sha256", checksum),
	)

	products := normalize.Records(raws)

	landing := sink.New(appInstance.Store(), system.New(), cfg.Crawler.StartURL, logger)
	crawledAt, err := landing.Flush(cmd.Context(), products)
	if err != nil {
		return fmt.Errorf("land run output: %w", err)
	}

	logger.Info("Load complete",
		zap.Int("rows", len(products)),
		zap.Time("crawled_at", crawledAt),
	)
	return nil
}
