package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore/local"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore/s3store"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/config"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/service"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/store"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/upload"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and chat server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize blob store: %w", err)
	}

	uploader := upload.NewUploader(blobs, logger)
	listings := service.NewListingService(store.NewListingStore(database), uploader, logger)
	configs := service.NewConfigService(store.NewSiteConfigStore(database), logger)

	server := web.NewServer(listings, configs, uploader, blobs, logger, web.WithCORSOrigin(cfg.CORSOrigin))
	return server.ListenAndServe(ctx, cfg.ListenAddr)
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.BlobStore, error) {
	switch cfg.BlobBackend {
	case "s3":
		s, err := s3store.New(ctx, s3store.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		if cfg.S3CreateBucket {
			if err := s.EnsureBucket(ctx); err != nil {
				return nil, err
			}
		}
		logger.Info("using S3 blob store", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		return s, nil
	case "local", "":
		logger.Info("using local blob store", "path", cfg.BlobLocalPath, "public_url", cfg.PublicBaseURL)
		s, err := local.NewLocalBlobStore(cfg.BlobLocalPath, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
