package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skill-hand/config"
	"skill-hand/providers"
	"skill-hand/providers/bucket"
	pgterms "skill-hand/providers/postgres"
	"skill-hand/storage"
)

type publishOptions struct {
	file     string
	encoding string
	keep     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish-terms",
		Short: "Publish a local reference term list to the configured term source",
		Long: `Reads a one-column CSV term list and replaces the list in the configured
TERMS_SOURCE (s3 or postgres). For s3 an archive copy is kept under archive/.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "term list to publish (default TERMS_PATH)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "encoding of the local file (default TERMS_ENCODING)")
	cmd.Flags().IntVar(&opts.keep, "keep", 4, "number of archived term lists to keep in the bucket")
	return cmd
}

func runPublish(ctx context.Context, opts publishOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logging, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}
	if opts.file == "" {
		opts.file = cfg.TermsPath
	}
	if opts.encoding == "" {
		opts.encoding = cfg.TermsEncoding
	}

	file, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("open term list: %w", err)
	}
	defer file.Close()
	terms, err := providers.ParseTermList(file, opts.encoding)
	if err != nil {
		return err
	}
	logging.Info("Term list read", zap.String("file", opts.file), zap.Int("terms", len(terms)))

	switch cfg.TermsSource {
	case config.TermsSourceS3:
		return publishToBucket(ctx, cfg, terms, opts.keep, logging)
	case config.TermsSourcePostgres:
		db, err := storage.OpenPostgres(cfg)
		if err != nil {
			return err
		}
		return pgterms.NewFetcher(cfg, db, logging).Replace(ctx, terms)
	default:
		return fmt.Errorf("TERMS_SOURCE %q reads the local file directly, nothing to publish", cfg.TermsSource)
	}
}

func publishToBucket(ctx context.Context, cfg *config.Config, terms []string, keep int, logging *zap.Logger) error {
	client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create s3 client: %w", err)
	}
	fetcher := bucket.NewFetcher(cfg, client, logging)

	link, err := fetcher.Publish(ctx, terms)
	if err != nil {
		return fmt.Errorf("upload term list: %w", err)
	}
	logging.Info("Term list published", zap.String("link", link))

	// Archivkopie, damit eine fehlerhafte Liste zurückgerollt werden kann
	archived := *cfg
	archived.S3TermsKey = path.Join("archive", fmt.Sprintf("terms-%s.csv", time.Now().UTC().Format("2006-01-02T15-04-05Z")))
	if _, err := bucket.NewFetcher(&archived, client, logging).Publish(ctx, terms); err != nil {
		return fmt.Errorf("upload archive copy: %w", err)
	}

	return rotateArchives(ctx, client, cfg.S3Bucket, keep, logging)
}

// archiveAPI ist der Teil des S3-Clients, den die Rotation der Archive braucht.
type archiveAPI interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// rotateArchives behält die keep neuesten Objekte unter archive/ und löscht den Rest.
func rotateArchives(ctx context.Context, client archiveAPI, bucketName string, keep int, logging *zap.Logger) error {
	output, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
		Prefix: aws.String("archive/"),
	})
	if err != nil {
		return err
	}

	if len(output.Contents) <= keep {
		logging.Info("No archive rotation needed", zap.Int("archives", len(output.Contents)), zap.Int("keep", keep))
		return nil
	}

	sort.Slice(output.Contents, func(i, j int) bool {
		return output.Contents[i].LastModified.After(*output.Contents[j].LastModified)
	})

	for _, obj := range output.Contents[keep:] {
		logging.Info("Deleting old term list archive", zap.String("key", *obj.Key))
		_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucketName),
			Key:    obj.Key,
		})
		if err != nil {
			logging.Warn("Failed to delete archive", zap.String("key", *obj.Key), zap.Error(err))
		}
	}

	return nil
}
