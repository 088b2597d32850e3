package bucket

import (
	"bytes"
	"context"

	"go.uber.org/zap"

	"skill-hand/config"
	"skill-hand/providers"
	"skill-hand/storage"
)

// Fetcher implementiert das Provider-Interface für eine Termliste in einem S3-Bucket.
type Fetcher struct {
	Config *config.Config
	Client storage.ObjectAPI
	Logger *zap.Logger
}

// NewFetcher erstellt einen Fetcher für S3_BUCKET/S3_TERMS_KEY.
func NewFetcher(cfg *config.Config, client storage.ObjectAPI, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Client: client, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return config.TermsSourceS3
}

// Load lädt die Termliste aus dem Bucket.
func (f *Fetcher) Load(ctx context.Context) ([]string, error) {
	data, err := storage.DownloadFile(ctx, f.Client, f.Config.S3Bucket, f.Config.S3TermsKey)
	if err != nil {
		return nil, err
	}
	f.Logger.Debug("Downloaded term list",
		zap.String("bucket", f.Config.S3Bucket),
		zap.String("key", f.Config.S3TermsKey),
		zap.Int("bytes", len(data)))
	return providers.ParseTermList(bytes.NewReader(data), f.Config.TermsEncoding)
}

// Publish ersetzt die Termliste im Bucket und gibt den Link zurück.
func (f *Fetcher) Publish(ctx context.Context, terms []string) (string, error) {
	var buf bytes.Buffer
	if err := providers.EncodeTermList(&buf, terms, f.Config.TermsEncoding); err != nil {
		return "", err
	}
	return storage.UploadFile(ctx, f.Client, f.Config.S3Bucket, f.Config.S3TermsKey, buf.Bytes(), f.Config)
}
