package csvfile

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"skill-hand/config"
	"skill-hand/providers"
)

// Fetcher implementiert das Provider-Interface für eine lokale CSV-Datei.
type Fetcher struct {
	Path     string
	Encoding string
	Logger   *zap.Logger
}

// NewFetcher erstellt einen Fetcher für TERMS_PATH.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Path: cfg.TermsPath, Encoding: cfg.TermsEncoding, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return config.TermsSourceFile
}

// Load liest die Termliste aus der Datei.
func (f *Fetcher) Load(ctx context.Context) ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open term list: %w", err)
	}
	defer file.Close()

	f.Logger.Debug("Reading term list", zap.String("path", f.Path), zap.String("encoding", f.Encoding))
	return providers.ParseTermList(file, f.Encoding)
}
