package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"skill-hand/providers"
)

// TermCatalog hält den aktiven TermIndex und lädt ihn bei Bedarf neu.
// Ein Neuladen ersetzt den Index atomar; laufende Batches behalten ihren Stand.
type TermCatalog struct {
	provider providers.Provider
	metrics  *Metrics
	logger   *zap.Logger
	current  atomic.Pointer[TermIndex]
}

// NewTermCatalog erstellt einen leeren Katalog für den gegebenen Provider.
func NewTermCatalog(provider providers.Provider, metrics *Metrics, logger *zap.Logger) *TermCatalog {
	return &TermCatalog{provider: provider, metrics: metrics, logger: logger}
}

// Index gibt den aktiven TermIndex zurück, nil solange nichts geladen wurde.
func (c *TermCatalog) Index() *TermIndex {
	return c.current.Load()
}

// Source gibt den Namen des Providers zurück.
func (c *TermCatalog) Source() string {
	return c.provider.Name()
}

// Reload lädt die Termliste vom Provider. Bei einem Fehler bleibt der alte Index aktiv.
func (c *TermCatalog) Reload(ctx context.Context) error {
	start := time.Now()
	terms, err := c.provider.Load(ctx)
	if err != nil {
		c.metrics.TermReloads.WithLabelValues("error").Inc()
		c.logger.Error("Failed to load reference terms",
			zap.String("source", c.provider.Name()),
			zap.Error(err))
		return fmt.Errorf("load terms from %s: %w", c.provider.Name(), err)
	}

	idx := NewTermIndex(terms)
	c.current.Store(idx)
	c.metrics.TermReloads.WithLabelValues("success").Inc()
	c.metrics.TermsLoaded.Set(float64(idx.Len()))
	c.logger.Info("Reference terms loaded",
		zap.String("source", c.provider.Name()),
		zap.Int("terms", idx.Len()),
		zap.Duration("duration", time.Since(start)))
	return nil
}
