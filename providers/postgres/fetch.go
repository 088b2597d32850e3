package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skill-hand/config"
	"skill-hand/models"
)

// Fetcher implementiert das Provider-Interface für die Tabelle reference_terms.
type Fetcher struct {
	DB     *gorm.DB
	List   string
	Logger *zap.Logger
}

// NewFetcher erstellt einen Fetcher für die Liste DB_TERMS_LIST.
func NewFetcher(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *Fetcher {
	return &Fetcher{DB: db, List: cfg.DBTermsList, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return config.TermsSourcePostgres
}

// Load liest alle Terme der Liste, sortiert nach Position.
func (f *Fetcher) Load(ctx context.Context) ([]string, error) {
	var rows []models.ReferenceTerm
	if err := f.DB.WithContext(ctx).
		Where("list = ?", f.List).
		Order("position ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query reference terms: %w", err)
	}

	terms := make([]string, len(rows))
	for i, row := range rows {
		terms[i] = row.Term
	}
	return terms, nil
}

// Replace ersetzt die Liste vollständig in einer Transaktion.
func (f *Fetcher) Replace(ctx context.Context, terms []string) error {
	rows := make([]models.ReferenceTerm, len(terms))
	for i, term := range terms {
		rows[i] = models.ReferenceTerm{List: f.List, Position: i, Term: term}
	}

	return f.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list = ?", f.List).Delete(&models.ReferenceTerm{}).Error; err != nil {
			return fmt.Errorf("delete reference terms: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("insert reference terms: %w", err)
		}
		f.Logger.Info("Reference terms replaced", zap.String("list", f.List), zap.Int("terms", len(rows)))
		return nil
	})
}
