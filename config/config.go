package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Unterstützte Quellen für die Referenz-Termliste.
const (
	TermsSourceFile     = "file"
	TermsSourceS3       = "s3"
	TermsSourcePostgres = "postgres"
)

// ErrUnsupportedSource wird für unbekannte TERMS_SOURCE-Werte gemeldet.
var ErrUnsupportedSource = errors.New("unsupported term source")

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Anzahl paralleler Worker pro Batch
	Workers int `envconfig:"WORKERS" default:"4"`

	TermsSource   string `envconfig:"TERMS_SOURCE" default:"file"`
	TermsPath     string `envconfig:"TERMS_PATH" default:"terms.csv"`
	TermsEncoding string `envconfig:"TERMS_ENCODING" default:"latin1"`
	// Cron-Ausdruck für das Neuladen der Termliste, leer = nur beim Start
	TermsRefreshSchedule string `envconfig:"TERMS_REFRESH_SCHEDULE"`

	S3URL      string `envconfig:"S3_URL"`
	S3Region   string `envconfig:"S3_REGION"`
	S3Key      string `envconfig:"S3_KEY"`
	S3Secret   string `envconfig:"S3_SECRET"`
	S3Bucket   string `envconfig:"S3_BUCKET"`
	S3TermsKey string `envconfig:"S3_TERMS_KEY" default:"terms.csv"`

	DBHost      string `envconfig:"DB_HOST"`
	DBPort      int    `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME"`
	DBTermsList string `envconfig:"DB_TERMS_LIST" default:"default"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Validate prüft die quellenspezifischen Pflichtfelder.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", c.Workers)
	}
	switch strings.ToLower(c.TermsEncoding) {
	case "latin1", "utf8":
	default:
		return fmt.Errorf("unsupported TERMS_ENCODING %q", c.TermsEncoding)
	}

	var missing []string
	switch c.TermsSource {
	case TermsSourceFile:
		if c.TermsPath == "" {
			missing = append(missing, "TERMS_PATH")
		}
	case TermsSourceS3:
		for name, v := range map[string]string{
			"S3_URL": c.S3URL, "S3_REGION": c.S3Region, "S3_KEY": c.S3Key,
			"S3_SECRET": c.S3Secret, "S3_BUCKET": c.S3Bucket, "S3_TERMS_KEY": c.S3TermsKey,
		} {
			if v == "" {
				missing = append(missing, name)
			}
		}
	case TermsSourcePostgres:
		for name, v := range map[string]string{
			"DB_HOST": c.DBHost, "DB_USER": c.DBUser, "DB_NAME": c.DBName,
		} {
			if v == "" {
				missing = append(missing, name)
			}
		}
	default:
		return fmt.Errorf("%w: TERMS_SOURCE %q", ErrUnsupportedSource, c.TermsSource)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing configuration for %s term source: %s", c.TermsSource, strings.Join(missing, ", "))
	}
	return nil
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
