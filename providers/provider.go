package providers

import "context"

// Provider ist das Interface, das jede Quelle der Referenz-Termliste (Datei, S3, PostgreSQL) implementieren muss.
type Provider interface {
	// Load liest die vollständige Termliste in ihrer Originalreihenfolge.
	Load(ctx context.Context) ([]string, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "file").
	Name() string
}
