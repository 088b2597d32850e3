package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"skill-hand/config"
)

func TestFetcher_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.csv")
	require.NoError(t, os.WriteFile(path, []byte("FLAMENGO\nGr\xeamio\n"), 0o644))

	fetcher := NewFetcher(&config.Config{TermsPath: path, TermsEncoding: "latin1"}, zaptest.NewLogger(t))
	terms, err := fetcher.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"FLAMENGO", "Grêmio"}, terms)
	assert.Equal(t, "file", fetcher.Name())
}

func TestFetcher_LoadMissingFile(t *testing.T) {
	fetcher := NewFetcher(&config.Config{TermsPath: filepath.Join(t.TempDir(), "missing.csv")}, zaptest.NewLogger(t))

	_, err := fetcher.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
