package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeProvider struct {
	mu    sync.Mutex
	terms []string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Load(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.terms...), nil
}

func TestTermCatalog_Reload(t *testing.T) {
	provider := &fakeProvider{terms: []string{"ASIA", "AFRICA"}}
	metrics := NewMetrics(prometheus.NewRegistry())
	catalog := NewTermCatalog(provider, metrics, zaptest.NewLogger(t))

	assert.Nil(t, catalog.Index())
	assert.Equal(t, 0, catalog.Index().Len())
	assert.Equal(t, "fake", catalog.Source())

	require.NoError(t, catalog.Reload(context.Background()))
	assert.Equal(t, []string{"ASIA", "AFRICA"}, catalog.Index().Terms())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.TermsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TermReloads.WithLabelValues("success")))
}

func TestTermCatalog_FailedReloadKeepsIndex(t *testing.T) {
	provider := &fakeProvider{terms: []string{"ASIA"}}
	metrics := NewMetrics(prometheus.NewRegistry())
	catalog := NewTermCatalog(provider, metrics, zaptest.NewLogger(t))
	require.NoError(t, catalog.Reload(context.Background()))
	before := catalog.Index()

	provider.err = errors.New("bucket unreachable")
	err := catalog.Reload(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, provider.err)
	assert.Contains(t, err.Error(), "load terms from fake")
	assert.Same(t, before, catalog.Index())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TermsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TermReloads.WithLabelValues("error")))
}

func TestTermCatalog_SnapshotSurvivesReload(t *testing.T) {
	provider := &fakeProvider{terms: []string{"ASIA"}}
	catalog := NewTermCatalog(provider, NewMetrics(prometheus.NewRegistry()), zaptest.NewLogger(t))
	require.NoError(t, catalog.Reload(context.Background()))

	snapshot := catalog.Index()
	provider.terms = []string{"EUROPE"}
	require.NoError(t, catalog.Reload(context.Background()))

	assert.Equal(t, []string{"ASIA"}, snapshot.Extract("ASIA and EUROPE"))
	assert.Equal(t, []string{"EUROPE"}, catalog.Index().Extract("ASIA and EUROPE"))
}

func TestTermCatalog_ConcurrentReads(t *testing.T) {
	provider := &fakeProvider{terms: []string{"ASIA"}}
	catalog := NewTermCatalog(provider, NewMetrics(prometheus.NewRegistry()), zaptest.NewLogger(t))
	require.NoError(t, catalog.Reload(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := catalog.Index().Extract("ASIA")
				assert.Len(t, got, 1)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, catalog.Reload(context.Background()))
	}
	wg.Wait()
}
