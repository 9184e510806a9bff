package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspybot/suspy/internal/ai"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/suspybot/suspy/internal/database/types/enum"
	"github.com/suspybot/suspy/internal/service"
	"go.uber.org/zap"
)

type stubScanner struct {
	mu     sync.Mutex
	calls  int
	result *ai.ScanResult
	err    error
}

func (s *stubScanner) ScanURL(_ context.Context, _ string) (*ai.ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	return s.result, s.err
}

func (s *stubScanner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type stubLinkStore struct {
	mu       sync.Mutex
	fresh    map[string]*types.FlaggedLink
	inserted []*types.FlaggedLink
	touched  int
}

func newStubLinkStore() *stubLinkStore {
	return &stubLinkStore{fresh: make(map[string]*types.FlaggedLink)}
}

func (s *stubLinkStore) GetFresh(_ context.Context, url string) (*types.FlaggedLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fresh[url], nil
}

func (s *stubLinkStore) Insert(_ context.Context, link *types.FlaggedLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link.ID = int64(len(s.inserted) + 1)
	s.inserted = append(s.inserted, link)
	s.fresh[link.URL] = link

	return nil
}

func (s *stubLinkStore) TouchLastDetect(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touched++

	return nil
}

func TestLinkServiceClassifiesOncePerURL(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{result: &ai.ScanResult{
		URL:             "https://evil.example/login",
		ConfidenceScore: 0.85,
		BlockType:       "hostname",
		Category:        enum.LinkCategoryPhishing,
		Reason:          "Fake login form",
	}}
	store := newStubLinkStore()

	svc, err := service.NewLinkService(store, scanner, zap.NewNop())
	require.NoError(t, err)

	var first *types.FlaggedLink

	for i := 0; i < 5; i++ {
		link, err := svc.Verdict(context.Background(), "https://evil.example/login")
		require.NoError(t, err)
		require.NotNil(t, link)

		if first == nil {
			first = link
		}

		assert.Equal(t, first, link)
	}

	assert.Equal(t, 1, scanner.callCount(), "repeated lookups must reuse the stored verdict")
	assert.Len(t, store.inserted, 1)
	assert.Equal(t, 85, first.ConfidenceScore, "wire score converts to an integer percentage")
	assert.True(t, first.BlockHost)
}

func TestLinkServiceReusesFreshDatabaseRow(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{err: errors.New("classifier must not be reached")}
	store := newStubLinkStore()
	store.fresh["https://evil.example/a"] = &types.FlaggedLink{
		ID:              7,
		URL:             "https://evil.example/a",
		ConfidenceScore: 90,
	}

	svc, err := service.NewLinkService(store, scanner, zap.NewNop())
	require.NoError(t, err)

	link, err := svc.Verdict(context.Background(), "https://evil.example/a")
	require.NoError(t, err)
	require.NotNil(t, link)

	assert.Equal(t, int64(7), link.ID)
	assert.Equal(t, 0, scanner.callCount())
}

func TestLinkServiceSkipsUnscannableURLs(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{err: errors.New("classifier must not be reached")}
	store := newStubLinkStore()

	svc, err := service.NewLinkService(store, scanner, zap.NewNop())
	require.NoError(t, err)

	tests := []string{
		"https://localhost/admin",
		"https://192.168.1.1/router",
		"not a url",
	}

	for _, rawURL := range tests {
		link, err := svc.Verdict(context.Background(), rawURL)
		require.NoError(t, err)
		assert.Nil(t, link)
	}

	assert.Equal(t, 0, scanner.callCount())
}

func TestLinkServiceNormalizesBeforeLookup(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{result: &ai.ScanResult{
		URL:             "https://evil.example/a",
		ConfidenceScore: 0.9,
		Reason:          "Scam storefront",
	}}
	store := newStubLinkStore()

	svc, err := service.NewLinkService(store, scanner, zap.NewNop())
	require.NoError(t, err)

	_, err = svc.Verdict(context.Background(), "HTTPS://Evil.Example/a")
	require.NoError(t, err)

	_, err = svc.Verdict(context.Background(), "https://evil.example/a/")
	require.NoError(t, err)

	assert.Equal(t, 1, scanner.callCount(), "URL variants must collapse to one verdict")
}
