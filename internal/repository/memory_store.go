package repository

import (
	"context"
	"sync"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

// MemoryConnectionStore keeps connections in process memory. It backs local
// development without Postgres and the service tests; everything is lost on
// restart.
type MemoryConnectionStore struct {
	mu        sync.RWMutex
	connected map[string]bool // key: shopID|platform
	google    map[string]GoogleAuth
	meta      map[string]MetaAuth
}

func NewMemoryConnectionStore() *MemoryConnectionStore {
	return &MemoryConnectionStore{
		connected: make(map[string]bool),
		google:    make(map[string]GoogleAuth),
		meta:      make(map[string]MetaAuth),
	}
}

func connKey(shopID string, platform ads.Platform) string {
	return shopID + "|" + string(platform)
}

func (s *MemoryConnectionStore) IsConnected(_ context.Context, shopID string, platform ads.Platform) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected[connKey(shopID, platform)], nil
}

func (s *MemoryConnectionStore) SetConnected(_ context.Context, shopID string, platform ads.Platform, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected[connKey(shopID, platform)] = connected
	return nil
}

func (s *MemoryConnectionStore) Connections(_ context.Context, shopID string) (map[ads.Platform]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[ads.Platform]bool{
		ads.PlatformGoogle: s.connected[connKey(shopID, ads.PlatformGoogle)],
		ads.PlatformMeta:   s.connected[connKey(shopID, ads.PlatformMeta)],
	}, nil
}

func (s *MemoryConnectionStore) SaveGoogleAuth(_ context.Context, shopID string, auth GoogleAuth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.google[shopID] = auth
	return nil
}

func (s *MemoryConnectionStore) GoogleAuth(_ context.Context, shopID string) (*GoogleAuth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auth, ok := s.google[shopID]
	if !ok {
		return nil, ads.ErrNotConnected
	}
	if auth.RefreshToken == "" {
		return nil, ads.ErrCredentialMissing
	}
	out := auth
	return &out, nil
}

func (s *MemoryConnectionStore) SaveMetaAuth(_ context.Context, shopID string, auth MetaAuth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[shopID] = auth
	return nil
}

func (s *MemoryConnectionStore) MetaAuth(_ context.Context, shopID string) (*MetaAuth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auth, ok := s.meta[shopID]
	if !ok {
		return nil, ads.ErrNotConnected
	}
	if auth.AccessToken == "" {
		return nil, ads.ErrCredentialMissing
	}
	out := auth
	return &out, nil
}
