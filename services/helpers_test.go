package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"food-reels-server/cache"
	"food-reels-server/database"
	"food-reels-server/storage"
	"food-reels-server/worker"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeObjectStore struct {
	mu    sync.Mutex
	names []string
	err   error
	block bool
}

func (f *fakeObjectStore) Upload(ctx context.Context, _ []byte, fileName, _ string) (*storage.Result, error) {
	f.mu.Lock()
	f.names = append(f.names, fileName)
	err, block := f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return &storage.Result{Name: fileName, URL: "https://cdn.test/" + fileName}, nil
}

func (f *fakeObjectStore) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

type testEnv struct {
	store      *database.MemoryStore
	objects    *fakeObjectStore
	runner     *worker.Runner
	tokens     *TokenService
	principals *PrincipalService
	auth       *AuthService
	feeds      *FeedService
	partners   *PartnerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	store := database.NewMemoryStore()
	objects := &fakeObjectStore{}
	runner := worker.NewRunner(1, 16, time.Second, log)
	t.Cleanup(func() { _ = runner.Shutdown(context.Background()) })

	tokens := NewTokenService("test-secret", time.Hour)
	principals := NewPrincipalService(store, store, cache.Noop{}, time.Hour, log)
	uploads := NewUploadService(objects, 200*time.Millisecond, log)
	auth, err := NewAuthService(store, store, tokens, bcrypt.MinCost, log)
	require.NoError(t, err)
	return &testEnv{
		store:      store,
		objects:    objects,
		runner:     runner,
		tokens:     tokens,
		principals: principals,
		auth:       auth,
		feeds:      NewFeedService(store, store, store, principals, uploads, runner, log),
		partners:   NewPartnerService(store, store, store, principals, uploads, log),
	}
}
