package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PlayraLive/h-ai-sub006/internal/chat/repository"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
	"github.com/PlayraLive/h-ai-sub006/internal/lock"
)

func testConfig() *config.Config {
	return &config.Config{
		Chat: config.ChatConfig{
			DefaultSpecialistID: "ai-default",
			SpecialistCacheSize: 16,
			PageSize:            50,
			MaxPageSize:         200,
		},
		Redis: config.RedisConfig{LockTTL: time.Second},
	}
}

// stepClock hands out strictly increasing timestamps.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequentialIDs) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%03d", s.n)
}

type testEnv struct {
	store    *repository.MemoryStore
	resolver *Resolver
	delivery *Delivery
	tracker  *ReadTracker
}

// newTestEnv wires the services on the in-memory store with no directories.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	clock := newStepClock()
	ids := &sequentialIDs{}

	resolver, err := NewResolver(testConfig(), store.Conversations(), nil, nil, nil, lock.NoopLocker{})
	require.NoError(t, err)
	resolver.now, resolver.newID = clock.Now, ids.Next

	delivery := NewDelivery(testConfig(), store.Conversations(), store.Messages(), nil)
	delivery.now, delivery.newID = clock.Now, ids.Next

	return &testEnv{
		store:    store,
		resolver: resolver,
		delivery: delivery,
		tracker:  NewReadTracker(store.Conversations()),
	}
}

func (e *testEnv) resolve(t *testing.T, a, b string, cc common.ContextDescriptor) string {
	t.Helper()
	id, _, err := e.resolver.Resolve(context.Background(), a, b, cc)
	require.NoError(t, err)
	return id
}

func (e *testEnv) counts(t *testing.T, conversationID string) map[string]int {
	t.Helper()
	conv, err := e.store.Conversations().ByID(context.Background(), conversationID)
	require.NoError(t, err)
	return conv.UnreadCounts()
}

func text(s string) common.Body {
	return common.Body{Text: s}
}
