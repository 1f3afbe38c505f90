package assistant_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readleaf/assistant"
)

func TestSessionCreatedLazilyAndReused(t *testing.T) {
	client := &fakeClient{}
	store := assistant.NewSessionStore(client, time.Minute)

	first, err := store.Session(context.Background(), "actor-a")
	require.NoError(t, err)
	second, err := store.Session(context.Background(), "actor-a")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.sessions)
}

func TestSessionsAreIndependentPerActor(t *testing.T) {
	client := &fakeClient{}
	store := assistant.NewSessionStore(client, time.Minute)

	a, err := store.Session(context.Background(), "actor-a")
	require.NoError(t, err)
	b, err := store.Session(context.Background(), "actor-b")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, client.sessions)
}

func TestForgetDropsSession(t *testing.T) {
	client := &fakeClient{}
	store := assistant.NewSessionStore(client, time.Minute)

	first, err := store.Session(context.Background(), "actor-a")
	require.NoError(t, err)
	store.Forget("actor-a")
	second, err := store.Session(context.Background(), "actor-a")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	client := &fakeClient{}
	store := assistant.NewSessionStore(client, 10*time.Millisecond)

	_, err := store.Session(context.Background(), "actor-a")
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, err = store.Session(context.Background(), "actor-a")
	require.NoError(t, err)
	assert.Equal(t, 2, client.sessions, "expired session must be recreated")
}

func TestSessionStoreConcurrentActors(t *testing.T) {
	client := &safeFakeClient{}
	store := assistant.NewSessionStore(client, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		actor := string(rune('a' + i%4))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Session(context.Background(), actor)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

// safeFakeClient is a concurrency-safe session creator.
type safeFakeClient struct {
	fakeClient
	mu sync.Mutex
}

func (f *safeFakeClient) CreateSession(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fakeClient.CreateSession(ctx)
}
