package lms

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(&Environment{ID: "e", Host: "http://lms.local", Domain: "d"})
	require.NoError(t, err)
	return client
}

func TestClientCache_GetSet(t *testing.T) {
	cache := NewClientCache()
	assert.Nil(t, cache.Get("e", "d", "u"))

	client := testClient(t)
	cache.Set("e", "d", "u", client)
	assert.Same(t, client, cache.Get("e", "d", "u"))
	assert.Nil(t, cache.Get("e", "d", "other"))
	assert.Equal(t, 1, cache.Len())

	cache.Clear("e", "d", "u")
	assert.Nil(t, cache.Get("e", "d", "u"))

	cache.Set("e", "d", "a", client)
	cache.Set("e", "d", "b", client)
	cache.ClearAll()
	assert.Equal(t, 0, cache.Len())
}

// TestProperty_CacheTTL 有效期内命中，超过有效期后读取即淘汰
//
// **Property 5: 客户端缓存过期**
func TestProperty_CacheTTL(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := newFakeClock()
		cache := NewClientCache(WithCacheClock(clock.Now))
		client, err := NewClient(&Environment{ID: "e", Host: "http://lms.local", Domain: "d"})
		if err != nil {
			t.Fatal(err)
		}
		cache.Set("e", "d", "u", client)

		elapsed := time.Duration(rapid.Int64Range(0, int64(2*DefaultCacheTTL)).Draw(t, "elapsed"))
		clock.Advance(elapsed)

		got := cache.Get("e", "d", "u")
		if elapsed > DefaultCacheTTL {
			if got != nil || cache.Len() != 0 {
				t.Fatalf("expected eviction after %v", elapsed)
			}
			return
		}
		if got != client {
			t.Fatalf("expected hit after %v", elapsed)
		}
	})
}

func TestClientCache_GetOrCreate(t *testing.T) {
	stub := newStubLMS(t)
	cache := NewClientCache(WithClientOptions(WithTimeout(5 * time.Second)))
	env := stub.env()

	client, err := cache.GetOrCreate(context.Background(), env, "", "", "")
	require.NoError(t, err)
	assert.True(t, client.IsLoggedIn())
	assert.Equal(t, "demo", client.Domain())
	assert.Equal(t, "alice", client.UserCode())
	assert.Same(t, client, cache.Get(env.ID, "demo", "alice"))

	again, err := cache.GetOrCreate(context.Background(), env, "demo", "alice", "")
	require.NoError(t, err)
	assert.Same(t, client, again)
	assert.Equal(t, int32(1), stub.logins.Load())
}

func TestClientCache_GetOrCreateConcurrent(t *testing.T) {
	stub := newStubLMS(t)
	cache := NewClientCache()
	env := stub.env()

	var wg sync.WaitGroup
	clients := make([]*Client, 10)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := cache.GetOrCreate(context.Background(), env, "demo", "alice", "")
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), stub.logins.Load())
	for _, c := range clients {
		assert.Same(t, clients[0], c)
	}
}

func TestClientCache_LoginFailureNotCached(t *testing.T) {
	stub := newStubLMS(t)
	stub.handle(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": false, "msg": "locked"})
	})
	cache := NewClientCache()

	_, err := cache.GetOrCreate(context.Background(), stub.env(), "", "", "")
	require.Error(t, err)
	assert.Equal(t, "locked", err.Error())
	assert.Equal(t, 0, cache.Len())
}

func TestClientCache_NewClientUsesCredentials(t *testing.T) {
	stub := newStubLMS(t)
	cache := NewClientCache()

	client, err := cache.NewClient(stub.env(), "school", "bob", "bob-pw")
	require.NoError(t, err)
	assert.False(t, client.IsLoggedIn())
	assert.Equal(t, 0, cache.Len())

	require.NoError(t, client.Login(context.Background(), "", ""))
	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "bob", reqs[0].Form.Get("lname"))
	assert.Equal(t, "bob-pw", reqs[0].Form.Get("pass"))
	assert.Equal(t, "school", reqs[0].Form.Get(ParamDomain))
}

// TestClientCache_LoginSurvivesCallerCancel 首个调用方取消后，合并中的登录仍然完成
func TestClientCache_LoginSurvivesCallerCancel(t *testing.T) {
	stub := newStubLMS(t)
	release := make(chan struct{})
	stub.handle(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, map[string]any{"success": true, "result": map[string]any{"token": "tok", "iid": 7}})
	})
	cache := NewClientCache(WithClientOptions(WithTimeout(5 * time.Second)))
	env := stub.env()

	ctx, cancel := context.WithCancel(context.Background())
	type outcome struct {
		client *Client
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		c, err := cache.GetOrCreate(ctx, env, "demo", "alice", "")
		first <- outcome{c, err}
	}()
	require.Eventually(t, func() bool { return stub.logins.Load() == 1 }, 5*time.Second, 5*time.Millisecond)

	second := make(chan outcome, 1)
	go func() {
		c, err := cache.GetOrCreate(context.Background(), env, "demo", "alice", "")
		second <- outcome{c, err}
	}()

	cancel()
	close(release)

	a, b := <-first, <-second
	require.NoError(t, a.err)
	require.NoError(t, b.err)
	assert.Same(t, a.client, b.client)
	assert.True(t, a.client.IsLoggedIn())
	assert.Equal(t, int32(1), stub.logins.Load())
}
