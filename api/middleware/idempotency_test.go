package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
	dels []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
		f.dels = append(f.dels, k)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func (f *fakeStore) LockKey(scope, id string) string { return "lock:" + scope + ":" + id }

func (f *fakeStore) has(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

func confirmRouter(store *fakeStore, status int, calls *int) http.Handler {
	r := chi.NewRouter()
	r.Use(Till("till-1", nil))
	r.With(Idempotency(store, time.Hour, nil)).Post("/api/v1/checkout/confirm", func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"data":{"sale_id":1}}`))
	})
	r.Post("/api/v1/checkout/lines", func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func confirmRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", strings.NewReader(body))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	return req
}

func TestIdempotencyReplaysSuccessfulConfirm(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := confirmRouter(store, http.StatusCreated, &calls)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, confirmRequest("abc", `{"method":"Cash"}`))
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, confirmRequest("abc", `{"method":"Cash"}`))
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, "true", second.Header().Get("Idempotent-Replay"))
	require.Equal(t, first.Body.String(), second.Body.String())
	require.Equal(t, "application/json", second.Header().Get("Content-Type"))
	require.Equal(t, 1, calls)
	require.False(t, store.has("lock:"), "lock should be released")
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := confirmRouter(store, http.StatusCreated, &calls)

	h.ServeHTTP(httptest.NewRecorder(), confirmRequest("abc", `{"method":"Cash"}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, confirmRequest("abc", `{"method":"Card"}`))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "IDEMPOTENCY_KEY_REUSED")
	require.Equal(t, 1, calls)
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := confirmRouter(store, http.StatusConflict, &calls)

	h.ServeHTTP(httptest.NewRecorder(), confirmRequest("abc", `{}`))
	h.ServeHTTP(httptest.NewRecorder(), confirmRequest("abc", `{}`))
	require.Equal(t, 2, calls)
	require.False(t, store.has("idem:"))
}

func TestIdempotencyScopesByTill(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := confirmRouter(store, http.StatusCreated, &calls)

	h.ServeHTTP(httptest.NewRecorder(), confirmRequest("abc", `{}`))
	other := confirmRequest("abc", `{}`)
	other.Header.Set(tillIDHeader, "till-2")
	h.ServeHTTP(httptest.NewRecorder(), other)
	require.Equal(t, 2, calls)
}

func TestIdempotencyRejectsInFlightDuplicate(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := confirmRouter(store, http.StatusCreated, &calls)
	store.data[store.LockKey("till-1|POST|/api/v1/checkout/confirm", "abc")] = "held"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, confirmRequest("abc", `{}`))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "in progress")
	require.Equal(t, 0, calls)
}

func TestIdempotencyPassThrough(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := confirmRouter(store, http.StatusCreated, &calls)

	// no header
	h.ServeHTTP(httptest.NewRecorder(), confirmRequest("", `{}`))
	h.ServeHTTP(httptest.NewRecorder(), confirmRequest("", `{}`))
	// unguarded route
	lines := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/lines", strings.NewReader(`{}`))
	lines.Header.Set(idempotencyHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), lines)

	require.Equal(t, 3, calls)
	require.Empty(t, store.data)

	nilStore := Idempotency(nil, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	nilStore.ServeHTTP(rec, confirmRequest("abc", `{}`))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
