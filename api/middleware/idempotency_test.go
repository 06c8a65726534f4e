package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	records map[string]string
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.records[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if f.records == nil {
		f.records = map[string]string{}
	}
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	f.records[key] = value.(string)
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string { return "umkm:idem:" + scope + ":" + id }

func (f *fakeStore) Del(context.Context, ...string) error { return nil }

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := &fakeStore{}
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order":1}`))
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"quantity":1}`))
		req.Header.Set("Idempotency-Key", "abc-123")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("first call: expected 201 got %d", first.Code)
	}

	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: expected 201 got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d", calls)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := &fakeStore{}
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"quantity":1}`))
	first.Header.Set("Idempotency-Key", "abc-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, first)
	if resp.Code != http.StatusCreated {
		t.Fatalf("first call: expected 201 got %d", resp.Code)
	}

	reused := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"quantity":9}`))
	reused.Header.Set("Idempotency-Key", "abc-123")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, reused)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key got %d", resp.Code)
	}
}

func TestIdempotencySkipsUnmatchedRoutesAndMissingHeader(t *testing.T) {
	store := &fakeStore{}
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	noHeader := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, noHeader)

	otherRoute := httptest.NewRequest(http.MethodGet, "/api/foods", nil)
	otherRoute.Header.Set("Idempotency-Key", "abc-123")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, otherRoute)

	if calls != 2 {
		t.Fatalf("expected passthrough on both requests, handler ran %d", calls)
	}
	if len(store.records) != 0 {
		t.Fatalf("expected no records stored, got %d", len(store.records))
	}
}
