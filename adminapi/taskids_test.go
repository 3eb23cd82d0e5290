package adminapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func taskListServer(t *testing.T, calls *int32, tasks []RemoteTask) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/public/tasks", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"tasks": tasks},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestResolver_TitleMatchCaseInsensitive(t *testing.T) {
	var calls int32
	server := taskListServer(t, &calls, []RemoteTask{
		{ID: "remote-1", Name: "daily check-in"},
		{ID: "remote-2", Title: "7-DAY ALCOHOL FREE"},
		{ID: "remote-3", Name: "Unrelated Admin Task"},
	})
	r := NewTitleMatchResolver(NewClient(server.URL, "s"))

	id, err := r.Resolve(context.Background(), "accountability-daily-checkin")
	if err != nil || id != "remote-1" {
		t.Fatalf("name match failed: %s %v", id, err)
	}
	id, err = r.Resolve(context.Background(), "alcohol-7-day-streak")
	if err != nil || id != "remote-2" {
		t.Fatalf("title fallback match failed: %s %v", id, err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one fetch within the TTL, got %d", got)
	}
}

func TestResolver_UnmatchedCatalogTask(t *testing.T) {
	var calls int32
	server := taskListServer(t, &calls, []RemoteTask{
		{ID: "remote-1", Name: "Daily Check-In"},
	})
	r := NewTitleMatchResolver(NewClient(server.URL, "s"))

	if _, err := r.Resolve(context.Background(), "fitness-workout"); err != ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestResolver_MissRefetchesEvenBeforeExpiry(t *testing.T) {
	var calls int32
	server := taskListServer(t, &calls, []RemoteTask{
		{ID: "remote-1", Name: "Daily Check-In"},
	})
	r := NewTitleMatchResolver(NewClient(server.URL, "s"))

	if _, err := r.Resolve(context.Background(), "accountability-daily-checkin"); err != nil {
		t.Fatalf("warmup resolve: %v", err)
	}
	// Missing ids force a rebuild: a task added on the admin side becomes
	// resolvable without waiting for the TTL.
	r.Resolve(context.Background(), "fitness-workout")
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected a refetch on miss, got %d fetches", got)
	}
}

func TestResolver_ExpiredMappingIsRebuilt(t *testing.T) {
	var calls int32
	server := taskListServer(t, &calls, []RemoteTask{
		{ID: "remote-1", Name: "Daily Check-In"},
	})
	r := NewTitleMatchResolver(NewClient(server.URL, "s"))
	r.ttl = time.Millisecond

	r.Resolve(context.Background(), "accountability-daily-checkin")
	time.Sleep(5 * time.Millisecond)
	r.Resolve(context.Background(), "accountability-daily-checkin")
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected a rebuild after expiry, got %d fetches", got)
	}
}

func TestResolver_StaleMappingServedWhenRefetchFails(t *testing.T) {
	var calls int32
	server := taskListServer(t, &calls, []RemoteTask{
		{ID: "remote-1", Name: "Daily Check-In"},
	})
	r := NewTitleMatchResolver(NewClient(server.URL, "s"))
	r.ttl = time.Millisecond

	if _, err := r.Resolve(context.Background(), "accountability-daily-checkin"); err != nil {
		t.Fatalf("warmup resolve: %v", err)
	}

	server.Close()
	time.Sleep(5 * time.Millisecond)

	id, err := r.Resolve(context.Background(), "accountability-daily-checkin")
	if err != nil || id != "remote-1" {
		t.Fatalf("expected stale mapping served, got %s %v", id, err)
	}

	// A task that was never mapped stays unresolvable while the admin is down.
	if _, err := r.Resolve(context.Background(), "fitness-workout"); err != ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound for unmapped id, got %v", err)
	}
}
