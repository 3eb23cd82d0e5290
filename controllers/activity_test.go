package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"soberquest/adminapi"
	"soberquest/models"
	"soberquest/store"
)

func seedActivity(s *store.Store, n int) {
	for i := 0; i < n; i++ {
		s.ApplyApproved(models.WebhookSubmissionData{
			SubmissionID:  fmt.Sprintf("sub-%d", i),
			WalletAddress: "wallet-address-1",
			TaskName:      "Daily Check-In",
			RewardAmount:  "0.01",
		}, time.Now())
	}
}

func getActivity(t *testing.T, c *ActivityController, query string) (int, bool) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/activity"+query, nil)
	rec := httptest.NewRecorder()
	c.Handle(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data struct {
			Activities []models.ActivityEntry `json:"activities"`
			HasMore    bool                   `json:"hasMore"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	return len(resp.Data.Activities), resp.Data.HasMore
}

func TestActivity_Paging(t *testing.T) {
	st := store.New()
	seedActivity(st, 25)
	c := NewActivityController(st)

	if n, hasMore := getActivity(t, c, ""); n != 10 || !hasMore {
		t.Fatalf("default page: got %d hasMore=%v", n, hasMore)
	}
	if n, hasMore := getActivity(t, c, "?limit=10&offset=20"); n != 5 || hasMore {
		t.Fatalf("last page: got %d hasMore=%v", n, hasMore)
	}
	if n, hasMore := getActivity(t, c, "?offset=999"); n != 0 || hasMore {
		t.Fatalf("out of range: got %d hasMore=%v", n, hasMore)
	}
}

func TestActivity_EmptyFeedIsAnArray(t *testing.T) {
	c := NewActivityController(store.New())
	req := httptest.NewRequest(http.MethodGet, "/api/activity", nil)
	rec := httptest.NewRecorder()
	c.Handle(rec, req)

	if !bytes.Contains(rec.Body.Bytes(), []byte(`"activities":[]`)) {
		t.Fatalf("empty feed must serialize as [], got %s", rec.Body.String())
	}
}

func postStatus(t *testing.T, c *StatusController, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/submission/status", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	c.Handle(rec, req)
	return rec
}

func TestSubmissionStatus_CacheHitSkipsAdmin(t *testing.T) {
	var adminCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/integration/submission/status", func(w http.ResponseWriter, r *http.Request) {
		adminCalls++
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	st := store.New()
	st.ApplyRejected(models.WebhookSubmissionData{
		SubmissionID:  "sub-1",
		WalletAddress: "wallet-address-1",
		Reason:        "Blurry photo",
	}, time.Now())

	c := NewStatusController(adminapi.NewClient(server.URL, "s"), st)
	rec := postStatus(t, c, `{"walletAddress":"wallet-address-1","submissionId":"sub-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if adminCalls != 0 {
		t.Fatalf("cache hit must not reach the admin server")
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Blurry photo")) {
		t.Fatalf("expected cached rejection reason, got %s", rec.Body.String())
	}
}

func TestSubmissionStatus_CacheMissAsksAdmin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/integration/submission/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{
				"id":     "sub-2",
				"status": "UNDER_REVIEW",
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewStatusController(adminapi.NewClient(server.URL, "s"), store.New())
	rec := postStatus(t, c, `{"walletAddress":"wallet-address-1","submissionId":"sub-2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("UNDER_REVIEW")) {
		t.Fatalf("expected admin status, got %s", rec.Body.String())
	}
}

func TestSubmissionStatus_ValidationAndUpstreamErrors(t *testing.T) {
	server := httptest.NewServer(http.NewServeMux())
	server.Close()
	c := NewStatusController(adminapi.NewClient(server.URL, "s"), store.New())

	for _, body := range []string{"", "{}", `{"walletAddress":"w"}`, `{"submissionId":"s"}`} {
		rec := postStatus(t, c, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", body, rec.Code)
		}
	}

	rec := postStatus(t, c, `{"walletAddress":"w","submissionId":"sub-404"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when admin is down, got %d", rec.Code)
	}
}
