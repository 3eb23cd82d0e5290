package adminapi

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"soberquest/catalog"
)

// TaskResolver maps a catalog task id to the admin server's record id. The
// title-matching rule lives behind this interface so a stricter key-based
// mapping can replace it without touching the submission pipeline.
type TaskResolver interface {
	Resolve(ctx context.Context, localID string) (string, error)
}

const resolverTTL = 5 * time.Minute

// TitleMatchResolver builds the whole id mapping by fetching the admin task
// list and matching titles case-insensitively against the local catalog.
// Rebuilds are full replacements, never incremental. Concurrent rebuilds are
// tolerated: the fetch is cheap and idempotent, only the swap is locked.
type TitleMatchResolver struct {
	client *Client
	ttl    time.Duration

	mu      sync.Mutex
	mapping map[string]string
	expires time.Time
}

func NewTitleMatchResolver(c *Client) *TitleMatchResolver {
	return &TitleMatchResolver{client: c, ttl: resolverTTL}
}

func (r *TitleMatchResolver) Resolve(ctx context.Context, localID string) (string, error) {
	r.mu.Lock()
	if r.mapping != nil && time.Now().Before(r.expires) {
		if id, ok := r.mapping[localID]; ok {
			r.mu.Unlock()
			return id, nil
		}
	}
	r.mu.Unlock()

	remote, err := r.client.FetchTasks(ctx)
	if err != nil {
		// Stale-but-available: keep serving the previous mapping when the
		// refetch fails and one was ever built.
		log.Printf("[taskids] refetch failed, serving stale mapping: %v", err)
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.mapping != nil {
			if id, ok := r.mapping[localID]; ok {
				return id, nil
			}
		}
		return "", ErrTaskNotFound
	}

	mapping := make(map[string]string, len(remote))
	for _, rt := range remote {
		if rt.ID == "" {
			continue
		}
		title := rt.Name
		if title == "" {
			title = rt.Title
		}
		if t, ok := catalog.ByTitle(strings.TrimSpace(title)); ok {
			mapping[t.ID] = rt.ID
		}
	}

	r.mu.Lock()
	r.mapping = mapping
	r.expires = time.Now().Add(r.ttl)
	id, ok := r.mapping[localID]
	r.mu.Unlock()

	if !ok {
		return "", ErrTaskNotFound
	}
	return id, nil
}
