// Package store is the in-process cache fed by admin webhooks: last-known
// submission statuses, a bounded recent-activity feed and global counters.
// It is a display/fallback cache only; the admin server stays authoritative
// and a restart resets everything to zero.
package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"soberquest/models"
)

const (
	maxActivity  = 100
	maxSeenLocal = 10000
	seenTTL      = 24 * time.Hour
)

// Store owns all mutable shared state behind a single mutex. Handlers get an
// injected *Store instead of touching package-level variables.
type Store struct {
	mu            sync.Mutex
	statusUpdates map[string]models.StatusUpdate
	activity      []models.ActivityEntry
	stats         models.GlobalStats

	// webhook delivery dedup; Redis-backed when configured so duplicate
	// deliveries across instances cannot double-count stats
	seen      map[string]struct{}
	seenOrder []string
	redis     *redis.Client
}

func New() *Store {
	return &Store{
		statusUpdates: make(map[string]models.StatusUpdate),
		stats:         models.GlobalStats{TotalRewardsDistributed: decimal.Zero},
		seen:          make(map[string]struct{}),
	}
}

// NewFromEnv attaches an optional Redis client when REDIS_ADDR is set. Redis
// failures never fail startup; dedup falls back to the in-memory set.
func NewFromEnv() *Store {
	s := New()
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return s
	}
	opts := &redis.Options{Addr: addr}
	if p := os.Getenv("REDIS_PASS"); p != "" {
		opts.Password = p
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		var dbn int
		_, _ = fmt.Sscanf(dbStr, "%d", &dbn)
		opts.DB = dbn
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(context.Background()).Err(); err != nil {
		log.Printf("warning: redis ping failed, using in-memory dedup: %v", err)
		return s
	}
	s.redis = rc
	return s
}

// AnonymizeWallet truncates a wallet address for public display. Addresses
// too short to truncate are returned verbatim.
func AnonymizeWallet(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}

// MarkEventSeen records a webhook delivery key and reports whether it was
// seen for the first time. Duplicate deliveries must not mutate state again.
func (s *Store) MarkEventSeen(ctx context.Context, key string) bool {
	if key == "" {
		return true
	}
	if s.redis != nil {
		first, err := s.redis.SetNX(ctx, "webhook:event:"+key, "1", seenTTL).Result()
		if err == nil {
			return first
		}
		// ignore redis errors, fall through to the in-memory set
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.seenOrder = append(s.seenOrder, key)
	if len(s.seenOrder) > maxSeenLocal {
		delete(s.seen, s.seenOrder[0])
		s.seenOrder = s.seenOrder[1:]
	}
	return true
}

func parseReward(v string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func taskNameOrDefault(name string) string {
	if name == "" {
		return "Task"
	}
	return name
}

func (s *Store) prependActivityLocked(entry models.ActivityEntry) {
	s.activity = append([]models.ActivityEntry{entry}, s.activity...)
	if len(s.activity) > maxActivity {
		s.activity = s.activity[:maxActivity]
	}
}

// ApplyApproved folds a submission.approved event into the cache: status
// upsert, counter increment, reward accumulation and an activity entry.
func (s *Store) ApplyApproved(data models.WebhookSubmissionData, now time.Time) {
	amount := parseReward(data.RewardAmount)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.statusUpdates[data.SubmissionID] = models.StatusUpdate{
		SubmissionID:  data.SubmissionID,
		Status:        models.StatusApproved,
		WalletAddress: data.WalletAddress,
		TaskName:      taskNameOrDefault(data.TaskName),
		RewardAmount:  data.RewardAmount,
		Timestamp:     now,
	}

	s.stats.TotalTasksCompleted++
	s.stats.TotalRewardsDistributed = s.stats.TotalRewardsDistributed.Add(amount)
	s.stats.LastUpdated = now

	s.prependActivityLocked(models.ActivityEntry{
		ID:            data.SubmissionID,
		Type:          models.ActivityTaskCompleted,
		WalletAddress: AnonymizeWallet(data.WalletAddress),
		TaskName:      taskNameOrDefault(data.TaskName),
		RewardAmount:  amount,
		Timestamp:     now,
		TxHash:        data.TxHash,
	})
}

// ApplyRejected upserts the rejected status with its reason. No stats or
// activity mutation.
func (s *Store) ApplyRejected(data models.WebhookSubmissionData, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statusUpdates[data.SubmissionID] = models.StatusUpdate{
		SubmissionID:    data.SubmissionID,
		Status:          models.StatusRejected,
		WalletAddress:   data.WalletAddress,
		TaskName:        taskNameOrDefault(data.TaskName),
		RewardAmount:    data.RewardAmount,
		RejectionReason: data.Reason,
		Timestamp:       now,
	}
}

// ApplyRewardPaid records a payout in the activity feed. The approval event
// already accounted for the completion, so stats stay untouched.
func (s *Store) ApplyRewardPaid(data models.WebhookSubmissionData, now time.Time) {
	amount := parseReward(data.RewardAmount)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prependActivityLocked(models.ActivityEntry{
		ID:            data.SubmissionID,
		Type:          models.ActivityRewardClaimed,
		WalletAddress: AnonymizeWallet(data.WalletAddress),
		TaskName:      taskNameOrDefault(data.TaskName),
		RewardAmount:  amount,
		Timestamp:     now,
		TxHash:        data.TxHash,
	})
}

// Stats returns a copy of the global counters.
func (s *Store) Stats() models.GlobalStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// StatusFor returns the last known state of a submission, if any webhook has
// reported one.
func (s *Store) StatusFor(submissionID string) (models.StatusUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.statusUpdates[submissionID]
	return u, ok
}

// RecentActivity returns up to limit newest-first activity entries.
func (s *Store) RecentActivity(limit int) []models.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.activity) {
		limit = len(s.activity)
	}
	out := make([]models.ActivityEntry, limit)
	copy(out, s.activity[:limit])
	return out
}

// ActivityPage returns a paged slice of the feed and whether more rows exist.
func (s *Store) ActivityPage(offset, limit int) ([]models.ActivityEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.activity) {
		return nil, false
	}
	end := offset + limit
	if limit <= 0 || end > len(s.activity) {
		end = len(s.activity)
	}
	out := make([]models.ActivityEntry, end-offset)
	copy(out, s.activity[offset:end])
	return out, end < len(s.activity)
}

// ActivityLen is used by tests.
func (s *Store) ActivityLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activity)
}
