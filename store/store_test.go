package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"soberquest/models"
)

func approvedEvent(id, wallet, amount string) models.WebhookSubmissionData {
	return models.WebhookSubmissionData{
		SubmissionID:  id,
		WalletAddress: wallet,
		TaskName:      "Daily Check-In",
		RewardAmount:  amount,
	}
}

func TestApplyApproved_UpdatesStatsAndStatus(t *testing.T) {
	s := New()
	now := time.Now()

	s.ApplyApproved(approvedEvent("sub-1", "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", "0.05"), now)

	stats := s.Stats()
	if stats.TotalTasksCompleted != 1 {
		t.Fatalf("expected 1 completed task, got %d", stats.TotalTasksCompleted)
	}
	if !stats.TotalRewardsDistributed.Equal(decimal.RequireFromString("0.05")) {
		t.Fatalf("expected 0.05 distributed, got %s", stats.TotalRewardsDistributed)
	}
	if !stats.LastUpdated.Equal(now) {
		t.Fatalf("lastUpdated not advanced")
	}

	update, ok := s.StatusFor("sub-1")
	if !ok {
		t.Fatalf("expected status update for sub-1")
	}
	if update.Status != models.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", update.Status)
	}
}

func TestApplyApproved_UnparseableRewardDefaultsToZero(t *testing.T) {
	s := New()
	s.ApplyApproved(approvedEvent("sub-1", "wallet-address-1", "not-a-number"), time.Now())

	stats := s.Stats()
	if stats.TotalTasksCompleted != 1 {
		t.Fatalf("completion must still count, got %d", stats.TotalTasksCompleted)
	}
	if !stats.TotalRewardsDistributed.IsZero() {
		t.Fatalf("expected zero distributed, got %s", stats.TotalRewardsDistributed)
	}
}

func TestApplyApproved_AnonymizesWalletInFeed(t *testing.T) {
	s := New()
	s.ApplyApproved(approvedEvent("sub-1", "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", "0.01"), time.Now())

	feed := s.RecentActivity(10)
	if len(feed) != 1 {
		t.Fatalf("expected 1 activity entry, got %d", len(feed))
	}
	if feed[0].WalletAddress != "9xQe...VFin" {
		t.Fatalf("expected anonymized wallet, got %s", feed[0].WalletAddress)
	}
	if feed[0].Type != models.ActivityTaskCompleted {
		t.Fatalf("expected task_completed, got %s", feed[0].Type)
	}
}

func TestActivityFeed_CappedAtHundredNewestFirst(t *testing.T) {
	s := New()
	for i := 0; i < 150; i++ {
		s.ApplyApproved(approvedEvent(fmt.Sprintf("sub-%d", i), "wallet-address-1", "0.01"), time.Now())
	}
	if got := s.ActivityLen(); got != 100 {
		t.Fatalf("expected feed capped at 100, got %d", got)
	}
	feed := s.RecentActivity(1)
	if feed[0].ID != "sub-149" {
		t.Fatalf("expected newest entry at head, got %s", feed[0].ID)
	}
}

func TestApplyRejected_NoStatsOrActivityMutation(t *testing.T) {
	s := New()
	data := approvedEvent("sub-1", "wallet-address-1", "0.05")
	data.Reason = "Blurry photo"
	s.ApplyRejected(data, time.Now())

	stats := s.Stats()
	if stats.TotalTasksCompleted != 0 || !stats.TotalRewardsDistributed.IsZero() {
		t.Fatalf("rejection must not mutate stats: %+v", stats)
	}
	if s.ActivityLen() != 0 {
		t.Fatalf("rejection must not add activity")
	}
	update, ok := s.StatusFor("sub-1")
	if !ok || update.Status != models.StatusRejected || update.RejectionReason != "Blurry photo" {
		t.Fatalf("expected rejected status with reason, got %+v", update)
	}
}

func TestApplyRewardPaid_ActivityOnly(t *testing.T) {
	s := New()
	data := approvedEvent("sub-1", "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", "0.05")
	data.TxHash = "5y3Fk...solscan"
	s.ApplyRewardPaid(data, time.Now())

	if s.Stats().TotalTasksCompleted != 0 {
		t.Fatalf("payout must not touch completion counter")
	}
	feed := s.RecentActivity(10)
	if len(feed) != 1 || feed[0].Type != models.ActivityRewardClaimed {
		t.Fatalf("expected one reward_claimed entry, got %+v", feed)
	}
	if feed[0].TxHash != "5y3Fk...solscan" {
		t.Fatalf("expected tx hash carried through")
	}
	if _, ok := s.StatusFor("sub-1"); ok {
		t.Fatalf("payout must not write a status update")
	}
}

func TestMarkEventSeen_DeduplicatesDeliveries(t *testing.T) {
	s := New()
	ctx := context.Background()
	if !s.MarkEventSeen(ctx, "evt-1") {
		t.Fatalf("first delivery must be fresh")
	}
	if s.MarkEventSeen(ctx, "evt-1") {
		t.Fatalf("second delivery must be reported as duplicate")
	}
	if !s.MarkEventSeen(ctx, "evt-2") {
		t.Fatalf("different key must be fresh")
	}
}

func TestAnonymizeWallet(t *testing.T) {
	if got := AnonymizeWallet("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"); got != "9xQe...VFin" {
		t.Fatalf("unexpected anonymized form: %s", got)
	}
	if got := AnonymizeWallet("short"); got != "short" {
		t.Fatalf("short addresses stay verbatim, got %s", got)
	}
}

func TestActivityPage(t *testing.T) {
	s := New()
	for i := 0; i < 25; i++ {
		s.ApplyApproved(approvedEvent(fmt.Sprintf("sub-%d", i), "wallet-address-1", "0.01"), time.Now())
	}
	page, hasMore := s.ActivityPage(0, 10)
	if len(page) != 10 || !hasMore {
		t.Fatalf("expected full first page with more, got %d hasMore=%v", len(page), hasMore)
	}
	page, hasMore = s.ActivityPage(20, 10)
	if len(page) != 5 || hasMore {
		t.Fatalf("expected 5-entry last page, got %d hasMore=%v", len(page), hasMore)
	}
	if _, hasMore = s.ActivityPage(100, 10); hasMore {
		t.Fatalf("out-of-range offset must report no more rows")
	}
}
