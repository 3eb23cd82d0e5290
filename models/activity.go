package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity feed entry types.
const (
	ActivityTaskCompleted   = "task_completed"
	ActivityRewardClaimed   = "reward_claimed"
	ActivityStreakMilestone = "streak_milestone"
	ActivityUserJoined      = "user_joined"
)

// ActivityEntry is one row of the public live feed. WalletAddress is always
// the anonymized form (first 4 + "..." + last 4 characters).
type ActivityEntry struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	WalletAddress string          `json:"walletAddress"`
	TaskName      string          `json:"taskName"`
	RewardAmount  decimal.Decimal `json:"rewardAmount"`
	Timestamp     time.Time       `json:"timestamp"`
	TxHash        string          `json:"txHash,omitempty"`
}

// GlobalStats is the process-wide fallback stats cache. It starts at zero on
// every boot; the admin service remains the source of truth.
type GlobalStats struct {
	TotalTasksCompleted     int             `json:"totalTasksCompleted"`
	TotalRewardsDistributed decimal.Decimal `json:"totalRewardsDistributed"`
	ActiveUsers             int             `json:"activeUsers"`
	LastUpdated             time.Time       `json:"lastUpdated"`
}
