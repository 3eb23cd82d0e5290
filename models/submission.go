package models

import "time"

// SubmissionStatus values are owned by the admin service; this service only
// caches the last state it was told about.
const (
	StatusPending       = "PENDING"
	StatusUnderReview   = "UNDER_REVIEW"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
	StatusRewardPending = "REWARD_PENDING"
	StatusRewardPaid    = "REWARD_PAID"
	StatusExpired       = "EXPIRED"
	StatusFlagged       = "FLAGGED"
)

// StatusUpdate is the latest known state of one submission, written only by
// the webhook receiver. Last write wins; there is no versioning.
type StatusUpdate struct {
	SubmissionID    string    `json:"submissionId"`
	Status          string    `json:"status"`
	WalletAddress   string    `json:"walletAddress"`
	TaskName        string    `json:"taskName"`
	RewardAmount    string    `json:"rewardAmount"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
