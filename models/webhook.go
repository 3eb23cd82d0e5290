package models

import "encoding/json"

// Webhook event types sent by the admin service.
const (
	EventSubmissionApproved = "submission.approved"
	EventSubmissionRejected = "submission.rejected"
	EventRewardPaid         = "reward.paid"
	EventUserSuspended      = "user.suspended"
)

// WebhookEvent is the envelope of every admin webhook delivery.
// Data is kept raw until the event type is known.
type WebhookEvent struct {
	EventID   string          `json:"eventId,omitempty"`
	EventType string          `json:"eventType"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// WebhookSubmissionData is the data payload shared by submission.* and
// reward.paid events. RewardAmount arrives as a decimal string.
type WebhookSubmissionData struct {
	SubmissionID  string `json:"submissionId"`
	WalletAddress string `json:"walletAddress"`
	TaskName      string `json:"taskName"`
	RewardAmount  string `json:"rewardAmount"`
	Reason        string `json:"reason,omitempty"`
	TxHash        string `json:"txHash,omitempty"`
}
