package models

import "github.com/shopspring/decimal"

// TaskCategory groups tasks by the habit they target.
type TaskCategory string

const (
	CategoryAlcoholFree    TaskCategory = "alcohol-free"
	CategorySmokeFree      TaskCategory = "smoke-free"
	CategoryFitness        TaskCategory = "fitness"
	CategoryMindfulness    TaskCategory = "mindfulness"
	CategoryCommunity      TaskCategory = "community"
	CategoryAccountability TaskCategory = "accountability"
)

// ProofType is the kind of evidence a task requires.
type ProofType string

const (
	ProofImage    ProofType = "image"
	ProofVideo    ProofType = "video"
	ProofCheckIn  ProofType = "check-in"
	ProofReferral ProofType = "referral"
	ProofStreak   ProofType = "streak"
)

// TaskStatus is the catalog-level availability of a task.
type TaskStatus string

const (
	TaskLocked    TaskStatus = "locked"
	TaskAvailable TaskStatus = "available"
)

// Task is one entry of the static campaign catalog. The set is defined at
// build time and never mutated at runtime; the admin service keeps its own
// copy which is matched against this one by title.
type Task struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       TaskCategory    `json:"category"`
	RewardAmount   decimal.Decimal `json:"rewardAmount"`
	Difficulty     string          `json:"difficulty"`
	ProofType      ProofType       `json:"proofType"`
	Status         TaskStatus      `json:"status"`
	CompletedCount int             `json:"completedCount"`
	Icon           string          `json:"icon"`
}
