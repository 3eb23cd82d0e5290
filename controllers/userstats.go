package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"soberquest/adminapi"
	"soberquest/models"
	"soberquest/utils"
)

// UserStatsController aggregates a wallet's stats and submission history from
// two parallel signed admin calls and derives the reward tier locally.
type UserStatsController struct {
	Client *adminapi.Client
}

func NewUserStatsController(client *adminapi.Client) *UserStatsController {
	return &UserStatsController{Client: client}
}

// countsTowardRewards reports whether a submission state counts toward a
// wallet's earned total.
func countsTowardRewards(status string) bool {
	switch status {
	case models.StatusApproved, models.StatusRewardPending, models.StatusRewardPaid:
		return true
	}
	return false
}

// Handle processes POST /api/user-stats {walletAddress}.
func (c *UserStatsController) Handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WalletAddress string `json:"walletAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WalletAddress == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Wallet address required"})
		return
	}

	// Either call may fail independently; the response degrades to zero
	// values for the missing half instead of erroring.
	stats := &adminapi.UserStats{}
	var submissions []adminapi.SubmissionHistoryItem

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		s, err := c.Client.UserStats(ctx, req.WalletAddress)
		if err != nil {
			log.Printf("[user-stats] stats fetch failed for wallet: %v", err)
			return nil
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		h, err := c.Client.SubmissionHistory(ctx, req.WalletAddress, 1, 50)
		if err != nil {
			log.Printf("[user-stats] history fetch failed for wallet: %v", err)
			return nil
		}
		submissions = h.Items
		return nil
	})
	_ = g.Wait()

	totalEarned := decimal.Zero
	out := make([]map[string]interface{}, 0, len(submissions))
	for _, s := range submissions {
		amount, err := decimal.NewFromString(s.RewardAmount)
		if err != nil {
			amount = decimal.Zero
		}
		if countsTowardRewards(s.Status) {
			totalEarned = totalEarned.Add(amount)
		}
		out = append(out, map[string]interface{}{
			"id":           s.ID,
			"taskName":     s.TaskName,
			"status":       s.Status,
			"rewardAmount": amount,
			"submittedAt":  s.SubmittedAt,
		})
	}

	tier := calculateTier(stats.TotalApproved)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"tasksCompleted":     stats.TotalApproved,
			"tasksPending":       stats.TotalPending,
			"tasksRejected":      stats.TotalRejected,
			"totalRewardsEarned": totalEarned,
			"isSuspended":        stats.IsSuspended,

			"tier":                tier.Name,
			"tierLevel":           tier.Level,
			"maxRewardMultiplier": tier.MaxReward,
			"tasksUntilNextTier":  tier.TasksUntilNext,

			"submissions": out,
		},
	})
}
