package controllers

import (
	"log"
	"net/http"
	"strconv"

	"soberquest/adminapi"
	"soberquest/models"
	"soberquest/store"
	"soberquest/utils"
)

// LeaderboardController proxies the admin server's public leaderboard.
// Upstream failures degrade to an empty board rather than an error.
type LeaderboardController struct {
	Client *adminapi.Client
}

func NewLeaderboardController(client *adminapi.Client) *LeaderboardController {
	return &LeaderboardController{Client: client}
}

// Handle processes GET /api/leaderboard?limit=&wallet=.
func (c *LeaderboardController) Handle(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	walletAddress := r.URL.Query().Get("wallet")

	board, err := c.Client.Leaderboard(r.Context())
	if err != nil {
		log.Printf("[leaderboard] admin fetch failed, returning empty board: %v", err)
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Data: map[string]interface{}{
				"entries":    []models.LeaderboardEntry{},
				"totalUsers": 0,
			},
		})
		return
	}

	entries := board.Entries
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	totalUsers := board.TotalUsers
	if totalUsers == 0 {
		totalUsers = len(entries)
	}
	data := map[string]interface{}{
		"entries":    entries,
		"totalUsers": totalUsers,
	}

	if walletAddress != "" {
		short := store.AnonymizeWallet(walletAddress)
		for _, e := range entries {
			if e.WalletAddress == walletAddress || e.WalletAddress == short {
				data["userRank"] = e.Rank
				break
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: data})
}
