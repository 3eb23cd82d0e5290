package models

// LeaderboardEntry mirrors one row of the admin service's public leaderboard.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	WalletAddress  string  `json:"walletAddress"`
	DisplayName    string  `json:"displayName,omitempty"`
	TasksCompleted int     `json:"tasksCompleted"`
	Streak         int     `json:"streak"`
	TotalRewards   float64 `json:"totalRewards"`
}
