package controllers

// Tier is a reward-multiplier bracket derived from a wallet's approved-task
// count. Thresholds: Silver at 5, Gold at 10, Diamond at 20.
type Tier struct {
	Name           string  `json:"name"`
	Level          int     `json:"level"`
	MaxReward      float64 `json:"maxReward"`
	TasksUntilNext int     `json:"tasksUntilNext"`
}

func calculateTier(completed int) Tier {
	switch {
	case completed >= 20:
		return Tier{Name: "Diamond", Level: 4, MaxReward: 0.15, TasksUntilNext: 0}
	case completed >= 10:
		return Tier{Name: "Gold", Level: 3, MaxReward: 0.12, TasksUntilNext: 20 - completed}
	case completed >= 5:
		return Tier{Name: "Silver", Level: 2, MaxReward: 0.10, TasksUntilNext: 10 - completed}
	default:
		return Tier{Name: "Bronze", Level: 1, MaxReward: 0.05, TasksUntilNext: 5 - completed}
	}
}
