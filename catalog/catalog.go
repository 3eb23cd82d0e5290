// Package catalog holds the static campaign task set. Rewards are in SOL,
// ranging from 0.01 to 0.1 SOL per task.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"soberquest/models"
)

func sol(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

var tasks = []models.Task{
	// Alcohol-free
	{
		ID:             "alcohol-clear-space",
		Title:          "Environment Reset",
		Description:    "Clear your living space of alcohol. Upload a photo showing your alcohol-free environment.",
		Category:       models.CategoryAlcoholFree,
		RewardAmount:   sol("0.03"),
		Difficulty:     "medium",
		ProofType:      models.ProofImage,
		Status:         models.TaskAvailable,
		CompletedCount: 1247,
		Icon:           "/bad no drinking.jpg",
	},
	{
		ID:             "alcohol-7-day-streak",
		Title:          "7-Day Alcohol Free",
		Description:    "Complete 7 consecutive daily check-ins without alcohol consumption.",
		Category:       models.CategoryAlcoholFree,
		RewardAmount:   sol("0.05"),
		Difficulty:     "medium",
		ProofType:      models.ProofStreak,
		Status:         models.TaskAvailable,
		CompletedCount: 892,
		Icon:           "/bad no drinking.jpg",
	},
	{
		ID:             "alcohol-30-day-streak",
		Title:          "30-Day Milestone",
		Description:    "Achieve 30 days of sobriety. A major milestone in your journey!",
		Category:       models.CategoryAlcoholFree,
		RewardAmount:   sol("0.1"),
		Difficulty:     "hard",
		ProofType:      models.ProofStreak,
		Status:         models.TaskLocked,
		CompletedCount: 324,
		Icon:           "/good winning.jpg",
	},

	// Smoke-free
	{
		ID:             "smoke-clear-space",
		Title:          "Smoke-Free Zone",
		Description:    "Remove all smoking materials from your space. Upload proof of your clean environment.",
		Category:       models.CategorySmokeFree,
		RewardAmount:   sol("0.03"),
		Difficulty:     "medium",
		ProofType:      models.ProofImage,
		Status:         models.TaskAvailable,
		CompletedCount: 956,
		Icon:           "/good 7days sober.jpg",
	},
	{
		ID:             "smoke-7-day-streak",
		Title:          "7-Day Smoke Free",
		Description:    "Complete 7 consecutive days without smoking. Daily check-ins required.",
		Category:       models.CategorySmokeFree,
		RewardAmount:   sol("0.05"),
		Difficulty:     "medium",
		ProofType:      models.ProofStreak,
		Status:         models.TaskAvailable,
		CompletedCount: 678,
		Icon:           "/good 7days sober.jpg",
	},

	// Fitness
	{
		ID:             "fitness-workout",
		Title:          "Healthy Body Challenge",
		Description:    "Complete a workout session. Upload a gym selfie or workout screenshot.",
		Category:       models.CategoryFitness,
		RewardAmount:   sol("0.02"),
		Difficulty:     "easy",
		ProofType:      models.ProofImage,
		Status:         models.TaskAvailable,
		CompletedCount: 2341,
		Icon:           "/gym good.jpg",
	},
	{
		ID:             "fitness-7-day-active",
		Title:          "7-Day Active Streak",
		Description:    "Exercise for 7 consecutive days. Any form of physical activity counts!",
		Category:       models.CategoryFitness,
		RewardAmount:   sol("0.04"),
		Difficulty:     "medium",
		ProofType:      models.ProofStreak,
		Status:         models.TaskAvailable,
		CompletedCount: 1123,
		Icon:           "/gym good.jpg",
	},

	// Mindfulness
	{
		ID:             "mindfulness-meditation",
		Title:          "Mindful Moment",
		Description:    "Complete a 10-minute meditation session. Upload a screenshot from your meditation app.",
		Category:       models.CategoryMindfulness,
		RewardAmount:   sol("0.015"),
		Difficulty:     "easy",
		ProofType:      models.ProofImage,
		Status:         models.TaskAvailable,
		CompletedCount: 1876,
		Icon:           "/water good.jpg",
	},
	{
		ID:             "mindfulness-journal",
		Title:          "Reflection Journal",
		Description:    "Write about your sobriety journey. Share your wins and challenges (privacy-safe).",
		Category:       models.CategoryMindfulness,
		RewardAmount:   sol("0.02"),
		Difficulty:     "easy",
		ProofType:      models.ProofImage,
		Status:         models.TaskAvailable,
		CompletedCount: 1432,
		Icon:           "/water good.jpg",
	},

	// Community
	{
		ID:             "community-referral",
		Title:          "Sober Buddy Referral",
		Description:    "Refer a friend who joins and completes their first task. Stronger together!",
		Category:       models.CategoryCommunity,
		RewardAmount:   sol("0.05"),
		Difficulty:     "medium",
		ProofType:      models.ProofReferral,
		Status:         models.TaskAvailable,
		CompletedCount: 567,
		Icon:           "/good winning.jpg",
	},
	{
		ID:             "community-share-story",
		Title:          "Share Your Story",
		Description:    "Share your sobriety journey on social media (Twitter/X). Inspire others!",
		Category:       models.CategoryCommunity,
		RewardAmount:   sol("0.03"),
		Difficulty:     "easy",
		ProofType:      models.ProofImage,
		Status:         models.TaskAvailable,
		CompletedCount: 789,
		Icon:           "/good winning.jpg",
	},

	// Accountability
	{
		ID:             "accountability-daily-checkin",
		Title:          "Daily Check-In",
		Description:    "Complete your daily sobriety check-in. Consistency is key!",
		Category:       models.CategoryAccountability,
		RewardAmount:   sol("0.01"),
		Difficulty:     "easy",
		ProofType:      models.ProofCheckIn,
		Status:         models.TaskAvailable,
		CompletedCount: 15678,
		Icon:           "/good habits.jpg",
	},
	{
		ID:             "accountability-weekly-reflection",
		Title:          "Weekly Reflection",
		Description:    "Complete your weekly progress review. Celebrate your wins!",
		Category:       models.CategoryAccountability,
		RewardAmount:   sol("0.015"),
		Difficulty:     "easy",
		ProofType:      models.ProofCheckIn,
		Status:         models.TaskAvailable,
		CompletedCount: 4521,
		Icon:           "/good habits.jpg",
	},
}

// Tasks returns the full catalog. Callers must not mutate the returned slice.
func Tasks() []models.Task {
	return tasks
}

// ByID finds a task by its catalog id.
func ByID(id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// ByCategory returns all tasks in a category.
func ByCategory(cat models.TaskCategory) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Category == cat {
			out = append(out, t)
		}
	}
	return out
}

// ByTitle finds a task by case-insensitive exact title match. The admin
// service identifies tasks by title, not by catalog id.
func ByTitle(title string) (models.Task, bool) {
	for _, t := range tasks {
		if strings.EqualFold(t.Title, title) {
			return t, true
		}
	}
	return models.Task{}, false
}

// TotalAvailableRewards sums the reward of every task in the catalog.
func TotalAvailableRewards() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range tasks {
		sum = sum.Add(t.RewardAmount)
	}
	return sum
}
