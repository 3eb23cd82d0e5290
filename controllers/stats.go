package controllers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"soberquest/adminapi"
	"soberquest/catalog"
	"soberquest/models"
	"soberquest/store"
	"soberquest/utils"
)

const statsCacheTTL = 10 * time.Second

// StatsController serves platform-wide stats: the admin server's numbers when
// reachable, the local webhook cache otherwise. Staleness beats unavailability,
// so this endpoint never fails on upstream errors.
type StatsController struct {
	Client *adminapi.Client
	Store  *store.Store

	mu        sync.Mutex
	cached    *adminapi.PublicStats
	fetchedAt time.Time
}

func NewStatsController(client *adminapi.Client, s *store.Store) *StatsController {
	return &StatsController{Client: client, Store: s}
}

func (c *StatsController) adminStats(r *http.Request) *adminapi.PublicStats {
	c.mu.Lock()
	if c.cached != nil && time.Since(c.fetchedAt) < statsCacheTTL {
		cached := c.cached
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	stats, err := c.Client.PublicStats(r.Context())
	if err != nil {
		// Expected while the admin server is down; the local cache covers it.
		log.Printf("[stats] admin stats unavailable, using local cache: %v", err)
		return nil
	}

	c.mu.Lock()
	c.cached = stats
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return stats
}

// Handle processes GET /api/global-stats.
func (c *StatsController) Handle(w http.ResponseWriter, r *http.Request) {
	admin := c.adminStats(r)
	local := c.Store.Stats()

	data := map[string]interface{}{
		"totalAvailableRewards": catalog.TotalAvailableRewards(),
		"totalTasks":            len(catalog.Tasks()),
	}

	var activities []models.ActivityEntry
	if admin != nil {
		data["totalTasksCompleted"] = admin.TotalTasksCompleted
		data["totalRewardsDistributed"] = admin.TotalRewardsDistributed
		data["activeUsers"] = admin.ActiveUsers
		if admin.TotalTasks > 0 {
			data["totalTasks"] = admin.TotalTasks
		}
		if admin.LastUpdated != "" {
			data["lastUpdated"] = admin.LastUpdated
		} else {
			data["lastUpdated"] = time.Now()
		}
		activities = admin.RecentActivity
	} else {
		data["totalTasksCompleted"] = local.TotalTasksCompleted
		data["totalRewardsDistributed"] = local.TotalRewardsDistributed
		data["activeUsers"] = local.ActiveUsers
		data["lastUpdated"] = local.LastUpdated
	}

	if len(activities) == 0 {
		activities = c.Store.RecentActivity(20)
	}
	if activities == nil {
		activities = []models.ActivityEntry{}
	}
	data["recentActivity"] = activities

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: data})
}
