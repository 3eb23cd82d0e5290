package controllers

import (
	"net/http"

	"soberquest/catalog"
	"soberquest/utils"
)

// TasksHandler serves the static task catalog.
// GET /api/tasks
func TasksHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"tasks":                 catalog.Tasks(),
			"totalTasks":            len(catalog.Tasks()),
			"totalAvailableRewards": catalog.TotalAvailableRewards(),
		},
	})
}
