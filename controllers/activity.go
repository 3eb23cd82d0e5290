package controllers

import (
	"net/http"
	"strconv"

	"soberquest/models"
	"soberquest/store"
	"soberquest/utils"
)

// ActivityController serves the paged live feed from the webhook store.
type ActivityController struct {
	Store *store.Store
}

func NewActivityController(s *store.Store) *ActivityController {
	return &ActivityController{Store: s}
}

// Handle processes GET /api/activity?limit=&offset=.
func (c *ActivityController) Handle(w http.ResponseWriter, r *http.Request) {
	limit := 10
	offset := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	activities, hasMore := c.Store.ActivityPage(offset, limit)
	if activities == nil {
		activities = []models.ActivityEntry{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"activities": activities,
			"hasMore":    hasMore,
		},
	})
}
