package controllers

import (
	"encoding/json"
	"net/http"

	"soberquest/adminapi"
	"soberquest/store"
	"soberquest/utils"
)

// StatusController looks up a single submission: the webhook cache answers
// first, the admin server is asked only on a cache miss.
type StatusController struct {
	Client *adminapi.Client
	Store  *store.Store
}

func NewStatusController(client *adminapi.Client, s *store.Store) *StatusController {
	return &StatusController{Client: client, Store: s}
}

// Handle processes POST /api/submission/status {walletAddress, submissionId}.
func (c *StatusController) Handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WalletAddress string `json:"walletAddress"`
		SubmissionID  string `json:"submissionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WalletAddress == "" || req.SubmissionID == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "walletAddress and submissionId required"})
		return
	}

	if update, ok := c.Store.StatusFor(req.SubmissionID); ok {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: update})
		return
	}

	detail, err := c.Client.SubmissionStatus(r.Context(), req.WalletAddress, req.SubmissionID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: detail})
}
