package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"soberquest/models"
	"soberquest/store"
	"soberquest/utils"
)

// WebhookController receives signed status events from the admin server and
// folds them into the shared store.
type WebhookController struct {
	Store  *store.Store
	Secret string
}

func NewWebhookController(s *store.Store, secret string) *WebhookController {
	return &WebhookController{Store: s, Secret: secret}
}

// verifySignature checks the claimed hex HMAC-SHA256 against the raw body
// under constant-time comparison. A length mismatch is just a failed check.
func (c *WebhookController) verifySignature(body []byte, claimed string) bool {
	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(claimed), []byte(expected))
}

// Handle processes POST /api/webhooks/admin. Signature verification always
// precedes JSON parsing; an unverified body is never interpreted.
func (c *WebhookController) Handle(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get("x-webhook-signature")
	if signature == "" {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Error: "Missing signature"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Invalid body"})
		return
	}

	if !c.verifySignature(body, signature) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Error: "Invalid signature"})
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	ack := func() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "received": event.EventType})
	}

	switch event.EventType {
	case models.EventSubmissionApproved, models.EventSubmissionRejected, models.EventRewardPaid:
		var data models.WebhookSubmissionData
		if len(event.Data) == 0 || json.Unmarshal(event.Data, &data) != nil || data.SubmissionID == "" {
			// Acknowledge to stop upstream retries, but do not touch state.
			log.Printf("[webhook] %s event with missing or malformed data", event.EventType)
			ack()
			return
		}
		if !c.Store.MarkEventSeen(r.Context(), eventKey(event, data)) {
			log.Printf("[webhook] duplicate %s for submission %s ignored", event.EventType, data.SubmissionID)
			ack()
			return
		}
		now := time.Now()
		switch event.EventType {
		case models.EventSubmissionApproved:
			c.Store.ApplyApproved(data, now)
		case models.EventSubmissionRejected:
			c.Store.ApplyRejected(data, now)
		case models.EventRewardPaid:
			c.Store.ApplyRewardPaid(data, now)
		}
	case models.EventUserSuspended:
		// No local handling yet; the per-wallet stats call surfaces
		// suspension from the admin server directly.
		log.Printf("[webhook] user suspended event received")
	default:
		// Unrecognized types are acknowledged without mutation.
	}

	ack()
}

// eventKey derives the dedup key: the explicit event id when the admin server
// sends one, otherwise type + submission id + event timestamp.
func eventKey(event models.WebhookEvent, data models.WebhookSubmissionData) string {
	if event.EventID != "" {
		return event.EventID
	}
	return event.EventType + "|" + data.SubmissionID + "|" + event.Timestamp
}
