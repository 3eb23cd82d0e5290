package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"soberquest/adminapi"
	"soberquest/models"
	"soberquest/utils"
)

// Proof uploads are bounded well below the admin server's own limit.
const maxProofBytes = 10 << 20

// xPostPattern accepts links to a concrete X/Twitter status post only.
var xPostPattern = regexp.MustCompile(`(?i)^https?://(twitter\.com|x\.com)/\w+/status/\d+`)

// SubmitController runs the proof-submission pipeline: local validation,
// task-id resolution, then the admin endpoint sequence for the proof kind.
type SubmitController struct {
	Client   *adminapi.Client
	Resolver adminapi.TaskResolver
}

func NewSubmitController(client *adminapi.Client, resolver adminapi.TaskResolver) *SubmitController {
	return &SubmitController{Client: client, Resolver: resolver}
}

// Handle processes POST /api/submit-task (multipart form).
func (c *SubmitController) Handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProofBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Invalid form data"})
		return
	}

	walletAddress := r.FormValue("walletAddress")
	taskID := r.FormValue("taskId")
	proofType := models.ProofType(r.FormValue("proofType"))
	notes := r.FormValue("notes")
	xPostURL := r.FormValue("xPostUrl")

	if walletAddress == "" || taskID == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Missing required fields"})
		return
	}

	// A malformed social link fails before any network call is made.
	if xPostURL != "" && !xPostPattern.MatchString(xPostURL) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Invalid X/Twitter post URL"})
		return
	}

	// Resolve the admin server's record id before any submission call.
	remoteTaskID, err := c.Resolver.Resolve(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, adminapi.ErrTaskNotFound) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Task not found on server. Please try again later."})
			return
		}
		writeUpstreamError(w, err)
		return
	}

	// Check-ins and streaks need no file: a synthetic upload key carries the
	// idempotency token.
	if proofType == models.ProofCheckIn || proofType == models.ProofStreak {
		note := notes
		if note == "" {
			note = "Daily check-in"
		}
		c.confirm(w, r, walletAddress, remoteTaskID, fmt.Sprintf("checkin-%d", time.Now().UnixMilli()), note)
		return
	}

	// Social-post proof: the link itself is the evidence.
	if xPostURL != "" {
		note := xPostURL
		if notes != "" {
			note = xPostURL + "\n\n" + notes
		}
		c.confirm(w, r, walletAddress, remoteTaskID, fmt.Sprintf("xpost-%d", time.Now().UnixMilli()), note)
		return
	}

	// File proof: request a signed target, PUT the bytes there, confirm.
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Proof file or X post link required for this task type"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Error: "Failed to read proof file"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	target, err := c.Client.RequestUpload(r.Context(), walletAddress, remoteTaskID, header.Filename, contentType, header.Size)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	if err := c.Client.UploadFile(r.Context(), target.UploadURL, contentType, data); err != nil {
		writeUpstreamError(w, err)
		return
	}

	c.confirm(w, r, walletAddress, remoteTaskID, target.UploadKey, notes)
}

func (c *SubmitController) confirm(w http.ResponseWriter, r *http.Request, walletAddress, remoteTaskID, uploadKey, userNote string) {
	receipt, err := c.Client.ConfirmUpload(r.Context(), walletAddress, remoteTaskID, uploadKey, userNote)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: receipt})
}

// writeUpstreamError maps admin client failures onto the response envelope:
// remote rejections pass their status and message through, transport
// failures become a 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var ue *adminapi.UpstreamError
	if errors.As(err, &ue) {
		utils.WriteJSON(w, ue.StatusCode, utils.APIResponse{Success: false, Error: ue.Message})
		return
	}
	utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Error: "Admin server unavailable"})
}
