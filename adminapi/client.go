// Package adminapi is the client for the external admin verification server,
// the system of record for task submissions and reward payout. Every POST is
// signed with HMAC-SHA256 over the exact serialized body.
package adminapi

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"soberquest/models"
)

// UpstreamError is a non-success response from the admin server. The message
// is taken from the remote's structured error body when present.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("admin server returned %d: %s", e.StatusCode, e.Message)
}

// IsUnavailable reports whether err is a transport-level failure (timeout or
// connection error) rather than a rejection by the admin server.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var ue *UpstreamError
	return !errors.As(err, &ue)
}

// ErrTaskNotFound means a catalog task has no counterpart on the admin server.
var ErrTaskNotFound = errors.New("task not found on admin server")

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvSec(key string, def int) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return time.Duration(v) * time.Second
		}
	}
	return time.Duration(def) * time.Second
}

// Client talks to the admin server. Timeouts are per call class: short for
// polling-style reads, longer for the task-list fetch and for write/confirm
// operations. No retries; a failure is surfaced to the caller as-is.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client

	readTimeout  time.Duration
	listTimeout  time.Duration
	writeTimeout time.Duration
}

// NewClientFromEnv builds a client from ADMIN_API_URL and ADMIN_API_SECRET.
// The secret has no default on purpose; main refuses to start without it.
func NewClientFromEnv() *Client {
	return &Client{
		baseURL:      strings.TrimRight(getenv("ADMIN_API_URL", "http://localhost:4000/api/v1"), "/"),
		secret:       os.Getenv("ADMIN_API_SECRET"),
		http:         &http.Client{},
		readTimeout:  getenvSec("ADMIN_TIMEOUT_READ_SEC", 3),
		listTimeout:  getenvSec("ADMIN_TIMEOUT_LIST_SEC", 5),
		writeTimeout: getenvSec("ADMIN_TIMEOUT_WRITE_SEC", 15),
	}
}

// NewClient is used by tests to point at a fake admin server.
func NewClient(baseURL, secret string) *Client {
	c := NewClientFromEnv()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.secret = secret
	return c
}

// Sign computes the hex HMAC-SHA256 of payload with the shared secret.
func (c *Client) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) signedPost(ctx context.Context, path string, body interface{}, timeout time.Duration, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", c.Sign(payload))
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("admin request %s: %w", path, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp.StatusCode, respBody)
	}
	return decodeData(respBody, out)
}

func (c *Client) publicGet(ctx context.Context, path string, timeout time.Duration, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("admin request %s: %w", path, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp.StatusCode, respBody)
	}
	return decodeData(respBody, out)
}

func upstreamError(status int, body []byte) error {
	msg := "Request failed"
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		msg = env.Error.Message
	}
	return &UpstreamError{StatusCode: status, Message: msg}
}

// decodeData unwraps the admin server's {"data": ...} envelope. Responses
// without the envelope are decoded as-is.
func decodeData(body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	var env dataEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(body, out)
}

// UploadTarget is the admin server's answer to an upload request: a presigned
// URL the proof bytes must be PUT to, and the key to confirm with.
type UploadTarget struct {
	UploadURL   string `json:"uploadUrl"`
	UploadKey   string `json:"uploadKey"`
	UploadToken string `json:"uploadToken"`
	ExpiresAt   string `json:"expiresAt"`
}

// RequestUpload asks the admin server for a signed upload target.
func (c *Client) RequestUpload(ctx context.Context, walletAddress, taskID, filename, contentType string, fileSize int64) (*UploadTarget, error) {
	body := struct {
		WalletAddress string `json:"walletAddress"`
		TaskID        string `json:"taskId"`
		Filename      string `json:"filename"`
		ContentType   string `json:"contentType"`
		FileSize      int64  `json:"fileSize"`
	}{walletAddress, taskID, filename, contentType, fileSize}

	var out UploadTarget
	if err := c.signedPost(ctx, "/upload/request", body, c.writeTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFile PUTs the raw proof bytes directly to the presigned target.
func (c *Client) UploadFile(ctx context.Context, uploadURL, contentType string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "Failed to upload file"}
	}
	return nil
}

// SubmissionReceipt is returned by a successful confirm call.
type SubmissionReceipt struct {
	SubmissionID string `json:"submissionId"`
	Status       string `json:"status"`
	SubmittedAt  string `json:"submittedAt"`
}

// ConfirmUpload records a submission with the admin server, referencing a
// previously issued upload key (or a synthetic one for check-ins and links).
func (c *Client) ConfirmUpload(ctx context.Context, walletAddress, taskID, uploadKey, userNote string) (*SubmissionReceipt, error) {
	body := struct {
		WalletAddress string `json:"walletAddress"`
		TaskID        string `json:"taskId"`
		UploadKey     string `json:"uploadKey"`
		UserNote      string `json:"userNote,omitempty"`
	}{walletAddress, taskID, uploadKey, userNote}

	var out SubmissionReceipt
	if err := c.signedPost(ctx, "/upload/confirm", body, c.writeTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserStats is the admin server's per-wallet aggregate.
type UserStats struct {
	TotalApproved int    `json:"totalApproved"`
	TotalRejected int    `json:"totalRejected"`
	TotalPending  int    `json:"totalPending"`
	IsSuspended   bool   `json:"isSuspended"`
	SuspendReason string `json:"suspendReason,omitempty"`
}

func (c *Client) UserStats(ctx context.Context, walletAddress string) (*UserStats, error) {
	body := struct {
		WalletAddress string `json:"walletAddress"`
	}{walletAddress}

	var out UserStats
	if err := c.signedPost(ctx, "/integration/user/stats", body, c.readTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmissionHistoryItem is one row of a wallet's submission history.
type SubmissionHistoryItem struct {
	ID              string `json:"id"`
	TaskName        string `json:"taskName"`
	TaskCategory    string `json:"taskCategory"`
	Status          string `json:"status"`
	RewardAmount    string `json:"rewardAmount"`
	RewardToken     string `json:"rewardToken"`
	SubmittedAt     string `json:"submittedAt"`
	ReviewedAt      string `json:"reviewedAt,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

type SubmissionHistory struct {
	Items      []SubmissionHistoryItem `json:"items"`
	Total      int                     `json:"total"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"totalPages"`
}

func (c *Client) SubmissionHistory(ctx context.Context, walletAddress string, page, limit int) (*SubmissionHistory, error) {
	body := struct {
		WalletAddress string `json:"walletAddress"`
		Page          int    `json:"page"`
		Limit         int    `json:"limit"`
	}{walletAddress, page, limit}

	var out SubmissionHistory
	if err := c.signedPost(ctx, "/integration/submissions/history", body, c.readTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmissionDetail is the authoritative state of a single submission.
type SubmissionDetail struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	TaskName        string `json:"taskName"`
	RewardAmount    string `json:"rewardAmount"`
	RewardToken     string `json:"rewardToken"`
	SubmittedAt     string `json:"submittedAt"`
	ReviewedAt      string `json:"reviewedAt,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	RewardTxHash    string `json:"rewardTxHash,omitempty"`
}

func (c *Client) SubmissionStatus(ctx context.Context, walletAddress, submissionID string) (*SubmissionDetail, error) {
	body := struct {
		WalletAddress string `json:"walletAddress"`
		SubmissionID  string `json:"submissionId"`
	}{walletAddress, submissionID}

	var out SubmissionDetail
	if err := c.signedPost(ctx, "/integration/submission/status", body, c.readTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoteTask is a task record as the admin server publishes it. Depending on
// the server version the display name arrives as "name" or "title".
type RemoteTask struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

type remoteTaskList struct {
	Tasks []RemoteTask `json:"tasks"`
}

// FetchTasks lists the admin server's task records.
func (c *Client) FetchTasks(ctx context.Context) ([]RemoteTask, error) {
	var out remoteTaskList
	if err := c.publicGet(ctx, "/public/tasks", c.listTimeout, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// PublicStats is the admin server's platform-wide stats payload.
type PublicStats struct {
	TotalTasksCompleted     int                    `json:"totalTasksCompleted"`
	TotalRewardsDistributed decimal.Decimal        `json:"totalRewardsDistributed"`
	ActiveUsers             int                    `json:"activeUsers"`
	TotalTasks              int                    `json:"totalTasks"`
	RecentActivity          []models.ActivityEntry `json:"recentActivity,omitempty"`
	LastUpdated             string                 `json:"lastUpdated,omitempty"`
}

func (c *Client) PublicStats(ctx context.Context) (*PublicStats, error) {
	var out PublicStats
	if err := c.publicGet(ctx, "/public/stats", c.readTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LeaderboardData is the admin server's public leaderboard payload.
type LeaderboardData struct {
	Entries    []models.LeaderboardEntry `json:"entries"`
	TotalUsers int                       `json:"totalUsers"`
}

func (c *Client) Leaderboard(ctx context.Context) (*LeaderboardData, error) {
	var out LeaderboardData
	if err := c.publicGet(ctx, "/public/leaderboard", c.readTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
