// Package roblox owns all interaction with the Roblox web API, including its
// anti-CSRF handshake: every mutating call needs a fresh X-CSRF-TOKEN
// obtained immediately beforehand, attached alongside the long-lived
// .ROBLOSECURITY session cookie. No other package may assume a token stays
// valid.
package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ErrUserNotFound reports that the Roblox users API knows no such user. It
// is absence, not a transport failure; callers treat it as a validation
// fact rather than an upstream fault.
var ErrUserNotFound = errors.New("roblox: user not found")

// Config holds configuration for creating a Client.
type Config struct {
	// SessionCookie is the .ROBLOSECURITY value identifying this service.
	SessionCookie string
	// Base URLs for the three Roblox API hosts. Defaults point at
	// production; tests point them at httptest servers.
	UsersBaseURL  string
	GroupsBaseURL string
	AuthBaseURL   string
	// HTTPClient is used for all requests. If nil, a client with a 10s
	// timeout is used so no external call can hang the caller.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an authenticated Roblox API client. It is stateless aside from
// the session cookie and safe for concurrent use.
type Client struct {
	cookie     string
	usersURL   string
	groupsURL  string
	authURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.SessionCookie == "" {
		return nil, fmt.Errorf("roblox: session cookie is required")
	}

	usersURL := cfg.UsersBaseURL
	if usersURL == "" {
		usersURL = "https://users.roblox.com"
	}
	groupsURL := cfg.GroupsBaseURL
	if groupsURL == "" {
		groupsURL = "https://groups.roblox.com"
	}
	authURL := cfg.AuthBaseURL
	if authURL == "" {
		authURL = "https://auth.roblox.com"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cookie:     cfg.SessionCookie,
		usersURL:   strings.TrimRight(usersURL, "/"),
		groupsURL:  strings.TrimRight(groupsURL, "/"),
		authURL:    strings.TrimRight(authURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// FetchUser looks up public profile data for a user id. A 404 from the
// users API returns ErrUserNotFound; any other failure is a transport or
// upstream error.
func (c *Client) FetchUser(ctx context.Context, userID int64) (*UserProfile, error) {
	url := fmt.Sprintf("%s/v1/users/%d", c.usersURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("roblox: build user request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roblox: fetch user %d: %w", userID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var profile UserProfile
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return nil, fmt.Errorf("roblox: parse user %d response: %w", userID, err)
		}
		return &profile, nil
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("roblox: fetch user %d: unexpected status %d", userID, resp.StatusCode)
	}
}

// FetchRank returns the user's numeric rank within the group, or 0 when the
// user holds no role there. Lookup failures also yield 0 alongside the
// error; the rank is advisory and never gates promotion.
func (c *Client) FetchRank(ctx context.Context, userID, groupID int64) (int, error) {
	url := fmt.Sprintf("%s/v2/users/%d/groups/roles", c.groupsURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("roblox: build roles request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("roblox: fetch roles for user %d: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("roblox: fetch roles for user %d: unexpected status %d", userID, resp.StatusCode)
	}

	var roles groupRolesResponse
	if err := json.NewDecoder(resp.Body).Decode(&roles); err != nil {
		return 0, fmt.Errorf("roblox: parse roles response: %w", err)
	}
	for _, entry := range roles.Data {
		if entry.Group.ID == groupID {
			return entry.Role.Rank, nil
		}
	}
	return 0, nil
}

// ObtainToken performs the anti-CSRF handshake: a POST to the auth logout
// endpoint whose response carries a fresh x-csrf-token header. Tokens are
// single-use and never cached; call this immediately before each mutating
// request.
func (c *Client) ObtainToken(ctx context.Context) (string, error) {
	url := c.authURL + "/v2/logout"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("roblox: build token request: %w", err)
	}
	c.setAuthHeaders(req, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("roblox: obtain csrf token: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	token := resp.Header.Get("x-csrf-token")
	if token == "" {
		return "", fmt.Errorf("roblox: no csrf token in response (status %d)", resp.StatusCode)
	}
	return token, nil
}

// ApplyRank changes the user's role in the group. It obtains a fresh token,
// then issues the PATCH. A 200 is the only success signal; every other
// outcome is a failure whose message preserves the service's diagnostic
// text. Single attempt, no retry; retry policy belongs to callers.
func (c *Client) ApplyRank(ctx context.Context, userID, groupID, rankID int64) RankChangeOutcome {
	token, err := c.ObtainToken(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "csrf token acquisition failed", "error", err)
		return RankChangeOutcome{Succeeded: false, Message: fmt.Sprintf("failed to get security token: %v", err)}
	}

	payload, err := json.Marshal(map[string]int64{"roleId": rankID})
	if err != nil {
		return RankChangeOutcome{Succeeded: false, Message: fmt.Sprintf("failed to encode rank change: %v", err)}
	}

	url := fmt.Sprintf("%s/v1/groups/%d/users/%d", c.groupsURL, groupID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return RankChangeOutcome{Succeeded: false, Message: fmt.Sprintf("failed to build rank change request: %v", err)}
	}
	c.setAuthHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "rank change call failed", "user_id", userID, "error", err)
		return RankChangeOutcome{Succeeded: false, Message: fmt.Sprintf("rank change request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return RankChangeOutcome{Succeeded: true, Message: "user promoted successfully"}
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.logger.WarnContext(ctx, "rank change rejected by roblox",
		"user_id", userID,
		"group_id", groupID,
		"status", resp.StatusCode,
	)
	return RankChangeOutcome{
		Succeeded: false,
		Message:   fmt.Sprintf("failed to change rank: %d - %s", resp.StatusCode, strings.TrimSpace(string(body))),
	}
}

func (c *Client) setAuthHeaders(req *http.Request, csrfToken string) {
	req.Header.Set("Cookie", ".ROBLOSECURITY="+c.cookie)
	req.Header.Set("User-Agent", userAgent)
	if csrfToken != "" {
		req.Header.Set("X-CSRF-TOKEN", csrfToken)
	}
}
