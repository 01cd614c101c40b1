package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	APIKey          string
	SessionCookie   string
	GroupID         int64
	UpstreamTimeout time.Duration

	// Override points for the Roblox API hosts; empty values mean the
	// production endpoints.
	UsersBaseURL  string
	GroupsBaseURL string
	AuthBaseURL   string
}

// FromEnv builds a Server config from environment variables so main stays
// lean. The session cookie and the shared-secret API key are required; the
// process must not start serving without them.
func FromEnv() (Server, error) {
	cookie := os.Getenv("ROBLOX_COOKIE")
	if cookie == "" {
		return Server{}, fmt.Errorf("ROBLOX_COOKIE environment variable is not set")
	}

	apiKey := os.Getenv("RANKGATE_API_KEY")
	if apiKey == "" {
		return Server{}, fmt.Errorf("RANKGATE_API_KEY environment variable is not set")
	}

	addr := os.Getenv("RANKGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	groupID := int64(9429240)
	if raw := os.Getenv("RANKGATE_GROUP_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return Server{}, fmt.Errorf("invalid RANKGATE_GROUP_ID %q", raw)
		}
		groupID = parsed
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("RANKGATE_UPSTREAM_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return Server{}, fmt.Errorf("invalid RANKGATE_UPSTREAM_TIMEOUT %q", raw)
		}
		timeout = parsed
	}

	return Server{
		Addr:            addr,
		APIKey:          apiKey,
		SessionCookie:   cookie,
		GroupID:         groupID,
		UpstreamTimeout: timeout,
		UsersBaseURL:    os.Getenv("RANKGATE_USERS_BASE_URL"),
		GroupsBaseURL:   os.Getenv("RANKGATE_GROUPS_BASE_URL"),
		AuthBaseURL:     os.Getenv("RANKGATE_AUTH_BASE_URL"),
	}, nil
}
