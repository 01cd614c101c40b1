package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookie = "test-session-cookie"

func newTestClient(t *testing.T, users, groups, auth string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		SessionCookie: testCookie,
		UsersBaseURL:  users,
		GroupsBaseURL: groups,
		AuthBaseURL:   auth,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("requires session cookie", func(t *testing.T) {
		_, err := NewClient(Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session cookie")
	})
}

func TestFetchUser(t *testing.T) {
	t.Run("returns profile on 200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/users/100", r.URL.Path)
			_ = json.NewEncoder(w).Encode(UserProfile{ID: 100, Name: "TargetUser", DisplayName: "Target"})
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, "", "")
		profile, err := client.FetchUser(context.Background(), 100)
		require.NoError(t, err)
		assert.Equal(t, "TargetUser", profile.Name)
	})

	t.Run("404 is absence, not a transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, "", "")
		_, err := client.FetchUser(context.Background(), 999)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("other statuses are upstream failures", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, "", "")
		_, err := client.FetchUser(context.Background(), 100)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}

func TestFetchRank(t *testing.T) {
	rolesBody := func(groupID int64, rank int) string {
		return fmt.Sprintf(`{"data":[
			{"group":{"id":1234},"role":{"id":1,"name":"Member","rank":1}},
			{"group":{"id":%d},"role":{"id":7,"name":"Guard","rank":%d}}
		]}`, groupID, rank)
	}

	t.Run("returns rank for the requested group", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/users/100/groups/roles", r.URL.Path)
			_, _ = w.Write([]byte(rolesBody(9429240, 12)))
		}))
		defer srv.Close()

		client := newTestClient(t, "", srv.URL, "")
		rank, err := client.FetchRank(context.Background(), 100, 9429240)
		require.NoError(t, err)
		assert.Equal(t, 12, rank)
	})

	t.Run("returns zero when the user holds no role in the group", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(rolesBody(5555, 3)))
		}))
		defer srv.Close()

		client := newTestClient(t, "", srv.URL, "")
		rank, err := client.FetchRank(context.Background(), 100, 9429240)
		require.NoError(t, err)
		assert.Equal(t, 0, rank)
	})

	t.Run("returns zero alongside the error on lookup failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := newTestClient(t, "", srv.URL, "")
		rank, err := client.FetchRank(context.Background(), 100, 9429240)
		require.Error(t, err)
		assert.Equal(t, 0, rank)
	})
}

func TestObtainToken(t *testing.T) {
	t.Run("reads token from response header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v2/logout", r.URL.Path)
			assert.Contains(t, r.Header.Get("Cookie"), ".ROBLOSECURITY="+testCookie)
			w.Header().Set("x-csrf-token", "fresh-token")
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := newTestClient(t, "", "", srv.URL)
		token, err := client.ObtainToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
	})

	t.Run("missing header is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := newTestClient(t, "", "", srv.URL)
		_, err := client.ObtainToken(context.Background())
		require.Error(t, err)
	})
}

func TestApplyRank(t *testing.T) {
	newAuthServer := func(t *testing.T) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("x-csrf-token", "fresh-token")
		}))
	}

	t.Run("attaches a fresh token and reports success on 200", func(t *testing.T) {
		auth := newAuthServer(t)
		defer auth.Close()

		groups := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/v1/groups/9429240/users/100", r.URL.Path)
			assert.Equal(t, "fresh-token", r.Header.Get("X-CSRF-TOKEN"))
			assert.Contains(t, r.Header.Get("Cookie"), ".ROBLOSECURITY=")

			var body map[string]int64
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(5), body["roleId"])
		}))
		defer groups.Close()

		client := newTestClient(t, "", groups.URL, auth.URL)
		outcome := client.ApplyRank(context.Background(), 100, 9429240, 5)
		assert.True(t, outcome.Succeeded)
		assert.Equal(t, "user promoted successfully", outcome.Message)
	})

	t.Run("preserves the diagnostic text on non-success status", func(t *testing.T) {
		auth := newAuthServer(t)
		defer auth.Close()

		groups := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("Forbidden"))
		}))
		defer groups.Close()

		client := newTestClient(t, "", groups.URL, auth.URL)
		outcome := client.ApplyRank(context.Background(), 100, 9429240, 5)
		assert.False(t, outcome.Succeeded)
		assert.Contains(t, outcome.Message, "403")
		assert.Contains(t, outcome.Message, "Forbidden")
	})

	t.Run("fails fast when no token can be obtained", func(t *testing.T) {
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK) // no token header
		}))
		defer auth.Close()

		mutated := false
		groups := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mutated = true
		}))
		defer groups.Close()

		client := newTestClient(t, "", groups.URL, auth.URL)
		outcome := client.ApplyRank(context.Background(), 100, 9429240, 5)
		assert.False(t, outcome.Succeeded)
		assert.Contains(t, outcome.Message, "security token")
		assert.False(t, mutated, "mutating call must not happen without a token")
	})

	t.Run("bounded wait turns a hang into a failure outcome", func(t *testing.T) {
		auth := newAuthServer(t)
		defer auth.Close()

		groups := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer groups.Close()

		client, err := NewClient(Config{
			SessionCookie: testCookie,
			GroupsBaseURL: groups.URL,
			AuthBaseURL:   auth.URL,
			HTTPClient:    &http.Client{Timeout: 50 * time.Millisecond},
		})
		require.NoError(t, err)

		// The token call shares the timeout; either leg failing must
		// surface as a failure outcome, never a hang.
		outcome := client.ApplyRank(context.Background(), 100, 9429240, 5)
		assert.False(t, outcome.Succeeded)
		assert.NotEmpty(t, outcome.Message)
	})
}
