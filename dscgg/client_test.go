package dscgg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL)}, opts...)
	client, err := NewClient("test-token", zerolog.Nop(), opts...)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}

func writeEnvelope(w http.ResponseWriter, status int, code string, payload any) {
	raw, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": status >= 200 && status < 300,
		"code":    code,
		"payload": json.RawMessage(raw),
	})
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("missing token", func(t *testing.T) {
		_, err := NewClient("", logger)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient("test-token", logger)
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, client.baseURL)
		assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
		assert.False(t, client.strict)
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("test-token", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("test-token", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})

	t.Run("with strict errors", func(t *testing.T) {
		client, err := NewClient("test-token", logger, WithStrictErrors())
		require.NoError(t, err)
		assert.True(t, client.strict)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		client, err := NewClient("test-token", logger, WithBaseURL("https://api.dsc.gg/v2/"))
		require.NoError(t, err)
		assert.Equal(t, "https://api.dsc.gg/v2", client.baseURL)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/user/123", r.URL.Path)
			assert.Equal(t, "test-token", r.Header.Get("Authorization"))
			writeEnvelope(w, http.StatusOK, "payload_received", map[string]any{
				"id":        "123",
				"premium":   true,
				"verified":  false,
				"joined_at": "1609459200000",
			})
		})

		user, err := client.GetUser(context.Background(), 123)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(123), user.ID.Int64())
		assert.True(t, user.Premium)
		assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), user.JoinedAt.Time)
	})

	t.Run("not found is absent, lenient", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, "not_found", nil)
		})

		user, err := client.GetUser(context.Background(), 123)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("not found is absent, strict", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, "not_found", nil)
		}, WithStrictErrors())

		user, err := client.GetUser(context.Background(), 123)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("server fault swallowed when lenient", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusInternalServerError, "", nil)
		})

		user, err := client.GetUser(context.Background(), 123)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("server fault surfaces when strict", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusInternalServerError, "", nil)
		}, WithStrictErrors())

		_, err := client.GetUser(context.Background(), 123)
		assert.ErrorIs(t, err, ErrServiceFault)
	})

	t.Run("permission denied surfaces even when lenient", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusForbidden, "owner_blacklisted", nil)
		})

		_, err := client.GetUser(context.Background(), 123)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("rate limit always surfaces", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusTooManyRequests, "rate_limit", nil)
		})

		_, err := client.GetUser(context.Background(), 123)
		assert.ErrorIs(t, err, ErrRateLimited)
	})
}

func TestGetLink(t *testing.T) {
	t.Run("normalizes the slug before the request", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/link/statch", r.URL.Path)
			writeEnvelope(w, http.StatusOK, "payload_received", map[string]any{
				"id":         "statch",
				"owner":      97153790897,
				"redirect":   "discord.gg/statch",
				"type":       "server",
				"created_at": 1609459200000,
			})
		})

		link, err := client.GetLink(context.Background(), "https://dsc.gg/statch")
		require.NoError(t, err)
		require.NotNil(t, link)
		assert.Equal(t, "statch", link.ID)
		assert.Equal(t, LinkTypeServer, link.Type)
	})

	t.Run("not found is absent", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, "not_found", nil)
		})

		link, err := client.GetLink(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, link)
	})
}

func TestGetApp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/app/42", r.URL.Path)
		writeEnvelope(w, http.StatusOK, "payload_received", map[string]any{
			"id":         42,
			"owner_id":   "123",
			"created_at": 1609459200000,
			"verified":   true,
			"key":        "secret",
		})
	})

	app, err := client.GetApp(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, int64(42), app.ID.Int64())
	assert.Equal(t, "secret", app.Key)
}

func TestListEndpoints(t *testing.T) {
	t.Run("user links", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/user/123/links", r.URL.Path)
			writeEnvelope(w, http.StatusOK, "payload_received", []map[string]any{
				{"id": "one", "owner": 123, "redirect": "discord.gg/x", "type": "server", "created_at": 1609459200000},
				{"id": "two", "owner": 123, "redirect": "example.com/y", "type": "link", "created_at": 1609459200000},
			})
		})

		links, err := client.GetUserLinks(context.Background(), 123)
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "one", links[0].ID)
		assert.Equal(t, LinkTypeGeneric, links[1].Type)
	})

	t.Run("user links not found yields empty", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, "not_found", nil)
		})

		links, err := client.GetUserLinks(context.Background(), 123)
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("user apps", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/user/123/apps", r.URL.Path)
			writeEnvelope(w, http.StatusOK, "payload_received", []map[string]any{
				{"id": 42, "owner_id": 123, "created_at": 1609459200000, "verified": false},
			})
		})

		apps, err := client.GetUserApps(context.Background(), 123)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, int64(42), apps[0].ID.Int64())
	})

	t.Run("top links", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/top", r.URL.Path)
			writeEnvelope(w, http.StatusOK, "payload_received", []map[string]any{
				{"id": "first", "owner": 1, "redirect": "discord.gg/a", "type": "server", "created_at": 1609459200000},
			})
		})

		links, err := client.GetTopLinks(context.Background())
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "first", links[0].ID)
	})

	t.Run("rate limit surfaces on list reads", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusTooManyRequests, "rate_limit", nil)
		})

		_, err := client.GetTopLinks(context.Background())
		assert.ErrorIs(t, err, ErrRateLimited)
	})
}

func TestSearch(t *testing.T) {
	t.Run("builds query parameters", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			query := r.URL.Query()
			assert.Equal(t, "gaming", query.Get("q"))
			assert.Equal(t, "10", query.Get("limit"))
			assert.Equal(t, "server", query.Get("type"))
			writeEnvelope(w, http.StatusOK, "payload_received", []map[string]any{})
		})

		_, err := client.Search(context.Background(), "gaming", &SearchOptions{Limit: 10, Type: "SERVER"})
		require.NoError(t, err)
	})

	t.Run("invalid type is omitted", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			assert.False(t, query.Has("type"))
			assert.False(t, query.Has("limit"))
			writeEnvelope(w, http.StatusOK, "payload_received", []map[string]any{})
		})

		_, err := client.Search(context.Background(), "gaming", &SearchOptions{Type: "website"})
		require.NoError(t, err)
	})

	t.Run("not found yields empty", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, "not_found", nil)
		})

		links, err := client.Search(context.Background(), "nothing", nil)
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("other failures surface even when lenient", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusInternalServerError, "", nil)
		})

		_, err := client.Search(context.Background(), "gaming", nil)
		assert.ErrorIs(t, err, ErrServiceFault)
	})
}

func TestCreateLink(t *testing.T) {
	t.Run("builds the request body", func(t *testing.T) {
		color := ColorTeal
		var body map[string]any

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/link/mylink", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeEnvelope(w, http.StatusCreated, "link_created", nil)
		})

		status, err := client.CreateLink(context.Background(), "dsc.gg/mylink", "https://discord.gg/abc", &LinkOptions{
			Embed: &Embed{
				Title:       "My Server",
				Description: "Come hang out",
				Color:       &color,
			},
			Password: "hunter2",
			Unlisted: true,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, status)

		assert.Equal(t, "server", body["type"])
		assert.Equal(t, "discord.gg/abc", body["redirect"])
		assert.Equal(t, "My Server", body["meta_title"])
		assert.Equal(t, "Come hang out", body["meta_description"])
		assert.Equal(t, "#1abc9c", body["meta_color"])
		assert.Equal(t, "hunter2", body["password"])
		assert.Equal(t, true, body["unlisted"])
	})

	t.Run("minimal body omits optional fields", func(t *testing.T) {
		var body map[string]any

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeEnvelope(w, http.StatusCreated, "link_created", nil)
		})

		_, err := client.CreateLink(context.Background(), "mylink", "example.com/page", nil)
		require.NoError(t, err)

		assert.Equal(t, "link", body["type"])
		assert.Equal(t, "example.com/page", body["redirect"])
		assert.NotContains(t, body, "meta_title")
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "unlisted")
	})

	t.Run("empty slug fails before any request", func(t *testing.T) {
		var requests int
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			requests++
			writeEnvelope(w, http.StatusCreated, "link_created", nil)
		})

		_, err := client.CreateLink(context.Background(), "", "example.com/page", nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = client.CreateLink(context.Background(), "mylink", "", nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Zero(t, requests)
	})

	t.Run("failures surface even when lenient", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusBadRequest, "link_taken", nil)
		})

		status, err := client.CreateLink(context.Background(), "taken", "example.com/page", nil)
		assert.ErrorIs(t, err, ErrMalformedRequest)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestUpdateLink(t *testing.T) {
	t.Run("reclassifies a new redirect", func(t *testing.T) {
		var body map[string]any

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/link/mylink", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeEnvelope(w, http.StatusOK, "link_updated", nil)
		})

		status, err := client.UpdateLink(context.Background(), "mylink", &UpdateOptions{
			Redirect: "https://discord.com/oauth2/xyz",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "bot", body["type"])
		assert.Equal(t, "discord.com/oauth2/xyz", body["redirect"])
	})

	t.Run("not found surfaces", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, "not_found", nil)
		})

		_, err := client.UpdateLink(context.Background(), "missing", &UpdateOptions{Redirect: "example.com/x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteLink(t *testing.T) {
	t.Run("deletes by normalized slug", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/link/mylink", r.URL.Path)
			writeEnvelope(w, http.StatusOK, "link_deleted", nil)
		})

		status, err := client.DeleteLink(context.Background(), "https://dsc.gg/mylink")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("rate limit surfaces", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusTooManyRequests, "rate_limit", nil)
		})

		_, err := client.DeleteLink(context.Background(), "mylink")
		assert.ErrorIs(t, err, ErrRateLimited)
	})
}

func TestNonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream unavailable"))
	}, WithStrictErrors())

	_, err := client.GetUser(context.Background(), 123)
	require.ErrorIs(t, err, ErrServiceUnavailable)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}
