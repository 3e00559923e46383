package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"friendgraph-api/config"
	"friendgraph-api/metrics"
	"friendgraph-api/middleware"
	"friendgraph-api/models"
	"friendgraph-api/repositories"
	"friendgraph-api/services"
	"friendgraph-api/utils"
)

const secret = "routes-test-secret"

type envelope struct {
	OK      bool               `json:"ok"`
	Message string             `json:"message"`
	Data    json.RawMessage    `json:"data"`
	Error   *utils.ErrorDetail `json:"error"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repositories.NewMemoryStore()
	store.AddUser(models.User{ID: "1", Username: "alice", Email: "alice@example.com"})
	store.AddUser(models.User{ID: "2", Username: "bob", Email: "bob@example.com"})
	store.AddUser(models.User{ID: "3", Username: "carol", Email: "carol@example.com"})
	store.AddUser(models.User{ID: "4", Username: "dave", Email: "dave@example.com"})

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	cfg := &config.Config{Env: "test", JWTSecret: secret}

	svc := Services{
		Friends: services.NewFriendService(store, store, nil, m, zap.NewNop(), services.Pagination{DefaultLimit: 10, MaxLimit: 50}, time.Second),
		Stats:   services.NewStatsService(store, store),
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &testServer{t: t, router: NewRouter(ctx, cfg, svc, registry, zap.NewNop())}
}

func (s *testServer) do(method, path, userID string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := middleware.GenerateToken(secret, userID, time.Hour)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(http.MethodGet, "/api/v1/friends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.OK)
}

func TestFriendshipLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/v1/friends", "1", map[string]string{"friend_user_id": "2"})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.OK)
	assert.Equal(t, "Friend request sent successfully", env.Message)
	created := decode[models.Friendship](t, env.Data)
	assert.Equal(t, models.FriendshipStatusPending, created.Status)

	code, env = s.do(http.MethodPost, "/api/v1/friends", "1", map[string]string{"friend_user_id": "2"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Conflict", env.Error.Kind)

	code, env = s.do(http.MethodGet, "/api/v1/friends/requests?direction=incoming", "2", nil)
	require.Equal(t, http.StatusOK, code)
	incoming := decode[models.PagedResult[models.FriendshipWithUser]](t, env.Data)
	require.Len(t, incoming.Items, 1)
	assert.Equal(t, "alice", incoming.Items[0].Friend.Username)

	code, env = s.do(http.MethodPatch, "/api/v1/friends/"+created.ID, "3", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Forbidden", env.Error.Kind)

	code, env = s.do(http.MethodPatch, "/api/v1/friends/"+created.ID, "2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.FriendshipStatusConfirmed, decode[models.Friendship](t, env.Data).Status)

	code, env = s.do(http.MethodPatch, "/api/v1/friends/"+created.ID, "1", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "InvalidState", env.Error.Kind)

	code, env = s.do(http.MethodGet, "/api/v1/friends?limit=10&page=1", "1", nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[models.PagedResult[models.FriendshipWithUser]](t, env.Data)
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "bob", list.Items[0].Friend.Username)

	code, env = s.do(http.MethodGet, "/api/v1/stats", "4", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.Stats{
		Users:       models.UserStats{Total: 4},
		Friendships: models.FriendshipStats{Total: 1, AverageFriendshipsPerUser: 0.5},
	}, decode[models.Stats](t, env.Data))

	code, _ = s.do(http.MethodDelete, "/api/v1/friends/"+created.ID, "3", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodDelete, "/api/v1/friends/"+created.ID, "2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.ID, decode[models.Friendship](t, env.Data).ID)

	code, env = s.do(http.MethodDelete, "/api/v1/friends/"+created.ID, "1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NotFound", env.Error.Kind)

	code, env = s.do(http.MethodGet, "/api/v1/stats/friendships", "1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, decode[models.FriendshipStats](t, env.Data).Total)

	code, env = s.do(http.MethodGet, "/api/v1/stats/users", "1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(4), decode[models.UserStats](t, env.Data).Total)
}

func TestRequestValidationOverHTTP(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		kind   string
	}{
		{"missing friend id", http.MethodPost, "/api/v1/friends", map[string]string{}, http.StatusBadRequest, "InvalidRequest"},
		{"self request", http.MethodPost, "/api/v1/friends", map[string]string{"friend_user_id": "1"}, http.StatusBadRequest, "InvalidRequest"},
		{"unknown user", http.MethodPost, "/api/v1/friends", map[string]string{"friend_user_id": "404"}, http.StatusNotFound, "NotFound"},
		{"bad limit", http.MethodGet, "/api/v1/friends?limit=ten", nil, http.StatusBadRequest, "InvalidRequest"},
		{"bad direction", http.MethodGet, "/api/v1/friends/requests?direction=up", nil, http.StatusBadRequest, "InvalidRequest"},
		{"unknown friendship", http.MethodPatch, "/api/v1/friends/nope", nil, http.StatusNotFound, "NotFound"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := s.do(tc.method, tc.path, "1", tc.body)
			assert.Equal(t, tc.status, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.kind, env.Error.Kind)
			assert.Equal(t, env.Message, env.Error.Message)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/v1/friends", "1", map[string]string{"friend_user_id": "2"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `friendgraph_friendship_operations_total{operation="add_friend",outcome="ok"} 1`)
}
