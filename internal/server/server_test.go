package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/collabhub/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		AllowedOrigins:         []string{"http://localhost:3000"},
		StoreDriver:            config.StoreMemory,
		CloudinaryUploadFolder: "collab_projects",
	}
}

func newTestEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	return NewServer(cfg, NewMemoryRepositories(), nil, nil, nil).Engine()
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createUser(t *testing.T, engine *gin.Engine, name string, interests ...string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/users", map[string]any{
		"username":  name,
		"email":     name + "@example.com",
		"interests": interests,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](t, w)["id"].(string)
}

func createProject(t *testing.T, engine *gin.Engine, ownerID, title, category string) map[string]any {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/projects", map[string]any{
		"title":       title,
		"description": "A project about " + title,
		"category":    category,
		"createdBy":   ownerID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}

func TestSystemRoutes(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	w := doJSON(t, engine, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Collaborative Project Management Backend Running", decode[map[string]string](t, w)["message"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = doJSON(t, engine, http.MethodGet, "/schema", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"collections":["user","project","chatmessage","collaborationrequest"]}`, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	status := decode[map[string]any](t, w)
	assert.Equal(t, "running", status["backend"])
	assert.Equal(t, "memory", status["database_driver"])
	assert.Equal(t, "connected", status["connection_status"])

	w = doJSON(t, engine, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestUserRoutes(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	id := createUser(t, engine, "ana", "AI")
	assert.Equal(t, id, createUser(t, engine, "ana"), "login by the same email keeps the user")

	w := doJSON(t, engine, http.MethodGet, "/api/users/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[map[string]any](t, w)
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, false, user["emailVerified"])
	assert.NotContains(t, user, "_id")

	w = doJSON(t, engine, http.MethodPost, "/api/users/"+id+"/verify_email", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"verified"}`, w.Body.String())

	w = doJSON(t, engine, http.MethodPut, "/api/users/"+id, map[string]any{
		"username": "ana-renamed",
		"email":    "ana@example.com",
		"role":     "working",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ana-renamed", decode[map[string]any](t, w)["username"])

	w = doJSON(t, engine, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestUserRoutes_Errors(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"malformed id", http.MethodGet, "/api/users/not-an-id", nil, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/users/" + bson.NewObjectID().Hex(), nil, http.StatusNotFound},
		{"missing email", http.MethodPost, "/api/users", map[string]any{"username": "x"}, http.StatusBadRequest},
		{"bad role", http.MethodPost, "/api/users", map[string]any{"username": "x", "email": "x@example.com", "role": "boss"}, http.StatusBadRequest},
		{"update unknown", http.MethodPut, "/api/users/" + bson.NewObjectID().Hex(), map[string]any{"username": "x", "email": "x@example.com"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, engine, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, decode[map[string]any](t, w), "error")
		})
	}
}

func TestProjectLifecycle(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	owner := createUser(t, engine, "owner")
	guest := createUser(t, engine, "guest")

	project := createProject(t, engine, owner, "Robot arm", "Hardware")
	projectID := project["id"].(string)
	assert.Equal(t, "solo", project["type"])
	assert.Equal(t, []any{owner}, project["members"])
	assert.Equal(t, []any{}, project["tags"])

	w := doJSON(t, engine, http.MethodPost, "/api/projects/"+projectID+"/join?userId="+guest, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"joined":true}`, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/projects/"+projectID+"/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	w = doJSON(t, engine, http.MethodPost, "/api/projects/"+projectID+"/leave?userId="+guest, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"left":true}`, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/projects/"+projectID+"/join", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "userId is required")

	w = doJSON(t, engine, http.MethodGet, "/api/projects?category=hardware", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = doJSON(t, engine, http.MethodDelete, "/api/projects/"+projectID+"?userId="+guest, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/api/projects/"+projectID+"?userId="+owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":true}`, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/projects/"+projectID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatAndCollaboration(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	owner := createUser(t, engine, "owner")
	guest := createUser(t, engine, "guest")
	projectID := createProject(t, engine, owner, "Garden sensors", "IoT")["id"].(string)

	w := doJSON(t, engine, http.MethodPost, "/api/projects/"+projectID+"/chat", map[string]any{
		"senderId": guest,
		"content":  "Can I help with wiring?",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/projects/"+projectID+"/chat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	messages := decode[[]map[string]any](t, w)
	require.Len(t, messages, 2)
	assert.Equal(t, guest, messages[0]["senderId"])
	assert.Equal(t, "sim-bot", messages[1]["senderId"])

	w = doJSON(t, engine, http.MethodPost, "/api/projects/"+projectID+"/requests", map[string]any{"senderUserId": guest})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	request := decode[map[string]any](t, w)
	assert.Equal(t, "pending", request["status"])

	w = doJSON(t, engine, http.MethodPost, "/api/projects/"+projectID+"/requests", map[string]any{"senderUserId": guest})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, request["id"], decode[map[string]any](t, w)["id"], "pending request is reused")

	w = doJSON(t, engine, http.MethodPost, "/api/requests/"+request["id"].(string)+"/respond", map[string]any{"decision": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/requests/"+request["id"].(string)+"/respond", map[string]any{"decision": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"accepted"}`, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []any{owner, guest}, decode[map[string]any](t, w)["members"])

	w = doJSON(t, engine, http.MethodGet, "/api/projects/"+projectID+"/requests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = doJSON(t, engine, http.MethodDelete, "/api/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/projects/"+projectID+"/chat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]map[string]any](t, w))
}

func TestRecommendationsAndSearch(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	owner := createUser(t, engine, "owner", "AI")
	createProject(t, engine, owner, "Chatbot tutor", "AI")
	createProject(t, engine, owner, "Bird feeder", "Woodwork")

	w := doJSON(t, engine, http.MethodGet, "/api/recommendations/"+owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recommended := decode[[]map[string]any](t, w)
	require.Len(t, recommended, 1)
	assert.Equal(t, "Chatbot tutor", recommended[0]["title"])

	w = doJSON(t, engine, http.MethodGet, "/api/recommendations/"+bson.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/search/projects?q=feeder", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]map[string]any](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "Bird feeder", found[0]["title"])
}

func TestSeed(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	w := doJSON(t, engine, http.MethodPost, "/api/seed", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[map[string]any](t, w)
	assert.Equal(t, true, result["seeded"])
	assert.GreaterOrEqual(t, result["users"].(float64), float64(5))
	assert.GreaterOrEqual(t, result["projects"].(float64), float64(5))
}

func TestUpload_DisabledWithoutStorage(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "diagram.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestIPRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitIPRPS = 0.001
	cfg.RateLimitIPBurst = 1
	engine := newTestEngine(t, cfg)

	first := doJSON(t, engine, http.MethodGet, "/api/projects", nil)
	second := doJSON(t, engine, http.MethodGet, "/api/projects", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
