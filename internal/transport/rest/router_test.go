package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"soulsprint/internal/cache"
	"soulsprint/internal/config"
	"soulsprint/internal/logger"
	"soulsprint/internal/model"
	"soulsprint/internal/repository"
	"soulsprint/internal/risk"
	"soulsprint/internal/routing"
	"soulsprint/internal/service"
	"soulsprint/internal/session"
	"soulsprint/internal/signal"
	"soulsprint/internal/transport/ws"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.NewNop()
	engineCfg := config.DefaultEngineConfig()
	appCfg := &config.AppConfig{
		JWTSecret:     "test-secret",
		StaffUsername: "staff",
		StaffPassword: "pw",
		SessionTTL:    time.Hour,
	}

	engine := service.NewEngineService(
		session.NewHolder(session.NewMemoryStore()),
		risk.NewClassifier(engineCfg),
		signal.NewKeywordExtractor(engineCfg.Signal),
		service.NewChatService(nil, nil, 10),
		routing.NewRouter(engineCfg),
		repository.NewMemoryCompletionRepo(),
		cache.NewMemoryEscalationCache(),
		log,
		time.Second,
	)
	hub := ws.NewHub(log)
	engine.SetBroadcaster(hub)

	srv := httptest.NewServer(NewRouter(&Container{
		AuthService:    service.NewAuthService(appCfg),
		EngineService:  engine,
		WSHub:          hub,
		Logger:         log,
		RequestTimeout: 5 * time.Second,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func startSession(t *testing.T, srv *httptest.Server) (string, string) {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["sessionId"].(string), body["token"].(string)
}

func TestHealthAndQuestionnaire(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, body = do(t, srv, http.MethodGet, "/v1/questionnaire", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["questions"], model.QuestionCount)
	assert.Len(t, body["options"], 4)
}

func TestQuestionnaireFlow(t *testing.T) {
	srv := newTestServer(t)
	id, token := startSession(t, srv)
	base := "/v1/sessions/" + id

	resp, body := do(t, srv, http.MethodGet, base+"/assessment", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "AssessmentNotReady", body["code"])

	resp, body = do(t, srv, http.MethodPost, base+"/answers", token, map[string]int{"value": 4})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "InvalidAnswerValue", body["code"])

	resp, _ = do(t, srv, http.MethodPost, base+"/answers", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, v := range []int{3, 3, 3, 2, 2, 2, 1} {
		resp, body = do(t, srv, http.MethodPost, base+"/answers", token, map[string]int{"value": v})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, string(model.SessionAssessed), body["status"])

	resp, body = do(t, srv, http.MethodGet, base+"/assessment", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(16), body["score"])
	assert.Equal(t, "high", body["tier"])

	resp, body = do(t, srv, http.MethodGet, base+"/tasks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["escalated"])
	assert.Equal(t, string(model.ActionProfessionalHelp), body["action"])

	resp, body = do(t, srv, http.MethodPost, base+"/answers", token, map[string]int{"value": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "AssessmentComplete", body["code"])

	resp, body = do(t, srv, http.MethodPost, base+"/reset", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(model.SessionNotStarted), body["status"])
}

func TestChatEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id, token := startSession(t, srv)
	base := "/v1/sessions/" + id

	resp, body := do(t, srv, http.MethodPost, base+"/chat", token, map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EmptyMessage", body["code"])

	resp, body = do(t, srv, http.MethodPost, base+"/chat", token, map[string]string{"message": "I feel so stressed and anxious, totally overwhelmed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["reply"])
	sig := body["signal"].(map[string]interface{})
	assert.Equal(t, "low", sig["level"])

	resp, body = do(t, srv, http.MethodGet, base+"/chat", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["transcript"], 2)
}

func TestTaskCompletionEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id, token := startSession(t, srv)
	base := "/v1/sessions/" + id

	resp, body := do(t, srv, http.MethodPost, base+"/tasks/unicycling/complete", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UnknownTask", body["code"])

	resp, _ = do(t, srv, http.MethodPost, fmt.Sprintf("%s/tasks/%s/complete", base, model.TaskNatureWalk), token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, base+"/progress", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["tasksToday"])
	assert.Equal(t, float64(1), body["completedToday"])
	assert.Equal(t, float64(33), body["percent"])
	assert.Equal(t, float64(20), body["xpToday"])
	assert.Equal(t, float64(1), body["currentStreak"])
}

func TestSessionAuth(t *testing.T) {
	srv := newTestServer(t)
	id, token := startSession(t, srv)
	otherID, _ := startSession(t, srv)

	resp, _ := do(t, srv, http.MethodGet, "/v1/sessions/"+id, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/v1/sessions/"+id, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/v1/sessions/"+otherID, token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := do(t, srv, http.MethodGet, "/v1/sessions/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["id"])

	resp, _ = do(t, srv, http.MethodDelete, "/v1/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/v1/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SessionNotFound", body["code"])
}

func TestStaffEscalations(t *testing.T) {
	srv := newTestServer(t)
	id, token := startSession(t, srv)

	resp, _ := do(t, srv, http.MethodPost, "/v1/sessions/"+id+"/chat", token, map[string]string{"message": "i want to die"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/v1/escalations", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "session token is not a staff token")

	resp, body := do(t, srv, http.MethodPost, "/v1/auth/login", "", model.LoginRequest{Username: "staff", Password: "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	staffToken := body["token"].(string)

	resp, body = do(t, srv, http.MethodGet, "/v1/escalations", staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := body["escalations"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].(map[string]interface{})["sessionId"])

	resp, _ = do(t, srv, http.MethodGet, "/v1/escalations?limit=zero", staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
