package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/DreamLogger/internal/auth"
	"github.com/Corphon/DreamLogger/internal/config"
	"github.com/Corphon/DreamLogger/internal/dream"
	apperrors "github.com/Corphon/DreamLogger/internal/errors"
	"github.com/Corphon/DreamLogger/internal/models"
	"github.com/Corphon/DreamLogger/internal/services"
	"github.com/Corphon/DreamLogger/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	store   *storage.DreamStore
	hub     *DreamHub
	limiter *RateLimiter
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		StaticDir:            filepath.Join(dir, "static"),
		DBPath:               filepath.Join(dir, "dreams.db"),
		PlaceholderImage:     "https://picsum.photos/400/300",
		TextTimeout:          time.Second,
		ImageTimeout:         time.Second,
		SessionTTL:           time.Hour,
		AnalyzeRatePerMinute: 60,
		AnalyzeBurst:         10,
	}
}

func testSessions() *SessionManager {
	return NewSessionManager(&auth.TokenConfig{Secret: []byte("test-secret"), Expiration: time.Hour}, false)
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	store, err := storage.OpenDreamStore(context.Background(), cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	images, err := storage.NewFileStorage(filepath.Join(cfg.StaticDir, "generated"), "/static/generated")
	require.NoError(t, err)

	analyzer := services.NewAnalyzerService(nil, dream.NewComposer(dream.NewSeededSource(1)))
	imageService := services.NewImageService(cfg, images, dream.NewSeededSource(1))
	dreamService := services.NewDreamService(analyzer, imageService, store)
	hub := NewDreamHub()
	dreamService.SetNotifier(hub)

	limiter := NewRateLimiter(cfg.AnalyzeRatePerMinute, cfg.AnalyzeBurst)
	t.Cleanup(limiter.Stop)

	handler := NewHandler(dreamService, services.NewUserService(store), testSessions(), hub, store, nil)
	router, err := SetupRouter(cfg, handler, limiter)
	require.NoError(t, err)

	return &testServer{router: router, store: store, hub: hub, limiter: limiter}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, s.router, method, path, body, cookie)
}

func serve(t *testing.T, router http.Handler, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookieName)
	return nil
}

func (s *testServer) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	w := s.do(t, http.MethodPost, "/login", gin.H{"username": username}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLogin_CreatesThenResumes(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	w := s.do(t, http.MethodPost, "/login", gin.H{"username": "  alice "}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "alice", resp.Username)
	assert.True(t, resp.Created)

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	w = s.do(t, http.MethodPost, "/login", gin.H{"username": "alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Created)
}

func TestLogin_Validation(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	tests := []struct {
		body    interface{}
		message string
	}{
		{gin.H{"username": ""}, "Username is required"},
		{gin.H{"username": "   "}, "Username is required"},
		{gin.H{"username": "ab"}, "Username must be at least 3 characters"},
		{"not json", msgInvalidBody},
	}

	for _, tt := range tests {
		w := s.do(t, http.MethodPost, "/login", tt.body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, tt.message, decodeError(t, w).Error)
		assert.Empty(t, w.Result().Cookies())
	}
}

func TestJSONRoutes_RequireSession(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/dreams"},
		{http.MethodPost, "/analyze"},
		{http.MethodGet, "/ws/dreams"},
	} {
		w := s.do(t, tc.method, tc.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		resp := decodeError(t, w)
		assert.Equal(t, msgAuthRequired, resp.Error)
		assert.Equal(t, ErrorUnauthorized, resp.Code)
	}
}

func TestInvalidCookieIsIgnored(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	w := s.do(t, http.MethodGet, "/dreams", nil, &http.Cookie{Name: SessionCookieName, Value: "forged.token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyze_EmptyDream(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	cookie := s.login(t, "alice")

	for _, text := range []string{"", "   "} {
		w := s.do(t, http.MethodPost, "/analyze", gin.H{"dream": text}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "No dream text provided", resp.Error)
		assert.Equal(t, ErrorEmptyDream, resp.Code)
	}
}

func TestAnalyze_SavesAndLists(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	cookie := s.login(t, "alice")

	w := s.do(t, http.MethodPost, "/analyze", gin.H{"dream": "a peaceful garden by the water"}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var analyzed models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analyzed))
	assert.NotZero(t, analyzed.ID)
	assert.Equal(t, dream.MoodCalm, analyzed.Mood)
	assert.True(t, strings.HasPrefix(analyzed.Interpretation, dream.FallbackInterpretation+dream.SceneHeader))
	assert.Regexp(t, `^https://picsum\.photos/400/300\?random=\d+$`, analyzed.Image)

	w = s.do(t, http.MethodPost, "/analyze", gin.H{"dream": "falling into the dark"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/dreams", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.DreamEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "falling into the dark", entries[0].DreamText)
	assert.Equal(t, dream.MoodAnxious, entries[0].Mood)
	assert.Equal(t, analyzed.ID, entries[1].ID)
	assert.Equal(t, analyzed.Image, entries[1].ImageURL)
	assert.Equal(t, analyzed.CreatedAt, entries[1].CreatedAt)
}

func TestDreams_AreScopedToUser(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	alice := s.login(t, "alice")
	bob := s.login(t, "bobby")

	w := s.do(t, http.MethodPost, "/analyze", gin.H{"dream": "flying"}, alice)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/dreams", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAnalyze_RateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.AnalyzeRatePerMinute = 1
	cfg.AnalyzeBurst = 1
	s := newTestServer(t, cfg)
	cookie := s.login(t, "alice")

	w := s.do(t, http.MethodPost, "/analyze", gin.H{"dream": "one"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/analyze", gin.H{"dream": "two"}, cookie)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ErrorRateLimited, decodeError(t, w).Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// other users have their own bucket
	other := s.login(t, "bobby")
	w = s.do(t, http.MethodPost, "/analyze", gin.H{"dream": "three"}, other)
	assert.Equal(t, http.StatusOK, w.Code)
}

type brokenJournal struct{}

func (brokenJournal) Submit(context.Context, string, string) (*models.Dream, error) {
	return nil, apperrors.NewProcessingError("Analysis failed, please try again", errors.New("database is locked"))
}

func (brokenJournal) History(context.Context, string) ([]models.Dream, error) {
	return nil, apperrors.NewProcessingError("list dreams", errors.New("database is locked"))
}

type staticUsers struct{}

func (staticUsers) Login(_ context.Context, username string) (*models.User, bool, error) {
	return &models.User{ID: 1, Username: username}, false, nil
}

func TestPersistenceFailures(t *testing.T) {
	cfg := testConfig(t)
	limiter := NewRateLimiter(60, 10)
	defer limiter.Stop()

	handler := NewHandler(brokenJournal{}, staticUsers{}, testSessions(), nil, nil, nil)
	router, err := SetupRouter(cfg, handler, limiter)
	require.NoError(t, err)

	w := serve(t, router, http.MethodPost, "/login", gin.H{"username": "alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = serve(t, router, http.MethodPost, "/analyze", gin.H{"dream": "flying"}, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Analysis failed, please try again", resp.Error)
	assert.Equal(t, ErrorAnalysisFailed, resp.Code)
	assert.NotContains(t, w.Body.String(), "locked")

	w = serve(t, router, http.MethodGet, "/dreams", nil, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgHistoryFailed, decodeError(t, w).Error)
}

func TestPages(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	w := s.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pick a username")

	w = s.do(t, http.MethodGet, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookie := s.login(t, "alice")

	w = s.do(t, http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice's dream journal")

	w = s.do(t, http.MethodGet, "/dashboard", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/login", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pick a username")
}

func TestLogout(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	cookie := s.login(t, "alice")

	w := s.do(t, http.MethodGet, "/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	w := s.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "ok", health["database"])
	assert.Equal(t, false, health["text_provider"])

	w = s.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dreamlogger_http_requests_total")
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	w := s.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	w := s.do(t, http.MethodOptions, "/analyze", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	w := s.do(t, http.MethodGet, "/etc/passwd", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorNotFound, decodeError(t, w).Code)
}

func TestAnalyze_SavedWhenClientGoesAway(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	cookie := s.login(t, "alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"dream":"a peaceful garden"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	n, err := s.store.CountDreams(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSessionCookie_SecureFlag(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	w := s.do(t, http.MethodPost, "/login", gin.H{"username": "alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, sessionCookie(t, w).Secure, "plain http must get a cookie the browser sends back")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sessionCookie(t, w).Secure)
}
