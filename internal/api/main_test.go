package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fileport/internal/auth"
	"fileport/internal/config"
	"fileport/internal/database"
	"fileport/internal/models"
	"fileport/internal/session"
	"fileport/internal/storage"
	"fileport/internal/websocket"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 8, 24, 12, 19, 5, 0, time.UTC)

type testEnv struct {
	server  *Server
	handler http.Handler
	fs      afero.Fs
	users   *database.UserStore
}

type stubProvider struct{}

func (stubProvider) AuthorizeURL() string {
	return "https://auth.example.com/authc?app_id=app&redirect_uri=cb"
}

func (stubProvider) FetchIdentity(_ context.Context, code string) (*auth.Identity, error) {
	switch code {
	case "code-123":
		return &auth.Identity{UserID: "123", Nickname: "alice"}, nil
	case "code-456":
		return &auth.Identity{UserID: "456", Nickname: "bob"}, nil
	}
	return nil, auth.ErrAuthFailed
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			PublicURL:      "http://files.example.com/",
			CORSOrigins:    []string{"*"},
			MaxUploadBytes: 1 << 20,
		},
		Auth: config.AuthConfig{PostLoginRedirect: "/"},
		Session: config.SessionConfig{
			Secret:     "api_test_secret",
			TTL:        time.Hour,
			CookieName: "fileport_session",
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	users := database.NewUserStore(database.NewFileSnapshotter(fs, "/data/user.json"))
	require.NoError(t, users.LoadAll(context.Background()))

	root := storage.NewFromFs(afero.NewBasePathFs(fs, "/files"))
	require.NoError(t, fs.MkdirAll("/files", 0o755))

	sessions, err := session.NewManager(cfg.Session.TTL)
	require.NoError(t, err)

	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	svc := auth.NewService(stubProvider{}, users, nil, auth.ServiceConfig{DefaultQuota: config.DefaultQuotaBytes})
	srv := NewServer(cfg, users, root, svc, sessions, hub)
	srv.now = func() time.Time { return testNow }

	return &testEnv{server: srv, handler: srv.Routes(), fs: fs, users: users}
}

// login stores a user and returns a cookie for a fresh session bound to it.
func (e *testEnv) login(t *testing.T, userID string, limit, used int64) (*models.User, *http.Cookie) {
	t.Helper()
	return e.loginWithToken(t, userID, "token-"+userID, limit, used)
}

func (e *testEnv) loginWithToken(t *testing.T, userID, token string, limit, used int64) (*models.User, *http.Cookie) {
	t.Helper()
	user := &models.User{
		UserID:       userID,
		Username:     "user-" + userID,
		AccessToken:  token,
		LoginTime:    testNow,
		StorageLimit: limit,
		UsedStorage:  used,
	}
	require.NoError(t, e.users.Put(context.Background(), user))

	sess := e.server.sessions.Create(user, nil)
	signed, err := auth.GenerateJWT(sess, e.server.config.Session.Secret)
	require.NoError(t, err)

	return user, &http.Cookie{Name: e.server.config.Session.CookieName, Value: signed}
}

func (e *testEnv) writeFile(t *testing.T, rel string, data string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(e.fs, "/files"+rel, []byte(data), 0o644))
}

func (e *testEnv) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadRequest(t *testing.T, target, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, fields)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	return req
}
