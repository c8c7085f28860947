package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/message-board/internal/auth"
	"github.com/sakif/message-board/internal/config"
	"github.com/sakif/message-board/internal/model"
)

const testSecret = "server-test-secret-0123456789"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Port:        8000,
		DBPath:      ":memory:",
		JWTSecret:   testSecret,
		TokenTTL:    time.Hour,
		BcryptCost:  4,
		CORSOrigins: []string{"http://localhost:3000"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(cfg, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

// client keeps cookies between calls, like a browser would.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func call(t *testing.T, c *http.Client, method, url, body string) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// TestSessionFlow walks through a whole session: register, login, add, list,
// and the failure cases a client sees along the way.
func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)
	creds := `{"username":"alice","password":"secret1"}`

	code, body := call(t, c, http.MethodPost, ts.URL+"/register", creds)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Registered as alice", body["messages"])

	code, body = call(t, c, http.MethodPost, ts.URL+"/register", creds)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already Exists", body["error"])

	code, body = call(t, c, http.MethodPost, ts.URL+"/login", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Wrong password", body["error"])

	// Not logged in yet: the jar has no cookie.
	code, body = call(t, c, http.MethodGet, ts.URL+"/messages", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Please login!", body["error"])

	code, body = call(t, c, http.MethodPost, ts.URL+"/login", creds)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged in as alice", body["message"])

	code, body = call(t, c, http.MethodPost, ts.URL+"/add", `{"message":"buy milk","done":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Data Added!", body["message"])

	code, body = call(t, c, http.MethodGet, ts.URL+"/messages", "")
	require.Equal(t, http.StatusOK, code)
	list, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "buy milk", first["message"])
	assert.Equal(t, false, first["done"])

	code, _ = call(t, c, http.MethodPost, ts.URL+"/logout", "")
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, c, http.MethodGet, ts.URL+"/messages", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	code, body := call(t, http.DefaultClient, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestHello(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/hello/alice", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello alice!", string(b))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/add", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestNew_RejectsShortSecret(t *testing.T) {
	cfg := &config.Config{DBPath: ":memory:", JWTSecret: "short", TokenTTL: time.Hour}
	_, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

// Any token signed with the server secret opens a session, whether or not its
// user id is in the database.
func TestSignedTokenIsTrusted(t *testing.T) {
	ts := newTestServer(t)

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	token, err := tokens.Generate(model.Identity{UserID: 42, Username: "ghost"})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/messages", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"messages":[]}`, string(b))
}
