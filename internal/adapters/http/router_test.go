package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Chat/internal/app"
	"github.com/dkeye/Chat/internal/app/orch"
	"github.com/dkeye/Chat/internal/config"
	"github.com/dkeye/Chat/internal/core/coretest"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	srv  *httptest.Server
	orch *orch.Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>chat</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "main.js"), []byte("// client"), 0o644))
	return newHarnessWithStatic(t, static)
}

func newHarnessWithStatic(t *testing.T, static string) *harness {
	t.Helper()
	cfg := &config.Config{
		Mode:        "test",
		StaticPath:  static,
		DefaultRoom: "general",
		ReadLimit:   4096,
		PingPeriod:  time.Second,
		SendBuffer:  32,
		Secret:      "test-secret",
	}
	ctx, cancel := context.WithCancel(context.Background())
	o := orch.New(app.NewRegistry(), "general")
	srv := httptest.NewServer(SetupRouter(ctx, cfg, o))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &harness{srv: srv, orch: o}
}

func (h *harness) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(h.srv.URL, "http") + path
	ws, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func write(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(v))
}

func read(t *testing.T, ws *websocket.Conn) coretest.Record {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var r coretest.Record
	require.NoError(t, ws.ReadJSON(&r))
	return r
}

func noClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestIndexRewritesToDefaultRoom(t *testing.T) {
	h := newHarness(t)
	resp, err := noClient().Get(h.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?general", resp.Header.Get("Location"))
}

func TestIndexRemembersLastRoom(t *testing.T) {
	h := newHarness(t)
	client := noClient()

	resp, err := client.Get(h.srv.URL + "/?lobby")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "chat")

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "ChatSessions" {
			session = c
		}
	}
	require.NotNil(t, session, "session cookie set")
	assert.False(t, session.Secure, "plain http must get the cookie back")
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.True(t, session.HttpOnly)

	resp, err = client.Get(h.srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/?lobby", resp.Header.Get("Location"))
}

func TestStaticAssetsServedFromRoot(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.srv.URL + "/main.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestShippedClientIsServed(t *testing.T) {
	h := newHarnessWithStatic(t, filepath.Join("..", "..", "..", "public"))

	for _, path := range []string{"/?general", "/main.js", "/style.css"} {
		resp, err := http.Get(h.srv.URL + path)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, body, path)
	}

	resp, err := http.Get(h.srv.URL + "/?general")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "main.js")
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatOverWebsocket(t *testing.T) {
	h := newHarness(t)

	alice := h.dial(t, "/ws")
	write(t, alice, map[string]string{"cmd": "join", "channel": "r", "nick": "alice"})
	assert.Equal(t, coretest.Record{Cmd: "online", Nicks: []string{"alice"}}, read(t, alice))
	assert.Equal(t, coretest.Record{Cmd: "info", Text: "alice has joined the channel."}, read(t, alice))

	bob := h.dial(t, "/ws")
	write(t, bob, map[string]string{"cmd": "join", "channel": "r", "nick": "bob"})
	for _, ws := range []*websocket.Conn{alice, bob} {
		assert.Equal(t, coretest.Record{Cmd: "online", Nicks: []string{"alice", "bob"}}, read(t, ws))
		assert.Equal(t, coretest.Record{Cmd: "info", Text: "bob has joined the channel."}, read(t, ws))
	}

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("garbage")))
	write(t, alice, map[string]string{"cmd": "chat", "text": "hello"})
	want := coretest.Record{Cmd: "chat", Nick: "alice", Text: "hello"}
	assert.Equal(t, want, read(t, bob))
	assert.Equal(t, want, read(t, alice))

	write(t, bob, map[string]string{"cmd": "chat", "text": "/w alice psst"})
	assert.Equal(t, coretest.Record{Cmd: "whisper", From: "bob", To: "alice", Text: "psst"}, read(t, alice))
	assert.Equal(t, coretest.Record{Cmd: "whisper", From: "You", To: "alice", Text: "psst"}, read(t, bob))

	require.NoError(t, alice.Close())
	assert.Equal(t, coretest.Record{Cmd: "info", Text: "alice has left the channel."}, read(t, bob))
	assert.Equal(t, coretest.Record{Cmd: "online", Nicks: []string{"bob"}}, read(t, bob))
}

func TestUpgradeOnRootUsesQueryRoom(t *testing.T) {
	h := newHarness(t)

	ws := h.dial(t, "/?lobby")
	write(t, ws, map[string]string{"cmd": "join", "nick": "solo"})
	assert.Equal(t, coretest.Record{Cmd: "online", Nicks: []string{"solo"}}, read(t, ws))
	assert.Equal(t, []string{"solo"}, h.orch.Registry.MembersOf("lobby"))
}

func TestRoomsAPI(t *testing.T) {
	h := newHarness(t)

	ws := h.dial(t, "/ws?channel=lobby")
	write(t, ws, map[string]string{"cmd": "join", "nick": "solo"})
	read(t, ws)
	read(t, ws)

	resp, err := http.Get(h.srv.URL + "/api/rooms")
	require.NoError(t, err)
	var rooms struct {
		Rooms []struct {
			Name  string `json:"name"`
			Count int    `json:"client_count"`
		} `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rooms))
	resp.Body.Close()
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, "lobby", rooms.Rooms[0].Name)
	assert.Equal(t, 1, rooms.Rooms[0].Count)

	resp, err = http.Get(h.srv.URL + "/api/rooms/nowhere/members")
	require.NoError(t, err)
	var members struct {
		Nicks []string `json:"nicks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&members))
	resp.Body.Close()
	assert.Empty(t, members.Nicks)
	assert.False(t, h.orch.Registry.Has("nowhere"))
}

func TestLastDisconnectDropsRoom(t *testing.T) {
	h := newHarness(t)

	ws := h.dial(t, "/ws")
	write(t, ws, map[string]string{"cmd": "join", "channel": "tmp", "nick": "x"})
	read(t, ws)
	read(t, ws)
	require.NoError(t, ws.Close())

	require.Eventually(t, func() bool {
		return !h.orch.Registry.Has("tmp")
	}, 2*time.Second, 10*time.Millisecond)
}
