package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startTestServer(t *testing.T, mutate func(*ServerConfig)) *Server {
	t.Helper()

	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	if mutate != nil {
		mutate(&cfg)
	}

	srv := NewServer(cfg, nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	return srv
}

func dialTestServer(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()

	url := fmt.Sprintf("ws://%s%s", srv.Addr(), srv.cfg.Path)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s failed: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForClients polls until the server reports the wanted count.
func waitForClients(t *testing.T, srv *Server, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if got := srv.Stats().Connected; got == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("connected = %d, want %d", srv.Stats().Connected, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_BindFailure(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.ListenAddr = "256.256.256.256:1"

	srv := NewServer(cfg, nil)
	if err := srv.Start(context.Background()); err == nil {
		t.Error("Start with unusable address should fail")
		srv.Stop(context.Background())
	}
}

func TestServer_RelayToOthers(t *testing.T) {
	srv := startTestServer(t, nil)

	x := dialTestServer(t, srv)
	y := dialTestServer(t, srv)
	z := dialTestServer(t, srv)
	waitForClients(t, srv, 3)

	if err := x.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Y and Z each receive exactly one "hello"
	for name, peer := range map[string]*websocket.Conn{"y": y, "z": z} {
		if got := readOne(t, peer); got != "hello" {
			t.Errorf("%s received %q, want %q", name, got, "hello")
		}
	}

	// X receives nothing from its own broadcast
	expectNothing(t, x)
}

func TestServer_DisconnectShrinksFanout(t *testing.T) {
	srv := startTestServer(t, nil)

	x := dialTestServer(t, srv)
	y := dialTestServer(t, srv)
	z := dialTestServer(t, srv)
	waitForClients(t, srv, 3)

	// X leaves; the reported count drops by exactly one
	x.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	x.Close()
	waitForClients(t, srv, 2)

	// A broadcast from Y now reaches only Z
	if err := y.WriteMessage(websocket.TextMessage, []byte("after")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if got := readOne(t, z); got != "after" {
		t.Errorf("z received %q, want %q", got, "after")
	}
}

func TestServer_ConcurrentSenders(t *testing.T) {
	srv := startTestServer(t, nil)

	x := dialTestServer(t, srv)
	y := dialTestServer(t, srv)
	z := dialTestServer(t, srv)
	waitForClients(t, srv, 3)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		y.WriteMessage(websocket.TextMessage, []byte("from-y"))
	}()
	go func() {
		defer wg.Done()
		z.WriteMessage(websocket.TextMessage, []byte("from-z"))
	}()
	wg.Wait()

	// X receives both messages, each intact; relative order between the
	// two senders is unconstrained.
	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		got[readOne(t, x)] = true
	}
	if !got["from-y"] || !got["from-z"] {
		t.Errorf("x received %v, want both %q and %q", got, "from-y", "from-z")
	}
}

func TestServer_PerOriginOrdering(t *testing.T) {
	srv := startTestServer(t, nil)

	a := dialTestServer(t, srv)
	b := dialTestServer(t, srv)
	waitForClients(t, srv, 2)

	for i := 1; i <= 5; i++ {
		msg := fmt.Sprintf("msg-%d", i)
		if err := a.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	for i := 1; i <= 5; i++ {
		want := fmt.Sprintf("msg-%d", i)
		if got := readOne(t, b); got != want {
			t.Fatalf("message %d: got %q, want %q", i, got, want)
		}
	}
}

func TestServer_MaxConns(t *testing.T) {
	srv := startTestServer(t, func(cfg *ServerConfig) {
		cfg.MaxConns = 1
	})

	dialTestServer(t, srv)
	waitForClients(t, srv, 1)

	url := fmt.Sprintf("ws://%s%s", srv.Addr(), srv.cfg.Path)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial beyond max_conns should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 response, got %+v", resp)
	}
}

func TestServer_Health(t *testing.T) {
	srv := startTestServer(t, nil)

	dialTestServer(t, srv)
	dialTestServer(t, srv)
	waitForClients(t, srv, 2)

	resp, err := http.Get(fmt.Sprintf("http://%s%s", srv.Addr(), srv.cfg.HealthPath))
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var health struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want %q", health.Status, "healthy")
	}
	if health.Clients != 2 {
		t.Errorf("clients = %d, want 2", health.Clients)
	}
}

func TestServer_StopTerminatesSessions(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"

	srv := NewServer(cfg, nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	conn := dialTestServer(t, srv)
	waitForClients(t, srv, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// The peer observes the close promptly
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected read to fail after server stop")
	}

	if got := srv.Stats().Connected; got != 0 {
		t.Errorf("connected after stop = %d, want 0", got)
	}
}

func TestServer_DoubleStart(t *testing.T) {
	srv := startTestServer(t, nil)

	if err := srv.Start(context.Background()); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
}
