package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/chatkit/internal/config"
	"github.com/matheus3301/chatkit/internal/lock"
	"github.com/matheus3301/chatkit/internal/session"
	"github.com/matheus3301/chatkit/internal/status"
	"github.com/matheus3301/chatkit/internal/wire"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// testHome points CHATKIT_HOME at a short /tmp directory to stay under the
// 104-char Unix socket path limit on macOS.
func testHome(t *testing.T) {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "chatkit-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	t.Setenv("CHATKIT_HOME", dir)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.LogLevel = "error"
	cfg.CheckpointInterval = config.Duration{Duration: 50 * time.Millisecond}
	return cfg
}

func dial(t *testing.T, sessionName string) *wire.Client {
	t.Helper()
	conn, err := grpc.NewClient(
		"unix://"+session.SocketPath(sessionName),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return wire.NewClient(conn)
}

func TestDaemonLifecycle(t *testing.T) {
	testHome(t)
	p := Params{SessionName: "test", Config: testConfig()}

	app := fxtest.New(t, Module(p))
	app.RequireStart()

	c := dial(t, "test")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if st.Session != "test" {
		t.Errorf("session = %q, want test", st.Session)
	}
	if st.State != string(status.Ready) {
		t.Errorf("state = %s, want READY", st.State)
	}

	list, err := c.Conversations(ctx)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(list.Items) != 3 {
		t.Errorf("expected 3 seeded conversations, got %d", len(list.Items))
	}

	if _, ok, err := c.SendText(ctx, "d_1", "persist me"); err != nil || !ok {
		t.Fatalf("SendText() = %v, %v", ok, err)
	}

	if !lock.Held(session.Dir("test")) {
		t.Error("session lock not held while running")
	}

	app.RequireStop()

	if _, err := os.Stat(session.SocketPath("test")); !os.IsNotExist(err) {
		t.Errorf("socket not removed on stop: %v", err)
	}
	if lock.Held(session.Dir("test")) {
		t.Error("session lock still held after stop")
	}
}

// TestRestartRestoresState verifies the final checkpoint on stop and the
// restore path on the next start.
func TestRestartRestoresState(t *testing.T) {
	testHome(t)
	p := Params{SessionName: "restart", Config: testConfig()}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := fxtest.New(t, Module(p))
	first.RequireStart()
	c := dial(t, "restart")
	if _, _, err := c.Mutate(ctx, wire.MethodTogglePin, "g_2"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.DeleteConversation(ctx, "d_1"); err != nil {
		t.Fatal(err)
	}
	first.RequireStop()

	cfg := testConfig()
	cfg.SeedDemo = false
	second := fxtest.New(t, Module(Params{SessionName: "restart", Config: cfg}))
	second.RequireStart()
	defer second.RequireStop()

	c = dial(t, "restart")
	list, err := c.Conversations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 conversations after restart, got %d", len(list.Items))
	}
	pinned := 0
	for _, it := range list.Items {
		if it.ID == "d_1" {
			t.Error("deleted conversation came back after restart")
		}
		if it.Pinned {
			pinned++
		}
	}
	if pinned != 2 {
		t.Errorf("pinned = %d, want 2", pinned)
	}
}

func TestSecondDaemonRefusesLockedSession(t *testing.T) {
	testHome(t)

	lk, err := lock.Acquire(session.Dir("busy"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = lk.Release() }()

	app := fx.New(fx.NopLogger, Module(Params{SessionName: "busy", Config: testConfig()}))
	if app.Err() == nil {
		t.Fatal("expected startup error while another process holds the lock")
	}
}

// TestNewServerUsesSocketOverride guards the Params-based constructor: a
// bare string parameter cannot be resolved by fx.
func TestNewServerUsesSocketOverride(t *testing.T) {
	testHome(t)
	socketPath := filepath.Join(os.Getenv("CHATKIT_HOME"), "d.sock")

	p := Params{SessionName: "fxtest", SocketPath: socketPath}
	srv, err := NewServer(p, zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if _, statErr := os.Stat(socketPath); statErr != nil {
		t.Fatalf("socket not created at %s: %v", socketPath, statErr)
	}
	srv.Stop(context.Background())
	if _, statErr := os.Stat(socketPath); !os.IsNotExist(statErr) {
		t.Errorf("socket still present after Stop: %v", statErr)
	}
}
