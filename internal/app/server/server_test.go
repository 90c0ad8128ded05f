package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"
)

func TestServerServesHealthEndpoint(t *testing.T) {
	t.Setenv("GUILDFORGE_TREASURY_DB_PATH", filepath.Join(t.TempDir(), "treasury.db"))

	server, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx)
	}()

	url := fmt.Sprintf("http://%s/healthz", server.Addr())
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewWithAddrRejectsBadAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewWithAddr("256.0.0.1:99999"); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestLoadServerEnvDefaultsDBPath(t *testing.T) {
	t.Setenv("GUILDFORGE_TREASURY_DB_PATH", "")

	env := loadServerEnv()
	if env.DBPath != filepath.Join("data", "treasury.db") {
		t.Fatalf("db path = %q", env.DBPath)
	}
}
