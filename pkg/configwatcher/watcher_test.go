package configwatcher

import (
	"context"
	"fmt"
	"great_awareness_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configTemplate = `server:
  mode: debug
jwt:
  secret: watcher-test-secret
storage:
  local_path: %s
rate_limit:
  max_requests: %d
  window_minutes: 1
`

func writeConfig(t *testing.T, dir string, maxRequests int) {
	t.Helper()
	body := fmt.Sprintf(configTemplate, filepath.Join(dir, "uploads"), maxRequests)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, filepath.Join(dir, "config.yaml"), func(cfg *config.Config) {
			reloaded <- cfg
		})
	}()

	// give the watcher a moment to register
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, 42)

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 42, cfg.RateLimit.MaxRequests)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
