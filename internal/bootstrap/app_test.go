package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/docsum/internal/domain/documents"
	"github.com/yanqian/docsum/internal/infra/config"
	"github.com/yanqian/docsum/internal/infra/inbox"
)

type noopSubmitter struct{}

func (noopSubmitter) Upload(context.Context, documents.UploadRequest) (documents.UploadResponse, error) {
	return documents.UploadResponse{}, nil
}

func (noopSubmitter) AllowedExtensions() []string { return []string{"txt"} }

func TestAppRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Inbox: config.InboxConfig{Dir: filepath.Join(t.TempDir(), "inbox")}}

	watcher, err := inbox.NewWatcher(inbox.Config{Dir: cfg.Inbox.Dir}, noopSubmitter{}, logger)
	require.NoError(t, err)
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	app := NewApp(cfg, logger, server, watcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestAppRunReportsListenError(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := &http.Server{Addr: "not-an-address", Handler: http.NotFoundHandler()}
	app := NewApp(&config.Config{}, logger, server, nil)

	require.Error(t, app.Run(context.Background()))
}
