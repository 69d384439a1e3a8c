package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestImmediateQueueDeliversDetachedFromCaller(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		got  []string
		errs []error
	)
	q := NewImmediateQueue(nil)
	q.SetHandler(func(ctx context.Context, name string, payload map[string]any) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, name+":"+payload["document_id"].(string))
		errs = append(errs, ctx.Err())
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, q.Enqueue(ctx, "summarize_document", map[string]any{"document_id": "abc"}))
	cancel()
	require.NoError(t, q.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"summarize_document:abc"}, got)
	require.NoError(t, errs[0])
}

func TestImmediateQueueWithoutHandler(t *testing.T) {
	t.Parallel()
	q := NewImmediateQueue(nil)
	require.NoError(t, q.Enqueue(context.Background(), "noop", "not a map"))
	require.NoError(t, q.Close())
}

func TestJobEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, err := encodeJob("summarize_document", map[string]any{"document_id": "abc", "num_sentences": 2}, at)
	require.NoError(t, err)

	job, err := decodeJob(raw)
	require.NoError(t, err)
	require.Equal(t, "summarize_document", job.Name)
	require.Equal(t, "abc", job.Payload["document_id"])
	require.Equal(t, float64(2), job.Payload["num_sentences"])
	require.True(t, at.Equal(job.EnqueuedAt))

	raw, err = encodeJob("empty", nil, at)
	require.NoError(t, err)
	job, err = decodeJob(raw)
	require.NoError(t, err)
	require.NotNil(t, job.Payload)

	_, err = decodeJob("{broken")
	require.Error(t, err)
}

func TestValkeyQueueCloseWithoutHandler(t *testing.T) {
	t.Parallel()
	q := NewValkeyQueue(nil, "", discardLogger())
	require.Equal(t, defaultQueueKey, q.queueKey)
	require.NoError(t, q.Close())
}
