package notices

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/sessiond/internal/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

func writeInbox(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notices.jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPendingUnreadOnly(t *testing.T) {
	path := writeInbox(t,
		`{"datetime": "2025-03-04 09:00:00", "from": "alice", "subject": "review request"}`,
		`{"datetime": "2025-03-04 09:05:00", "from": "bob", "subject": "old news", "read": true}`,
		`{"datetime": "2025-03-04 09:10:00", "from": "carol", "subject": "deploy window"}`,
	)
	s := NewFileSource(path, newTestLogger(t))

	count, summaries, err := s.Pending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"alice: review request", "carol: deploy window"}, summaries)
}

func TestPendingMissingFile(t *testing.T) {
	s := NewFileSource(filepath.Join(t.TempDir(), "nope.jsonl"), newTestLogger(t))

	count, summaries, err := s.Pending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Nil(t, summaries)
}

func TestPendingSkipsMalformedRecords(t *testing.T) {
	path := writeInbox(t,
		`{broken`,
		`{"from": "dave", "subject": "still readable"}`,
	)
	s := NewFileSource(path, newTestLogger(t))

	count, summaries, err := s.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"dave: still readable"}, summaries)
}

func TestPendingPreservesAppendOrder(t *testing.T) {
	path := writeInbox(t,
		`{"from": "a", "subject": "first"}`,
		`{"from": "b", "subject": "second"}`,
		`{"from": "c", "subject": "third"}`,
	)
	s := NewFileSource(path, newTestLogger(t))

	_, summaries, err := s.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a: first", "b: second", "c: third"}, summaries)
}

func TestSummarizeFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		rec      record
		expected string
	}{
		{"both fields", record{From: "alice", Subject: "hi"}, "alice: hi"},
		{"subject only", record{Subject: "standalone"}, "standalone"},
		{"sender only", record{From: "bob"}, "message from bob"},
		{"neither", record{}, "unread item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, summarize(tt.rec))
		})
	}
}
