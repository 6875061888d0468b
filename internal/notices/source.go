// Package notices provides the pending-notices collaborator: a best-effort,
// read-only source of short summaries the scheduler can weave into a session
// message ("you have K unread items...").
//
// The file-backed implementation reads an append-structured JSONL inbox under
// the workspace. The scheduler treats every error as "no notices"; nothing
// here may escalate into the cycle.
package notices

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aatumaykin/sessiond/internal/logger"
)

// Source is the contract the scheduler depends on. Pending returns the number
// of pending items and their summaries in append order. Callers may render
// fewer than returned; the source never truncates.
type Source interface {
	Pending(ctx context.Context) (int, []string, error)
}

// record is one inbox entry.
type record struct {
	Datetime string `json:"datetime"`
	From     string `json:"from"`
	Subject  string `json:"subject"`
	Read     bool   `json:"read,omitempty"`
}

// FileSource reads pending notices from a JSONL inbox file.
type FileSource struct {
	filePath string
	logger   *logger.Logger
}

// NewFileSource creates a file-backed notice source.
func NewFileSource(filePath string, log *logger.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   log,
	}
}

// Pending returns the unread inbox records as sanitized summary lines.
// A missing inbox is not an error: it simply means no notices.
func (s *FileSource) Pending(ctx context.Context) (int, []string, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil, nil
		}
		return 0, nil, fmt.Errorf("failed to open inbox: %w", err)
	}
	defer file.Close()

	var summaries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 4096), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			s.logger.Debug("skipping malformed inbox record",
				logger.Field{Key: "file", Value: s.filePath},
				logger.Field{Key: "line", Value: lineNum})
			continue
		}
		if rec.Read {
			continue
		}

		summaries = append(summaries, CleanSummary(summarize(rec)))
	}

	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("error scanning inbox: %w", err)
	}

	return len(summaries), summaries, nil
}

// summarize renders one record as a single line.
func summarize(rec record) string {
	switch {
	case rec.From != "" && rec.Subject != "":
		return rec.From + ": " + rec.Subject
	case rec.Subject != "":
		return rec.Subject
	case rec.From != "":
		return "message from " + rec.From
	default:
		return "unread item"
	}
}

var _ Source = (*FileSource)(nil)
