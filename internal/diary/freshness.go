// Package diary answers a single question for the scheduler: has a diary
// entry been recorded since a given time?
//
// The diary itself is written by the assistant's own tooling. sessiond only
// depends on the read contract: an append-structured JSONL file whose records
// carry a "datetime" field. Any read problem collapses to "not written yet",
// which is the safe answer for a reminder signal.
package diary

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"github.com/aatumaykin/sessiond/internal/constants"
	"github.com/aatumaykin/sessiond/internal/logger"
)

// entry is the slice of a diary record the checker cares about.
type entry struct {
	Datetime string `json:"datetime"`
}

// Checker reads the diary record store.
type Checker struct {
	filePath string
	logger   *logger.Logger
}

// NewChecker creates a freshness checker for the given diary file.
func NewChecker(filePath string, log *logger.Logger) *Checker {
	return &Checker{
		filePath: filePath,
		logger:   log,
	}
}

// HasFreshEntry reports whether the most recently appended diary record is
// strictly later than since. A missing store, empty store, unparsable
// timestamp, or any read error returns false and never escalates.
func (c *Checker) HasFreshEntry(since time.Time) bool {
	file, err := os.Open(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Debug("failed to open diary store",
				logger.Field{Key: "file", Value: c.filePath},
				logger.Field{Key: "error", Value: err})
		}
		return false
	}
	defer file.Close()

	// The newest record is the last non-empty line.
	var last string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 4096), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			last = line
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Debug("error scanning diary store",
			logger.Field{Key: "file", Value: c.filePath},
			logger.Field{Key: "error", Value: err})
		return false
	}
	if last == "" {
		return false
	}

	var e entry
	if err := json.Unmarshal([]byte(last), &e); err != nil {
		c.logger.Debug("failed to unmarshal diary record",
			logger.Field{Key: "file", Value: c.filePath},
			logger.Field{Key: "error", Value: err})
		return false
	}
	if e.Datetime == "" {
		return false
	}

	latest, err := time.ParseInLocation(constants.TimestampLayout, e.Datetime, time.Local)
	if err != nil {
		c.logger.Debug("failed to parse diary timestamp",
			logger.Field{Key: "datetime", Value: e.Datetime},
			logger.Field{Key: "error", Value: err})
		return false
	}

	return latest.After(since)
}
