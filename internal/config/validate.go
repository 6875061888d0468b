package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration and returns every problem found.
// Any returned error is fatal: the scheduler must not start.
func (c *Config) Validate() []error {
	var errors []error

	if c.Workspace.Path == "" {
		errors = append(errors, fmt.Errorf("workspace.path is required"))
	} else if err := validatePath(c.Workspace.Path, "workspace.path"); err != nil {
		errors = append(errors, err)
	}

	if c.Schedule.IntervalMinutes < 1 {
		errors = append(errors, fmt.Errorf("schedule.interval_minutes must be a positive integer (got %d)", c.Schedule.IntervalMinutes))
	}
	if c.Schedule.SessionTimeoutMinutes < 1 {
		errors = append(errors, fmt.Errorf("schedule.session_timeout_minutes must be a positive integer (got %d)", c.Schedule.SessionTimeoutMinutes))
	}
	if c.Schedule.MaxSteps < 1 {
		errors = append(errors, fmt.Errorf("schedule.max_steps must be at least 1 (got %d)", c.Schedule.MaxSteps))
	}

	if c.Assistant.Command == "" {
		errors = append(errors, fmt.Errorf("assistant.command is required"))
	}
	if c.Assistant.TimeoutCommand == "" {
		errors = append(errors, fmt.Errorf("assistant.timeout_command is required"))
	}

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errors = append(errors, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errors = append(errors, fmt.Errorf("metrics.listen is required when metrics are enabled"))
	}

	if c.Notices.Enabled && c.Notices.File == "" {
		errors = append(errors, fmt.Errorf("notices.file is required when notices are enabled"))
	}

	return errors
}

func validatePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	if strings.HasPrefix(path, "~") {
		return nil
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
	}

	return nil
}
