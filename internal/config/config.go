package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aatumaykin/sessiond/internal/constants"
)

// Load reads a TOML configuration file, applies defaults and expands
// environment variables and ~ in paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// Default returns a configuration with every default applied, used when no
// config file exists on disk.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	expandEnvVars(&cfg)
	return &cfg
}

// applyDefaults fills in zero values.
func applyDefaults(c *Config) {
	if c.Workspace.Path == "" {
		c.Workspace.Path = constants.DefaultWorkspacePath
	}

	if c.Schedule.IntervalMinutes == 0 {
		c.Schedule.IntervalMinutes = constants.DefaultIntervalMinutes
	}
	if c.Schedule.SessionTimeoutMinutes == 0 {
		c.Schedule.SessionTimeoutMinutes = constants.DefaultSessionTimeoutMinutes
	}
	if c.Schedule.MaxSteps == 0 {
		c.Schedule.MaxSteps = constants.DefaultMaxSteps
	}

	if c.Assistant.Command == "" {
		c.Assistant.Command = constants.DefaultAssistantCommand
	}
	if c.Assistant.Args == nil {
		c.Assistant.Args = []string{constants.AssistantPrintFlag}
	}
	if c.Assistant.ContinueFlag == "" {
		c.Assistant.ContinueFlag = constants.AssistantContinueFlag
	}
	if c.Assistant.TimeoutCommand == "" {
		c.Assistant.TimeoutCommand = constants.TimeoutCommand
	}

	if c.Diary.File == "" {
		c.Diary.File = filepath.Join(constants.SubdirMemory, constants.DiaryFilename)
	}
	if c.Notices.File == "" {
		c.Notices.File = filepath.Join(constants.SubdirInbox, constants.InboxFilename)
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = filepath.Join(c.Workspace.Path, constants.SubdirLogs, constants.LogFilename)
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9091"
	}
}

// expandEnvVars expands ${VAR:default} references and ~ in configured paths.
func expandEnvVars(c *Config) {
	c.Workspace.Path = expandHome(expandEnv(c.Workspace.Path))
	c.Assistant.Command = expandEnv(c.Assistant.Command)
	c.Assistant.WorkingDir = expandHome(expandEnv(c.Assistant.WorkingDir))
	c.Diary.File = expandHome(expandEnv(c.Diary.File))
	c.Notices.File = expandHome(expandEnv(c.Notices.File))
	c.Compose.TemplateFile = expandHome(expandEnv(c.Compose.TemplateFile))
	c.Logging.Output = expandHome(expandEnv(c.Logging.Output))
}

// expandEnv expands a ${VAR:default} reference.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		if val := os.Getenv(parts[0]); val != "" {
			return val
		}
		return parts[1]
	}

	return os.Getenv(content)
}

// expandHome expands a leading ~ in the path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
