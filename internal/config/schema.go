package config

// Config is the root configuration for the sessiond scheduler.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Assistant AssistantConfig `toml:"assistant"`
	Diary     DiaryConfig     `toml:"diary"`
	Notices   NoticesConfig   `toml:"notices"`
	Compose   ComposeConfig   `toml:"compose"`
	Logging   LoggingConfig   `toml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// WorkspaceConfig locates the data root (memory store, inbox, logs).
type WorkspaceConfig struct {
	Path string `toml:"path"`
}

// ScheduleConfig controls the session cycle. Loaded once at startup and
// immutable for the process lifetime.
type ScheduleConfig struct {
	IntervalMinutes       int    `toml:"interval_minutes"`        // Time between sessions
	SessionTimeoutMinutes int    `toml:"session_timeout_minutes"` // Wall-clock budget per session
	MaxSteps              int    `toml:"max_steps"`               // Sessions per cycle
	Annotation            string `toml:"annotation"`              // Optional free text appended to every message
}

// AssistantConfig describes how to invoke the external assistant process.
type AssistantConfig struct {
	Command        string   `toml:"command"`         // Assistant executable
	Args           []string `toml:"args"`            // Arguments placed before the message
	ContinueFlag   string   `toml:"continue_flag"`   // Flag requesting resumption of the previous session
	TimeoutCommand string   `toml:"timeout_command"` // OS-level timeout wrapper binary
	WorkingDir     string   `toml:"working_dir"`     // Working directory for the assistant (defaults to workspace)
}

// DiaryConfig locates the diary record store consulted for freshness checks.
// A relative path is resolved against the workspace.
type DiaryConfig struct {
	File string `toml:"file"`
}

// NoticesConfig controls the pending-notices collaborator.
// A relative file path is resolved against the workspace.
type NoticesConfig struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
}

// ComposeConfig points at an optional YAML template overriding the built-in
// message wording.
type ComposeConfig struct {
	TemplateFile string `toml:"template_file"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// MetricsConfig gates the Prometheus /metrics listener.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}
