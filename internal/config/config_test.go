package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/sessiond/internal/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultIntervalMinutes, cfg.Schedule.IntervalMinutes)
	assert.Equal(t, constants.DefaultSessionTimeoutMinutes, cfg.Schedule.SessionTimeoutMinutes)
	assert.Equal(t, constants.DefaultMaxSteps, cfg.Schedule.MaxSteps)
	assert.Equal(t, constants.DefaultAssistantCommand, cfg.Assistant.Command)
	assert.Equal(t, []string{constants.AssistantPrintFlag}, cfg.Assistant.Args)
	assert.Equal(t, constants.AssistantContinueFlag, cfg.Assistant.ContinueFlag)
	assert.Equal(t, constants.TimeoutCommand, cfg.Assistant.TimeoutCommand)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, ":9091", cfg.Metrics.Listen)
	assert.False(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Notices.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[workspace]
path = "/var/lib/sessiond"

[schedule]
interval_minutes = 15
session_timeout_minutes = 60
max_steps = 3
annotation = "keep it short"

[assistant]
command = "my-assistant"
args = ["--quiet"]

[logging]
level = "debug"
format = "json"
output = "stdout"
`))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/sessiond", cfg.Workspace.Path)
	assert.Equal(t, 15, cfg.Schedule.IntervalMinutes)
	assert.Equal(t, 60, cfg.Schedule.SessionTimeoutMinutes)
	assert.Equal(t, 3, cfg.Schedule.MaxSteps)
	assert.Equal(t, "keep it short", cfg.Schedule.Annotation)
	assert.Equal(t, "my-assistant", cfg.Assistant.Command)
	assert.Equal(t, []string{"--quiet"}, cfg.Assistant.Args)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadMalformedTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[schedule\ninterval_minutes ="))
	assert.Error(t, err)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("SESSIOND_TEST_CMD", "env-assistant")

	cfg, err := Load(writeConfig(t, `
[assistant]
command = "${SESSIOND_TEST_CMD}"
`))
	require.NoError(t, err)
	assert.Equal(t, "env-assistant", cfg.Assistant.Command)
}

func TestLoadEnvVarDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[assistant]
command = "${SESSIOND_UNSET_VAR:fallback-assistant}"
`))
	require.NoError(t, err)
	assert.Equal(t, "fallback-assistant", cfg.Assistant.Command)
}

func TestDefaultMatchesEmptyFile(t *testing.T) {
	fromFile, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, fromFile, Default())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Schedule.IntervalMinutes = 0
	cfg.Schedule.SessionTimeoutMinutes = -5
	cfg.Schedule.MaxSteps = 0
	cfg.Assistant.Command = ""

	errs := cfg.Validate()
	assert.Len(t, errs, 4, "every problem is reported, not just the first")
}

func TestValidateRejectsBadLoggingValues(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	cfg.Logging.Format = "xml"

	errs := cfg.Validate()
	assert.Len(t, errs, 2)
}

func TestValidateRejectsPathTraversal(t *testing.T) {
	cfg := Default()
	cfg.Workspace.Path = "/data/../../etc"

	assert.NotEmpty(t, cfg.Validate())
}

func TestValidateMetricsListenRequiredWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Listen = ""

	assert.NotEmpty(t, cfg.Validate())
}

func TestValidateNoticesFileRequiredWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.Notices.Enabled = true
	cfg.Notices.File = ""

	assert.NotEmpty(t, cfg.Validate())
}
