package constants

// DefaultVersion is the default version of the application
const DefaultVersion = "0.1.0-dev"

// DefaultBuildTime is the default build time when not provided at build time
const DefaultBuildTime = "unknown"

// DefaultGitCommit is the default git commit hash when not provided at build time
const DefaultGitCommit = "unknown"

// DefaultGoVersion is the default Go version when not provided at build time
const DefaultGoVersion = "unknown"

// DefaultIntervalMinutes is the default time between session invocations.
const DefaultIntervalMinutes = 30

// DefaultSessionTimeoutMinutes is the default wall-clock budget for one session.
const DefaultSessionTimeoutMinutes = 120

// DefaultMaxSteps is the default number of sessions in one cycle.
const DefaultMaxSteps = 5

// MaxNoticesShown caps how many notice summaries are rendered into one message.
// Collaborators may supply more; the composer truncates.
const MaxNoticesShown = 5
