package constants

import "time"

// DefaultAssistantCommand is the assistant executable invoked for each session.
const DefaultAssistantCommand = "claude"

// AssistantPrintFlag passes the composed message as a one-shot prompt.
const AssistantPrintFlag = "--print"

// AssistantContinueFlag tells the assistant to resume its previous session.
const AssistantContinueFlag = "--continue"

// TimeoutCommand is the OS-level timeout wrapper used as the first
// enforcement layer around the assistant process.
const TimeoutCommand = "timeout"

// ExitCodeTimeout is the exit code the timeout wrapper reports when it
// had to kill the child.
const ExitCodeTimeout = 124

// SupervisorGrace is how much longer than the session timeout the caller
// waits before giving up on the wrapper itself.
const SupervisorGrace = 1 * time.Minute

// TimestampLayout is the wall-clock format used in composed messages and
// in diary records.
const TimestampLayout = "2006-01-02 15:04:05"
