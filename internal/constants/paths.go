package constants

// DefaultConfigPath is the default configuration file path
const DefaultConfigPath = "./config.toml"

// DefaultWorkspacePath is the default data root for the scheduler
const DefaultWorkspacePath = "~/.sessiond"

// SubdirMemory is the workspace subdirectory for the memory store (diary etc.)
const SubdirMemory = "memory"

// SubdirInbox is the workspace subdirectory for pending notices
const SubdirInbox = "inbox"

// SubdirLogs is the workspace subdirectory for the scheduler event log
const SubdirLogs = "logs"

// DiaryFilename is the diary record store filename inside SubdirMemory
const DiaryFilename = "diary.jsonl"

// InboxFilename is the pending-notices store filename inside SubdirInbox
const InboxFilename = "notices.jsonl"

// LogFilename is the scheduler event log filename inside SubdirLogs
const LogFilename = "sessiond.log"
