package bootstrap

import "os"

// DirPermission is used for the log directory
const DirPermission os.FileMode = 0o755

// Log file retention
const (
	LogFileMaxKept    = 9
	LogFilePrefix     = "session_"
	LogFileSuffix     = ".log"
	LogFileTimeLayout = "2006-01-02_15-04-05"
)

// Log Messages
const (
	LogMsgLoggingInitialized         = "Logging initialized"
	LogMsgStarting                   = "Starting idle garden"
	LogMsgConfigurationLoaded        = "Configuration loaded"
	LogMsgStoreOpened                = "Garden store opened"
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Event metrics collector registered"
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgStoppingBackgroundJobs     = "Stopping background jobs"
	LogMsgClosingSessions            = "Closing garden sessions"
	LogMsgCloseSessionsFailed        = "Some garden sessions failed to save on shutdown"
	LogMsgStoreCloseFailed           = "Failed to close garden store"
	LogMsgServerStopped              = "Server stopped"
	LogMsgOldLogRemoveFailed         = "Failed to delete old log file"
)

// Error Messages
const (
	ErrMsgUnknownStoreDriver   = "unknown store driver"
	ErrMsgFailedCreateLogDir   = "failed to create logs directory"
	ErrMsgFailedOpenLogFile    = "failed to open log file"
	ErrMsgFailedOpenStore      = "failed to open garden store"
	ErrMsgFailedMigrate        = "failed to migrate database"
	ErrMsgFailedCreateSnapshot = "failed to create snapshot store"
)
