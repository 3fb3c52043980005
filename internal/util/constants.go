package util

// Settings defaults and bounds
const (
	DefaultTipLevel    = 1
	MinTipLevel        = 1
	MaxTipLevel        = 3
	DefaultRefreshRate = 60
	// MinRefreshRate is the fastest client refresh in seconds
	MinRefreshRate = 10
	DefaultTheme   = "green"
)

// Context keys set by the auth middleware
const (
	ContextUserID    = "user_id"
	ContextEmail     = "email"
	ContextToken     = "token"
	ContextRequestID = "request_id"
)
