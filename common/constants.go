package common

import "time"

// Application metadata.
const (
	// AppName is the display name of the application.
	AppName = "vpnetscape"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "vpnetscape"
	// DefaultUser is the username sent to the service when the
	// authentication sequence never collected one.
	DefaultUser = "vpnetscape"
)

// File names used by the application.
const (
	ProfilesDirName = "profiles"
	ConfigFileName  = "config.yaml"
	LogFileName     = "vpnetscape.log"
)

// Defaults for profile authentication.
const (
	// DefaultTokenTTL is the lifetime of a rotating auth token in
	// seconds (seven days) when the profile does not set token_ttl.
	DefaultTokenTTL = 604800
)

// Privileged connection service.
const (
	// ServiceAddress is the local address of the privileged service
	// that establishes tunnels on the client's behalf.
	ServiceAddress = "http://127.0.0.1:9770"
	// ServiceTimeout bounds requests to the privileged service.
	ServiceTimeout = 10 * time.Second
	// SyncTimeout bounds a single configuration sync request.
	SyncTimeout = 15 * time.Second
)
