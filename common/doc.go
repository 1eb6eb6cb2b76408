// Package common provides shared constants, types, and utilities used
// throughout the vpnetscape client.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: Application-wide constants like the service address,
//     file names, and default identities
//   - Errors: Typed error kinds (read, write, remove, parse, process,
//     auth) for consistent error handling across packages
//   - Logger: Leveled logging to stdout and the client log file
//   - Waiter: A counting barrier for joining independent asynchronous
//     completions
//   - Utils: Path resolution for the configuration and profile directories
//
// # Usage
//
//	import "github.com/vpnetscape/client/common"
//
//	common.LogInfo("profile: Starting sync for %s", profileID)
//
//	err := common.Wrapf(common.ErrParse, "profile: Failed to parse config (%s)", cause)
//	if errors.Is(err, common.ErrParse) {
//	    // treat as empty metadata
//	}
//
// # Design Principles
//
// Persistence and parse failures in this client are never fatal: they
// are logged through this package and the caller proceeds with a safe
// default. The error kinds exist so call sites can classify a failure
// without aborting the operation that observed it.
package common
