// Package profile implements the vpnetscape profile core: the profile
// entity and its three persisted records, the configuration codec, the
// sync client that pulls signed configuration bundles from remote
// hosts, auth token rotation, the multi-factor credential sequence, and
// the ordered profile collection.
//
// # Persistence
//
// Each profile owns three independent record files under the profiles
// directory, keyed by the profile id: <id>.conf (structured metadata,
// JSON), <id>.ovpn (raw configuration text), and <id>.log (connection
// log). Any record may be absent; absence is an empty state, not an
// error. Metadata that fails to parse is logged and treated as empty.
//
// # Connection Flow
//
//  1. The shell calls Connect with an auth callback
//  2. If sync hosts are configured, the sync client runs to completion
//     first (its outcome is ignored) and may rewrite the profile
//  3. The auth token is rotated if stale, then the required credential
//     factors are resolved from the configuration text
//  4. Interactive factors are collected through the prompt collaborator
//  5. The profile hands off to the privileged service via Connector
//
// # Concurrency
//
// Record reads are issued concurrently and joined with a counting
// barrier; callers must not overlap load and save calls on the same
// entity. Sync host fallback is strictly sequential, one request in
// flight at a time.
package profile
