// Package metrics exposes expvar-published counters used by the logging
// demux runtime (routing, sessions, and replay). It intentionally avoids
// external dependencies and is consumed via the standard /debug/vars
// endpoint when embedded in a host process.
package metrics
