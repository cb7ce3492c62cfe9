// Package dataflow is the public entry point for materializing runtime
// trace-log attributes as independently consumable tuple streams. A
// Logging value names the attributes to materialize; Source wires the
// registry, router, and replayer and hands back one channel descriptor per
// requested attribute.
package dataflow
