// Package demux implements the classify-and-route core of the trace logging
// source: a fixed registry of requested attributes, one tuple channel per
// attribute, and a router that fans each delivered batch of raw runtime
// events out to the channels that own the derived metrics.
package demux
