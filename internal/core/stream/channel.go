// Package stream provides the tuple channel implementation
package stream

import (
	"sync"
)

import imetrics "github.com/rayokota/declarative-dataflow/internal/infrastructure/metrics"

// TupleChannel is the output stream for one attribute. The router is its
// only writer for the lifetime of the operator; downstream consumers drain
// it, possibly from another goroutine.
// PRINCIPLES:
// - KISS: Unbounded batch buffer, writes never block the routing loop
// - SRP: Single responsibility - tuple delivery in flush order
// - Thread-safe: Uses proper synchronization
type TupleChannel struct {
	batches [][]Tuple
	closed  bool
	mu      sync.Mutex
}

// NewTupleChannel creates an open, empty tuple channel.
func NewTupleChannel() *TupleChannel {
	return &TupleChannel{}
}

// Push appends one flushed session batch to the channel. Tuples within a
// batch keep their emit order; batches keep their flush order. Empty
// batches are a no-op so that flushing an untouched session leaves no
// trace downstream.
func (c *TupleChannel) Push(batch []Tuple) error {
	if len(batch) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}

	c.batches = append(c.batches, batch)
	imetrics.AddTuplesFlushed(int64(len(batch)))
	return nil
}

// Drain removes and returns every buffered batch in flush order. Draining
// a closed channel returns whatever was still buffered.
func (c *TupleChannel) Drain() [][]Tuple {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.batches
	c.batches = nil
	return out
}

// DrainTuples removes and returns every buffered tuple as a flat slice,
// preserving emit order across batches.
func (c *TupleChannel) DrainTuples() []Tuple {
	var out []Tuple
	for _, batch := range c.Drain() {
		out = append(out, batch...)
	}
	return out
}

// Close closes the channel. Closing signals downstream consumers that no
// further data will arrive for this source.
func (c *TupleChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil // Already closed
	}

	c.closed = true
	return nil
}

// Len returns the number of tuples currently buffered
func (c *TupleChannel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, batch := range c.batches {
		n += len(batch)
	}
	return n
}

// IsClosed returns whether the channel is closed
func (c *TupleChannel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Stats returns channel statistics
func (c *TupleChannel) Stats() TupleChannelStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, batch := range c.batches {
		n += len(batch)
	}
	return TupleChannelStats{
		Tuples:  n,
		Batches: len(c.batches),
		Closed:  c.closed,
	}
}

// TupleChannelStats provides channel statistics
type TupleChannelStats struct {
	Tuples  int  `json:"tuples"`
	Batches int  `json:"batches"`
	Closed  bool `json:"closed"`
}
