// Package pipeline implements the record reordering core: per-pipeline
// buffering, sender-driven sequence validation, closing semantics, and
// deterministic report rendering.
package pipeline

import "container/heap"

// Pipeline holds the buffered records and sequencing state for one
// pipeline identifier. Pipelines are owned exclusively by a Table.
type Pipeline struct {
	id           uint8
	expectedNext uint8
	hasExpected  bool
	closed       bool
	buffer       recordBuffer
	arrivals     uint64
}

func newPipeline(id uint8) *Pipeline {
	return &Pipeline{id: id}
}

// push buffers a decoded record, preserving FIFO order among equal IDs.
func (p *Pipeline) push(rec Record) {
	heap.Push(&p.buffer, bufferEntry{rec: rec, seq: p.arrivals})
	p.arrivals++
}

// pop removes and returns the buffered record with the lowest ID.
// Callers must check len(p.buffer) first.
func (p *Pipeline) pop() Record {
	return heap.Pop(&p.buffer).(bufferEntry).rec
}

// Closed reports whether the pipeline has been terminally closed by a
// record that declared no successor.
func (p *Pipeline) Closed() bool { return p.closed }

// Buffered returns the number of records currently buffered.
func (p *Pipeline) Buffered() int { return len(p.buffer) }
