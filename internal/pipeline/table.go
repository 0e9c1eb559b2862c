package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/pipemux/pipemux/internal/decode"
)

// ParsedRecord is one wire record after tokenizing, ready for admission.
// It is consumed once by Table.Admit and not retained.
type ParsedRecord struct {
	PipelineID uint8
	ID         uint8
	Encoding   decode.Encoding
	RawText    string
	// NextID is the sender-declared successor ID. HasNext false means the
	// sender declared no successor, which closes the pipeline.
	NextID  uint8
	HasNext bool
}

// Policy configures record admission.
type Policy struct {
	// DiscardInvalidSequence drops records whose ID does not match the
	// pipeline's expected-next cursor. When false the check is advisory
	// only and mismatched records are admitted anyway.
	DiscardInvalidSequence bool
}

// Table owns every pipeline seen during a run, keyed by pipeline ID.
// It is not safe for concurrent use: admissions mutate per-pipeline
// sequencing state that must be observed atomically, so callers feeding
// from multiple producers must serialize Admit calls themselves.
type Table struct {
	pipelines    map[uint8]*Pipeline
	policy       Policy
	logger       *slog.Logger
	decodedBytes uint64
}

// NewTable creates an empty table with the given admission policy.
// A nil logger disables diagnostics.
func NewTable(policy Policy, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Table{
		pipelines: make(map[uint8]*Pipeline),
		policy:    policy,
		logger:    logger,
	}
}

// Admit runs one parsed record through the admission sequence: closed
// check, sequence check, decode, buffer insertion, cursor update. The
// returned outcome is diagnostic; callers do not branch on it.
//
// The expected-next cursor follows the sender's declared pointer even when
// the record itself is dropped for being out of sequence or undecodable.
// Only a closed pipeline freezes its state. This keeps a pipeline usable
// for still-valid senders after a single bad record.
func (t *Table) Admit(rec ParsedRecord) Outcome {
	p := t.pipeline(rec.PipelineID)

	if p.closed {
		t.logger.Debug("record ignored, pipeline closed",
			"pipeline", rec.PipelineID, "id", rec.ID)

		return IgnoredClosed
	}

	outcome := t.admitBody(p, rec)

	p.expectedNext = rec.NextID
	p.hasExpected = rec.HasNext

	if !rec.HasNext {
		p.closed = true
		t.logger.Debug("pipeline closed by sender", "pipeline", rec.PipelineID)
	}

	return outcome
}

// admitBody applies the sequence check and decode step, buffering the
// record on success. It never touches the expected-next cursor.
func (t *Table) admitBody(p *Pipeline, rec ParsedRecord) Outcome {
	if p.hasExpected && rec.ID != p.expectedNext && t.policy.DiscardInvalidSequence {
		t.logger.Debug("record out of sequence",
			"pipeline", rec.PipelineID, "id", rec.ID, "expected", p.expectedNext)

		return IgnoredOutOfSequence
	}

	body, err := decode.Decode(rec.Encoding, rec.RawText)
	if err != nil {
		t.logger.Debug("record payload undecodable",
			"pipeline", rec.PipelineID, "id", rec.ID, "error", err)

		return IgnoredDecodeFailed
	}

	p.push(Record{ID: rec.ID, Body: body})
	t.decodedBytes += uint64(len(body))

	return Accepted
}

// pipeline returns the pipeline for id, creating it on first reference.
func (t *Table) pipeline(id uint8) *Pipeline {
	p, ok := t.pipelines[id]
	if !ok {
		p = newPipeline(id)
		t.pipelines[id] = p
	}

	return p
}

// DecodedBytes returns the total size of all decoded record bodies
// admitted so far.
func (t *Table) DecodedBytes() uint64 { return t.decodedBytes }

// PipelineStat describes one pipeline for summary reporting.
type PipelineStat struct {
	ID       uint8
	Buffered int
	Closed   bool
}

// Snapshot returns per-pipeline statistics in ascending ID order.
// It must be taken before Render, which drains the buffers.
func (t *Table) Snapshot() []PipelineStat {
	stats := make([]PipelineStat, 0, len(t.pipelines))
	for _, id := range t.sortedIDs() {
		p := t.pipelines[id]
		stats = append(stats, PipelineStat{ID: id, Buffered: p.Buffered(), Closed: p.closed})
	}

	return stats
}

// Render writes the final report: one section per pipeline in ascending
// pipeline ID order, each listing its records in ascending record ID
// order, FIFO among equal IDs. Rendering drains every buffer; it is a
// one-shot operation and the table must not be reused afterwards.
func (t *Table) Render(w io.Writer) error {
	for _, id := range t.sortedIDs() {
		p := t.pipelines[id]

		_, err := fmt.Fprintf(w, "Pipeline:%d\n", p.id)
		if err != nil {
			return fmt.Errorf("render pipeline %d: %w", p.id, err)
		}

		for p.Buffered() > 0 {
			rec := p.pop()

			_, err = fmt.Fprintf(w, "\t%d| %s\n", rec.ID, rec.Body)
			if err != nil {
				return fmt.Errorf("render record %d of pipeline %d: %w", rec.ID, p.id, err)
			}
		}
	}

	return nil
}

func (t *Table) sortedIDs() []uint8 {
	ids := make([]uint8, 0, len(t.pipelines))
	for id := range t.pipelines {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
