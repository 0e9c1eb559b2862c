package pipeline_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipemux/pipemux/internal/decode"
	"github.com/pipemux/pipemux/internal/pipeline"
)

// rec builds an ASCII record with a successor pointer.
func rec(pipelineID, id uint8, text string, nextID uint8) pipeline.ParsedRecord {
	return pipeline.ParsedRecord{
		PipelineID: pipelineID,
		ID:         id,
		Encoding:   decode.EncodingASCII,
		RawText:    text,
		NextID:     nextID,
		HasNext:    true,
	}
}

// finalRec builds an ASCII record declaring no successor.
func finalRec(pipelineID, id uint8, text string) pipeline.ParsedRecord {
	return pipeline.ParsedRecord{
		PipelineID: pipelineID,
		ID:         id,
		Encoding:   decode.EncodingASCII,
		RawText:    text,
	}
}

func render(t *testing.T, table *pipeline.Table) string {
	t.Helper()

	var buf bytes.Buffer

	err := table.Render(&buf)
	require.NoError(t, err)

	return buf.String()
}

func TestAdmit_ReordersOutOfOrderArrivals(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{}, nil)

	// Arrival order 3, 1, 2 with successor chain 3->2->1->absent.
	assert.Equal(t, pipeline.Accepted, table.Admit(rec(0, 3, "third", 2)))
	assert.Equal(t, pipeline.Accepted, table.Admit(rec(0, 1, "first", 0)))

	last := finalRec(0, 2, "second")
	assert.Equal(t, pipeline.Accepted, table.Admit(last))

	assert.Equal(t, "Pipeline:0\n\t1| first\n\t2| second\n\t3| third\n", render(t, table))
}

func TestAdmit_ClosedPipelineRejectsEverything(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(finalRec(4, 7, "last")))

	// Even a record with the same ID is rejected once closed.
	assert.Equal(t, pipeline.IgnoredClosed, table.Admit(rec(4, 7, "again", 8)))
	assert.Equal(t, pipeline.IgnoredClosed, table.Admit(rec(4, 9, "more", 10)))

	assert.Equal(t, "Pipeline:4\n\t7| last\n", render(t, table))
}

func TestAdmit_DiscardPolicyDropsOutOfSequence(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{DiscardInvalidSequence: true}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(rec(1, 0, "a", 1)))

	// ID 5 does not match the expected 1.
	assert.Equal(t, pipeline.IgnoredOutOfSequence, table.Admit(rec(1, 5, "b", 6)))

	assert.Equal(t, "Pipeline:1\n\t0| a\n", render(t, table))
}

func TestAdmit_RejectedRecordStillAdvancesCursor(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{DiscardInvalidSequence: true}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(rec(1, 0, "a", 1)))

	// Each rejected record's declared successor becomes the new cursor:
	// after the stray (next 6), ID 1 is stale; after the stale record
	// (next 2), ID 2 is the one in sequence.
	require.Equal(t, pipeline.IgnoredOutOfSequence, table.Admit(rec(1, 5, "b", 6)))
	assert.Equal(t, pipeline.IgnoredOutOfSequence, table.Admit(rec(1, 1, "stale", 2)))
	assert.Equal(t, pipeline.Accepted, table.Admit(finalRec(1, 2, "c")))

	assert.Equal(t, "Pipeline:1\n\t0| a\n\t2| c\n", render(t, table))
}

func TestAdmit_RejectedRecordCanCloseThePipeline(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{DiscardInvalidSequence: true}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(rec(2, 0, "a", 1)))
	require.Equal(t, pipeline.IgnoredOutOfSequence, table.Admit(finalRec(2, 9, "b")))

	// The out-of-sequence record declared no successor, closing the pipeline.
	assert.Equal(t, pipeline.IgnoredClosed, table.Admit(rec(2, 1, "c", 2)))
	assert.Equal(t, "Pipeline:2\n\t0| a\n", render(t, table))
}

func TestAdmit_AdvisoryPolicyAcceptsOutOfSequence(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{DiscardInvalidSequence: false}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(rec(1, 0, "a", 1)))
	assert.Equal(t, pipeline.Accepted, table.Admit(finalRec(1, 5, "b")))

	assert.Equal(t, "Pipeline:1\n\t0| a\n\t5| b\n", render(t, table))
}

func TestAdmit_DecodeFailureDropsRecordButAdvancesCursor(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{DiscardInvalidSequence: true}, nil)

	bad := pipeline.ParsedRecord{
		PipelineID: 3,
		ID:         0,
		Encoding:   decode.EncodingHex,
		RawText:    "not-hex",
		NextID:     1,
		HasNext:    true,
	}
	require.Equal(t, pipeline.IgnoredDecodeFailed, table.Admit(bad))

	// Sequencing advanced: ID 1 is expected next despite the drop.
	assert.Equal(t, pipeline.Accepted, table.Admit(finalRec(3, 1, "ok")))
	assert.Equal(t, "Pipeline:3\n\t1| ok\n", render(t, table))
}

func TestAdmit_DecodeFailureCanCloseThePipeline(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{}, nil)

	bad := pipeline.ParsedRecord{
		PipelineID: 3,
		ID:         0,
		Encoding:   decode.EncodingHex,
		RawText:    "zz!",
	}
	require.Equal(t, pipeline.IgnoredDecodeFailed, table.Admit(bad))

	assert.Equal(t, pipeline.IgnoredClosed, table.Admit(rec(3, 1, "late", 2)))
	assert.Equal(t, "Pipeline:3\n", render(t, table))
}

func TestAdmit_PipelinesAreIsolated(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{DiscardInvalidSequence: true}, nil)

	// Closing pipeline 1 and constraining its cursor must not affect pipeline 2.
	require.Equal(t, pipeline.Accepted, table.Admit(finalRec(1, 0, "solo")))
	assert.Equal(t, pipeline.Accepted, table.Admit(rec(2, 9, "free", 10)))
	assert.Equal(t, pipeline.Accepted, table.Admit(finalRec(2, 10, "done")))

	assert.Equal(t, "Pipeline:1\n\t0| solo\n"+"Pipeline:2\n\t9| free\n\t10| done\n", render(t, table))
}

func TestAdmit_DuplicateIDsDrainFIFO(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(rec(0, 2, "dup-first", 2)))
	require.Equal(t, pipeline.Accepted, table.Admit(rec(0, 2, "dup-second", 1)))
	require.Equal(t, pipeline.Accepted, table.Admit(finalRec(0, 1, "one")))

	assert.Equal(t, "Pipeline:0\n\t1| one\n\t2| dup-first\n\t2| dup-second\n", render(t, table))
}

func TestAdmit_FirstRecordIsUnconstrained(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{DiscardInvalidSequence: true}, nil)

	// No cursor yet: any ID is admissible on first contact.
	assert.Equal(t, pipeline.Accepted, table.Admit(finalRec(0, 200, "high")))
}

func TestRender_MixedEncodings(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(rec(0, 1, "hello", 2)))

	hexRec := pipeline.ParsedRecord{
		PipelineID: 0,
		ID:         2,
		Encoding:   decode.EncodingHex,
		RawText:    "68656c6c6f",
	}
	require.Equal(t, pipeline.Accepted, table.Admit(hexRec))

	assert.Equal(t, "Pipeline:0\n\t1| hello\n\t2| hello\n", render(t, table))
}

func TestRender_EmptyTable(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{}, nil)

	assert.Empty(t, render(t, table))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(rec(5, 1, "a", 2)))
	require.Equal(t, pipeline.Accepted, table.Admit(rec(5, 2, "b", 3)))
	require.Equal(t, pipeline.Accepted, table.Admit(finalRec(1, 0, "c")))

	stats := table.Snapshot()
	require.Len(t, stats, 2)

	assert.Equal(t, pipeline.PipelineStat{ID: 1, Buffered: 1, Closed: true}, stats[0])
	assert.Equal(t, pipeline.PipelineStat{ID: 5, Buffered: 2, Closed: false}, stats[1])
}

func TestDecodedBytes(t *testing.T) {
	t.Parallel()

	table := pipeline.NewTable(pipeline.Policy{}, nil)

	require.Equal(t, pipeline.Accepted, table.Admit(rec(0, 1, "hello", 2)))
	assert.Equal(t, uint64(5), table.DecodedBytes())

	// Dropped records contribute nothing.
	bad := pipeline.ParsedRecord{PipelineID: 0, ID: 2, Encoding: decode.EncodingHex, RawText: "x", NextID: 3, HasNext: true}
	require.Equal(t, pipeline.IgnoredDecodeFailed, table.Admit(bad))
	assert.Equal(t, uint64(5), table.DecodedBytes())
}
