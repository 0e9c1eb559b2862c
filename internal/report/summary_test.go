package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pipemux/pipemux/internal/pipeline"
	"github.com/pipemux/pipemux/internal/report"
	"github.com/pipemux/pipemux/internal/wire"
)

func TestFormat_WithPipelines(t *testing.T) {
	t.Parallel()

	s := report.Summary{
		Stats: wire.Stats{
			Lines:         5,
			ParseFailures: 1,
			Accepted:      3,
			Closed:        1,
		},
		Pipelines: []pipeline.PipelineStat{
			{ID: 0, Buffered: 2, Closed: true},
			{ID: 7, Buffered: 1, Closed: false},
		},
		DecodedBytes: 2048,
		Duration:     42 * time.Millisecond,
	}

	got := report.Format(s)

	assert.Contains(t, got, "Ingest summary")
	assert.Contains(t, got, "lines: 5")
	assert.Contains(t, got, "parse failures: 1")
	assert.Contains(t, got, "accepted: 3")
	assert.Contains(t, got, "closed: 1")
	assert.Contains(t, got, "2.0 kB")
	assert.Contains(t, got, "closed")
	assert.Contains(t, got, "open")
	assert.Contains(t, got, "Total: 3 records in 2 pipelines")
}

func TestFormat_Empty(t *testing.T) {
	t.Parallel()

	got := report.Format(report.Summary{})

	assert.Contains(t, got, "No pipelines were seen")
	assert.Contains(t, got, "lines: 0")
}
