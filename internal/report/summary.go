// Package report formats post-run ingest statistics for terminal display.
// The ordered record report itself is rendered by the pipeline package;
// this summary is purely informational and goes to a separate sink.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pipemux/pipemux/internal/pipeline"
	"github.com/pipemux/pipemux/internal/wire"
)

const (
	pipelineStateOpen   = "open"
	pipelineStateClosed = "closed"

	msgNoPipelines = "No pipelines were seen"
)

// Summary aggregates everything worth showing after one ingest run.
type Summary struct {
	Stats        wire.Stats
	Pipelines    []pipeline.PipelineStat
	DecodedBytes uint64
	Duration     time.Duration
}

// Format renders the summary as a headline, an outcome overview, and a
// per-pipeline table.
func Format(s Summary) string {
	var parts []string

	headline := color.New(color.FgCyan, color.Bold).Sprint("Ingest summary")
	parts = append(parts, headline)

	parts = append(parts, formatOverview(s))

	if len(s.Pipelines) == 0 {
		parts = append(parts, msgNoPipelines)
	} else {
		parts = append(parts, formatPipelineTable(s.Pipelines))
	}

	return strings.Join(parts, "\n\n") + "\n"
}

func formatOverview(s Summary) string {
	lines := []string{
		fmt.Sprintf("lines: %s | parse failures: %s",
			humanize.Comma(int64(s.Stats.Lines)), humanize.Comma(int64(s.Stats.ParseFailures))),
		fmt.Sprintf("accepted: %s | rejected: %s (closed: %d, out of sequence: %d, decode failed: %d)",
			humanize.Comma(int64(s.Stats.Accepted)), humanize.Comma(int64(s.Stats.Rejected())),
			s.Stats.Closed, s.Stats.OutOfSequence, s.Stats.DecodeFailed),
		fmt.Sprintf("decoded: %s in %s", humanize.Bytes(s.DecodedBytes), s.Duration.Round(time.Microsecond)),
	}

	return strings.Join(lines, "\n")
}

func formatPipelineTable(stats []pipeline.PipelineStat) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	tbl.AppendHeader(table.Row{"pipeline", "records", "state"})

	total := 0

	for _, ps := range stats {
		state := pipelineStateOpen
		if ps.Closed {
			state = pipelineStateClosed
		}

		tbl.AppendRow(table.Row{ps.ID, ps.Buffered, state})

		total += ps.Buffered
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d records in %d pipelines", total, len(stats))})

	return tbl.Render()
}
