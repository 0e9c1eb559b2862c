package wire

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/pipemux/pipemux/internal/pipeline"
)

// initialScanBuffer is the starting size of the line scanner buffer.
const initialScanBuffer = 64 * 1024

// Stats summarizes one ingest run. Parse failures and rejected records
// are diagnostics, never fatal.
type Stats struct {
	Lines         int
	ParseFailures int
	Accepted      int
	Closed        int
	OutOfSequence int
	DecodeFailed  int
}

// record tallies one admission outcome.
func (s *Stats) record(outcome pipeline.Outcome) {
	switch outcome {
	case pipeline.Accepted:
		s.Accepted++
	case pipeline.IgnoredClosed:
		s.Closed++
	case pipeline.IgnoredOutOfSequence:
		s.OutOfSequence++
	case pipeline.IgnoredDecodeFailed:
		s.DecodeFailed++
	}
}

// Rejected returns the total number of records dropped by admission.
func (s Stats) Rejected() int {
	return s.Closed + s.OutOfSequence + s.DecodeFailed
}

// Feed reads record lines from r until a blank line or end of stream,
// admitting each parsed record into the table. Malformed lines are logged
// and skipped. The only fatal condition is a read failure on r itself.
func Feed(r io.Reader, table *pipeline.Table, logger *slog.Logger, maxLineBytes int) (Stats, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialScanBuffer), maxLineBytes)

	var stats Stats

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}

		stats.Lines++

		rec, err := ParseLine(line)
		if err != nil {
			stats.ParseFailures++
			logger.Debug("could not parse line", "line", line, "error", err)

			continue
		}

		stats.record(table.Admit(rec))
	}

	err := scanner.Err()
	if err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}

	return stats, nil
}
