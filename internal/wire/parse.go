// Package wire reads the line-oriented record stream and turns each line
// into a parsed record for admission.
package wire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pipemux/pipemux/internal/decode"
	"github.com/pipemux/pipemux/internal/pipeline"
	"github.com/pipemux/pipemux/pkg/safeconv"
)

// A record line is `pipeline_id id encoding payload next_id`, whitespace
// separated. Trailing fields beyond the fifth are ignored.
const minLineFields = 5

// Field positions within a tokenized record line.
const (
	fieldPipelineID = iota
	fieldID
	fieldEncoding
	fieldPayload
	fieldNextID
)

// ErrMissingFields indicates a line with fewer than the required fields.
var ErrMissingFields = errors.New("missing fields")

// ParseLine tokenizes one input line into a parsed record.
// The payload is kept raw; decoding happens at admission.
func ParseLine(line string) (pipeline.ParsedRecord, error) {
	fields := strings.Fields(line)
	if len(fields) < minLineFields {
		return pipeline.ParsedRecord{}, fmt.Errorf("%w: got %d, want %d", ErrMissingFields, len(fields), minLineFields)
	}

	pipelineID, err := safeconv.ParseUint8(fields[fieldPipelineID])
	if err != nil {
		return pipeline.ParsedRecord{}, fmt.Errorf("pipeline id: %w", err)
	}

	id, err := safeconv.ParseUint8(fields[fieldID])
	if err != nil {
		return pipeline.ParsedRecord{}, fmt.Errorf("record id: %w", err)
	}

	tag, err := safeconv.ParseUint8(fields[fieldEncoding])
	if err != nil {
		return pipeline.ParsedRecord{}, fmt.Errorf("encoding tag: %w", err)
	}

	enc, err := decode.EncodingFromTag(tag)
	if err != nil {
		return pipeline.ParsedRecord{}, fmt.Errorf("encoding tag: %w", err)
	}

	nextID, hasNext, err := safeconv.ParseOptionalUint8(fields[fieldNextID])
	if err != nil {
		return pipeline.ParsedRecord{}, fmt.Errorf("next id: %w", err)
	}

	return pipeline.ParsedRecord{
		PipelineID: pipelineID,
		ID:         id,
		Encoding:   enc,
		RawText:    fields[fieldPayload],
		NextID:     nextID,
		HasNext:    hasNext,
	}, nil
}
