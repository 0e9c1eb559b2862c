package pipeline

// Outcome classifies the result of admitting one parsed record.
// Outcomes surface as diagnostics and metrics; admission control flow
// never branches on a previous record's outcome.
type Outcome uint8

const (
	// Accepted means the record was decoded and buffered.
	Accepted Outcome = iota
	// IgnoredClosed means the record targeted a closed pipeline.
	IgnoredClosed
	// IgnoredOutOfSequence means the record ID did not match the
	// pipeline's expected-next cursor while the discard policy was on.
	IgnoredOutOfSequence
	// IgnoredDecodeFailed means the payload could not be decoded.
	IgnoredDecodeFailed
)

// String returns a stable label for use in logs and metric attributes.
func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case IgnoredClosed:
		return "ignored_closed"
	case IgnoredOutOfSequence:
		return "ignored_out_of_sequence"
	case IgnoredDecodeFailed:
		return "ignored_decode_failed"
	default:
		return "unknown"
	}
}
