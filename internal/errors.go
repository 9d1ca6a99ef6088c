package internal

import "errors"

// Error kinds surfaced by the codecs. All are terminal for the current
// conversion: the first error aborts it and no output bytes are produced.
var (
	// ErrMalformedStream marks structural corruption: a truncated header,
	// a payload length overrunning the input, or a segment kind outside
	// the requested family's vocabulary.
	ErrMalformedStream = errors.New("malformed stream")

	// ErrIndexPayloadMismatch marks a MUI index record that does not line
	// up with a validly framed block in the ES payload file.
	ErrIndexPayloadMismatch = errors.New("index does not match ES payload")

	// ErrTimestampOverflow marks a timestamp that does not fit the clock
	// field width of the target format.
	ErrTimestampOverflow = errors.New("timestamp overflow")

	// ErrClockRateMismatch guards the assumption that source and target
	// formats count time in the same 90 kHz clock.
	ErrClockRateMismatch = errors.New("clock rate mismatch")

	// ErrSameFormat rejects a transcode request whose source and target
	// formats are identical.
	ErrSameFormat = errors.New("source and target formats are the same")
)
