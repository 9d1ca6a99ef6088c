package internal

import (
	"context"
	"io"
	"os"
)

// ParseStreamInfo decodes one input representation in full and prints the
// requested JSON reports line by line: segments, MUI index records, and
// stream statistics. A non-empty Options.MuiFile selects the split ES+MUI
// representation with f as the ES payload; otherwise f is a raw stream.
func ParseStreamInfo(ctx context.Context, w io.Writer, f io.Reader, o Options) error {
	family, err := ParseFamily(o.Family)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var stream *Stream
	var recs []IndexRecord
	if o.MuiFile != "" {
		muiData, err := os.ReadFile(o.MuiFile)
		if err != nil {
			return err
		}
		recs, err = ReadMuiIndex(muiData, family)
		if err != nil {
			return err
		}
		stream, err = DecodeEsMui(muiData, data, family)
		if err != nil {
			return err
		}
	} else {
		stream, err = DecodeRawStream(data, family)
		if err != nil {
			return err
		}
	}

	jp := &JsonPrinter{W: w, Indent: o.Indent}
segmentLoop:
	for i, seg := range stream.Segments {
		// Check if context was cancelled
		select {
		case <-ctx.Done():
			break segmentLoop
		default:
		}
		jp.PrintSegment(i, seg, o.ShowSegments)
	}
	for i, rec := range recs {
		jp.PrintIndexRecord(i, rec, o.ShowIndex)
	}
	jp.PrintStatistics(CollectStatistics(stream, family), o.ShowStatistics)

	return jp.Error()
}
