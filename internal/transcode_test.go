package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranscodeSameFormat(t *testing.T) {
	for _, f := range []Format{FormatRawStream, FormatEsMui} {
		out, err := Transcode(f, f, FamilyPG, TranscodeInput{})
		require.ErrorIs(t, err, ErrSameFormat)
		require.Equal(t, TranscodeOutput{}, out)
	}
}

func TestTranscodeScenario(t *testing.T) {
	// Three segments: a composition with payload, an empty one, and END.
	raw := threeSegmentRawStream()

	out, err := Transcode(FormatRawStream, FormatEsMui, FamilyPG, TranscodeInput{Raw: raw})
	require.NoError(t, err)

	recs, err := ReadMuiIndex(out.Mui, FamilyPG)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i := 1; i < len(recs); i++ {
		require.Greater(t, recs[i].Offset, recs[i-1].Offset, "index offsets must ascend")
	}

	want, err := DecodeRawStream(raw, FamilyPG)
	require.NoError(t, err)
	got, err := DecodeEsMui(out.Mui, out.Es, FamilyPG)
	require.NoError(t, err)
	require.True(t, want.Equal(got), "unwrapped ES payload must reconstruct the same segments in the same order")

	back, err := Transcode(FormatEsMui, FormatRawStream, FamilyPG, TranscodeInput{Es: out.Es, Mui: out.Mui})
	require.NoError(t, err)
	require.Equal(t, raw, back.Raw, "full cross-format round trip must be bit-for-bit identical")
}

func TestTranscodeHelpers(t *testing.T) {
	raw := threeSegmentRawStream()

	muiData, esData, err := RawToEsMui(raw, FamilyPG)
	require.NoError(t, err)
	back, err := EsMuiToRaw(muiData, esData, FamilyPG)
	require.NoError(t, err)
	require.Equal(t, raw, back)
}

func TestTranscodeOrderAndTimestampFidelity(t *testing.T) {
	stream := twoSetStream()
	muiData, esData, err := EncodeEsMui(stream, FamilyPG)
	require.NoError(t, err)

	out, err := Transcode(FormatEsMui, FormatRawStream, FamilyPG, TranscodeInput{Es: esData, Mui: muiData})
	require.NoError(t, err)
	decoded, err := DecodeRawStream(out.Raw, FamilyPG)
	require.NoError(t, err)

	require.Len(t, decoded.Segments, len(stream.Segments))
	for i := range stream.Segments {
		require.Equal(t, stream.Segments[i].Kind, decoded.Segments[i].Kind)
		require.Equal(t, stream.Segments[i].PTS, decoded.Segments[i].PTS)
		require.Equal(t, stream.Segments[i].DTS, decoded.Segments[i].DTS)
	}
}

func TestTranscodeAbortsOnError(t *testing.T) {
	truncated := threeSegmentRawStream()[:5]
	out, err := Transcode(FormatRawStream, FormatEsMui, FamilyPG, TranscodeInput{Raw: truncated})
	require.ErrorIs(t, err, ErrMalformedStream)
	require.Equal(t, TranscodeOutput{}, out, "a failed conversion must produce no output")

	// Valid raw input whose dts does not fit the MUI clock field.
	overflowing := rawSegmentBytes("PG", 0, 4294967295, PCS, nil)
	out, err = Transcode(FormatRawStream, FormatEsMui, FamilyPG, TranscodeInput{Raw: overflowing})
	require.ErrorIs(t, err, ErrTimestampOverflow)
	require.Equal(t, TranscodeOutput{}, out)
}

func TestFormatClockRates(t *testing.T) {
	require.Equal(t, FormatRawStream.ClockRate(), FormatEsMui.ClockRate())
	require.Equal(t, int64(90000), FormatRawStream.ClockRate())
}
