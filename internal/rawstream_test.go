package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rawSegmentBytes(magic string, pts, dts uint32, kind SegmentKind, payload []byte) []byte {
	b := make([]byte, 0, rawHeaderSize+len(payload))
	b = append(b, magic...)
	b = append(b, byte(pts>>24), byte(pts>>16), byte(pts>>8), byte(pts))
	b = append(b, byte(dts>>24), byte(dts>>16), byte(dts>>8), byte(dts))
	b = append(b, byte(kind))
	b = append(b, byte(len(payload)>>8), byte(len(payload)))
	return append(b, payload...)
}

func threeSegmentRawStream() []byte {
	var data []byte
	data = append(data, rawSegmentBytes("PG", 0, 0, PCS, []byte{0x01, 0x02})...)
	data = append(data, rawSegmentBytes("PG", 3003, 3003, WDS, nil)...)
	data = append(data, rawSegmentBytes("PG", 3003, 3003, END, nil)...)
	return data
}

func TestDecodeRawStream(t *testing.T) {
	stream, err := DecodeRawStream(threeSegmentRawStream(), FamilyPG)
	require.NoError(t, err)
	require.Len(t, stream.Segments, 3)
	require.True(t, stream.Segments[0].Equal(Segment{Kind: PCS, PTS: 0, DTS: 0, Payload: []byte{0x01, 0x02}}))
	require.True(t, stream.Segments[1].Equal(Segment{Kind: WDS, PTS: 3003, DTS: 3003}))
	require.True(t, stream.Segments[2].Equal(Segment{Kind: END, PTS: 3003, DTS: 3003}))
}

func TestDecodeRawStreamEmpty(t *testing.T) {
	stream, err := DecodeRawStream(nil, FamilyPG)
	require.NoError(t, err)
	require.Empty(t, stream.Segments)

	data, err := EncodeRawStream(stream, FamilyPG)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestDecodeRawStreamMalformed(t *testing.T) {
	valid := threeSegmentRawStream()

	overrun := rawSegmentBytes("PG", 0, 0, PCS, []byte{0x01, 0x02})
	overrun = overrun[:len(overrun)-1] // payload cut short

	cases := []struct {
		name   string
		data   []byte
		family Family
	}{
		{"truncated mid-header", valid[:7], FamilyPG},
		{"truncated mid-payload", overrun, FamilyPG},
		{"garbage after last segment", append(threeSegmentRawStream(), 'P'), FamilyPG},
		{"wrong family magic", valid, FamilyIG},
		{"kind outside PG vocabulary", rawSegmentBytes("PG", 0, 0, ICS, nil), FamilyPG},
		{"kind outside IG vocabulary", rawSegmentBytes("IG", 0, 0, WDS, nil), FamilyIG},
		{"unknown kind", rawSegmentBytes("PG", 0, 0, SegmentKind(0x42), nil), FamilyPG},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			stream, err := DecodeRawStream(c.data, c.family)
			require.ErrorIs(t, err, ErrMalformedStream)
			require.Nil(t, stream)
		})
	}
}

func TestRawStreamRoundTrip(t *testing.T) {
	data := threeSegmentRawStream()
	stream, err := DecodeRawStream(data, FamilyPG)
	require.NoError(t, err)

	out, err := EncodeRawStream(stream, FamilyPG)
	require.NoError(t, err)
	require.Equal(t, data, out, "encode(decode(bytes)) must be bit-for-bit identical")

	again, err := DecodeRawStream(out, FamilyPG)
	require.NoError(t, err)
	require.True(t, stream.Equal(again))
}

func TestRawStreamRoundTripIG(t *testing.T) {
	var data []byte
	data = append(data, rawSegmentBytes("IG", 900, 450, ICS, []byte{0xAA, 0xBB, 0xCC})...)
	data = append(data, rawSegmentBytes("IG", 900, 450, PDS, []byte{0x00})...)
	data = append(data, rawSegmentBytes("IG", 900, 900, END, nil)...)

	stream, err := DecodeRawStream(data, FamilyIG)
	require.NoError(t, err)
	out, err := EncodeRawStream(stream, FamilyIG)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestEncodeRawStreamErrors(t *testing.T) {
	cases := []struct {
		name    string
		segment Segment
		wantErr error
	}{
		{"pts one above 32-bit range", Segment{Kind: PCS, PTS: 1 << 32}, ErrTimestampOverflow},
		{"dts one above 32-bit range", Segment{Kind: PCS, DTS: 1 << 32}, ErrTimestampOverflow},
		{"kind outside family", Segment{Kind: ICS}, ErrMalformedStream},
		{"payload beyond 16-bit length", Segment{Kind: ODS, Payload: make([]byte, maxSegmentLength+1)}, ErrMalformedStream},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := EncodeRawStream(&Stream{Segments: []Segment{c.segment}}, FamilyPG)
			require.ErrorIs(t, err, c.wantErr)
			require.Nil(t, data, "a failed encode must produce no output bytes")
		})
	}
}
