package internal

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

const (
	rawMagicSize  = 2
	rawHeaderSize = 13 // magic(2) + pts(4) + dts(4) + kind(1) + length(2)

	maxRawTimestamp  = 1<<32 - 1
	maxSegmentLength = 1<<16 - 1
)

// DecodeRawStream parses a complete raw graphic stream (.sup/.mnu layout)
// into a Stream. Every segment starts with the family magic and carries its
// own timestamps and payload length inline. The only valid termination is
// exhaustion of the input; this framing has no terminator kind.
func DecodeRawStream(data []byte, family Family) (*Stream, error) {
	sr := bits.NewFixedSliceReader(data)
	stream := &Stream{}
	for sr.NrRemainingBytes() > 0 {
		if sr.NrRemainingBytes() < rawHeaderSize {
			return nil, fmt.Errorf("%w: truncated segment header at offset %d", ErrMalformedStream, sr.GetPos())
		}
		magic := sr.ReadBytes(rawMagicSize)
		if !bytes.Equal(magic, family.Magic()) {
			return nil, fmt.Errorf("%w: bad magic %q at offset %d, want %q",
				ErrMalformedStream, magic, sr.GetPos()-rawMagicSize, family.Magic())
		}
		pts := sr.ReadUint32()
		dts := sr.ReadUint32()
		kind := SegmentKind(sr.ReadUint8())
		length := int(sr.ReadUint16())
		if !family.ValidKind(kind) {
			return nil, fmt.Errorf("%w: unknown %s segment kind 0x%02x", ErrMalformedStream, family, byte(kind))
		}
		if sr.NrRemainingBytes() < length {
			return nil, fmt.Errorf("%w: segment payload of %d bytes overruns input", ErrMalformedStream, length)
		}
		payload := sr.ReadBytes(length)
		if err := sr.AccError(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedStream, err)
		}
		stream.Segments = append(stream.Segments, Segment{
			Kind:    kind,
			PTS:     uint64(pts),
			DTS:     uint64(dts),
			Payload: payload,
		})
	}
	return stream, nil
}

// EncodeRawStream emits the exact inverse byte layout: one 13-byte header
// followed by the payload, per segment, in stream order, with no padding
// or merging.
func EncodeRawStream(stream *Stream, family Family) ([]byte, error) {
	size := 0
	for _, seg := range stream.Segments {
		size += rawHeaderSize + len(seg.Payload)
	}
	sw := bits.NewFixedSliceWriter(size)
	for _, seg := range stream.Segments {
		if !family.ValidKind(seg.Kind) {
			return nil, fmt.Errorf("%w: segment kind %s not in %s vocabulary", ErrMalformedStream, seg.Kind, family)
		}
		if seg.PTS > maxRawTimestamp || seg.DTS > maxRawTimestamp {
			return nil, fmt.Errorf("%w: pts=%d dts=%d beyond 32-bit clock field",
				ErrTimestampOverflow, seg.PTS, seg.DTS)
		}
		if len(seg.Payload) > maxSegmentLength {
			return nil, fmt.Errorf("%w: payload of %d bytes exceeds 16-bit length field",
				ErrMalformedStream, len(seg.Payload))
		}
		sw.WriteBytes(family.Magic())
		sw.WriteUint32(uint32(seg.PTS))
		sw.WriteUint32(uint32(seg.DTS))
		sw.WriteUint8(byte(seg.Kind))
		sw.WriteUint16(uint16(len(seg.Payload)))
		sw.WriteBytes(seg.Payload)
	}
	if err := sw.AccError(); err != nil {
		return nil, err
	}
	return sw.Bytes(), nil
}
