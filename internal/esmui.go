package internal

import (
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

// MUI asset types. The first three header bytes are always zero.
const (
	muiTypeVideo    = 0x01
	muiTypeAudio    = 0x02
	muiTypeGraphics = 0x03
	muiTypeText     = 0x04
)

const (
	muiHeaderSize = 4
	muiRecordSize = 14 // kind(1) + block length(4) + timestamp block(9)
	muiTailKind   = 0xFF

	esFramingSize = 3 // kind(1) + length(2) prepended to each payload

	// Bias constants of the Scenarist timestamp block. The sdts field
	// stores dts/2 + 27e6, the spts field stores pts*64 + 128*27e6.
	dtsBias = 27_000_000
	ptsBias = 128 * dtsBias

	maxScaledPTS = 1<<39 - 1 // spts is 39 bits: 7 overflow bits + 32 low bits
)

// IndexRecord is the in-memory form of one MUI index entry. Offset is not
// stored on disk; it is the running sum of the block sizes preceding the
// record. Records map one-to-one with segments.
type IndexRecord struct {
	Kind   SegmentKind
	Offset uint64
	Size   uint32
	PTS    uint64
	DTS    uint64
}

// encodeTimestampBlock appends the proprietary 9-byte timestamp block for
// pts/dts to sw. firstSet follows Scenarist's convention of leaving the PTS
// overflow bits zero for every record of the stream's first display set;
// a first-set PTS that actually needs them is an overflow error, since
// dropping the bits silently would break round-trip identity.
func encodeTimestampBlock(sw *bits.FixedSliceWriter, pts, dts uint64, firstSet bool) error {
	if dts+dtsBias > 1<<32-1 {
		return fmt.Errorf("%w: dts=%d beyond MUI clock field", ErrTimestampOverflow, dts)
	}
	if pts > (maxScaledPTS-ptsBias)/64 {
		return fmt.Errorf("%w: pts=%d beyond MUI clock field", ErrTimestampOverflow, pts)
	}
	spts := pts*64 + ptsBias
	overflow := byte(spts >> 32)
	if firstSet && overflow != 0 {
		return fmt.Errorf("%w: pts=%d needs overflow bits inside the first display set",
			ErrTimestampOverflow, pts)
	}
	flags := byte(0)
	if dts&1 == 1 {
		flags = 0x80 // the low dts bit dropped from sdts
	}
	if !firstSet {
		flags |= overflow
	}
	sw.WriteUint32(uint32(dts>>1 + dtsBias))
	sw.WriteUint8(flags)
	sw.WriteUint32(uint32(spts))
	return nil
}

// decodeTimestampBlock reads the 9-byte timestamp block and inverts
// encodeTimestampBlock exactly. Foreign blocks whose spts is not a multiple
// of 64 are rounded to the nearest 90 kHz tick, as the reference tool does.
func decodeTimestampBlock(sr *bits.FixedSliceReader) (pts, dts uint64) {
	sdts := sr.ReadUint32()
	flags := sr.ReadUint8()
	low := sr.ReadUint32()
	spts := uint64(flags&0x7F)<<32 | uint64(low)
	dts = uint64(uint32((int64(sdts)-dtsBias)<<1 + int64(flags>>7)))
	p := (int64(spts)+32)>>6 - 2*dtsBias
	if p < 0 {
		// Foreign block below the bias; wrap into the 32-bit clock like
		// the reference tool does.
		p = int64(uint32(p))
	}
	pts = uint64(p)
	return pts, dts
}

// ReadMuiIndex parses a complete MUI index file into records carrying
// derived byte offsets into the companion ES payload file. The index ends
// with its 14-byte tail record or with plain exhaustion; both are accepted.
func ReadMuiIndex(muiData []byte, family Family) ([]IndexRecord, error) {
	sr := bits.NewFixedSliceReader(muiData)
	if sr.NrRemainingBytes() < muiHeaderSize {
		return nil, fmt.Errorf("%w: truncated MUI header", ErrMalformedStream)
	}
	for _, b := range sr.ReadBytes(muiHeaderSize - 1) {
		if b != 0 {
			return nil, fmt.Errorf("%w: bad MUI header", ErrMalformedStream)
		}
	}
	assetType := sr.ReadUint8()
	if assetType != muiTypeGraphics {
		return nil, fmt.Errorf("%w: unsupported MUI asset type 0x%02x", ErrMalformedStream, assetType)
	}
	var recs []IndexRecord
	var offset uint64
	for sr.NrRemainingBytes() > 0 {
		if sr.NrRemainingBytes() < muiRecordSize {
			return nil, fmt.Errorf("%w: truncated MUI record at offset %d", ErrMalformedStream, sr.GetPos())
		}
		kind := sr.ReadUint8()
		if kind == muiTailKind {
			for _, b := range sr.ReadBytes(muiRecordSize - 1) {
				if b != 0 {
					return nil, fmt.Errorf("%w: bad MUI tail signature", ErrMalformedStream)
				}
			}
			if n := sr.NrRemainingBytes(); n > 0 {
				return nil, fmt.Errorf("%w: %d bytes after MUI tail", ErrMalformedStream, n)
			}
			break
		}
		if !family.ValidKind(SegmentKind(kind)) {
			return nil, fmt.Errorf("%w: unknown %s segment kind 0x%02x in MUI index",
				ErrMalformedStream, family, kind)
		}
		blockLen := sr.ReadUint32()
		if blockLen < esFramingSize {
			return nil, fmt.Errorf("%w: MUI block length %d shorter than ES framing", ErrMalformedStream, blockLen)
		}
		pts, dts := decodeTimestampBlock(sr)
		recs = append(recs, IndexRecord{
			Kind:   SegmentKind(kind),
			Offset: offset,
			Size:   blockLen,
			PTS:    pts,
			DTS:    dts,
		})
		offset += uint64(blockLen)
	}
	if err := sr.AccError(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedStream, err)
	}
	return recs, nil
}

// DecodeEsMui reconstructs a Stream from a Scenarist MUI index and its
// companion ES payload file. Every index record must line up exactly with a
// framed block in the ES file; the unwrapped block bytes use the same kind
// and length layout as raw stream segments minus magic and timestamps.
func DecodeEsMui(muiData, esData []byte, family Family) (*Stream, error) {
	recs, err := ReadMuiIndex(muiData, family)
	if err != nil {
		return nil, err
	}
	stream := &Stream{}
	var end uint64
	for i, rec := range recs {
		end = rec.Offset + uint64(rec.Size)
		if end > uint64(len(esData)) {
			return nil, fmt.Errorf("%w: record %d spans [%d, %d) beyond ES file of %d bytes",
				ErrIndexPayloadMismatch, i, rec.Offset, end, len(esData))
		}
		block := esData[rec.Offset:end]
		kind := SegmentKind(block[0])
		length := int(block[1])<<8 | int(block[2])
		if kind != rec.Kind {
			return nil, fmt.Errorf("%w: record %d indexes a %s segment but ES block holds %s",
				ErrIndexPayloadMismatch, i, rec.Kind, kind)
		}
		if length+esFramingSize != int(rec.Size) {
			return nil, fmt.Errorf("%w: record %d size %d disagrees with ES segment length %d",
				ErrIndexPayloadMismatch, i, rec.Size, length)
		}
		stream.Segments = append(stream.Segments, Segment{
			Kind:    kind,
			PTS:     rec.PTS,
			DTS:     rec.DTS,
			Payload: block[esFramingSize:],
		})
	}
	if end != uint64(len(esData)) {
		return nil, fmt.Errorf("%w: %d unindexed bytes at end of ES file",
			ErrIndexPayloadMismatch, uint64(len(esData))-end)
	}
	return stream, nil
}

// EncodeEsMui packages a Stream as a Scenarist (MUI index, ES payload) pair.
// The pair is only final once every segment has been appended, since the
// index's implicit offsets are the running sum of framed block sizes.
func EncodeEsMui(stream *Stream, family Family) (muiData, esData []byte, err error) {
	esSize := 0
	for _, seg := range stream.Segments {
		esSize += esFramingSize + len(seg.Payload)
	}
	es := bits.NewFixedSliceWriter(esSize)
	mui := bits.NewFixedSliceWriter(muiHeaderSize + muiRecordSize*(len(stream.Segments)+1))
	mui.WriteUint32(muiTypeGraphics) // 00 00 00 03 header
	firstSet := true
	for _, seg := range stream.Segments {
		if !family.ValidKind(seg.Kind) {
			return nil, nil, fmt.Errorf("%w: segment kind %s not in %s vocabulary",
				ErrMalformedStream, seg.Kind, family)
		}
		if len(seg.Payload) > maxSegmentLength {
			return nil, nil, fmt.Errorf("%w: payload of %d bytes exceeds 16-bit length field",
				ErrMalformedStream, len(seg.Payload))
		}
		es.WriteUint8(byte(seg.Kind))
		es.WriteUint16(uint16(len(seg.Payload)))
		es.WriteBytes(seg.Payload)
		mui.WriteUint8(byte(seg.Kind))
		mui.WriteUint32(uint32(len(seg.Payload) + esFramingSize))
		if err := encodeTimestampBlock(mui, seg.PTS, seg.DTS, firstSet); err != nil {
			return nil, nil, err
		}
		if seg.Kind == END {
			firstSet = false
		}
	}
	mui.WriteUint8(muiTailKind)
	mui.WriteBytes(make([]byte, muiRecordSize-1))
	if err := es.AccError(); err != nil {
		return nil, nil, err
	}
	if err := mui.AccError(); err != nil {
		return nil, nil, err
	}
	return mui.Bytes(), es.Bytes(), nil
}
