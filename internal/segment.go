package internal

import (
	"bytes"
	"fmt"
	"strings"

	slices "golang.org/x/exp/slices"
)

// SegmentKind identifies the role of a segment within its stream family.
// The payload behind a kind is opaque to the codecs.
type SegmentKind byte

const (
	PDS SegmentKind = 0x14 // palette definition
	ODS SegmentKind = 0x15 // object definition
	PCS SegmentKind = 0x16 // presentation composition (PG)
	WDS SegmentKind = 0x17 // window definition (PG)
	ICS SegmentKind = 0x18 // interactive composition (IG)
	END SegmentKind = 0x80 // end of display set
)

func (k SegmentKind) String() string {
	switch k {
	case PDS:
		return "PDS"
	case ODS:
		return "ODS"
	case PCS:
		return "PCS"
	case WDS:
		return "WDS"
	case ICS:
		return "ICS"
	case END:
		return "END"
	default:
		return fmt.Sprintf("0x%02x", byte(k))
	}
}

// Family selects which segment kinds are legal and which two-byte magic
// starts every segment header of a raw stream. It does not change any
// field widths.
type Family int

const (
	FamilyPG Family = iota // graphic subtitle streams (.sup, .pgs)
	FamilyIG               // interactive menu streams (.mnu, .igs)
)

var (
	pgKinds = []SegmentKind{PDS, ODS, PCS, WDS, END}
	igKinds = []SegmentKind{PDS, ODS, ICS, END}
)

func (f Family) String() string {
	if f == FamilyIG {
		return "IG"
	}
	return "PG"
}

// Magic returns the signature starting every raw stream segment header.
func (f Family) Magic() []byte {
	if f == FamilyIG {
		return []byte("IG")
	}
	return []byte("PG")
}

// Kinds returns the segment kind vocabulary of the family.
func (f Family) Kinds() []SegmentKind {
	if f == FamilyIG {
		return igKinds
	}
	return pgKinds
}

// ValidKind reports whether k belongs to the family's kind vocabulary.
func (f Family) ValidKind(k SegmentKind) bool {
	return slices.Contains(f.Kinds(), k)
}

// ParseFamily parses a family name such as "pg" or "IG".
func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(name) {
	case "pg":
		return FamilyPG, nil
	case "ig":
		return FamilyIG, nil
	}
	return FamilyPG, fmt.Errorf("unknown stream family %q", name)
}

// Segment is one atomic timestamped unit of elementary-stream data.
// Timestamps are 90 kHz clock ticks. The payload is copied verbatim
// between formats and must match the length field recorded for it in
// whichever container it was read from.
type Segment struct {
	Kind    SegmentKind
	PTS     uint64
	DTS     uint64
	Payload []byte
}

// Equal reports full equality, including payload bytes.
func (s Segment) Equal(o Segment) bool {
	return s.Kind == o.Kind && s.PTS == o.PTS && s.DTS == o.DTS &&
		bytes.Equal(s.Payload, o.Payload)
}

// Stream is an ordered, finite sequence of segments. Insertion order equals
// on-disk order equals presentation order; no codec may reorder it.
type Stream struct {
	Segments []Segment
}

// Equal reports segment-wise equality of two streams.
func (s *Stream) Equal(o *Stream) bool {
	if len(s.Segments) != len(o.Segments) {
		return false
	}
	for i := range s.Segments {
		if !s.Segments[i].Equal(o.Segments[i]) {
			return false
		}
	}
	return true
}

// DisplaySets splits the stream into maximal contiguous runs of segments
// sharing one PTS/DTS pair. The grouping is derived, never persisted.
func (s *Stream) DisplaySets() [][]Segment {
	var sets [][]Segment
	start := 0
	for i := 1; i <= len(s.Segments); i++ {
		if i == len(s.Segments) ||
			s.Segments[i].PTS != s.Segments[start].PTS ||
			s.Segments[i].DTS != s.Segments[start].DTS {
			sets = append(sets, s.Segments[start:i])
			start = i
		}
	}
	return sets
}
