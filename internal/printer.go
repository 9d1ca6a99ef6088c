package internal

import (
	"encoding/json"
	"fmt"
	"io"
)

type JsonPrinter struct {
	W        io.Writer
	Indent   bool
	AccError error
}

func (p *JsonPrinter) Print(data any, show bool) {
	if !show {
		return
	}
	var out []byte
	var err error
	if p.AccError != nil {
		return
	}
	if p.Indent {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		p.AccError = err
		return
	}
	_, p.AccError = fmt.Fprintln(p.W, string(out))
}

func (p *JsonPrinter) Error() error {
	return p.AccError
}

// SegmentInfo is the JSON view of one decoded segment.
type SegmentInfo struct {
	Nr   int    `json:"nr"`
	Kind string `json:"kind"`
	PTS  uint64 `json:"pts"`
	DTS  uint64 `json:"dts"`
	Size int    `json:"size"`
}

func (p *JsonPrinter) PrintSegment(nr int, seg Segment, show bool) {
	p.Print(SegmentInfo{
		Nr:   nr,
		Kind: seg.Kind.String(),
		PTS:  seg.PTS,
		DTS:  seg.DTS,
		Size: len(seg.Payload),
	}, show)
}

// IndexRecordInfo is the JSON view of one MUI index record.
type IndexRecordInfo struct {
	Nr     int    `json:"nr"`
	Kind   string `json:"kind"`
	Offset uint64 `json:"offset"`
	Size   uint32 `json:"size"`
	PTS    uint64 `json:"pts"`
	DTS    uint64 `json:"dts"`
}

func (p *JsonPrinter) PrintIndexRecord(nr int, rec IndexRecord, show bool) {
	p.Print(IndexRecordInfo{
		Nr:     nr,
		Kind:   rec.Kind.String(),
		Offset: rec.Offset,
		Size:   rec.Size,
		PTS:    rec.PTS,
		DTS:    rec.DTS,
	}, show)
}
