package internal

import (
	"fmt"

	"github.com/scenalab/gstream-tools/common"
)

// Format enumerates the two on-disk representations of a graphic stream.
type Format int

const (
	FormatRawStream Format = iota // monolithic .sup/.mnu container
	FormatEsMui                   // Scenarist ES payload + MUI index pair
)

func (f Format) String() string {
	switch f {
	case FormatRawStream:
		return "raw stream"
	case FormatEsMui:
		return "ES+MUI"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ClockRate returns the timestamp tick rate of the format. Both known
// formats count 90 kHz ticks; the check below exists so that a future
// format variant with a different rate cannot be converted silently.
func (f Format) ClockRate() int64 {
	return common.TimeScale
}

// TranscodeInput carries the complete input byte sequences of one
// representation: Raw for FormatRawStream, Es and Mui for FormatEsMui.
type TranscodeInput struct {
	Raw []byte
	Es  []byte
	Mui []byte
}

// TranscodeOutput mirrors TranscodeInput for the produced representation.
type TranscodeOutput struct {
	Raw []byte
	Es  []byte
	Mui []byte
}

// Transcode decodes the source representation in full and re-encodes the
// resulting stream as the target representation. Either a complete output
// is returned or none: any decode or encode failure aborts the conversion.
// Requesting the same format on both sides is a configuration error.
func Transcode(src, dst Format, family Family, in TranscodeInput) (TranscodeOutput, error) {
	if src == dst {
		return TranscodeOutput{}, fmt.Errorf("%w: %s", ErrSameFormat, src)
	}
	if src.ClockRate() != dst.ClockRate() {
		return TranscodeOutput{}, fmt.Errorf("%w: source runs at %d Hz, target at %d Hz",
			ErrClockRateMismatch, src.ClockRate(), dst.ClockRate())
	}
	var stream *Stream
	var err error
	switch src {
	case FormatRawStream:
		stream, err = DecodeRawStream(in.Raw, family)
	case FormatEsMui:
		stream, err = DecodeEsMui(in.Mui, in.Es, family)
	default:
		err = fmt.Errorf("unknown source format %s", src)
	}
	if err != nil {
		return TranscodeOutput{}, err
	}
	var out TranscodeOutput
	switch dst {
	case FormatRawStream:
		out.Raw, err = EncodeRawStream(stream, family)
	case FormatEsMui:
		out.Mui, out.Es, err = EncodeEsMui(stream, family)
	default:
		err = fmt.Errorf("unknown target format %s", dst)
	}
	if err != nil {
		return TranscodeOutput{}, err
	}
	return out, nil
}

// RawToEsMui converts a raw graphic stream to a Scenarist ES+MUI pair.
func RawToEsMui(raw []byte, family Family) (muiData, esData []byte, err error) {
	out, err := Transcode(FormatRawStream, FormatEsMui, family, TranscodeInput{Raw: raw})
	if err != nil {
		return nil, nil, err
	}
	return out.Mui, out.Es, nil
}

// EsMuiToRaw converts a Scenarist ES+MUI pair to a raw graphic stream.
func EsMuiToRaw(muiData, esData []byte, family Family) ([]byte, error) {
	out, err := Transcode(FormatEsMui, FormatRawStream, family, TranscodeInput{Es: esData, Mui: muiData})
	if err != nil {
		return nil, err
	}
	return out.Raw, nil
}
