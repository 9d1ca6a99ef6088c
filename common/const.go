package common

const (
	// TimeScale is the 90 kHz clock shared by all graphic stream formats.
	TimeScale = 90000
	// PtsWrap is the wrap point of the 32-bit timestamp fields in raw
	// graphic stream headers.
	PtsWrap = 1 << 32
)

func SignedPTSDiff(p2, p1 int64) int64 {
	return (p2-p1+3*PtsWrap/2)%PtsWrap - PtsWrap/2
}

func UnsignedPTSDiff(p2, p1 int64) int64 {
	return (p2 - p1 + 2*PtsWrap) % PtsWrap
}

func AddPTS(p1, p2 int64) int64 {
	return (p1 + p2) % PtsWrap
}
