package internal

import (
	"github.com/scenalab/gstream-tools/common"
)

// StreamStatistics summarizes a decoded graphic stream.
type StreamStatistics struct {
	Family       string         `json:"family"`
	Segments     int            `json:"segments"`
	DisplaySets  int            `json:"displaySets"`
	KindCounts   map[string]int `json:"kindCounts"`
	FirstPTS     uint64         `json:"firstPts"`
	LastPTS      uint64         `json:"lastPts"`
	DurationSecs float64        `json:"durationSeconds"`
	SetPTS       []int64        `json:"-"`
	MaxStep      int64          `json:"maxStep,omitempty"`
	MinStep      int64          `json:"minStep,omitempty"`
	AvgStep      int64          `json:"avgStep,omitempty"`
	Errors       []string       `json:"errors,omitempty"`
}

// CollectStatistics gathers per-kind counts and display-set timing of a
// stream. Steps are measured between consecutive display sets, not between
// individual segments, since segments of one set share a timestamp.
func CollectStatistics(stream *Stream, family Family) StreamStatistics {
	s := StreamStatistics{
		Family:     family.String(),
		Segments:   len(stream.Segments),
		KindCounts: make(map[string]int),
	}
	for _, seg := range stream.Segments {
		s.KindCounts[seg.Kind.String()]++
	}
	sets := stream.DisplaySets()
	s.DisplaySets = len(sets)
	for _, set := range sets {
		s.SetPTS = append(s.SetPTS, int64(set[0].PTS))
	}
	if len(s.SetPTS) > 0 {
		s.FirstPTS = uint64(s.SetPTS[0])
		s.LastPTS = uint64(s.SetPTS[len(s.SetPTS)-1])
		s.DurationSecs = float64(common.UnsignedPTSDiff(s.SetPTS[len(s.SetPTS)-1], s.SetPTS[0])) / common.TimeScale
	}
	s.calculateSteps()
	return s
}

func (p *JsonPrinter) PrintStatistics(s StreamStatistics, show bool) {
	p.Print(s, show)
}

func sliceMinMaxAverage(values []int64) (min, max, avg int64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	min = values[0]
	max = values[0]
	sum := int64(0)
	for _, number := range values {
		if number < min {
			min = number
		}
		if number > max {
			max = number
		}
		sum += number
	}
	avg = sum / int64(len(values))
	return min, max, avg
}

// CalculateSteps returns wrap-aware deltas between consecutive timestamps.
func CalculateSteps(timestamps []int64) []int64 {
	if len(timestamps) < 2 {
		return nil
	}

	// Timestamps are 32-bit 90 kHz values, so they wrap after ~13.25 hours
	steps := make([]int64, len(timestamps)-1)
	for i := 0; i < len(timestamps)-1; i++ {
		steps[i] = common.SignedPTSDiff(timestamps[i+1], timestamps[i])
	}
	return steps
}

func (s *StreamStatistics) calculateSteps() {
	if len(s.SetPTS) < 2 {
		s.Errors = append(s.Errors, "too few display sets to calculate timestamp steps")
		return
	}

	steps := CalculateSteps(s.SetPTS)
	s.MinStep, s.MaxStep, s.AvgStep = sliceMinMaxAverage(steps)
	if s.MaxStep != s.MinStep {
		s.Errors = append(s.Errors, "irregular display set spacing")
	}
}
