// Package runstats tracks per-phase timing and throughput for a link-check
// run: a Start/End marker pair for each of the enumerate, extract-and-reduce,
// classify, and source-map phases, plus one memory snapshot taken when
// classification ends.
package runstats

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Stats holds performance metrics for one run of the checker.
type Stats struct {
	EnumerateStart, EnumerateEnd time.Time
	MapReduceStart, MapReduceEnd time.Time
	ClassifyStart, ClassifyEnd   time.Time
	SourceMapStart, SourceMapEnd time.Time

	FilesEnumerated int
	DocumentsSeen   int
	BrokenLinks     int
	BrokenAnchors   int

	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// New returns a zero Stats ready for the phase markers below.
func New() *Stats {
	return &Stats{}
}

// StartEnumerate marks the beginning of path enumeration.
func (s *Stats) StartEnumerate() { s.EnumerateStart = time.Now() }

// EndEnumerate marks the end of enumeration and records the file count.
func (s *Stats) EndEnumerate(files int) {
	s.EnumerateEnd = time.Now()
	s.FilesEnumerated = files
}

// StartMapReduce marks the beginning of the parallel extract-and-reduce phase.
func (s *Stats) StartMapReduce() { s.MapReduceStart = time.Now() }

// EndMapReduce marks the end of the map-reduce phase and records how many
// distinct DocumentIds the merged store holds.
func (s *Stats) EndMapReduce(documents int) {
	s.MapReduceEnd = time.Now()
	s.DocumentsSeen = documents
}

// StartClassify marks the beginning of the classification pass.
func (s *Stats) StartClassify() { s.ClassifyStart = time.Now() }

// EndClassify marks the end of classification and records finding counts.
func (s *Stats) EndClassify(brokenLinks, brokenAnchors int) {
	s.ClassifyEnd = time.Now()
	s.BrokenLinks = brokenLinks
	s.BrokenAnchors = brokenAnchors
	s.captureMemoryStats()
}

// StartSourceMap marks the beginning of the optional source-mapper pass.
func (s *Stats) StartSourceMap() { s.SourceMapStart = time.Now() }

// EndSourceMap marks the end of the optional source-mapper pass.
func (s *Stats) EndSourceMap() { s.SourceMapEnd = time.Now() }

func (s *Stats) captureMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// EnumerateDuration returns the time spent walking the site root.
func (s *Stats) EnumerateDuration() time.Duration {
	return durationOrZero(s.EnumerateStart, s.EnumerateEnd)
}

// MapReduceDuration returns the time spent extracting and reducing.
func (s *Stats) MapReduceDuration() time.Duration {
	return durationOrZero(s.MapReduceStart, s.MapReduceEnd)
}

// ClassifyDuration returns the time spent classifying the merged store.
func (s *Stats) ClassifyDuration() time.Duration {
	return durationOrZero(s.ClassifyStart, s.ClassifyEnd)
}

// SourceMapDuration returns the time spent building and querying the
// source-mapper, zero if it was never run.
func (s *Stats) SourceMapDuration() time.Duration {
	return durationOrZero(s.SourceMapStart, s.SourceMapEnd)
}

// TotalDuration returns the time from enumeration start to the end of the
// last phase that ran.
func (s *Stats) TotalDuration() time.Duration {
	end := s.ClassifyEnd
	if s.SourceMapEnd.After(end) {
		end = s.SourceMapEnd
	}
	return durationOrZero(s.EnumerateStart, end)
}

func durationOrZero(start, end time.Time) time.Duration {
	if end.IsZero() || start.IsZero() {
		return 0
	}
	return end.Sub(start)
}

// FilesPerSecond returns enumeration-plus-extraction throughput.
func (s *Stats) FilesPerSecond() float64 {
	d := s.MapReduceDuration()
	if d == 0 || s.FilesEnumerated == 0 {
		return 0
	}
	return float64(s.FilesEnumerated) / d.Seconds()
}

// FormatDuration renders a duration as microseconds, milliseconds, seconds,
// or minutes depending on scale.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
	}
}

// FormatBytes renders a byte count as B/KB/MB/GB depending on scale.
func FormatBytes(b uint64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/gb)
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/mb)
	case b >= kb:
		return fmt.Sprintf("%.1f KB", float64(b)/kb)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// String renders a human-readable performance breakdown: timing,
// throughput, memory.
func (s *Stats) String() string {
	var b strings.Builder

	total := s.TotalDuration()

	b.WriteString("\n=== Performance Statistics ===\n\n")

	b.WriteString("Timing:\n")
	writeTimingLine(&b, "Enumerate:", s.EnumerateDuration(), total)
	writeTimingLine(&b, "Extract+reduce:", s.MapReduceDuration(), total)
	writeTimingLine(&b, "Classify:", s.ClassifyDuration(), total)
	if !s.SourceMapStart.IsZero() {
		writeTimingLine(&b, "Source-map:", s.SourceMapDuration(), total)
	}
	b.WriteString("  ─────────────────────────\n")
	fmt.Fprintf(&b, "  Total:           %8s\n", FormatDuration(total))

	b.WriteString("\nThroughput:\n")
	fmt.Fprintf(&b, "  Files enumerated:  %5d\n", s.FilesEnumerated)
	fmt.Fprintf(&b, "  Documents seen:    %5d\n", s.DocumentsSeen)
	fmt.Fprintf(&b, "  Broken links:      %5d\n", s.BrokenLinks)
	fmt.Fprintf(&b, "  Broken anchors:    %5d\n", s.BrokenAnchors)
	fmt.Fprintf(&b, "  Files/second:      %5.1f\n", s.FilesPerSecond())

	b.WriteString("\nMemory:\n")
	fmt.Fprintf(&b, "  Heap in use:   %8s\n", FormatBytes(s.HeapAlloc))
	fmt.Fprintf(&b, "  Total alloc:   %8s\n", FormatBytes(s.TotalAlloc))
	fmt.Fprintf(&b, "  GC cycles:     %8d\n", s.NumGC)
	fmt.Fprintf(&b, "  Goroutines:    %8d\n", s.NumGoroutine)

	return b.String()
}

func writeTimingLine(b *strings.Builder, label string, d, total time.Duration) {
	fmt.Fprintf(b, "  %-16s %8s", label, FormatDuration(d))
	if total > 0 {
		fmt.Fprintf(b, "  (%4.1f%%)", float64(d)/float64(total)*100)
	}
	b.WriteString("\n")
}
