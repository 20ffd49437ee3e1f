package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

// Report holds the formatted statistics of a run.
type Report struct {
	Duration        string  `json:"duration"`
	Messages        int64   `json:"messages"`
	Bytes           int64   `json:"bytes"`
	Columns         int64   `json:"columns"`
	Resolved        int64   `json:"resolved"`
	ResolvedPercent float64 `json:"resolved_percent"`
	ConfidenceMin   int64   `json:"confidence_min,omitempty"`
	ConfidenceP50   int64   `json:"confidence_p50,omitempty"`
	ConfidenceP90   int64   `json:"confidence_p90,omitempty"`
	ConfidenceP99   int64   `json:"confidence_p99,omitempty"`
	ConfidenceMax   int64   `json:"confidence_max,omitempty"`
	hasConfidence   bool
}

// NewReport captures the current statistics.
func NewReport(s *Stats) Report {
	s.mu.Lock()
	r := Report{
		Duration: durafmt.Parse(s.Duration()).String(),
		Messages: s.messages,
		Bytes:    s.bytes,
	}
	s.mu.Unlock()
	r.Columns = s.Columns()
	r.Resolved = s.Resolved()
	r.ResolvedPercent = s.ResolvedPercent()

	// Include confidence stats if we have samples
	if s.ConfidenceCount() > 0 {
		r.hasConfidence = true
		r.ConfidenceMin = s.ConfidenceMin()
		r.ConfidenceP50 = s.ConfidencePercentile(50)
		r.ConfidenceP90 = s.ConfidencePercentile(90)
		r.ConfidenceP99 = s.ConfidencePercentile(99)
		r.ConfidenceMax = s.ConfidenceMax()
	}
	return r
}

// Print writes the report to w as "text" or "json".
func Print(w io.Writer, s *Stats, format string) error {
	r := NewReport(s)
	switch format {
	case "json":
		return printJSON(w, r)
	default:
		return printText(w, r)
	}
}

func printJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func printText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "=== Column Statistics ===")
	fmt.Fprintf(tw, "Duration:\t%s\n", r.Duration)
	fmt.Fprintf(tw, "Messages:\t%s\n", humanize.Comma(r.Messages))
	fmt.Fprintf(tw, "Ciphertext:\t%s\n", humanize.Bytes(uint64(r.Bytes)))
	fmt.Fprintf(tw, "Columns:\t%s\n", humanize.Comma(r.Columns))
	fmt.Fprintf(tw, "Resolved:\t%s (%.1f%%)\n", humanize.Comma(r.Resolved), r.ResolvedPercent)

	if r.hasConfidence {
		fmt.Fprintln(tw, "--- Confidence (% of participants) ---")
		fmt.Fprintf(tw, "Min:\t%d\n", r.ConfidenceMin)
		fmt.Fprintf(tw, "P50:\t%d\n", r.ConfidenceP50)
		fmt.Fprintf(tw, "P90:\t%d\n", r.ConfidenceP90)
		fmt.Fprintf(tw, "P99:\t%d\n", r.ConfidenceP99)
		fmt.Fprintf(tw, "Max:\t%d\n", r.ConfidenceMax)
	}
	return tw.Flush()
}
