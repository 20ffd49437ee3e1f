package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/liftbridge-io/mtpcrack/cracker/engine"
)

// Stats tracks how confidently the columns of a run were resolved.
type Stats struct {
	mu        sync.Mutex
	startTime time.Time
	endTime   time.Time

	messages int64
	bytes    int64
	columns  int64
	resolved int64
	empty    int64

	// Column confidence in percent of participants, 0 to 100.
	confidenceHist *hdrhistogram.Histogram
}

// New creates a new Stats instance with the confidence histogram initialized.
func New() *Stats {
	return &Stats{
		confidenceHist: hdrhistogram.New(1, 100, 3),
	}
}

// Start begins the timing period.
func (s *Stats) Start() {
	s.startTime = time.Now()
}

// Stop ends the timing period.
func (s *Stats) Stop() {
	s.endTime = time.Now()
}

// Duration returns the time between Start and Stop.
func (s *Stats) Duration() time.Duration {
	return s.endTime.Sub(s.startTime)
}

// RecordCorpus records the size of the analysed corpus.
func (s *Stats) RecordCorpus(messages, bytes int) {
	s.mu.Lock()
	s.messages += int64(messages)
	s.bytes += int64(bytes)
	s.mu.Unlock()
}

// RecordColumn records the analysis of one column.
func (s *Stats) RecordColumn(c engine.Column) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns++
	if c.Resolved {
		s.resolved++
	}
	if c.Participants == 0 {
		s.empty++
		return
	}
	s.confidenceHist.RecordValue(int64(100 * c.BestScore / c.Participants))
}

// RecordResult records every column of a cracking result.
func (s *Stats) RecordResult(res *engine.Result) {
	for _, c := range res.Columns {
		s.RecordColumn(c)
	}
}

// Columns returns the number of recorded columns.
func (s *Stats) Columns() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns
}

// Resolved returns the number of recorded columns that resolved.
func (s *Stats) Resolved() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// ResolvedPercent returns the share of resolved columns in percent.
func (s *Stats) ResolvedPercent() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns == 0 {
		return 0
	}
	return 100 * float64(s.resolved) / float64(s.columns)
}

// ConfidencePercentile returns the column confidence at a given percentile.
func (s *Stats) ConfidencePercentile(p float64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confidenceHist.ValueAtQuantile(p)
}

// ConfidenceMin returns the lowest column confidence recorded.
func (s *Stats) ConfidenceMin() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confidenceHist.Min()
}

// ConfidenceMax returns the highest column confidence recorded.
func (s *Stats) ConfidenceMax() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confidenceHist.Max()
}

// ConfidenceCount returns the number of columns with participants.
func (s *Stats) ConfidenceCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confidenceHist.TotalCount()
}
