// Package engine recovers a repeating XOR key stream from a corpus of
// messages that were all encrypted with it.
//
// Every column of the key stream is analysed in isolation. For each column
// the engine looks at the ciphertext bytes of every message long enough to
// reach it, picks the byte which XORs with the most other bytes into either
// zero or an ASCII letter, and assumes that byte encrypts the anchor byte
// (a space by default). The XOR of a space with a letter is the same letter
// in the other case, so in natural-language text the byte encrypting a space
// lines up with the letters of every other message.
package engine

import (
	"github.com/Workiva/go-datastructures/queue"

	"github.com/liftbridge-io/mtpcrack/cracker/corpus"
)

const (
	// DefaultThreshold is the share of participants that must corroborate a
	// candidate before its column is resolved.
	DefaultThreshold = 0.8

	// DefaultAnchor is the plaintext byte assumed to be the most frequent.
	DefaultAnchor byte = ' '

	// DefaultSentinel fills plaintext positions whose column is unresolved.
	DefaultSentinel byte = '?'

	// unresolvedHex is the key display for an unresolved column.
	unresolvedHex = "__"
)

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the confidence threshold, a fraction of participants.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// WithAnchor sets the byte assumed to be the most frequent plaintext byte.
func WithAnchor(anchor byte) Option {
	return func(e *Engine) {
		e.anchor = anchor
	}
}

// WithSentinel sets the byte written to unresolved plaintext positions.
func WithSentinel(sentinel byte) Option {
	return func(e *Engine) {
		e.sentinel = sentinel
	}
}

// WithWorkers enables concurrent column analysis when workers is above 1.
// Columns are then spread over the available CPUs.
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		e.workers = workers
	}
}

// Engine performs column-wise key recovery. An Engine holds no per-run
// state and may be reused.
type Engine struct {
	threshold float64
	anchor    byte
	sentinel  byte
	workers   int
}

// New returns an Engine with the default policy adjusted by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		threshold: DefaultThreshold,
		anchor:    DefaultAnchor,
		sentinel:  DefaultSentinel,
		workers:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Column describes the analysis of a single key-stream position.
type Column struct {
	Index        int
	Participants int
	BestScore    int
	Candidate    byte
	Resolved     bool
}

// Confidence returns the share of participants that corroborated the winning
// candidate, or 0 if the column had no participants.
func (c Column) Confidence() float64 {
	if c.Participants == 0 {
		return 0
	}
	return float64(c.BestScore) / float64(c.Participants)
}

// Result is the outcome of cracking a corpus. Plaintexts is aligned with the
// corpus and Columns with the key.
type Result struct {
	Key        Key
	Plaintexts [][]byte
	Columns    []Column
}

// Crack recovers as much of the key stream and the plaintexts as the
// threshold allows. It never fails; unresolved columns are left at the
// sentinel.
func (e *Engine) Crack(c corpus.Corpus) *Result {
	maxLen := c.MaxLen()
	res := &Result{
		Key:        newKey(maxLen),
		Plaintexts: make([][]byte, len(c)),
		Columns:    make([]Column, maxLen),
	}
	for i, msg := range c {
		res.Plaintexts[i] = fill(len(msg), e.sentinel)
	}

	if e.workers < 2 || maxLen < 2 {
		for col := 0; col < maxLen; col++ {
			e.crackColumn(c, col, res)
		}
		return res
	}

	// Each column writes only its own index of every buffer.
	q := queue.New(int64(maxLen))
	for col := 0; col < maxLen; col++ {
		q.Put(col)
	}
	queue.ExecuteInParallel(q, func(item interface{}) {
		e.crackColumn(c, item.(int), res)
	})
	return res
}

// crackColumn analyses one column and commits its key byte and plaintext
// bytes if the column resolves.
func (e *Engine) crackColumn(c corpus.Corpus, col int, res *Result) {
	column := Column{Index: col}
	defer func() { res.Columns[col] = column }()

	participants := make([]byte, 0, len(c))
	for _, msg := range c {
		if len(msg) > col {
			participants = append(participants, msg[col])
		}
	}
	column.Participants = len(participants)
	if len(participants) == 0 {
		return
	}

	column.Candidate, column.BestScore = bestCandidate(participants)
	if float64(column.BestScore) < e.threshold*float64(len(participants)) {
		return
	}
	column.Resolved = true

	keyByte := column.Candidate ^ e.anchor
	res.Key.Bytes[col] = keyByte
	res.Key.Resolved[col] = true
	for i, msg := range c {
		if len(msg) > col {
			res.Plaintexts[i][col] = msg[col] ^ keyByte
		}
	}
}

// bestCandidate folds over the column bytes in order and returns the byte
// with the highest score. Ties keep the first byte seen.
func bestCandidate(column []byte) (byte, int) {
	best, bestScore := column[0], -1
	for _, b := range column {
		if score := Score(b, column); score > bestScore {
			best, bestScore = b, score
		}
	}
	return best, bestScore
}

// Score counts the column bytes which XOR with candidate into zero or an
// ASCII letter.
func Score(candidate byte, column []byte) int {
	score := 0
	for _, other := range column {
		if x := candidate ^ other; x == 0 || isLetter(x) {
			score++
		}
	}
	return score
}

func isLetter(b byte) bool {
	return ('A' <= b && b <= 'Z') || ('a' <= b && b <= 'z')
}

func fill(n int, b byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	return buf
}
