// Package chunker splits raw document text into bounded, overlapping
// segments suitable for embedding and retrieval.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators is the split ladder, coarsest to finest. The empty
// string is the terminal fallback: a hard per-character cut.
var defaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// Recursive splits text by recursively descending a separator ladder:
// paragraph breaks first, then lines, sentences, words, and finally
// single characters. Adjacent chunks share up to overlap characters of
// the preceding chunk's tail. Output is deterministic for a given input
// and configuration.
//
// Lengths are measured in runes, not bytes, so multi-byte scripts chunk
// the same way as ASCII.
type Recursive struct {
	maxSize    int
	overlap    int
	separators []string
}

// NewRecursive creates a recursive chunker. maxSize bounds the chunk
// length in runes; overlap is the tail carried into the next chunk.
func NewRecursive(maxSize, overlap int) *Recursive {
	if maxSize <= 0 {
		maxSize = 300
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 4
	}
	return &Recursive{
		maxSize:    maxSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// MaxSize returns the configured chunk size bound.
func (r *Recursive) MaxSize() int { return r.maxSize }

// Overlap returns the configured overlap length.
func (r *Recursive) Overlap() int { return r.overlap }

// Split chunks text. Empty or whitespace-only input yields nil. Input
// shorter than maxSize yields a single stripped chunk. Every chunk is
// at most maxSize runes long unless a single indivisible unit (one
// word with no finer separator) exceeds the bound on its own.
func (r *Recursive) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return r.split(text, r.separators)
}

func (r *Recursive) split(text string, separators []string) []string {
	// Pick the coarsest separator that actually occurs in the text.
	// Whatever follows it on the ladder handles oversized pieces.
	sep := separators[len(separators)-1]
	var finer []string
	for i, s := range separators {
		if s == "" {
			sep = ""
			finer = nil
			break
		}
		if strings.Contains(text, s) {
			sep = s
			finer = separators[i+1:]
			break
		}
	}

	pieces := splitKeep(text, sep)

	var chunks []string
	var fitting []string
	for _, p := range pieces {
		if runeLen(p) < r.maxSize {
			fitting = append(fitting, p)
			continue
		}
		// Flush accumulated small pieces before handling the big one,
		// so document order is preserved.
		if len(fitting) > 0 {
			chunks = append(chunks, r.merge(fitting)...)
			fitting = nil
		}
		if len(finer) == 0 {
			// No finer separator left: emit the indivisible unit as-is.
			chunks = append(chunks, p)
		} else {
			chunks = append(chunks, r.split(p, finer)...)
		}
	}
	if len(fitting) > 0 {
		chunks = append(chunks, r.merge(fitting)...)
	}
	return chunks
}

// merge packs consecutive pieces into chunks of at most maxSize runes,
// carrying a tail of up to overlap runes into the next chunk. Pieces
// retain their leading separators, so no join separator is added.
func (r *Recursive) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0
	for _, p := range pieces {
		plen := runeLen(p)
		if total+plen > r.maxSize && len(window) > 0 {
			if c := joinStrip(window); c != "" {
				chunks = append(chunks, c)
			}
			// Shrink the window to the overlap budget, and further if
			// the incoming piece still would not fit.
			for total > r.overlap || (total+plen > r.maxSize && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += plen
	}
	if c := joinStrip(window); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// splitKeep splits text on sep, attaching the separator to the front of
// the piece that follows it. The empty separator splits into runes.
// Empty pieces are dropped.
func splitKeep(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	if parts[0] != "" {
		out = append(out, parts[0])
	}
	for _, p := range parts[1:] {
		out = append(out, sep+p)
	}
	return out
}

func joinStrip(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
