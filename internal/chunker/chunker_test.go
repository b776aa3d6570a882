package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_Empty(t *testing.T) {
	c := NewRecursive(300, 50)
	if got := c.Split(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := c.Split("   \n\n  "); got != nil {
		t.Errorf("expected nil for whitespace input, got %v", got)
	}
}

func TestSplit_ShortInput(t *testing.T) {
	c := NewRecursive(300, 50)
	text := "  A single short paragraph that fits in one chunk.  "
	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != strings.TrimSpace(text) {
		t.Errorf("chunk = %q, want stripped input", chunks[0])
	}
}

func TestSplit_RespectsMaxSize(t *testing.T) {
	// 40 sentences of ~30 characters each.
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The quick brown fox jumps here. ")
	}

	c := NewRecursive(300, 50)
	chunks := c.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > 300 {
			t.Errorf("chunk %d has %d runes, exceeds max 300", i, n)
		}
	}
}

func TestSplit_OverlapBounded(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Sentence number with some filler words inside. ")
	}

	c := NewRecursive(300, 50)
	chunks := c.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Each chunk after the first must start with a tail of its
	// predecessor no longer than the overlap budget (piece-aligned, so
	// the shared tail can be shorter than 50, never longer).
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		found := false
		for tail := 50; tail > 0; tail-- {
			runes := []rune(prev)
			if tail > len(runes) {
				continue
			}
			suffix := strings.TrimSpace(string(runes[len(runes)-tail:]))
			if suffix != "" && strings.HasPrefix(chunks[i], suffix) {
				found = true
				break
			}
		}
		if !found {
			// Overlap may legitimately be empty when no piece fits in
			// the budget; only fail on chunks sharing MORE than 50.
			runes := []rune(prev)
			if len(runes) > 51 {
				over := strings.TrimSpace(string(runes[len(runes)-51:]))
				if over != "" && strings.HasPrefix(chunks[i], over) {
					t.Errorf("chunk %d repeats more than 50 runes of predecessor", i)
				}
			}
		}
	}
}

func TestSplit_ParagraphsPreferred(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here."
	c := NewRecursive(25, 0)
	chunks := c.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if !strings.HasPrefix(chunks[i], want) {
			t.Errorf("chunk %d = %q, want prefix %q", i, chunks[i], want)
		}
	}
}

func TestSplit_IndivisibleWord(t *testing.T) {
	long := strings.Repeat("x", 40)
	c := NewRecursive(20, 0)
	chunks := c.Split("short " + long + " tail")
	// The oversized word falls through to character cuts, so no chunk
	// may exceed maxSize (the ladder ends at "", not at words).
	for i, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > 20 {
			t.Errorf("chunk %d longer than max: %q", i, chunk)
		}
	}
	if joined := strings.Join(chunks, ""); !strings.Contains(joined, "x") {
		t.Errorf("long word content lost: %q", chunks)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("Повторяющееся предложение с русским текстом внутри. ")
	}
	c := NewRecursive(300, 50)
	first := c.Split(b.String())
	for run := 0; run < 5; run++ {
		again := c.Split(b.String())
		if len(again) != len(first) {
			t.Fatalf("run %d: %d chunks, want %d", run, len(again), len(first))
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("run %d: chunk %d differs", run, i)
			}
		}
	}
}

func TestSplit_CyrillicRuneCounting(t *testing.T) {
	// 100 Cyrillic runes is 200 bytes; the bound is runes, not bytes.
	text := strings.Repeat("аб ", 50)
	c := NewRecursive(120, 10)
	chunks := c.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks for 150-rune input, got %d", len(chunks))
	}
}

func TestNewRecursive_Defaults(t *testing.T) {
	c := NewRecursive(0, -5)
	if c.MaxSize() != 300 || c.Overlap() != 0 {
		t.Errorf("defaults = (%d, %d), want (300, 0)", c.MaxSize(), c.Overlap())
	}
	c = NewRecursive(100, 100)
	if c.Overlap() != 25 {
		t.Errorf("clamped overlap = %d, want 25", c.Overlap())
	}
}
