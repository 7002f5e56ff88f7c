package merge

import (
	"bytes"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	sideOurs = iota
	sideTheirs
)

// edit replaces base lines [start, end) with lines.
type edit struct {
	start, end int
	lines      []string
	side       int
}

func (e edit) same(o edit) bool {
	if e.start != o.start || e.end != o.end || len(e.lines) != len(o.lines) {
		return false
	}
	for i := range e.lines {
		if e.lines[i] != o.lines[i] {
			return false
		}
	}
	return true
}

func isBinary(data []byte) bool {
	if len(data) > 8000 {
		data = data[:8000]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// mergeText performs a line based three-way merge. ok is false when both sides
// changed the same or adjacent lines.
func mergeText(base, ours, theirs []byte) (merged []byte, ok bool) {
	if isBinary(base) || isBinary(ours) || isBinary(theirs) {
		return nil, false
	}

	baseLines := splitLines(string(base))
	enc := newLineEncoder()
	baseRunes := enc.encode(baseLines)

	edits := append(
		lineEdits(enc, baseRunes, splitLines(string(ours)), sideOurs),
		lineEdits(enc, baseRunes, splitLines(string(theirs)), sideTheirs)...,
	)
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start < edits[j].start
		}
		return edits[i].end < edits[j].end
	})

	var out []string
	pos := 0
	for i := 0; i < len(edits); {
		// cluster edits that overlap or touch
		j := i + 1
		end := edits[i].end
		sides := 1 << edits[i].side
		for j < len(edits) && edits[j].start <= end {
			if edits[j].end > end {
				end = edits[j].end
			}
			sides |= 1 << edits[j].side
			j++
		}
		cluster := edits[i:j]

		if sides == 1<<sideOurs|1<<sideTheirs {
			if len(cluster) != 2 || !cluster[0].same(cluster[1]) {
				return nil, false
			}
			cluster = cluster[:1]
		}

		for _, e := range cluster {
			out = append(out, baseLines[pos:e.start]...)
			out = append(out, e.lines...)
			pos = e.end
		}
		i = j
	}
	out = append(out, baseLines[pos:]...)

	return []byte(strings.Join(out, "")), true
}

// lineEdits expresses other as a list of edits against base.
func lineEdits(enc *lineEncoder, base []rune, other []string, side int) []edit {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(base, enc.encode(other), false)

	var (
		out []edit
		cur *edit
		pos int
	)
	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, d := range diffs {
		runes := []rune(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			pos += len(runes)
		case diffmatchpatch.DiffDelete:
			if cur == nil {
				cur = &edit{start: pos, end: pos, side: side}
			}
			cur.end += len(runes)
			pos += len(runes)
		case diffmatchpatch.DiffInsert:
			if cur == nil {
				cur = &edit{start: pos, end: pos, side: side}
			}
			cur.lines = append(cur.lines, enc.decode(runes)...)
		}
	}
	flush()

	return out
}

// splitLines splits s after every newline; the last line may lack one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineEncoder maps each distinct line to one rune so the diff runs line by line.
type lineEncoder struct {
	index map[string]rune
	lines []string
}

func newLineEncoder() *lineEncoder {
	return &lineEncoder{index: make(map[string]rune)}
}

func (e *lineEncoder) encode(lines []string) []rune {
	out := make([]rune, len(lines))
	for i, l := range lines {
		r, ok := e.index[l]
		if !ok {
			r = runeFor(len(e.lines))
			e.index[l] = r
			e.lines = append(e.lines, l)
		}
		out[i] = r
	}
	return out
}

func (e *lineEncoder) decode(runes []rune) []string {
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = e.lines[indexFor(r)]
	}
	return out
}

// runeFor skips the surrogate block, which does not survive a string round trip.
func runeFor(i int) rune {
	r := rune(i + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

func indexFor(r rune) int {
	if r >= 0xE000 {
		r -= 0x800
	}
	return int(r) - 1
}
