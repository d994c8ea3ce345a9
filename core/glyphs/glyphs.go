package glyphs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/glyphs/pbf"
)

// MaxCodePoint is the largest code point a range may address.
const MaxCodePoint = ^uint32(0)

// CodePointRange is a closed interval [Start, End] of code points.
type CodePointRange struct {
	Start, End uint32
}

// NewRange creates a range, checking that start ≤ end.
func NewRange(start, end uint32) (CodePointRange, error) {
	if start > end {
		return CodePointRange{}, core.Error(core.EINVALID, "Invalid range")
	}
	return CodePointRange{Start: start, End: end}, nil
}

// ParseRange parses a range of the form "start-end".
// Both bounds must be non-negative integers fitting 32 bits, and start ≤ end.
func ParseRange(s string) (CodePointRange, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return CodePointRange{}, core.Error(core.EINVALID, "Invalid range")
	}
	start, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return CodePointRange{}, core.WrapError(err, core.EINVALID, "Invalid range")
	}
	end, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return CodePointRange{}, core.WrapError(err, core.EINVALID, "Invalid range")
	}
	return NewRange(uint32(start), uint32(end))
}

// Contains is a predicate: is code point cp inside r?
func (r CodePointRange) Contains(cp uint32) bool {
	return cp >= r.Start && cp <= r.End
}

// Intersects is a predicate: do r and other share at least one code point?
func (r CodePointRange) Intersects(other CodePointRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Size is the number of code points in r.
func (r CodePointRange) Size() uint64 {
	return uint64(r.End) - uint64(r.Start) + 1
}

func (r CodePointRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// --- Glyph sets ------------------------------------------------------------

// GlyphSet is the set of glyphs a single font provides for a range.
//
// A GlyphSet must not be modified after it has been handed out by a loader;
// loaders may share sets between requests.
type GlyphSet struct {
	Font   string         // font name the set has been requested for
	Name   string         // fontstack name as recorded in the glyph data
	Range  CodePointRange // requested range
	glyphs map[uint32]pbf.Glyph
}

// NewGlyphSet creates an empty glyph set for a font and a range.
func NewGlyphSet(font string, r CodePointRange) *GlyphSet {
	return &GlyphSet{
		Font:   font,
		Name:   font,
		Range:  r,
		glyphs: make(map[uint32]pbf.Glyph),
	}
}

// Add inserts a glyph if it lies inside the set's range and the code point
// is not already present. It returns true if the glyph has been inserted.
func (gs *GlyphSet) Add(g pbf.Glyph) bool {
	if !gs.Range.Contains(g.ID) {
		return false
	}
	if _, ok := gs.glyphs[g.ID]; ok {
		return false
	}
	gs.glyphs[g.ID] = g
	return true
}

// AddFontstack adds all glyphs of a decoded fontstack which are inside
// the range of gs. It returns the number of glyphs inserted.
func (gs *GlyphSet) AddFontstack(fs *pbf.Fontstack) int {
	n := 0
	for _, g := range fs.Glyphs {
		if gs.Add(g) {
			n++
		}
	}
	if fs.Name != "" && gs.Name == gs.Font {
		gs.Name = fs.Name
	}
	return n
}

// Glyph returns the glyph for code point cp, if present.
func (gs *GlyphSet) Glyph(cp uint32) (pbf.Glyph, bool) {
	g, ok := gs.glyphs[cp]
	return g, ok
}

// Len returns the number of glyphs in the set.
func (gs *GlyphSet) Len() int {
	if gs == nil {
		return 0
	}
	return len(gs.glyphs)
}

// IsEmpty is a predicate: does the set contain no glyphs at all?
func (gs *GlyphSet) IsEmpty() bool {
	return gs.Len() == 0
}

// CodePoints returns the code points of the set in ascending order.
func (gs *GlyphSet) CodePoints() []uint32 {
	cps := make([]uint32, 0, len(gs.glyphs))
	for cp := range gs.glyphs {
		cps = append(cps, cp)
	}
	sort.Slice(cps, func(i, j int) bool { return cps[i] < cps[j] })
	return cps
}
