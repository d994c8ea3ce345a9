package glyphs

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/glyphs/pbf"
)

// Combined is the result of merging glyph sets in fallback order.
// Glyphs are kept ordered by code point.
type Combined struct {
	names  []string     // names of the contributing sets, in input order
	glyphs *treemap.Map // uint32 → pbf.Glyph
}

func newCombined() *Combined {
	return &Combined{
		glyphs: treemap.NewWith(utils.UInt32Comparator),
	}
}

// Combine merges glyph sets into one. Sets are visited in the given order
// and a code point is taken from the first set which defines it; later
// sets never override earlier ones.
//
// If no set contributes any glyph, Combine returns nil. Nil sets are skipped.
func Combine(sets ...*GlyphSet) *Combined {
	c := newCombined()
	for _, gs := range sets {
		if gs.IsEmpty() {
			continue
		}
		added := 0
		for _, cp := range gs.CodePoints() {
			if _, found := c.glyphs.Get(cp); found {
				continue
			}
			c.glyphs.Put(cp, gs.glyphs[cp])
			added++
		}
		tracer().Debugf("font %s contributes %d of %d glyphs", gs.Font, added, gs.Len())
		if added > 0 {
			c.names = append(c.names, gs.Name)
		}
	}
	if c.glyphs.Empty() {
		return nil
	}
	return c
}

// Len returns the number of glyphs.
func (c *Combined) Len() int {
	return c.glyphs.Size()
}

// Glyph returns the glyph for a code point, if present.
func (c *Combined) Glyph(cp uint32) (pbf.Glyph, bool) {
	v, found := c.glyphs.Get(cp)
	if !found {
		return pbf.Glyph{}, false
	}
	return v.(pbf.Glyph), true
}

// CodePoints returns all code points in ascending order.
func (c *Combined) CodePoints() []uint32 {
	keys := c.glyphs.Keys()
	cps := make([]uint32, len(keys))
	for i, k := range keys {
		cps[i] = k.(uint32)
	}
	return cps
}

// Names returns the names of the sets which contributed glyphs.
func (c *Combined) Names() []string {
	return append([]string(nil), c.names...)
}

// Name is the fontstack name of the combination.
func (c *Combined) Name() string {
	return strings.Join(c.names, ", ")
}

// Range returns the smallest range covering all glyphs.
func (c *Combined) Range() CodePointRange {
	cps := c.CodePoints()
	return CodePointRange{Start: cps[0], End: cps[len(cps)-1]}
}

// Fontstack converts the combination into a glyph tile message with a
// single fontstack.
func (c *Combined) Fontstack() *pbf.Glyphs {
	fs := pbf.Fontstack{
		Name:   c.Name(),
		Range:  c.Range().String(),
		Glyphs: make([]pbf.Glyph, 0, c.glyphs.Size()),
	}
	it := c.glyphs.Iterator()
	for it.Next() {
		fs.Glyphs = append(fs.Glyphs, it.Value().(pbf.Glyph))
	}
	return &pbf.Glyphs{Stacks: []pbf.Fontstack{fs}}
}

// Marshal encodes the combination in the protobuf glyph tile format.
func (c *Combined) Marshal() []byte {
	return pbf.Marshal(c.Fontstack())
}

// Decode reads a glyph tile and combines its fontstacks in order.
// It returns nil and no error for a tile without glyphs.
func Decode(data []byte) (*Combined, error) {
	tile, err := pbf.Unmarshal(data)
	if err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot decode glyph tile")
	}
	all := CodePointRange{Start: 0, End: MaxCodePoint}
	sets := make([]*GlyphSet, 0, len(tile.Stacks))
	for i := range tile.Stacks {
		gs := NewGlyphSet(fmt.Sprintf("stack-%d", i), all)
		gs.AddFontstack(&tile.Stacks[i])
		sets = append(sets, gs)
	}
	c := Combine(sets...)
	if c != nil && len(tile.Stacks) == 1 {
		c.names = []string{tile.Stacks[0].Name}
	}
	return c, nil
}
