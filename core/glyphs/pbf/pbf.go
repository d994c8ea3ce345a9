package pbf

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// ContentType is the MIME type glyph tiles are served with.
const ContentType = "application/x-protobuf"

// Field numbers of the glyph tile schema.
const (
	fieldStacks protowire.Number = 1 // glyphs.stacks

	fieldStackName   protowire.Number = 1 // fontstack.name
	fieldStackRange  protowire.Number = 2 // fontstack.range
	fieldStackGlyphs protowire.Number = 3 // fontstack.glyphs

	fieldGlyphID      protowire.Number = 1
	fieldGlyphBitmap  protowire.Number = 2
	fieldGlyphWidth   protowire.Number = 3
	fieldGlyphHeight  protowire.Number = 4
	fieldGlyphLeft    protowire.Number = 5
	fieldGlyphTop     protowire.Number = 6
	fieldGlyphAdvance protowire.Number = 7
)

// Glyph is the rendering data of a single code point.
// Bitmap holds an SDF of (Width+6) × (Height+6) bytes, or is empty for
// glyphs without ink (e.g., space).
type Glyph struct {
	ID      uint32
	Bitmap  []byte
	Width   uint32
	Height  uint32
	Left    int32
	Top     int32
	Advance uint32
}

// Fontstack is a named collection of glyphs for a range of code points.
type Fontstack struct {
	Name   string
	Range  string
	Glyphs []Glyph
}

// Glyphs is the top level message of a glyph tile.
type Glyphs struct {
	Stacks []Fontstack
}

// Marshal encodes a glyph tile. Fields are written in field-number order,
// so equal messages always produce identical bytes.
func Marshal(g *Glyphs) []byte {
	if g == nil {
		return []byte{}
	}
	var b []byte
	for i := range g.Stacks {
		b = protowire.AppendTag(b, fieldStacks, protowire.BytesType)
		b = protowire.AppendBytes(b, appendFontstack(nil, &g.Stacks[i]))
	}
	if b == nil {
		return []byte{}
	}
	return b
}

func appendFontstack(b []byte, fs *Fontstack) []byte {
	b = protowire.AppendTag(b, fieldStackName, protowire.BytesType)
	b = protowire.AppendString(b, fs.Name)
	b = protowire.AppendTag(b, fieldStackRange, protowire.BytesType)
	b = protowire.AppendString(b, fs.Range)
	for i := range fs.Glyphs {
		b = protowire.AppendTag(b, fieldStackGlyphs, protowire.BytesType)
		b = protowire.AppendBytes(b, appendGlyph(nil, &fs.Glyphs[i]))
	}
	return b
}

func appendGlyph(b []byte, g *Glyph) []byte {
	b = protowire.AppendTag(b, fieldGlyphID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(g.ID))
	if len(g.Bitmap) > 0 {
		b = protowire.AppendTag(b, fieldGlyphBitmap, protowire.BytesType)
		b = protowire.AppendBytes(b, g.Bitmap)
	}
	b = protowire.AppendTag(b, fieldGlyphWidth, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(g.Width))
	b = protowire.AppendTag(b, fieldGlyphHeight, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(g.Height))
	b = protowire.AppendTag(b, fieldGlyphLeft, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(g.Left)))
	b = protowire.AppendTag(b, fieldGlyphTop, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(g.Top)))
	b = protowire.AppendTag(b, fieldGlyphAdvance, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(g.Advance))
	return b
}
