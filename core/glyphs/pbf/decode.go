package pbf

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMissingGlyphID is returned for glyph messages without the required id.
var ErrMissingGlyphID = errors.New("pbf: glyph without id")

// Unmarshal decodes a glyph tile.
func Unmarshal(data []byte) (*Glyphs, error) {
	g := &Glyphs{}
	err := eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldStacks {
			return skip(num, typ, b)
		}
		v, n, err := consumeBytes(typ, b)
		if err != nil {
			return 0, fmt.Errorf("pbf: stack %d: %w", len(g.Stacks), err)
		}
		fs, err := unmarshalFontstack(v)
		if err != nil {
			return 0, fmt.Errorf("pbf: stack %d: %w", len(g.Stacks), err)
		}
		g.Stacks = append(g.Stacks, fs)
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func unmarshalFontstack(data []byte) (Fontstack, error) {
	fs := Fontstack{}
	err := eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldStackName, fieldStackRange:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			if num == fieldStackName {
				fs.Name = string(v)
			} else {
				fs.Range = string(v)
			}
			return n, nil
		case fieldStackGlyphs:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			gl, err := unmarshalGlyph(v)
			if err != nil {
				return 0, fmt.Errorf("glyph %d: %w", len(fs.Glyphs), err)
			}
			fs.Glyphs = append(fs.Glyphs, gl)
			return n, nil
		}
		return skip(num, typ, b)
	})
	return fs, err
}

func unmarshalGlyph(data []byte) (Glyph, error) {
	gl := Glyph{}
	hasID := false
	err := eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == fieldGlyphBitmap {
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			gl.Bitmap = append([]byte(nil), v...)
			return n, nil
		}
		if num < fieldGlyphID || num > fieldGlyphAdvance {
			return skip(num, typ, b)
		}
		if typ != protowire.VarintType {
			return 0, fmt.Errorf("field %d: unexpected wire type %d", num, typ)
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		switch num {
		case fieldGlyphID:
			gl.ID, hasID = uint32(v), true
		case fieldGlyphWidth:
			gl.Width = uint32(v)
		case fieldGlyphHeight:
			gl.Height = uint32(v)
		case fieldGlyphLeft:
			gl.Left = int32(protowire.DecodeZigZag(v))
		case fieldGlyphTop:
			gl.Top = int32(protowire.DecodeZigZag(v))
		case fieldGlyphAdvance:
			gl.Advance = uint32(v)
		}
		return n, nil
	})
	if err == nil && !hasID {
		err = ErrMissingGlyphID
	}
	return gl, err
}

// eachField walks the fields of a message. fn receives the bytes following
// the tag and reports how many of them it consumed.
func eachField(data []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		m, err := fn(num, typ, data)
		if err != nil {
			return err
		}
		data = data[m:]
	}
	return nil
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("unexpected wire type %d", typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}
