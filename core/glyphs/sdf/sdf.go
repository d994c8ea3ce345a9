package sdf

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"math"
	"unicode"

	"github.com/npillmayer/glyphd/core/font"
	"github.com/npillmayer/glyphd/core/glyphs"
	"github.com/npillmayer/glyphd/core/glyphs/pbf"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ErrNoGlyph is returned for runes a font does not cover.
var ErrNoGlyph = errors.New("sdf: font has no glyph for rune")

// Options configures SDF rendering.
type Options struct {
	Size   float64 // pixels per em
	Buffer int     // border around the ink box, in pixels
	Radius float64 // distance clipping radius, in pixels
	Cutoff float64 // fraction of the value range outside the edge
}

// DefaultOptions returns the parameters map renderers expect.
func DefaultOptions() Options {
	return Options{
		Size:   24,
		Buffer: 3,
		Radius: 8,
		Cutoff: 0.25,
	}
}

// Generator renders SDF glyphs. A Generator is stateless and may be used
// concurrently.
type Generator struct {
	opts Options
}

// NewGenerator creates a generator with the given options.
// Zero fields are replaced by defaults.
func NewGenerator(opts Options) *Generator {
	def := DefaultOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.Buffer <= 0 {
		opts.Buffer = def.Buffer
	}
	if opts.Radius <= 0 {
		opts.Radius = def.Radius
	}
	if opts.Cutoff <= 0 || opts.Cutoff >= 1 {
		opts.Cutoff = def.Cutoff
	}
	return &Generator{opts: opts}
}

// Options returns the generator's options.
func (g *Generator) Options() Options {
	return g.opts
}

// GlyphSet renders every rune in r the font covers. Rendering stops early
// with the context's error if ctx is cancelled.
func (g *Generator) GlyphSet(ctx context.Context, name string, f *font.ScalableFont,
	r glyphs.CodePointRange) (*glyphs.GlyphSet, error) {
	//
	gs := glyphs.NewGlyphSet(name, r)
	if r.Start > unicode.MaxRune {
		return gs, nil
	}
	end := r.End
	if end > unicode.MaxRune {
		end = unicode.MaxRune
	}
	covered, err := f.Coverage(ctx, rune(r.Start), rune(end))
	if err != nil {
		return nil, err
	}
	var buf sfnt.Buffer
	for _, ru := range covered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gl, err := g.Glyph(&buf, f, ru)
		if err != nil {
			return nil, err
		}
		gs.Add(gl)
	}
	tracer().Debugf("rendered %d SDF glyphs of %s in %s", gs.Len(), name, r)
	return gs, nil
}

// Glyph renders a single rune. buf may be nil; concurrent callers must not
// share a buffer.
func (g *Generator) Glyph(buf *sfnt.Buffer, f *font.ScalableFont, r rune) (pbf.Glyph, error) {
	if buf == nil {
		buf = &sfnt.Buffer{}
	}
	gid := f.GlyphIndex(buf, r)
	if gid == 0 {
		return pbf.Glyph{}, ErrNoGlyph
	}
	ppem := fixed.Int26_6(math.Round(g.opts.Size * 64))
	adv, err := f.SFNT.GlyphAdvance(buf, gid, ppem, xfont.HintingNone)
	if err != nil {
		return pbf.Glyph{}, err
	}
	glyph := pbf.Glyph{
		ID:      uint32(r),
		Advance: uint32(adv.Round()),
		Top:     -int32(math.Round(g.opts.Size)),
	}
	segs, err := f.SFNT.LoadGlyph(buf, gid, ppem, nil)
	if err != nil {
		return pbf.Glyph{}, err
	}
	if len(segs) == 0 {
		return glyph, nil
	}
	// sfnt coordinates grow downwards
	bounds := segs.Bounds()
	minX, maxX := bounds.Min.X.Floor(), bounds.Max.X.Ceil()
	minY, maxY := bounds.Min.Y.Floor(), bounds.Max.Y.Ceil()
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return glyph, nil
	}
	mask := g.rasterize(segs, minX, minY, w, h)
	glyph.Bitmap = g.distanceField(mask)
	glyph.Width = uint32(w)
	glyph.Height = uint32(h)
	glyph.Left = int32(minX)
	glyph.Top = int32(-minY) - int32(math.Round(g.opts.Size))
	return glyph, nil
}

// rasterize fills the glyph outline into an alpha mask with a border of
// g.opts.Buffer pixels on every side.
func (g *Generator) rasterize(segs sfnt.Segments, minX, minY, w, h int) *image.Alpha {
	b := g.opts.Buffer
	width, height := w+2*b, h+2*b
	tx := float32(b - minX)
	ty := float32(b - minY)
	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Src
	started := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				rast.ClosePath()
			}
			rast.MoveTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
			started = true
		case sfnt.SegmentOpLineTo:
			rast.LineTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpQuadTo:
			rast.QuadTo(
				tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
				tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
			)
		case sfnt.SegmentOpCubeTo:
			rast.CubeTo(
				tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
				tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
				tx+float32(seg.Args[2].X)/64, ty+float32(seg.Args[2].Y)/64,
			)
		}
	}
	if started {
		rast.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// distanceField converts a coverage mask into SDF values. For every pixel
// the nearest pixel of opposite inside/outside state is searched within the
// clipping radius.
func (g *Generator) distanceField(mask *image.Alpha) []byte {
	width, height := mask.Rect.Dx(), mask.Rect.Dy()
	inside := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			inside[y*width+x] = mask.Pix[y*mask.Stride+x] >= 0x80
		}
	}
	radius := g.opts.Radius
	reach := int(math.Ceil(radius))
	out := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			in := inside[y*width+x]
			best := radius * radius
			for dy := -reach; dy <= reach; dy++ {
				yy := y + dy
				if yy < 0 || yy >= height {
					if in { // outside the bitmap is outside the glyph
						best = math.Min(best, float64(dy*dy))
					}
					continue
				}
				for dx := -reach; dx <= reach; dx++ {
					xx := x + dx
					var other bool
					if xx < 0 || xx >= width {
						other = false
					} else {
						other = inside[yy*width+xx]
					}
					if other != in {
						if d2 := float64(dx*dx + dy*dy); d2 < best {
							best = d2
						}
					}
				}
			}
			d := math.Sqrt(best) - 0.5
			if d > radius {
				d = radius
			}
			if in {
				d = -d
			}
			v := 255 - 255*(d/radius+g.opts.Cutoff)
			out[y*width+x] = byte(math.Max(0, math.Min(255, math.Round(v))))
		}
	}
	return out
}
