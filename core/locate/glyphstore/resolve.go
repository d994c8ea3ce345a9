package glyphstore

import (
	"context"
	"os"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/font"
	"github.com/npillmayer/glyphd/core/font/fontregistry"
	"github.com/npillmayer/glyphd/core/glyphs"
	"github.com/npillmayer/glyphd/core/glyphs/pbf"
	"github.com/npillmayer/glyphd/core/glyphs/sdf"
)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	CacheSize int         // number of glyph sets to keep; ≤ 0 disables caching
	SDF       sdf.Options // rendering parameters for outline font sources
}

// Loader loads the glyph sets of single fonts from a store.
// A Loader is safe for concurrent use.
type Loader struct {
	store *Store
	cache *setCache
	gen   *sdf.Generator
	fonts *fontregistry.Registry
}

// NewLoader creates a loader on top of a store.
func NewLoader(store *Store, opts LoaderOptions) (*Loader, error) {
	cache, err := newSetCache(opts.CacheSize)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot create glyph cache")
	}
	return &Loader{
		store: store,
		cache: cache,
		gen:   sdf.NewGenerator(opts.SDF),
		fonts: fontregistry.NewRegistry(),
	}, nil
}

// Store returns the loader's store.
func (l *Loader) Store() *Store {
	return l.store
}

// Load produces the glyph set of a font for a range of code points.
//
// Unknown fonts fail with an error wrapping ErrFontNotFound, an inaccessible
// store with ErrStoreUnavailable, and unreadable data with a *DecodeError.
// A font without glyphs in r yields an empty set and no error.
func (l *Loader) Load(ctx context.Context, fontname string, r glyphs.CodePointRange) (*glyphs.GlyphSet, error) {
	if fontname == "" {
		return nil, core.Error(core.EINVALID, "font name must not be empty")
	}
	if r.Start > r.End {
		return nil, core.Error(core.EINVALID, "Invalid range")
	}
	entry, err := l.store.lookup(fontname)
	if err != nil {
		return nil, err
	}
	if gs, ok := l.cache.get(fontname, r); ok {
		tracer().Debugf("glyph cache hit for %s %s", fontname, r)
		return gs, nil
	}
	var gs *glyphs.GlyphSet
	switch {
	case len(entry.ranges) > 0:
		gs, err = l.loadPrebuilt(ctx, entry, r)
	case entry.source != "" || entry.embedded:
		gs, err = l.render(ctx, entry, r)
	default:
		gs = glyphs.NewGlyphSet(fontname, r)
	}
	if err != nil {
		return nil, err
	}
	tracer().Debugf("loaded %d glyphs of %s in %s", gs.Len(), fontname, r)
	l.cache.put(fontname, r, gs)
	return gs, nil
}

// loadPrebuilt decodes every stored tile intersecting r, in ascending order.
func (l *Loader) loadPrebuilt(ctx context.Context, entry *fontEntry, r glyphs.CodePointRange) (*glyphs.GlyphSet, error) {
	gs := glyphs.NewGlyphSet(entry.name, r)
	for _, rf := range entry.ranges {
		if !rf.r.Intersects(r) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(rf.path)
		if err != nil {
			return nil, decodeError(entry.name, r, rf.path, err)
		}
		tile, err := pbf.Unmarshal(data)
		if err != nil {
			return nil, decodeError(entry.name, r, rf.path, err)
		}
		for i := range tile.Stacks {
			gs.AddFontstack(&tile.Stacks[i])
		}
	}
	return gs, nil
}

// render draws the glyphs of r from an outline font.
func (l *Loader) render(ctx context.Context, entry *fontEntry, r glyphs.CodePointRange) (*glyphs.GlyphSet, error) {
	f, ok := l.fonts.Font(entry.name)
	if !ok && entry.embedded {
		f = font.FallbackFont()
		l.fonts.StoreFont(entry.name, f)
	} else if !ok {
		var err error
		if f, err = l.fonts.LoadFont(entry.name, entry.source); err != nil {
			return nil, decodeError(entry.name, r, entry.source, err)
		}
		tracer().Infof("parsed source fonts: %v", l.fonts.Names())
	}
	gs, err := l.gen.GlyphSet(ctx, entry.name, f, r)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, decodeError(entry.name, r, f.Filepath, err)
	}
	return gs, nil
}

// --- Promises --------------------------------------------------------------

// GlyphSetPromise delivers the result of an asynchronous load.
// A promise must be awaited from a single goroutine.
type GlyphSetPromise interface {
	GlyphSet() (*glyphs.GlyphSet, error)
	Await(ctx context.Context) (*glyphs.GlyphSet, error)
}

type setPlusErr struct {
	set *glyphs.GlyphSet
	err error
}

type setLoader struct {
	await func(ctx context.Context) (*glyphs.GlyphSet, error)
}

func (loader setLoader) GlyphSet() (*glyphs.GlyphSet, error) {
	return loader.await(context.Background())
}

func (loader setLoader) Await(ctx context.Context) (*glyphs.GlyphSet, error) {
	return loader.await(ctx)
}

// Resolve starts loading a glyph set in the background and returns a
// promise for it. Cancelling ctx abandons the load.
func (l *Loader) Resolve(ctx context.Context, fontname string, r glyphs.CodePointRange) GlyphSetPromise {
	ch := make(chan setPlusErr, 1)
	go func(ch chan<- setPlusErr) {
		result := setPlusErr{}
		result.set, result.err = l.Load(ctx, fontname, r)
		ch <- result
		close(ch)
	}(ch)
	var result *setPlusErr
	return setLoader{
		await: func(ctx context.Context) (*glyphs.GlyphSet, error) {
			if result != nil {
				return result.set, result.err
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				result = &r
				return r.set, r.err
			}
		},
	}
}
