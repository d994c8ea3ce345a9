package fontstack

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/glyphs"
	"github.com/npillmayer/glyphd/core/locate/glyphstore"
)

// DefaultFallbackFont is appended to every fontstack unless configured otherwise.
const DefaultFallbackFont = "Arial-Unicode-Regular"

// ParseFontList splits a comma-separated list of font names. Names are
// trimmed and blank entries dropped. An error with code core.EINVALID is
// returned if no name remains.
func ParseFontList(list string) ([]string, error) {
	var fonts []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			fonts = append(fonts, name)
		}
	}
	if len(fonts) == 0 {
		return nil, core.Error(core.EINVALID, "No glyphs specified")
	}
	return fonts, nil
}

// FontError reports a failure to load a font of a fontstack. It aborts
// the composition of the whole stack.
type FontError struct {
	Font  string
	Range glyphs.CodePointRange
	Cause error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("error loading glyphs of font %q for range %s: %v", e.Font, e.Range, e.Cause)
}

func (e *FontError) Unwrap() error {
	return e.Cause
}

// Service composes glyph tiles from the fonts of a loader.
// A Service is safe for concurrent use.
type Service struct {
	loader   *glyphstore.Loader
	fallback string
}

// NewService creates a service for a loader. If fallback is empty,
// DefaultFallbackFont is used.
func NewService(loader *glyphstore.Loader, fallback string) *Service {
	if fallback == "" {
		fallback = DefaultFallbackFont
	}
	return &Service{loader: loader, fallback: fallback}
}

// Fallback returns the name of the font appended to every fontstack.
func (s *Service) Fallback() string {
	return s.fallback
}

// Loader returns the loader the service draws glyph sets from.
func (s *Service) Loader() *glyphstore.Loader {
	return s.loader
}

// Chain returns the fonts to load for a fontstack: the fonts in request
// order, followed by the fallback font. The fallback is not appended a second
// time if the request already ends with it.
func (s *Service) Chain(fonts []string) []string {
	chain := make([]string, len(fonts), len(fonts)+1)
	copy(chain, fonts)
	if len(chain) == 0 || chain[len(chain)-1] != s.fallback {
		chain = append(chain, s.fallback)
	}
	return chain
}

// Compose parses a fontstack request and builds the combined glyph set.
// fontlist is a comma-separated list of font names, rangeStr of the form
// "start-end".
//
// Compose returns nil and no error if none of the fonts has a glyph in the
// range. Input errors carry code core.EINVALID.
func (s *Service) Compose(ctx context.Context, fontlist, rangeStr string) (*glyphs.Combined, error) {
	fonts, err := ParseFontList(fontlist)
	if err != nil {
		return nil, err
	}
	r, err := glyphs.ParseRange(rangeStr)
	if err != nil {
		return nil, err
	}
	return s.ComposeFonts(ctx, fonts, r)
}

// ComposeFonts builds the combined glyph set for a list of fonts and a range.
//
// Fonts unknown to the store are skipped. If not a single font of the chain
// is known, an error wrapping glyphstore.ErrFontNotFound is returned. Any
// other load error aborts composition, cancels pending loads and is returned
// as a *FontError.
func (s *Service) ComposeFonts(ctx context.Context, fonts []string, r glyphs.CodePointRange) (*glyphs.Combined, error) {
	chain := s.Chain(fonts)
	tracer().Debugf("composing %v for range %s", chain, r)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	promises := make([]glyphstore.GlyphSetPromise, len(chain))
	for i, fontname := range chain {
		promises[i] = s.loader.Resolve(ctx, fontname, r)
	}
	sets := make([]*glyphs.GlyphSet, 0, len(chain))
	for i, promise := range promises {
		gs, err := promise.Await(ctx)
		if errors.Is(err, glyphstore.ErrFontNotFound) {
			tracer().Infof("font %s not found, skipping", chain[i])
			continue
		}
		if err != nil {
			tracer().Errorf("cannot load %s for range %s: %v", chain[i], r, err)
			return nil, &FontError{Font: chain[i], Range: r, Cause: err}
		}
		sets = append(sets, gs)
	}
	if len(sets) == 0 {
		return nil, core.WrapError(glyphstore.ErrFontNotFound, core.EMISSING,
			"none of the fonts %s found", strings.Join(chain, ", "))
	}
	combined := glyphs.Combine(sets...)
	if combined == nil {
		tracer().Debugf("no glyphs for %v in range %s", chain, r)
		return nil, nil
	}
	tracer().Debugf("combined %d glyphs from %s", combined.Len(), combined.Name())
	return combined, nil
}
