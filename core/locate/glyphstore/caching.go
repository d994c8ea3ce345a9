package glyphstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/npillmayer/glyphd/core/glyphs"
)

// cacheKey identifies a loaded glyph set.
type cacheKey struct {
	font string
	r    glyphs.CodePointRange
}

// setCache keeps recently loaded glyph sets. Sets in the cache are shared
// between requests and therefore never modified.
type setCache struct {
	lru *lru.Cache[cacheKey, *glyphs.GlyphSet]
}

// newSetCache creates a cache for up to size glyph sets. For size ≤ 0 the
// cache stays disabled.
func newSetCache(size int) (*setCache, error) {
	if size <= 0 {
		return &setCache{}, nil
	}
	c, err := lru.New[cacheKey, *glyphs.GlyphSet](size)
	if err != nil {
		return nil, err
	}
	return &setCache{lru: c}, nil
}

func (c *setCache) get(font string, r glyphs.CodePointRange) (*glyphs.GlyphSet, bool) {
	if c.lru == nil {
		return nil, false
	}
	return c.lru.Get(cacheKey{font, r})
}

func (c *setCache) put(font string, r glyphs.CodePointRange, gs *glyphs.GlyphSet) {
	if c.lru == nil {
		return
	}
	c.lru.Add(cacheKey{font, r}, gs)
}

func (c *setCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
