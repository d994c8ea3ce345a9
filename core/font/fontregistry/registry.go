package fontregistry

import (
	"sort"
	"sync"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/font"
)

// Registry is a type for holding information about loaded fonts.
type Registry struct {
	sync.Mutex
	fonts   map[string]*font.ScalableFont
	loading map[string]*sync.Once
	errs    map[string]error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts:   make(map[string]*font.ScalableFont),
		loading: make(map[string]*sync.Once),
		errs:    make(map[string]error),
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// If name is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(name string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[name]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, name)
		fr.fonts[name] = f
	}
}

// Font returns the font stored under name, if any.
func (fr *Registry) Font(name string) (*font.ScalableFont, bool) {
	fr.Lock()
	defer fr.Unlock()
	f, ok := fr.fonts[name]
	return f, ok
}

// LoadFont returns the font stored under name. If it isn't present yet, it
// is loaded from fontfile and stored. Concurrent callers for the same name
// wait for a single load; a failed load is remembered and reported again.
func (fr *Registry) LoadFont(name, fontfile string) (*font.ScalableFont, error) {
	fr.Lock()
	if f, ok := fr.fonts[name]; ok {
		fr.Unlock()
		return f, nil
	}
	once, ok := fr.loading[name]
	if !ok {
		once = &sync.Once{}
		fr.loading[name] = once
	}
	fr.Unlock()
	once.Do(func() {
		tracer().Infof("registry loads font %s from %s", name, fontfile)
		f, err := font.LoadOpenTypeFont(fontfile)
		fr.Lock()
		defer fr.Unlock()
		if err != nil {
			fr.errs[name] = core.WrapError(err, core.EINTERNAL, "cannot load font %s from %s", name, fontfile)
			return
		}
		fr.fonts[name] = f
	})
	fr.Lock()
	defer fr.Unlock()
	if err, failed := fr.errs[name]; failed {
		return nil, err
	}
	return fr.fonts[name], nil
}

// Names returns the names of all fonts in the registry, sorted.
func (fr *Registry) Names() []string {
	fr.Lock()
	defer fr.Unlock()
	names := make([]string, 0, len(fr.fonts))
	for k := range fr.fonts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
