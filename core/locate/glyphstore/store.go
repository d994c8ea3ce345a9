package glyphstore

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/derekparker/trie"
	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/font"
	"github.com/npillmayer/glyphd/core/glyphs"
)

// Options configures the font sources of a store besides prebuilt tiles.
type Options struct {
	Sources          bool   // outline fonts in the root directory
	SystemFonts      bool   // fonts installed on the system
	EmbeddedFallback string // font name to serve from the embedded Go font, if not stored
}

// Store is a read-only repository of glyph data, rooted at a directory.
//
// The catalog of fonts is built on the first access after the root
// directory has become available and does not change afterwards. The root
// itself is checked on every lookup.
type Store struct {
	root    string
	opts    Options
	mx      sync.Mutex // guards catalog creation
	catalog *catalog
	system  *systemFonts
}

// rangeFile is a prebuilt tile holding the glyphs of a range.
type rangeFile struct {
	r    glyphs.CodePointRange
	path string
}

// fontEntry is everything the store knows about a font.
type fontEntry struct {
	name     string
	ranges   []rangeFile // prebuilt tiles, sorted by range start
	source   string      // path of an outline font, if any
	embedded bool        // render from the embedded Go font
	prebuilt bool        // has a directory of prebuilt tiles
}

// NewStore creates a store for a root directory. The directory is not
// required to exist yet.
func NewStore(root string, opts Options) *Store {
	return &Store{
		root:   root,
		opts:   opts,
		system: newSystemFonts(opts.SystemFonts),
	}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Available checks that the root directory is accessible.
func (s *Store) Available() error {
	fi, err := os.Stat(s.root)
	if err != nil {
		tracer().Errorf("glyph store root %s not accessible: %v", s.root, err)
		return Unavailable(s.root, err)
	}
	if !fi.IsDir() {
		return Unavailable(s.root, core.Error(core.EINVALID, "not a directory"))
	}
	return nil
}

// Exists is a predicate: does the store have data for a font at all?
// It returns an error only if the store itself is unavailable.
func (s *Store) Exists(fontname string) (bool, error) {
	_, err := s.lookup(fontname)
	if err == nil {
		return true, nil
	}
	if core.Code(err) == core.EMISSING {
		return false, nil
	}
	return false, err
}

// Fonts lists the names of all fonts in the store starting with prefix,
// sorted. System fonts are not listed.
func (s *Store) Fonts(prefix string) ([]string, error) {
	cat, err := s.open()
	if err != nil {
		return nil, err
	}
	names := cat.index.PrefixSearch(prefix)
	if s.opts.EmbeddedFallback != "" && strings.HasPrefix(s.opts.EmbeddedFallback, prefix) {
		if _, ok := cat.index.Find(s.opts.EmbeddedFallback); !ok {
			names = append(names, s.opts.EmbeddedFallback)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Ranges returns the ranges of prebuilt tiles of a font, sorted.
func (s *Store) Ranges(fontname string) ([]glyphs.CodePointRange, error) {
	entry, err := s.lookup(fontname)
	if err != nil {
		return nil, err
	}
	rs := make([]glyphs.CodePointRange, len(entry.ranges))
	for i, rf := range entry.ranges {
		rs[i] = rf.r
	}
	return rs, nil
}

func (s *Store) lookup(fontname string) (*fontEntry, error) {
	cat, err := s.open()
	if err != nil {
		return nil, err
	}
	if node, ok := cat.index.Find(fontname); ok {
		return node.Meta().(*fontEntry), nil
	}
	if path, ok := s.system.find(fontname); ok {
		return &fontEntry{name: fontname, source: path}, nil
	}
	if fontname != "" && fontname == s.opts.EmbeddedFallback {
		return &fontEntry{name: fontname, embedded: true}, nil
	}
	tracer().Debugf("font %s not in store", fontname)
	return nil, NotFound(fontname)
}

// open checks the root and returns the catalog, building it if necessary.
func (s *Store) open() (*catalog, error) {
	if err := s.Available(); err != nil {
		return nil, err
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.catalog == nil {
		cat, err := scanCatalog(s.root, s.opts.Sources)
		if err != nil {
			return nil, Unavailable(s.root, err)
		}
		s.catalog = cat
	}
	return s.catalog, nil
}

// --- Catalog ---------------------------------------------------------------

type catalog struct {
	index *trie.Trie // font name → *fontEntry
	count int
}

var rangeFileName = regexp.MustCompile(`^(\d+)-(\d+)\.pbf$`)

// parseRangeFileName extracts the range from a tile file name "start-end.pbf".
func parseRangeFileName(name string) (glyphs.CodePointRange, bool) {
	m := rangeFileName.FindStringSubmatch(name)
	if m == nil {
		return glyphs.CodePointRange{}, false
	}
	start, err1 := strconv.ParseUint(m[1], 10, 32)
	end, err2 := strconv.ParseUint(m[2], 10, 32)
	if err1 != nil || err2 != nil || start > end {
		return glyphs.CodePointRange{}, false
	}
	return glyphs.CodePointRange{Start: uint32(start), End: uint32(end)}, true
}

func scanCatalog(root string, sources bool) (*catalog, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	cat := &catalog{index: trie.New()}
	fonts := make(map[string]*fontEntry)
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			ranges, err := scanRanges(filepath.Join(root, name))
			if err != nil {
				tracer().Errorf("skipping font directory %s: %v", name, err)
				continue
			}
			entry := fontEntryFor(fonts, name)
			entry.ranges, entry.prebuilt = ranges, true
			continue
		}
		if sources && font.IsFontFile(name) {
			fontname := strings.TrimSuffix(name, filepath.Ext(name))
			entry := fontEntryFor(fonts, fontname)
			if entry.source == "" {
				entry.source = filepath.Join(root, name)
			}
		}
	}
	for name, entry := range fonts {
		cat.index.Add(name, entry)
		cat.count++
	}
	tracer().Infof("glyph store at %s holds %d fonts", root, cat.count)
	return cat, nil
}

func fontEntryFor(fonts map[string]*fontEntry, name string) *fontEntry {
	entry, ok := fonts[name]
	if !ok {
		entry = &fontEntry{name: name}
		fonts[name] = entry
	}
	return entry
}

func scanRanges(dir string) ([]rangeFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ranges []rangeFile
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if r, ok := parseRangeFileName(f.Name()); ok {
			ranges = append(ranges, rangeFile{r: r, path: filepath.Join(dir, f.Name())})
		}
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].r.Start == ranges[j].r.Start {
			return ranges[i].r.End < ranges[j].r.End
		}
		return ranges[i].r.Start < ranges[j].r.Start
	})
	return ranges, nil
}
