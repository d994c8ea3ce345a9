package glyphstore

import (
	"errors"
	"fmt"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/glyphs"
)

// ErrFontNotFound is the cause of errors for fonts unknown to a store.
var ErrFontNotFound = errors.New("font not found")

// ErrStoreUnavailable is the cause of errors for a store whose root
// directory cannot be accessed.
var ErrStoreUnavailable = errors.New("glyph store unavailable")

// NotFound returns an application error for a missing font.
func NotFound(fontname string) error {
	return core.WrapError(ErrFontNotFound, core.EMISSING, "font not found: %s", fontname)
}

// Unavailable returns an application error for an inaccessible store root.
func Unavailable(root string, cause error) error {
	err := ErrStoreUnavailable
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrStoreUnavailable, cause)
	}
	return core.WrapError(err, core.EUNAVAILABLE, "glyph store not available at %s", root)
}

// DecodeError reports stored glyph data which cannot be read or parsed.
type DecodeError struct {
	Font  string
	Range glyphs.CodePointRange // requested range
	Path  string                // file holding the data
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode glyphs of font %q for range %s from %s: %v",
		e.Font, e.Range, e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func decodeError(font string, r glyphs.CodePointRange, path string, cause error) error {
	err := &DecodeError{Font: font, Range: r, Path: path, Cause: cause}
	return core.WrapError(err, core.EINTERNAL, "corrupt glyph data for font %s", font)
}
