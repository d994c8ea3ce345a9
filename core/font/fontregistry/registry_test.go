package fontregistry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRegistryStore(t *testing.T) {
	fr := NewRegistry()
	fr.StoreFont("nil", nil)
	_, ok := fr.Font("nil")
	assert.False(t, ok)
	fallback := font.FallbackFont()
	fr.StoreFont("Go", fallback)
	fr.StoreFont("Go", &font.ScalableFont{Fontname: "other"})
	f, ok := fr.Font("Go")
	require.True(t, ok)
	assert.Same(t, fallback, f, "stored font must not be overridden")
	assert.Equal(t, []string{"Go"}, fr.Names())
}

func TestRegistryLoadOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GoRegular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0644))
	fr := NewRegistry()
	var wg sync.WaitGroup
	loaded := make([]*font.ScalableFont, 8)
	for i := range loaded {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := fr.LoadFont("GoRegular", path)
			assert.NoError(t, err)
			loaded[i] = f
		}(i)
	}
	wg.Wait()
	for _, f := range loaded {
		assert.Same(t, loaded[0], f)
	}
}

func TestRegistryLoadFailure(t *testing.T) {
	fr := NewRegistry()
	_, err := fr.LoadFont("Missing", filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)
	assert.Equal(t, core.EINTERNAL, core.Code(err))
	_, err = fr.LoadFont("Missing", "")
	assert.Error(t, err, "failure should be remembered")
}
