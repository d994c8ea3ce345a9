package font

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/image/font/gofont/goregular"
)

func TestFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphd.fonts")
	defer teardown()
	//
	f := FallbackFont()
	if f == nil || f.SFNT == nil {
		t.Fatalf("fallback font not loaded")
	}
	if f != FallbackFont() {
		t.Errorf("expected fallback font to be loaded once")
	}
	cov, err := f.Coverage(context.Background(), 0, 127)
	if err != nil {
		t.Fatal(err)
	}
	if len(cov) == 0 {
		t.Fatalf("expected Go Sans to cover ASCII")
	}
	for _, r := range cov {
		if r < 32 {
			t.Errorf("did not expect Go Sans to cover control character %d", r)
		}
	}
}

func TestCoverageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FallbackFont().Coverage(ctx, 0, unicode.MaxRune); !errors.Is(err, context.Canceled) {
		t.Errorf("expected full Unicode scan to stop on cancelled context, got %v", err)
	}
	// an expired deadline stops the scan as well
	ctx, cancel = context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()
	if _, err := FallbackFont().Coverage(ctx, 0x1000, unicode.MaxRune); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected scan to stop on expired context, got %v", err)
	}
}

func TestLoadOpenTypeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphd.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "GoRegular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadOpenTypeFont(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Filepath != path {
		t.Errorf("expected file path to be recorded, is %q", f.Filepath)
	}
	if f.Fontname == "" {
		t.Errorf("expected font name from name table")
	}
	if _, err = ParseOpenTypeFont([]byte("no font")); err == nil {
		t.Errorf("expected parse error for garbage data")
	}
}

func TestIsFontFile(t *testing.T) {
	for name, want := range map[string]bool{
		"Roboto-Regular.ttf": true,
		"Noto Sans.OTF":      true,
		"Helvetica.ttc":      false,
		"0-255.pbf":          false,
	} {
		if IsFontFile(name) != want {
			t.Errorf("IsFontFile(%q) != %v", name, want)
		}
	}
}
