package httpd

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/glyphd/core/glyphs"
	"github.com/npillmayer/glyphd/core/glyphs/pbf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTile(t *testing.T, root, fontname, rng string, from, to uint32) {
	t.Helper()
	fs := pbf.Fontstack{Name: fontname, Range: rng}
	for cp := from; cp <= to; cp++ {
		fs.Glyphs = append(fs.Glyphs, pbf.Glyph{ID: cp, Width: 1, Height: 1, Advance: 10,
			Bitmap: make([]byte, 49)})
	}
	dir := filepath.Join(root, fontname)
	require.NoError(t, os.MkdirAll(dir, 0755))
	data := pbf.Marshal(&pbf.Glyphs{Stacks: []pbf.Fontstack{fs}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, rng+".pbf"), data, 0644))
}

func testServer(t *testing.T, root string) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Root = root
	cfg.Generate = false
	srv, err := NewServer(cfg)
	require.NoError(t, err)
	return srv
}

func testRoot(t *testing.T) string {
	root := t.TempDir()
	writeTile(t, root, "Roboto-Regular", "0-255", 65, 90)
	writeTile(t, root, "Arial-Unicode-Regular", "0-255", 32, 126)
	return root
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Origin", "https://maps.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGlyphRoute(t *testing.T) {
	h := testServer(t, testRoot(t)).Handler()
	rec := get(t, h, "/fonts/Roboto-Regular/0-255.pbf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pbf.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	c, err := glyphs.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 126-32+1, c.Len())
	assert.Equal(t, glyphs.CodePointRange{Start: 32, End: 126}, c.Range())
	assert.Equal(t, "Roboto-Regular, Arial-Unicode-Regular", c.Name())
}

func TestGlyphRouteEscapedNames(t *testing.T) {
	root := testRoot(t)
	writeTile(t, root, "Open Sans Regular", "0-255", 48, 57)
	h := testServer(t, root).Handler()
	rec := get(t, h, "/fonts/Open%20Sans%20Regular,Roboto-Regular/0-255.pbf")
	require.Equal(t, http.StatusOK, rec.Code)
	c, err := glyphs.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Open Sans Regular, Roboto-Regular, Arial-Unicode-Regular", c.Name())
}

func TestGlyphRouteStatus(t *testing.T) {
	root := testRoot(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Broken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Broken", "0-255.pbf"), []byte{0x0a, 0x20, 0x01}, 0644))
	h := testServer(t, root).Handler()
	for _, tc := range []struct {
		path   string
		status int
		body   string
	}{
		{"/fonts//0-255.pbf", http.StatusBadRequest, "No glyphs specified"},
		{"/fonts//10.pbf", http.StatusBadRequest, "No glyphs specified"},
		{"/fonts//0-255.json", http.StatusNotFound, ""},
		{"/fonts/,/0-255.pbf", http.StatusBadRequest, "No glyphs specified"},
		{"/fonts/%20/0-255.pbf", http.StatusBadRequest, "No glyphs specified"},
		{"/fonts/Foo/10.pbf", http.StatusBadRequest, "Invalid range"},
		{"/fonts/Foo/a-b.pbf", http.StatusBadRequest, "Invalid range"},
		{"/fonts/Foo/20-10.pbf", http.StatusBadRequest, "Invalid range"},
		{"/fonts/UnknownFont/0-10.pbf", http.StatusNoContent, ""},
		{"/fonts/Roboto-Regular/0-255.json", http.StatusNotFound, ""},
		{"/fonts/Broken/0-255.pbf", http.StatusInternalServerError, "Error loading glyph: \"Broken\"\n"},
		{"/", http.StatusOK, msgWelcome},
		{"/nowhere", http.StatusNotFound, ""},
	} {
		rec := get(t, h, tc.path)
		assert.Equal(t, tc.status, rec.Code, "GET %s", tc.path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), "GET %s", tc.path)
		if tc.body != "" {
			assert.True(t, strings.HasPrefix(rec.Body.String(), tc.body),
				"GET %s: body %q", tc.path, rec.Body.String())
		}
	}
}

func TestGlyphRouteStoreMissing(t *testing.T) {
	h := testServer(t, filepath.Join(t.TempDir(), "output_pbfs")).Handler()
	for _, path := range []string{"/fonts/Roboto-Regular/0-255.pbf", "/fonts/A,B,C/0-10.pbf"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, msgNotFound, rec.Body.String())
	}
	rec := get(t, h, "/fonts.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := testServer(t, testRoot(t)).Handler()
	req := httptest.NewRequest(http.MethodPost, "/fonts/Roboto-Regular/0-255.pbf", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPreflight(t *testing.T) {
	h := testServer(t, testRoot(t)).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/fonts/Roboto-Regular/0-255.pbf", nil)
	req.Header.Set("Origin", "https://maps.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "X-Custom")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestFontList(t *testing.T) {
	h := testServer(t, testRoot(t)).Handler()
	var names []string
	rec := get(t, h, "/fonts.json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"Arial-Unicode-Regular", "Roboto-Regular"}, names)
	rec = get(t, h, "/fonts.json?prefix=Rob")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"Roboto-Regular"}, names)
	rec = get(t, h, "/fonts.json?prefix=X")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestServeAndShutdown(t *testing.T) {
	srv := testServer(t, testRoot(t))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()
	resp, err := http.Get("http://" + ln.Addr().String() + "/fonts/Roboto-Regular/0-255.pbf")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
