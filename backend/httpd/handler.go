package httpd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/glyphs/pbf"
	"github.com/npillmayer/glyphd/core/locate/glyphstore"
	"github.com/npillmayer/glyphd/engine/fontstack"
	"github.com/rs/cors"
)

// Response bodies of the glyph route.
const (
	msgNotFound = "Glyph not found"
	msgNoGlyphs = "No Glyphs found"
	msgWelcome  = "Welcome to glyphd, a server for map glyph ranges!"
)

// NewHandler creates the HTTP handler for all routes, wrapped for CORS.
func NewHandler(service *fontstack.Service) http.Handler {
	h := &handler{service: service}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /fonts/{fontstack}/{file}", h.glyphs)
	mux.HandleFunc("GET /fonts.json", h.fonts)
	mux.HandleFunc("GET /{$}", h.index)
	return cors.AllowAll().Handler(emptyFontstack(mux, h.glyphs))
}

// emptyFontstack routes glyph requests with an empty fontstack, i.e.
// "/fonts//<range>.pbf", to glyphs. The mux would otherwise clean the path
// and redirect the client to a different route.
func emptyFontstack(mux *http.ServeMux, glyphs http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, ok := strings.CutPrefix(r.URL.Path, "/fonts//")
		if !ok || r.Method != http.MethodGet || file == "" || strings.Contains(file, "/") {
			mux.ServeHTTP(w, r)
			return
		}
		r.SetPathValue("fontstack", "")
		r.SetPathValue("file", file)
		glyphs(w, r)
	})
}

type handler struct {
	service *fontstack.Service
}

// glyphs serves the combined tile for a fontstack and a range.
func (h *handler) glyphs(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if !strings.HasSuffix(file, ".pbf") {
		http.NotFound(w, r)
		return
	}
	stack, rng := r.PathValue("fontstack"), strings.TrimSuffix(file, ".pbf")
	tracer().Debugf("request for fontstack %q, range %s", stack, rng)
	combined, err := h.service.Compose(r.Context(), stack, rng)
	if err != nil {
		status, body := errorResponse(err)
		tracer().Infof("fontstack %q, range %s: %d %v", stack, rng, status, err)
		writeText(w, status, body)
		return
	}
	if combined == nil {
		writeText(w, http.StatusNoContent, msgNoGlyphs)
		return
	}
	data := combined.Marshal()
	w.Header().Set("Content-Type", pbf.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		tracer().Errorf("writing glyph tile: %v", err)
	}
}

// errorResponse maps an error of composition to a status code and a body.
func errorResponse(err error) (int, string) {
	var ferr *fontstack.FontError
	switch {
	case errors.Is(err, glyphstore.ErrStoreUnavailable), errors.Is(err, glyphstore.ErrFontNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.As(err, &ferr):
		tracer().Errorf("error loading glyph %q: %v", ferr.Font, ferr.Cause)
		return http.StatusInternalServerError,
			fmt.Sprintf("Error loading glyph: %q\n%v", ferr.Font, ferr.Cause)
	case core.Code(err) == core.EINVALID:
		return http.StatusBadRequest, core.UserMessage(err)
	}
	tracer().Errorf("error loading glyphs: %v", err)
	return http.StatusInternalServerError, fmt.Sprintf("Error loading glyphs\n%v", err)
}

// fonts lists the fonts of the store as a JSON array.
func (h *handler) fonts(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Loader().Store().Fonts(r.URL.Query().Get("prefix"))
	if err != nil {
		tracer().Errorf("listing fonts: %v", err)
		writeText(w, http.StatusNotFound, core.UserMessage(err))
		return
	}
	if names == nil {
		names = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(names); err != nil {
		tracer().Errorf("writing font list: %v", err)
	}
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, msgWelcome)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := fmt.Fprint(w, body); err != nil && status != http.StatusNoContent {
		tracer().Errorf("writing response: %v", err)
	}
}
