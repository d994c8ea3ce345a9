package httpd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/locate/glyphstore"
	"github.com/npillmayer/glyphd/engine/fontstack"
	"golang.org/x/net/netutil"
)

// Server is an HTTP server for glyph tiles.
type Server struct {
	cfg     Config
	service *fontstack.Service
	handler http.Handler
}

// NewServer creates a server from a configuration. The glyph store is not
// accessed before the first request.
func NewServer(cfg Config) (*Server, error) {
	opts := glyphstore.Options{
		Sources:     cfg.Generate,
		SystemFonts: cfg.SystemFonts,
	}
	if cfg.EmbeddedFallback {
		opts.EmbeddedFallback = cfg.Fallback
	}
	loader, err := glyphstore.NewLoader(glyphstore.NewStore(cfg.Root, opts),
		glyphstore.LoaderOptions{CacheSize: cfg.CacheSize})
	if err != nil {
		return nil, err
	}
	service := fontstack.NewService(loader, cfg.Fallback)
	return &Server{
		cfg:     cfg,
		service: service,
		handler: NewHandler(service),
	}, nil
}

// Config returns the server's configuration.
func (s *Server) Config() Config {
	return s.cfg
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens on the configured address and serves requests until ctx
// is done. Open requests then get the configured grace period to complete.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return core.WrapError(err, core.EUNAVAILABLE, "cannot listen on %s", s.cfg.Addr)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves requests on ln until ctx is done. ln is closed on
// return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.service.Loader().Store().Available(); err != nil {
		tracer().Errorf("glyph store not yet available: %v", err)
	}
	errch := make(chan error, 1)
	go func() {
		tracer().Infof("serving glyphs from %s on %s", s.cfg.Root, ln.Addr())
		errch <- srv.Serve(ln)
	}()
	select {
	case err := <-errch:
		return err
	case <-ctx.Done():
	}
	tracer().Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if serr := <-errch; serr != nil && !errors.Is(serr, http.ErrServerClosed) {
		return serr
	}
	return err
}
