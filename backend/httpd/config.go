package httpd

import (
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/engine/fontstack"
	"github.com/npillmayer/schuko"
)

// Configuration keys understood by ConfigFrom.
const (
	KeyAddr             = "glyphd.addr"
	KeyRoot             = "glyphd.root"
	KeyFallback         = "glyphd.fallback"
	KeyCacheSize        = "glyphd.cache-size"
	KeyMaxConns         = "glyphd.max-conns"
	KeyGenerate         = "glyphd.generate"
	KeySystemFonts      = "glyphd.system-fonts"
	KeyEmbeddedFallback = "glyphd.embedded-fallback"
	KeyShutdownTimeout  = "glyphd.shutdown-timeout"
)

// Config is the configuration of a server. It is passed by value and never
// changed by the server.
type Config struct {
	Addr             string        // host:port to listen on
	Root             string        // root directory of the glyph store
	Fallback         string        // font appended to every fontstack
	CacheSize        int           // glyph sets to cache; 0 disables the cache
	MaxConns         int           // simultaneous connections; 0 means unlimited
	Generate         bool          // render glyphs from outline fonts in Root
	SystemFonts      bool          // render glyphs from installed system fonts
	EmbeddedFallback bool          // serve Fallback from the embedded Go font if not stored
	ShutdownTimeout  time.Duration // grace period for open requests on shutdown
}

// DefaultConfig returns the configuration used for keys not set.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:30412",
		Root:            "./output_pbfs",
		Fallback:        fontstack.DefaultFallbackFont,
		CacheSize:       512,
		Generate:        true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// ConfigFrom reads a server configuration from an application
// configuration, falling back to DefaultConfig for keys not set.
func ConfigFrom(conf schuko.Configuration) (Config, error) {
	cfg := DefaultConfig()
	if conf == nil {
		return cfg, nil
	}
	str := func(key string, v *string) {
		if s := strings.TrimSpace(conf.GetString(key)); conf.IsSet(key) && s != "" {
			*v = s
		}
	}
	str(KeyAddr, &cfg.Addr)
	str(KeyRoot, &cfg.Root)
	str(KeyFallback, &cfg.Fallback)
	var err error
	if cfg.CacheSize, err = intValue(conf, KeyCacheSize, cfg.CacheSize); err != nil {
		return cfg, err
	}
	if cfg.MaxConns, err = intValue(conf, KeyMaxConns, cfg.MaxConns); err != nil {
		return cfg, err
	}
	if cfg.Generate, err = boolValue(conf, KeyGenerate, cfg.Generate); err != nil {
		return cfg, err
	}
	if cfg.SystemFonts, err = boolValue(conf, KeySystemFonts, cfg.SystemFonts); err != nil {
		return cfg, err
	}
	if cfg.EmbeddedFallback, err = boolValue(conf, KeyEmbeddedFallback, cfg.EmbeddedFallback); err != nil {
		return cfg, err
	}
	if conf.IsSet(KeyShutdownTimeout) {
		d, err := time.ParseDuration(conf.GetString(KeyShutdownTimeout))
		if err != nil || d < 0 {
			return cfg, core.WrapError(err, core.EINVALID, "invalid value for %s: %q",
				KeyShutdownTimeout, conf.GetString(KeyShutdownTimeout))
		}
		cfg.ShutdownTimeout = d
	}
	tracer().Debugf("server configuration: %+v", cfg)
	return cfg, nil
}

// intValue reads a non-negative integer. Values are parsed from their
// string form, as configuration sources differ in the types they store.
func intValue(conf schuko.Configuration, key string, def int) (int, error) {
	if !conf.IsSet(key) {
		return def, nil
	}
	s := conf.GetString(key)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return def, core.WrapError(err, core.EINVALID, "invalid value for %s: %q", key, s)
	}
	return n, nil
}

func boolValue(conf schuko.Configuration, key string, def bool) (bool, error) {
	if !conf.IsSet(key) {
		return def, nil
	}
	s := conf.GetString(key)
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return def, core.WrapError(err, core.EINVALID, "invalid value for %s: %q", key, s)
	}
	return b, nil
}
