/*
Glyphd serves glyph ranges for map renderers.

Usage:

	glyphd [flags]                   serve glyph tiles over HTTP
	glyphd [flags] inspect file.pbf  print the glyphs of a tile

Every flag may also be given as an environment variable, e.g.
GLYPHD_ROOT for -root. Flags take precedence.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/npillmayer/glyphd/backend/httpd"
	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// tracer traces with key 'glyphd.http'
func tracer() tracing.Trace {
	return tracing.Select("glyphd.http")
}

// tracers are configured from the -trace flag.
var tracers = []string{
	"glyphd.glyphs", "glyphd.store", "glyphd.fonts", "glyphd.fontstack", "glyphd.http",
}

// options maps configuration keys to their command line flags.
var options = []struct {
	key, flag, def, usage string
}{
	{httpd.KeyAddr, "addr", "127.0.0.1:30412", "address to listen on"},
	{httpd.KeyRoot, "root", "./output_pbfs", "root directory of the glyph store"},
	{httpd.KeyFallback, "fallback", "Arial-Unicode-Regular", "font appended to every fontstack"},
	{httpd.KeyCacheSize, "cache-size", "512", "number of glyph ranges to cache (0 = off)"},
	{httpd.KeyMaxConns, "max-conns", "0", "maximum simultaneous connections (0 = unlimited)"},
	{httpd.KeyGenerate, "generate", "true", "render glyphs from font files in the root directory"},
	{httpd.KeySystemFonts, "system-fonts", "false", "render glyphs from installed system fonts"},
	{httpd.KeyEmbeddedFallback, "embedded-fallback", "false", "serve the fallback font from an embedded font if not stored"},
	{httpd.KeyShutdownTimeout, "shutdown-timeout", "10s", "grace period for open requests on shutdown"},
}

func main() {
	initDisplay()
	flags := flag.NewFlagSet("glyphd", flag.ExitOnError)
	values := make(map[string]*string, len(options))
	for _, opt := range options {
		values[opt.key] = flags.String(opt.flag, opt.def, opt.usage)
	}
	tlevel := flags.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flags.Usage = func() { usage(os.Stderr, flags) }
	flags.Parse(os.Args[1:])
	//
	conf := configure(flags, values)
	conf["tracing.adapter"] = "go"
	for _, key := range tracers {
		conf["trace."+key] = *tlevel
	}
	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		pterm.Error.Println("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	//
	switch args := flags.Args(); {
	case len(args) == 0:
		os.Exit(serve(conf))
	case args[0] == "inspect" && len(args) == 2:
		os.Exit(inspect(args[1]))
	default:
		pterm.Error.Printfln("unknown command: %s", strings.Join(args, " "))
		flags.Usage()
		os.Exit(2)
	}
}

// configure collects configuration values. Environment variables are
// overridden by flags set on the command line.
func configure(flags *flag.FlagSet, values map[string]*string) testconfig.Conf {
	conf := testconfig.Conf{}
	for _, opt := range options {
		conf[opt.key] = opt.def
		if v, ok := os.LookupEnv(envName(opt.flag)); ok {
			conf[opt.key] = v
		}
	}
	flags.Visit(func(f *flag.Flag) {
		for _, opt := range options {
			if opt.flag == f.Name {
				conf[opt.key] = *values[opt.key]
			}
		}
	})
	return conf
}

// envName returns the environment variable for a flag, e.g. GLYPHD_CACHE_SIZE
// for cache-size.
func envName(flagname string) string {
	return "GLYPHD_" + strings.ToUpper(strings.ReplaceAll(flagname, "-", "_"))
}

func serve(conf testconfig.Conf) int {
	cfg, err := httpd.ConfigFrom(conf)
	if err != nil {
		core.UserError(os.Stderr, err)
		return 2
	}
	srv, err := httpd.NewServer(cfg)
	if err != nil {
		core.UserError(os.Stderr, err)
		return 3
	}
	pterm.Info.Printfln("Serving glyphs from %s on http://%s", cfg.Root, cfg.Addr)
	pterm.Info.Println("Quit with <ctrl>C")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Serve(ctx); err != nil {
		tracer().Errorf("server stopped: %v", err)
		core.UserError(os.Stderr, err)
		return 4
	}
	pterm.Info.Println("Good bye")
	return 0
}

// We use pterm for moderately fancy output.
func initDisplay() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		pterm.DisableColor()
		pterm.DisableStyling()
	}
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " glyphd ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func usage(w *os.File, flags *flag.FlagSet) {
	fmt.Fprintf(w, "usage: %s [flags] [inspect file.pbf]\n", flags.Name())
	flags.PrintDefaults()
}
