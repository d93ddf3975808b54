// Command shadedemo renders a lightmapped scene with the software
// executor and writes it to a PNG file.
//
// Usage:
//
//	shadedemo [-config scene.toml] [-mode raw|replace|multiply] [-width N]
//	          [-height N] [-output out.png] [-watch] [-v]
//
// With -watch the scene is re-rendered whenever the config file changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gogpu/shade"
)

type flags struct {
	config  string
	mode    string
	width   int
	height  int
	output  string
	watch   bool
	verbose bool

	set map[string]bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{set: map[string]bool{}}
	fs := flag.NewFlagSet("shadedemo", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "", "scene config file (TOML)")
	fs.StringVar(&f.mode, "mode", "", "blend mode: raw, replace, multiply or an integer selector")
	fs.IntVar(&f.width, "width", 0, "image width")
	fs.IntVar(&f.height, "height", 0, "image height")
	fs.StringVar(&f.output, "output", "", "output file")
	fs.BoolVar(&f.watch, "watch", false, "re-render when the config file changes")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	if f.watch && f.config == "" {
		return nil, errors.New("shadedemo: -watch needs -config")
	}
	return f, nil
}

// loadConfig reads the config file, if any, and applies the flags that
// were set explicitly on top of it.
func (f *flags) loadConfig() (Config, error) {
	cfg := DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = LoadConfig(f.config); err != nil {
			return cfg, err
		}
	}
	if f.set["mode"] {
		m, err := shade.ParseBlendMode(f.mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = m
	}
	if f.set["width"] {
		cfg.Width = f.width
	}
	if f.set["height"] {
		cfg.Height = f.height
	}
	if f.set["output"] {
		cfg.Output = f.output
	}
	return cfg, cfg.Validate()
}

func (f *flags) baseDir() string {
	if f.config == "" {
		return "."
	}
	return filepath.Dir(f.config)
}

func newLogger(verbose bool) *slog.Logger {
	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "shadedemo",
	})
	if verbose {
		handler.SetLevel(log.DebugLevel)
	}
	return slog.New(handler)
}

// renderOnce loads the config, renders and saves the image. Texture
// files are shared with earlier renders through textures.
func renderOnce(f *flags, logger *slog.Logger, textures *shade.TextureCache) error {
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	scene, err := NewScene(cfg, f.baseDir(), textures)
	if err != nil {
		return err
	}

	start := time.Now()
	fb, st, err := scene.Render()
	if err != nil {
		return err
	}
	if err := fb.SavePNG(cfg.Output); err != nil {
		return fmt.Errorf("shadedemo: save: %w", err)
	}

	logger.Info("rendered",
		"output", cfg.Output,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"mode", cfg.Mode,
		"objects", len(cfg.Objects),
		"written", st.Written,
		"discarded", st.Discarded,
		"elapsed", time.Since(start).Round(time.Millisecond))
	if ts := textures.Stats(); ts.Entries > 0 {
		logger.Debug("texture cache", "entries", ts.Entries, "hits", ts.Hits, "misses", ts.Misses)
	}
	return nil
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	logger := newLogger(f.verbose)
	shade.SetLogger(logger)
	textures := shade.NewTextureCache(0)

	if err := renderOnce(f, logger, textures); err != nil {
		if !f.watch {
			return err
		}
		logger.Error("render failed", "err", err)
	}
	if !f.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("watching", "config", f.config)
	return watch(ctx, f.config, func() {
		if err := renderOnce(f, logger, textures); err != nil {
			logger.Error("render failed", "err", err)
		}
	})
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
