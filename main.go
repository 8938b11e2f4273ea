package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"

	"dotmax/pipeline"
	"dotmax/render"
)

func main() {
	dither := flag.String("dither", "none", "binarization: none, floyd-steinberg, bayer8, atkinson")
	threshold := flag.Int("threshold", -1, "manual threshold 0..255 (default: Otsu)")
	colorMode := flag.String("color", "mono", "color mode: mono, gray, truecolor")
	brightness := flag.Float64("brightness", 1, "brightness factor 0..2")
	contrast := flag.Float64("contrast", 1, "contrast factor 0..2")
	gamma := flag.Float64("gamma", 1, "gamma 0.1..3")
	cells := flag.String("cells", "", "grid size as COLSxROWS (default: terminal size)")
	palette := flag.Int("palette", 0, "quantize cell colors to at most N entries (truecolor only)")
	watch := flag.Bool("watch", false, "re-render when the image file changes")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dotmax [flags] IMAGE")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	opts := pipeline.Default()
	opts.Brightness = float32(*brightness)
	opts.Contrast = float32(*contrast)
	opts.Gamma = float32(*gamma)
	opts.PaletteColors = *palette

	switch strings.ToLower(*dither) {
	case "", "none":
	case "floyd-steinberg", "fs":
		opts.Dither = pipeline.FloydSteinberg
	case "bayer8", "bayer":
		opts.Dither = pipeline.Bayer8
	case "atkinson":
		opts.Dither = pipeline.Atkinson
	default:
		fmt.Fprintf(os.Stderr, "error: unknown dither method %q\n", *dither)
		os.Exit(2)
	}

	switch strings.ToLower(*colorMode) {
	case "", "mono", "monochrome":
	case "gray", "grayscale":
		opts.ColorMode = pipeline.Grayscale
	case "truecolor", "color":
		opts.ColorMode = pipeline.TrueColor
	default:
		fmt.Fprintf(os.Stderr, "error: unknown color mode %q\n", *colorMode)
		os.Exit(2)
	}

	if *threshold >= 0 {
		if *threshold > 255 {
			fmt.Fprintln(os.Stderr, "error: threshold must be in 0..255")
			os.Exit(2)
		}
		opts = opts.WithThreshold(uint8(*threshold))
	}

	if *cells != "" {
		var cw, ch int
		if _, err := fmt.Sscanf(strings.ToLower(*cells), "%dx%d", &cw, &ch); err != nil || cw < 1 || ch < 1 {
			fmt.Fprintf(os.Stderr, "error: invalid -cells value %q\n", *cells)
			os.Exit(2)
		}
		opts = opts.WithCells(cw, ch)
	}

	r := render.New(os.Stdout)
	defer r.Close()

	if err := show(r, opts, path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}
	if err := watchLoop(r, opts, path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func show(r *render.Renderer, opts pipeline.Options, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := pipeline.Decode(f)
	if err != nil {
		return err
	}
	g, err := opts.Render(img)
	if err != nil {
		return err
	}
	return r.Render(g)
}

// watchLoop re-renders the image whenever it changes on disk. Editors that
// replace files atomically surface as Create events, so both kinds
// trigger a redraw. The differential renderer keeps unchanged regions off
// the wire.
func watchLoop(r *render.Renderer, opts pipeline.Options, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := show(r, opts, path); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			// Atomic replaces drop the watch on the old inode.
			_ = watcher.Add(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
