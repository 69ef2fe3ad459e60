/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
/*
	pixjit compiles point-and-stencil 8-bit image pipelines to native
	machine code at runtime and runs them over PNG images.

	https://pkelchte.wordpress.com/2013/12/31/scm-go/
*/
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/fsnotify/fsnotify"
	"github.com/launix-de/pixeljit/pixel"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/message"
)

func main() {
	fmt.Print(`pixjit Copyright (C) 2024-2026   Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "repl":
		cmdRepl(os.Args[2:])
	case "watch":
		cmdWatch(os.Args[2:])
	case "list-kernels":
		cmdListKernels(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pixjit <run|repl|watch|list-kernels> [flags]")
}

// loadGray8 reads a PNG from path and flattens it to an 8-bit luma buffer,
// the same conversion main.rs leans on the "image" crate's GenericImage
// trait for.
func loadGray8(path string) (pixel.ImageView, error) {
	f, err := os.Open(path)
	if err != nil {
		return pixel.ImageView{}, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return pixel.ImageView{}, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	px := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := image.NewGray(image.Rect(0, 0, 1, 1))
			g.Set(0, 0, img.At(b.Min.X+x, b.Min.Y+y))
			px[y*w+x] = g.Pix[0]
		}
	}
	return pixel.ImageView{Width: w, Height: h, Pixels: px}, nil
}

func saveGray8(path string, img pixel.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	copy(out.Pix, img.Pixels)
	return png.Encode(f, out)
}

// writeCompressed optionally LZ4-frames the encoded PNG bytes to dst.png.lz4
// instead of dst.png — a demonstration hook for the --compress flag, not a
// default behavior.
func writeCompressed(path string, img pixel.Image) error {
	r, w := io.Pipe()
	errc := make(chan error, 1)
	go func() {
		out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		copy(out.Pix, img.Pixels)
		errc <- png.Encode(w, out)
		w.Close()
	}()
	f, err := os.Create(path + ".lz4")
	if err != nil {
		return err
	}
	defer f.Close()
	zw := lz4.NewWriter(f)
	defer zw.Close()
	if _, err := io.Copy(zw, r); err != nil {
		return err
	}
	return <-errc
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	kernel := fs.String("kernel", "sobel-magnitude", "preset kernel name (see list-kernels)")
	inDir := fs.String("in", ".", "directory of input PNGs to process")
	outDir := fs.String("out", "out", "directory to write results to")
	noJIT := fs.Bool("no-jit", false, "run the tree-walking interpreter instead of the JIT, for timing comparison")
	compress := fs.Bool("compress", false, "LZ4-compress output files instead of writing plain PNGs")
	maxPixels := fs.String("max-pixels", "64MiB", "reject inputs larger than this many decoded pixel bytes (e.g. 16MiB, 2GiB)")
	stats := fs.Bool("stats", false, "print lifetime compile/run counters after the batch finishes")
	fs.Parse(args)

	limit, err := units.RAMInBytes(*maxPixels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --max-pixels %q: %v\n", *maxPixels, err)
		os.Exit(1)
	}

	preset, ok := pixel.LookupPreset(*kernel)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown kernel %q (see list-kernels)\n", *kernel)
		os.Exit(1)
	}
	root := preset.Build(pixel.ImageSource(0))

	var cc *pixel.CompiledChain
	if !*noJIT {
		cc, err = pixel.Compile(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "compile: %v\n", err)
			os.Exit(1)
		}
		defer cc.Close()
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	entries, err := os.ReadDir(*inDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read dir %s: %v\n", *inDir, err)
		os.Exit(1)
	}

	p := message.NewPrinter(message.MatchLanguage("en"))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		src := filepath.Join(*inDir, e.Name())
		view, err := loadGray8(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", src, err)
			continue
		}
		if int64(len(view.Pixels)) > limit {
			fmt.Fprintf(os.Stderr, "skip %s: %s exceeds --max-pixels %s\n", src, units.BytesSize(float64(len(view.Pixels))), units.BytesSize(float64(limit)))
			continue
		}

		start := time.Now()
		var result pixel.Image
		if *noJIT {
			result, err = pixel.Interpret(root, []pixel.ImageView{view})
		} else {
			result, err = cc.RunOn([]pixel.ImageView{view})
		}
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run %s: %v\n", src, err)
			continue
		}

		dst := filepath.Join(*outDir, e.Name())
		if *compress {
			err = writeCompressed(dst, result)
		} else {
			err = saveGray8(dst, result)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", dst, err)
			continue
		}
		p.Printf("%s: %d x %d px in %v\n", e.Name(), view.Width, view.Height, elapsed)
	}

	if *stats {
		m := pixel.Metrics()
		p.Printf("compiles=%d runs=%d live chains=%d\n", m.TotalCompiles, m.TotalRuns, m.LiveChains)
	}
}

func cmdListKernels(args []string) {
	p := message.NewPrinter(message.MatchLanguage("en"))
	names := pixel.PresetNames()
	p.Printf("%d registered kernel(s):\n", len(names))
	for _, name := range names {
		k, _ := pixel.LookupPreset(name)
		fmt.Printf("  %-18s %s\n", k.Name, k.Description)
	}
	fmt.Println("  shift              translate by (dx, dy); construct via pixel.PresetShift, not listed here")
}

// cmdWatch compiles a kernel once and re-runs it every time a PNG is
// created or written in --in, the repeated-run complement to "run"'s one-shot batch —
// the point being that Compile only ever happens once, no matter how many
// files arrive.
func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	kernel := fs.String("kernel", "sobel-magnitude", "preset kernel name (see list-kernels)")
	inDir := fs.String("in", ".", "directory to watch for new PNGs")
	outDir := fs.String("out", "out", "directory to write results to")
	fs.Parse(args)

	preset, ok := pixel.LookupPreset(*kernel)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown kernel %q (see list-kernels)\n", *kernel)
		os.Exit(1)
	}
	root := preset.Build(pixel.ImageSource(0))
	cc, err := pixel.Compile(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		os.Exit(1)
	}
	defer cc.Close()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "watcher: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()
	if err := watcher.Add(*inDir); err != nil {
		fmt.Fprintf(os.Stderr, "watch %s: %v\n", *inDir, err)
		os.Exit(1)
	}

	fmt.Printf("watching %s for new PNGs (kernel %q, compiled once)\n", *inDir, *kernel)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !strings.EqualFold(filepath.Ext(ev.Name), ".png") {
				continue
			}
			view, err := loadGray8(ev.Name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "skip %s: %v\n", ev.Name, err)
				continue
			}
			result, err := cc.RunOn([]pixel.ImageView{view})
			if err != nil {
				fmt.Fprintf(os.Stderr, "run %s: %v\n", ev.Name, err)
				continue
			}
			dst := filepath.Join(*outDir, filepath.Base(ev.Name))
			if err := saveGray8(dst, result); err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", dst, err)
				continue
			}
			fmt.Printf("%s -> %s\n", ev.Name, dst)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
