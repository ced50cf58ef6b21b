package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/kilianc/ghaml/internal/ghaml/compile"
	"github.com/kilianc/ghaml/internal/ghaml/outfile"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: playground [flags]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Watches ./playground/page.haml and regenerates page.haml.go on changes.")
		flag.PrintDefaults()
	}
	interval := flag.Duration("interval", 300*time.Millisecond, "watch polling interval")
	file := flag.String("file", filepath.Join("playground", "page.haml"), "template to watch, relative to the module root")
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	root, err := findModuleRoot(".")
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := &watcher{target: filepath.Join(root, *file), log: log}
	w.run(ctx, *interval)
}

type watcher struct {
	target string
	log    *slog.Logger

	lastHash [32]byte
	have     bool
}

func (w *watcher) run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		w.poll()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// poll regenerates the target when its content changed since the last call.
// It reports whether a compile was attempted.
func (w *watcher) poll() bool {
	src, err := os.ReadFile(w.target)
	if err != nil {
		w.log.Error("read failed", "file", w.target, "err", err)
		return false
	}
	h := sha256.Sum256(src)
	if w.have && h == w.lastHash {
		return false
	}
	w.lastHash = h
	w.have = true

	start := time.Now()
	code, err := compile.CompileFile(w.target, src, compile.Options{Package: "playground"})
	if err != nil {
		w.log.Error("compile failed", "err", err)
		return true
	}
	if _, err := outfile.WriteGeneratedFile(outfile.GeneratedPath(w.target), code); err != nil {
		w.log.Error("write failed", "err", err)
		return true
	}
	w.log.Info("generated", "file", outfile.GeneratedPath(w.target), "took", time.Since(start))
	return true
}

func findModuleRoot(start string) (string, error) {
	d, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("could not find go.mod above %s", start)
		}
		d = parent
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
