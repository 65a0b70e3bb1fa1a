// Command paintdump renders widget scenes on the headless platform and
// reports how the backing store painted them.
//
// Usage:
//
//	paintdump [-o dir] [-config file] scene.toml...
//
// Each scene runs in its own application, concurrently with the others.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/agiangrant/copper/retained"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("paintdump", flag.ExitOnError)
	outDir := fs.String("o", "", "Directory to write PNG snapshots to")
	configFile := fs.String("config", "", "Path to a copper TOML config file")
	plain := fs.Bool("plain", false, "Disable styled output")
	fs.Usage = printUsage
	fs.Parse(args)

	if fs.NArg() == 0 {
		printUsage()
		return fmt.Errorf("no scene files given")
	}

	cfg, err := retained.LoadConfig(*configFile)
	if err != nil {
		return err
	}
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", *outDir, err)
		}
	}

	results, err := runScenes(context.Background(), cfg, fs.Args(), *outDir)
	if err != nil {
		return err
	}
	color := !*plain && term.IsTerminal(int(os.Stdout.Fd()))
	writeReport(os.Stdout, results, color)
	return nil
}

// runScenes runs every scene concurrently. Results keep the order of
// paths; the first failure cancels the remaining scenes. When snapshots
// are written, scene names must be unique.
func runScenes(ctx context.Context, cfg retained.Config, paths []string, outDir string) ([]Result, error) {
	if outDir != "" {
		seen := make(map[string]string, len(paths))
		for _, path := range paths {
			name := sceneName(path)
			if prev, ok := seen[name]; ok {
				return nil, fmt.Errorf("scenes %s and %s would both write %s.png", prev, path, name)
			}
			seen[name] = path
		}
	}
	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			logger := log.New(os.Stderr, cfg.Log.Prefix+path+": ", 0)
			if cfg.Log.Quiet {
				logger.SetOutput(io.Discard)
			}
			res, err := runScene(ctx, cfg, logger, path, outDir)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `paintdump - render widget scenes headlessly

Usage: paintdump [options] scene.toml...

Options:
  -o dir         Write a PNG snapshot of each scene to dir
  -config file   Load application settings from a copper TOML file
  -plain         Print the report without colors

Scene files describe a window, its widgets and a list of steps such as
update, hide, raise or mask. After each step the event loop runs until
idle; the report lists flushes and paint events per widget.`)
}
