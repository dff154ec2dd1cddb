// Command acmi-compress rewrites an ACMI flight-recorder trace to a
// smaller, semantically equivalent trace: reference coordinates are
// re-anchored near the data's true extent and per-entity properties are
// reduced to deltas against their last committed value.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tacview-tools/acmi-compress/internal/clilog"
	"github.com/tacview-tools/acmi-compress/internal/rewriter"
	"github.com/tacview-tools/acmi-compress/internal/scancache"
)

func main() {
	app := &cli.App{
		Name:      "acmi-compress",
		Usage:     "rewrite an ACMI trace with a re-anchored reference point and delta-encoded updates",
		ArgsUsage: "<acmi>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "increase log verbosity; repeatable (-vv, -vvv)",
				Count:   new(int),
			},
			&cli.StringFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "log color: auto, always, never",
				Value:   "auto",
			},
			&cli.StringFlag{
				Name:  "scan-cache",
				Usage: "TileDB group URI caching pass-1 scan results across runs",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return fmt.Errorf("expected exactly one ACMI file argument, got %d", cCtx.NArg())
	}
	path := cCtx.Args().Get(0)
	if path == "-" {
		return rewriter.ErrStdinUnsupported
	}

	color, err := clilog.ParseColor(cCtx.String("color"))
	if err != nil {
		return err
	}
	log := clilog.New(os.Stderr, cCtx.Count("verbose"), color)

	r, err := rewriter.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	originalSize, err := r.Size()
	if err != nil {
		return err
	}

	header, anchor, err := computeAnchor(r, path, cCtx.String("scan-cache"), log)
	if err != nil {
		return err
	}

	if err := r.Rewind(); err != nil {
		return fmt.Errorf("rewinding for rewrite pass: %w", err)
	}

	sink := rewriter.NewSink(os.Stdout)
	pipeline := rewriter.NewPipeline(r, rewriter.NewDiff(header, anchor), sink)
	if err := pipeline.Run(); err != nil {
		return fmt.Errorf("rewriting %s: %w", path, err)
	}

	written := sink.BytesWritten()
	ratio := 0.0
	if originalSize > 0 {
		ratio = 100 * float64(written) / float64(originalSize)
	}
	log.Infof("rewrote %s: %d bytes -> %d bytes (%.1f%%)", path, originalSize, written, ratio)
	return nil
}

// computeAnchor runs (or skips, on a cache hit) the scan pass: it reads
// the header, then folds the minimum observed latitude/longitude across
// the whole trace to compute the re-based Anchor. It also returns the
// Header (the original reference point), which the diff engine needs
// in addition to the new Anchor to re-anchor coordinates — a cache hit
// skips re-reading it from the file, so it is cached alongside the
// anchor itself.
func computeAnchor(r *rewriter.Reader, path, cacheURI string, log logger) (rewriter.Header, rewriter.Anchor, error) {
	var cache *scancache.Cache
	var key string
	if cacheURI != "" {
		f, err := os.Open(path)
		if err != nil {
			return rewriter.Header{}, rewriter.Anchor{}, err
		}
		key, err = scancache.ContentKey(f)
		f.Close()
		if err != nil {
			return rewriter.Header{}, rewriter.Anchor{}, err
		}

		cache, err = scancache.Open(cacheURI)
		if err != nil {
			return rewriter.Header{}, rewriter.Anchor{}, err
		}
		defer cache.Close()

		if entry, err := cache.Lookup(key); err == nil {
			log.Debugf("scan cache hit for %s", path)
			header := rewriter.Header{ReferenceLatitude: entry.OrigLat, ReferenceLongitude: entry.OrigLon}
			anchor := rewriter.Anchor{Latitude: entry.AnchorLat, Longitude: entry.AnchorLon}
			return header, anchor, nil
		}
	}

	log.Debugf("scanning %s for header and coordinate extent", path)
	header, first, err := rewriter.ReadHeader(r)
	if err != nil {
		return rewriter.Header{}, rewriter.Anchor{}, fmt.Errorf("reading header of %s: %w", path, err)
	}
	minLon, minLat, err := rewriter.ScanMinOffsets(r, first)
	if err != nil {
		return rewriter.Header{}, rewriter.Anchor{}, fmt.Errorf("scanning %s: %w", path, err)
	}
	anchor := rewriter.NewAnchor(header, minLon, minLat)

	if cache != nil {
		err := cache.Store(key, scancache.Entry{
			MinLongitude: minLon,
			MinLatitude:  minLat,
			AnchorLon:    anchor.Longitude,
			AnchorLat:    anchor.Latitude,
			OrigLon:      header.ReferenceLongitude,
			OrigLat:      header.ReferenceLatitude,
		})
		if err != nil {
			log.Debugf("scan cache store for %s failed: %v", path, err)
		}
	}
	return header, anchor, nil
}

// logger is the subset of *logrus.Logger used here, declared separately
// so computeAnchor's unit tests can supply a stub.
type logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}
