package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bluesky-social/feedtally/feedstats"

	"github.com/urfave/cli/v2"
)

var cmdTally = &cli.Command{
	Name:      "tally",
	Usage:     "print post counts per originating author, ascending",
	ArgsUsage: `[export-path]`,
	Action:    runTally,
}

var cmdSchema = &cli.Command{
	Name:      "schema",
	Usage:     "print the schema inferred from the whole export",
	ArgsUsage: `[export-path]`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "check",
			Usage: "also verify the columns the tally reads are present",
		},
	},
	Action: runSchema,
}

var cmdFake = &cli.Command{
	Name:  "fake",
	Usage: "write a synthetic feed export, for trying things out",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "count",
			Usage: "number of feed rows",
			Value: feedstats.DefaultFakeFeedOptions().Posts,
		},
		&cli.IntFlag{
			Name:  "authors",
			Usage: "size of the author pool",
			Value: feedstats.DefaultFakeFeedOptions().Authors,
		},
		&cli.Float64Flag{
			Name:  "repost-rate",
			Value: feedstats.DefaultFakeFeedOptions().RepostRate,
		},
		&cli.Float64Flag{
			Name:  "reply-rate",
			Value: feedstats.DefaultFakeFeedOptions().ReplyRate,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Value: feedstats.DefaultFakeFeedOptions().Seed,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "file to write; stdout if not set",
		},
	},
	Action: runFake,
}

// exportPath prefers a positional argument over --input.
func exportPath(cctx *cli.Context) string {
	if p := cctx.Args().First(); p != "" {
		return p
	}
	return cctx.String("input")
}

func runTally(cctx *cli.Context) error {
	format, err := feedstats.ParseFormat(cctx.String("format"))
	if err != nil {
		return err
	}

	ds, err := feedstats.LoadFile(slog.Default(), exportPath(cctx))
	if err != nil {
		return err
	}

	counts, err := feedstats.Tally(ds)
	if err != nil {
		return err
	}
	slog.Debug("tallied feed", "authors", len(counts), "included", feedstats.Total(counts), "records", ds.Len())

	return feedstats.Render(cctx.App.Writer, counts, format)
}

func runSchema(cctx *cli.Context) error {
	ds, err := feedstats.LoadFile(slog.Default(), exportPath(cctx))
	if err != nil {
		return err
	}

	fmt.Fprintln(cctx.App.Writer, ds.Schema.Tree().String())

	if cctx.Bool("check") {
		return feedstats.CheckSchema(ds.Schema)
	}
	return nil
}

func runFake(cctx *cli.Context) error {
	opts := feedstats.DefaultFakeFeedOptions()
	opts.Posts = cctx.Int("count")
	opts.Authors = cctx.Int("authors")
	opts.RepostRate = cctx.Float64("repost-rate")
	opts.ReplyRate = cctx.Float64("reply-rate")
	opts.Seed = cctx.Int64("seed")

	p := cctx.String("output")
	if p == "" {
		if err := feedstats.WriteFakeFeed(cctx.App.Writer, opts); err != nil {
			return fmt.Errorf("writing fake export: %w", err)
		}
		return nil
	}

	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := feedstats.WriteFakeFeed(f, opts); err != nil {
		f.Close()
		return fmt.Errorf("writing fake export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing fake export %s: %w", p, err)
	}
	slog.Info("wrote fake feed export", "rows", opts.Posts, "authors", opts.Authors, "seed", opts.Seed)
	return nil
}
