// feedtally counts posts in a feed export per originating author: the
// reposting account for reposts, the post author otherwise. Plain replies
// are left out.
//
// The export is the NDJSON written by `gosky bsky get-feed --raw`.

package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/bluesky-social/feedtally/util/cliutil"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

const defaultInput = "posts.json"

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

var inputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "path to the NDJSON feed export (\"-\" for stdin, .gz and .zst are decompressed)",
		Value:   defaultInput,
		EnvVars: []string{"FEEDTALLY_INPUT"},
	},
}

func newApp() *cli.App {
	app := &cli.App{
		Name:    "feedtally",
		Usage:   "count feed posts per originating author",
		Version: versioninfo.Short(),
	}
	app.Flags = append([]cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			EnvVars: []string{"FEEDTALLY_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log output format (text or json)",
			EnvVars: []string{"FEEDTALLY_LOG_FMT"},
		},
		&cli.StringFlag{
			Name:    "format",
			Usage:   "output format (table or json)",
			Value:   "table",
			EnvVars: []string{"FEEDTALLY_FORMAT"},
		},
	}, inputFlags...)
	app.Before = func(cctx *cli.Context) error {
		_, err := cliutil.SetupSlog(cliutil.LogOptions{
			LogLevel:  cctx.String("log-level"),
			LogFormat: cctx.String("log-format"),
			Writer:    cctx.App.ErrWriter,
		})
		return err
	}
	app.Action = runTally
	app.Commands = []*cli.Command{
		cmdTally,
		cmdSchema,
		cmdFake,
	}
	return app
}

func run(args []string) error {
	return newApp().Run(args)
}
