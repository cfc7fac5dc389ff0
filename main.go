package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/link-preview/internal/db"
	"github.com/dtnitsch/link-preview/internal/resolve"
	"github.com/dtnitsch/link-preview/models"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func newApp() *cli.App {
	defaults := models.DefaultConfig()

	logFlags := []cli.Flag{
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log cache hits and worker activity"},
	}
	dbFlag := &cli.StringFlag{Name: "db", Usage: "SQLite file for the preview snapshot and history"}
	configFlag := &cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"}
	formatFlag := &cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "output format: json or yaml"}
	urlsFlag := &cli.StringFlag{Name: "urls", Aliases: []string{"u"}, Usage: "comma-separated URLs"}

	resolveFlags := append([]cli.Flag{
		urlsFlag,
		configFlag,
		dbFlag,
		formatFlag,
		&cli.StringFlag{Name: "strategy", Value: defaults.Strategy, Usage: "direct or delegated"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: defaults.Workers, Usage: "concurrent workers"},
		&cli.DurationFlag{Name: "timeout", Value: defaults.Fetch.Timeout, Usage: "per-fetch timeout"},
		&cli.DurationFlag{Name: "ttl", Value: defaults.Cache.TTL, Usage: "how long a preview stays cached"},
		&cli.IntFlag{Name: "max-entries", Usage: "cache size bound, 0 for unbounded"},
		&cli.BoolFlag{Name: "no-images", Usage: "skip preview images"},
		&cli.BoolFlag{Name: "detect-language", Usage: "detect the language of title and description"},
	}, logFlags...)

	peekFlags := append([]cli.Flag{urlsFlag, configFlag, dbFlag, formatFlag}, logFlags...)

	storeFlags := []cli.Flag{configFlag, dbFlag}

	return &cli.App{
		Name:  "link-preview",
		Usage: "Resolve URLs into link previews",
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Fetch and extract previews for URLs",
				ArgsUsage: "[url...]",
				Flags:     resolveFlags,
				Action:    resolve.ResolveAction,
			},
			{
				Name:      "peek",
				Usage:     "Show cached previews without fetching",
				ArgsUsage: "[url...]",
				Flags:     peekFlags,
				Action:    resolve.PeekAction,
			},
			{
				Name:  "history",
				Usage: "List recorded resolution attempts",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "max rows, 0 for all"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "table", Usage: "table, json or yaml"},
				}, storeFlags...),
				Action: db.HistoryAction,
			},
			{
				Name:  "cache",
				Usage: "Manage the persisted preview snapshot",
				Subcommands: []*cli.Command{
					{
						Name:   "stats",
						Usage:  "Count live and expired previews",
						Flags:  append([]cli.Flag{formatFlag}, storeFlags...),
						Action: db.CacheStatsAction,
					},
					{
						Name:   "clear",
						Usage:  "Delete every stored preview",
						Flags:  storeFlags,
						Action: db.CacheClearAction,
					},
					{
						Name:   "prune",
						Usage:  "Delete expired previews",
						Flags:  storeFlags,
						Action: db.CachePruneAction,
					},
				},
			},
		},
	}
}
