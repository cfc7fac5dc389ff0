package resolve

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dtnitsch/link-preview/internal/common"
	"github.com/dtnitsch/link-preview/models"
	"github.com/dtnitsch/link-preview/pkg/db"
	"github.com/dtnitsch/link-preview/pkg/resolver"
	"github.com/urfave/cli/v2"
)

func ResolveAction(c *cli.Context) error {
	logger := newLogger(c)
	startTime := time.Now()

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return cli.Exit("", 2)
	}

	urls := urlsFrom(c)
	if len(urls) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "Error: No URLs provided")
		fmt.Fprintln(c.App.ErrWriter, "")
		fmt.Fprintln(c.App.ErrWriter, "Usage:")
		fmt.Fprintln(c.App.ErrWriter, `  link-preview resolve --urls "https://example.com,https://example.org"`)
		fmt.Fprintln(c.App.ErrWriter, `  link-preview resolve --db previews.db https://example.com`)
		return cli.Exit("", 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	res := newResolver(cfg, logger)
	res.Cache().StartSweeper(ctx, cfg.Cache.SweepInterval)

	database, err := openStore(cfg, res, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return cli.Exit("", 2)
	}
	if database != nil {
		defer database.Close()
	}

	results := run(ctx, logger, res, urls, cfg.Options(), cfg.Workers, database)

	if database != nil {
		if err := database.SavePreviews(res.Cache().Snapshot()); err != nil {
			logger.Warn("Failed to save preview snapshot", "error", err)
		}
	}

	out := summarize(results, startTime)
	out.Stats.Cache = res.Cache().Stats()

	if err := common.Print(c.App.Writer, c.String("format"), out); err != nil {
		logger.Error("failed to write output", "error", err)
		return cli.Exit("", 2)
	}

	if code := exitCode(out.Stats); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// PeekAction reports cached previews without fetching. Without a database
// every URL is pending, since nothing outlives the process otherwise.
func PeekAction(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return cli.Exit("", 2)
	}

	urls := urlsFrom(c)
	if len(urls) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "Error: No URLs provided")
		return cli.Exit("", 1)
	}

	res := newResolver(cfg, logger)
	database, err := openStore(cfg, res, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return cli.Exit("", 2)
	}
	if database != nil {
		defer database.Close()
	}

	out := make([]PeekOutput, 0, len(urls))
	for _, u := range urls {
		po := PeekOutput{URL: u, Status: statusPending}
		if preview := res.Peek(u); preview != nil {
			po.Status = statusCached
			po.Preview = preview
		}
		out = append(out, po)
	}

	return common.Print(c.App.Writer, c.String("format"), out)
}

// urlsFrom collects --urls and positional arguments.
func urlsFrom(c *cli.Context) []string {
	return common.SplitURLs(append([]string{c.String("urls")}, c.Args().Slice()...)...)
}

// openStore opens the configured database and restores its snapshot into
// the resolver's cache. It returns nil when persistence is off.
func openStore(cfg *models.Config, res *resolver.Resolver, logger *slog.Logger) (*db.DB, error) {
	if cfg.DBPath == "" {
		return nil, nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	entries, err := database.LoadPreviews(time.Now())
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to load preview snapshot: %w", err)
	}
	restored := res.Cache().Restore(entries)
	logger.Info("Restored preview snapshot", "db", database.Path(), "entries", restored)

	return database, nil
}
