package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/link-preview/internal/common"
	"github.com/dtnitsch/link-preview/models"
	dbpkg "github.com/dtnitsch/link-preview/pkg/db"
	"github.com/urfave/cli/v2"
)

// openDatabase resolves the path from --db, then --config's db_path, then
// the default next to the binary.
func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db")
	if path == "" && c.String("config") != "" {
		cfg, err := models.LoadConfig(c.String("config"))
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
	}

	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// HistoryAction lists recorded resolution attempts, newest first.
func HistoryAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	accesses, err := database.ListAccesses(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list accesses: %w", err)
	}

	if format := c.String("format"); format != "" && format != "table" {
		return common.Print(c.App.Writer, format, accesses)
	}

	w := c.App.Writer
	if len(accesses) == 0 {
		fmt.Fprintln(w, "No resolutions recorded")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-5s %-8s %-20s %s\n",
		"ID", "Accessed", "Status", "Hit", "ms", "Category", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, a := range accesses {
		hit := "no"
		if a.CacheHit {
			hit = "yes"
		}
		fmt.Fprintf(w, "%-6d %-20s %-8s %-5s %-8d %-20s %s\n",
			a.ID,
			a.AccessedAt.Format("2006-01-02 15:04:05"),
			a.Status,
			hit,
			a.DurationMS,
			a.Category,
			a.URL,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d resolutions\n", len(accesses))
	return nil
}

type cacheStats struct {
	Path string `json:"path" yaml:"path"`
	dbpkg.PreviewCounts `yaml:",inline"`
}

func CacheStatsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	counts, err := database.CountPreviews(time.Now())
	if err != nil {
		return err
	}

	return common.Print(c.App.Writer, c.String("format"), cacheStats{Path: database.Path(), PreviewCounts: counts})
}

func CacheClearAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := database.ClearPreviews()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Cleared %d cached previews from %s\n", n, database.Path())
	return nil
}

// CachePruneAction drops snapshot rows that have already expired.
func CachePruneAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := database.PrunePreviews(time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Pruned %d expired previews from %s\n", n, database.Path())
	return nil
}
