package resolve

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dtnitsch/link-preview/models"
	"github.com/dtnitsch/link-preview/pkg/db"
	"github.com/dtnitsch/link-preview/pkg/resolver"
)

// run resolves urls on a pool of workers sharing one Resolver. Results come
// back in input order. database may be nil.
func run(ctx context.Context, logger *slog.Logger, res *resolver.Resolver, urls []string, opts models.Options, workers int, database *db.DB) []Result {
	if workers < 1 {
		workers = 1
	}

	logger.Info("Starting concurrent resolve phase", "url_count", len(urls), "workers", workers)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(urls))
	results := make([]Result, len(urls))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, res, opts, &wg, jobs, results, database)
	}

	for i, u := range urls {
		jobs <- Job{Index: i, URL: u}
	}
	close(jobs)

	wg.Wait()
	logger.Info("All resolve workers finished")

	return results
}

// worker writes each job's outcome to its own slot in results.
func worker(ctx context.Context, id int, logger *slog.Logger, res *resolver.Resolver, opts models.Options, wg *sync.WaitGroup, jobs <-chan Job, results []Result, database *db.DB) {
	defer wg.Done()
	for job := range jobs {
		logger.Debug("Worker started job", "worker_id", id, "url", job.URL)

		start := time.Now()
		cacheHit := res.Peek(job.URL) != nil
		preview, err := res.Resolve(ctx, job.URL, opts)

		result := Result{
			URL:      job.URL,
			Preview:  preview,
			Error:    err,
			CacheHit: cacheHit && err == nil,
			Duration: time.Since(start).Milliseconds(),
		}
		results[job.Index] = result

		if err != nil {
			logger.Error("Error resolving URL", "worker_id", id, "url", job.URL, "category", categoryOf(err), "error", err)
		}

		if database != nil {
			if dbErr := database.RecordAccess(toAccess(result)); dbErr != nil {
				logger.Warn("Failed to record access to DB", "url", job.URL, "error", dbErr)
			}
		}
	}
}

func categoryOf(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	return resolver.Category(err)
}

func toAccess(r Result) db.Access {
	a := db.Access{
		URL:        r.URL,
		Status:     db.StatusSuccess,
		CacheHit:   r.CacheHit,
		DurationMS: r.Duration,
	}
	if r.Error != nil {
		a.Status = db.StatusFailed
		a.Category = categoryOf(r.Error)
		a.ErrorMessage = r.Error.Error()
	}
	return a
}

// summarize builds the printed output for a run.
func summarize(results []Result, started time.Time) FinalOutput {
	out := FinalOutput{Results: make([]ResultOutput, 0, len(results))}
	out.Stats.TotalURLs = len(results)

	for _, r := range results {
		ro := ResultOutput{
			URL:        r.URL,
			CacheHit:   r.CacheHit,
			DurationMS: r.Duration,
		}
		if r.Error != nil {
			out.Stats.Failed++
			ro.Status = statusFailed
			ro.Category = categoryOf(r.Error)
			ro.Error = r.Error.Error()
		} else {
			out.Stats.Successful++
			ro.Status = statusSuccess
			ro.Kind = r.Preview.Kind()
			ro.Preview = r.Preview
		}
		out.Results = append(out.Results, ro)
	}

	switch {
	case out.Stats.Failed == 0:
		out.Status = statusSuccess
	case out.Stats.Failed == out.Stats.TotalURLs:
		out.Status = statusFailed
	default:
		out.Status = statusPartialFailure
	}
	out.Stats.TotalTimeSeconds = time.Since(started).Seconds()
	return out
}

// exitCode is 0 on success, 1 on partial failure and 2 when nothing resolved.
func exitCode(s Stats) int {
	switch {
	case s.Failed == 0:
		return 0
	case s.Failed == s.TotalURLs:
		return 2
	default:
		return 1
	}
}
