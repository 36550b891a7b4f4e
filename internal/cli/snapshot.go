package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mirrorlab/mirrorsnap/internal/config"
	"github.com/mirrorlab/mirrorsnap/pkg/buildinfo"
	"github.com/mirrorlab/mirrorsnap/pkg/fetch"
	"github.com/mirrorlab/mirrorsnap/pkg/mirror"
	"github.com/mirrorlab/mirrorsnap/pkg/popularity"
	"github.com/mirrorlab/mirrorsnap/pkg/pypi"
)

// reportInterval is how often crawl progress is logged without --tui.
const reportInterval = 2 * time.Second

// snapshotParams carries the resolved settings for one snapshot run.
type snapshotParams struct {
	cfg     config.Snapshot
	backend string
	output  string
	popular bool
	debug   bool
	tui     bool
}

// snapshotCommand creates the snapshot command.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		simpleBase   string
		packageBase  string
		concurrency  int
		keepRecent   int
		timeout      time.Duration
		userAgent    string
		cacheBackend string
		output       string
		popular      bool
		debug        bool
		tui          bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Take a point-in-time snapshot of the registry",
		Long: `Take a point-in-time snapshot of the registry.

The snapshot command discovers every package on the registry, crawls the
package listings concurrently, and writes one artifact path per line,
relative to the registry's storage base. Feed those paths to the resolve
command (or any transfer tool) to get absolute URLs.

Discovery reads the full package index by default. With --popular the
package universe is the most-downloaded packages instead, ranked by the
public download statistics dataset (requires Google Cloud credentials).

With --keep-recent N each package is reduced to its N most recent
versions, counting prereleases against at most half the budget. Packages
whose filenames defeat version parsing are kept whole.

Entries go to stdout unless --output names a file. Status and progress
go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Snapshot
			flags := cmd.Flags()
			if flags.Changed("simple-base") {
				cfg.SimpleBase = simpleBase
			}
			if flags.Changed("package-base") {
				cfg.PackageBase = packageBase
			}
			if flags.Changed("concurrency") {
				cfg.Concurrency = concurrency
			}
			if flags.Changed("keep-recent") {
				cfg.KeepRecent = keepRecent
			}
			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}
			if flags.Changed("user-agent") {
				cfg.UserAgent = userAgent
			}
			backend := c.cfg.Cache.Backend
			if flags.Changed("cache") {
				backend = cacheBackend
			}

			return c.runSnapshot(cmd, snapshotParams{
				cfg:     cfg,
				backend: backend,
				output:  output,
				popular: popular,
				debug:   debug,
				tui:     tui,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write entries to this file instead of stdout")
	cmd.Flags().BoolVar(&popular, "popular", false, "snapshot the most-downloaded packages instead of the full index")
	cmd.Flags().IntVar(&keepRecent, "keep-recent", 0, "keep at most N versions per package (0 keeps everything)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of parallel listing crawlers")
	cmd.Flags().BoolVar(&debug, "debug", false, "scan only the packages at the start of the index")
	cmd.Flags().BoolVar(&tui, "tui", false, "show a live crawl view instead of periodic log lines")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "response cache backend: none, file or redis")
	cmd.Flags().StringVar(&simpleBase, "simple-base", "", "registry listing interface base URL")
	cmd.Flags().StringVar(&packageBase, "package-base", "", "registry artifact storage base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent header for registry requests")

	return cmd
}

// runSnapshot wires the client, cache and source together and drives the
// crawl.
func (c *CLI) runSnapshot(cmd *cobra.Command, p snapshotParams) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	proxy, err := fetch.ProxyFromEnv()
	if err != nil {
		return err
	}

	respCache, err := c.newCache(ctx, p.backend)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer respCache.Close()

	userAgent := p.cfg.UserAgent
	if userAgent == "" {
		userAgent = buildinfo.UserAgent()
	}
	client := fetch.NewClient(fetch.Config{
		Timeout:   p.cfg.Timeout,
		UserAgent: userAgent,
		Proxy:     proxy,
		Cache:     respCache,
		CacheTTL:  c.cfg.Cache.TTL,
	})

	var executor popularity.Executor
	if p.popular {
		project := c.cfg.BigQuery.Project
		if project == "" {
			project, err = popularity.ResolveProject()
			if err != nil {
				return err
			}
		}
		exec, err := popularity.NewExecutor(ctx, project)
		if err != nil {
			return fmt.Errorf("initialize popularity query: %w", err)
		}
		defer exec.Close()
		executor = exec
	}

	src := pypi.New(pypi.Config{
		SimpleBase:  p.cfg.SimpleBase,
		PackageBase: p.cfg.PackageBase,
		KeepRecent:  p.cfg.KeepRecent,
		Popularity:  executor,
		Debug:       p.debug,
	})
	logger.Info(src.Info())

	m := mirror.NewMission(logger, client)
	snap, err := c.takeSnapshot(ctx, src, m, mirror.SnapshotConfig{Concurrency: p.cfg.Concurrency}, p.tui)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Canceled runs exit without an error line; this is the only notice.
			printError("Snapshot canceled")
		}
		return fmt.Errorf("snapshot: %w", err)
	}

	dest, err := writeEntries(cmd.OutOrStdout(), p.output, snap.Entries)
	if err != nil {
		return err
	}

	printNewline()
	if len(snap.Entries) == 0 {
		printWarning("Snapshot %s is empty", snap.ID)
	} else {
		printSuccess("Snapshot %s complete", snap.ID)
	}
	printKeyValue("source", snap.Source)
	printKeyValue("packages", strconv.Itoa(m.Progress.Total()))
	printKeyValue("entries", strconv.Itoa(len(snap.Entries)))
	printKeyValue("warnings", strconv.Itoa(m.Progress.Warnings()))
	printKeyValue("duration", m.Progress.Elapsed().Round(time.Millisecond).String())
	printKeyValue("output", dest)
	if p.output != "" {
		printNextStep("Resolve entries to URLs", fmt.Sprintf("%s resolve %s", appName, p.output))
	}
	return nil
}

// takeSnapshot runs the crawl with either the live view or the periodic
// log reporter attached. A run interrupted by ctx drains its workers
// before returning, so the cancellation surfaces here rather than as a
// partial snapshot.
func (c *CLI) takeSnapshot(ctx context.Context, src mirror.Source, m mirror.Mission, cfg mirror.SnapshotConfig, tui bool) (*mirror.Snapshot, error) {
	var (
		snap *mirror.Snapshot
		err  error
	)
	if tui {
		snap, err = c.takeSnapshotTUI(ctx, src, m, cfg)
	} else {
		stop := reportEvery(ctx, m.Logger, m.Progress, reportInterval)
		defer stop()
		snap, err = src.Snapshot(ctx, m, cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

// writeEntries writes one entry per line to path, or to w when path is
// empty. It returns a human-readable name for where entries went.
func writeEntries(w io.Writer, path string, entries []mirror.Entry) (string, error) {
	dest := "stdout"
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
		dest = path
	}

	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintln(bw, e); err != nil {
			return "", fmt.Errorf("write entries: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("write entries: %w", err)
	}
	return dest, nil
}
