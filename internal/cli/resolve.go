package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mirrorlab/mirrorsnap/pkg/mirror"
	"github.com/mirrorlab/mirrorsnap/pkg/pypi"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var packageBase string

	cmd := &cobra.Command{
		Use:   "resolve [entries-file]",
		Short: "Resolve snapshot entries to absolute URLs",
		Long: `Resolve snapshot entries to absolute URLs.

The resolve command reads entries (one artifact path per line, as
written by snapshot) from a file or stdin and prints the absolute URL a
transfer stage would fetch for each. Resolution is the exact inverse of
snapshot assembly: the entry is joined back onto the storage base it was
stripped from.

Blank lines are skipped, so resolve accepts its own output and partially
edited entry lists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open entries file: %w", err)
				}
				defer f.Close()
				in = f
			}

			base := c.cfg.Snapshot.PackageBase
			if cmd.Flags().Changed("package-base") {
				base = packageBase
			}
			src := pypi.New(pypi.Config{PackageBase: base})

			tm := newTimer(loggerFromContext(cmd.Context()))
			out := bufio.NewWriter(cmd.OutOrStdout())
			count := 0
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				entry := strings.TrimSpace(scanner.Text())
				if entry == "" {
					continue
				}
				fmt.Fprintln(out, src.TransferTarget(mirror.Entry(entry)))
				count++
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read entries: %w", err)
			}
			if err := out.Flush(); err != nil {
				return fmt.Errorf("write urls: %w", err)
			}

			tm.done(fmt.Sprintf("Resolved %d entries", count))
			return nil
		},
	}

	cmd.Flags().StringVar(&packageBase, "package-base", "", "registry artifact storage base URL the entries are relative to")

	return cmd
}
