package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/julicq/is-deprecated-or-not/pkg/collector"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// updateCommand creates the update-db command.
func (c *CLI) updateCommand() *cobra.Command {
	var sources []string

	cmd := &cobra.Command{
		Use:   "update-db",
		Short: "Refresh the knowledge base from the configured sources",
		Long: `update-db runs one refresh cycle: the enabled sources are queried,
their results merged (the curated list always wins), the new snapshot is
saved to the configured backend and then made active.

Failed attempts are retried according to the scheduler settings. A source
that fails keeps its previous records.`,
		Example: `  deprecated-checker update-db
  deprecated-checker update-db --source pypi --source manual`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUpdate(cmd, sources)
		},
	}

	cmd.Flags().StringSliceVarP(&sources, "source", "s", nil, "only query these sources: pypi, github, security, manual or all")
	return cmd
}

func (c *CLI) runUpdate(cmd *cobra.Command, sources []string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	col, httpCache, err := a.newCollector(c.Logger)
	if err != nil {
		return err
	}
	defer httpCache.Close()

	if slices.Contains(sources, "all") {
		sources = nil
	}
	// Unknown names would otherwise go through every retry.
	for _, name := range sources {
		if !slices.Contains(col.Sources(), name) {
			return errors.New(errors.ErrCodeInvalidInput, "unknown or disabled source %q (enabled: %s)", name, strings.Join(col.Sources(), ", "))
		}
	}

	sched := a.newScheduler(selectSources(col, sources), c.Logger)
	before := a.store.Current().Len()

	label := strings.Join(col.Sources(), ", ")
	if len(sources) > 0 {
		label = strings.Join(sources, ", ")
	}
	spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Collecting from "+label+"...")
	spinner.Start()
	err = sched.Update(ctx)
	spinner.Stop()

	for _, r := range col.LastResults() {
		printSourceResult(w, r)
	}
	if err != nil {
		return err
	}

	after := a.store.Current().Len()
	printSuccess(w, "Knowledge base updated: %d packages (%+d)", after, after-before)
	printDetail(w, "Saved to %s backend", a.backend.Name())
	return nil
}

// sourceSelection restricts a collector to a subset of its sources.
type sourceSelection struct {
	col   *collector.Collector
	names []string
}

func selectSources(col *collector.Collector, names []string) sourceSelection {
	return sourceSelection{col: col, names: names}
}

func (s sourceSelection) Collect(ctx context.Context) (*kb.Snapshot, error) {
	return s.col.CollectOnly(ctx, s.names...)
}
