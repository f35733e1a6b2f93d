package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/julicq/is-deprecated-or-not/internal/server"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
	"github.com/julicq/is-deprecated-or-not/pkg/scheduler"
	"github.com/julicq/is-deprecated-or-not/pkg/storage"
)

// shutdownTimeout bounds how long the API waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

// schedulerCommand creates the scheduler command group.
func (c *CLI) schedulerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Inspect or run the knowledge base refresh scheduler",
	}

	cmd.AddCommand(c.schedulerStatusCommand())
	cmd.AddCommand(c.schedulerRunCommand())

	return cmd
}

// schedulerStatusCommand creates the "scheduler status" subcommand.
func (c *CLI) schedulerStatusCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the scheduler settings and the last refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			// Built but never started: the status reflects settings and
			// the stored snapshot.
			sched := a.newScheduler(nil, c.Logger)
			return printSchedulerStatus(cmd.OutOrStdout(), sched.Status(), format, time.Now())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func printSchedulerStatus(w io.Writer, st scheduler.Status, format string, now time.Time) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
	default:
		return errors.New(errors.ErrCodeUnsupportedFormat, "unsupported status format %q (want text, json or yaml)", format)
	}

	fmt.Fprintln(w, StyleTitle.Render("Scheduler"))
	running := StyleDim.Render("no")
	if st.IsRunning {
		running = StyleSuccess.Render("yes")
	}
	printKeyValue(w, "Running", running)
	printKeyValue(w, "Interval", fmt.Sprintf("%g hours", st.Config.IntervalHours))
	printKeyValue(w, "Retry attempts", fmt.Sprint(st.Config.RetryAttempts))
	printKeyValue(w, "Retry backoff", st.Config.Backoff().String())
	printKeyValue(w, "Last update", relativeOr(st.LastUpdate, now, "never"))
	printKeyValue(w, "Next update", relativeOr(st.NextUpdate, now, "not scheduled"))
	if st.LastError != "" {
		printWarning(w, "Last cycle failed: %s", st.LastError)
	}
	return nil
}

func relativeOr(t *time.Time, now time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return formatRelativeTime(*t, now)
}

// schedulerRunCommand creates the "scheduler run" subcommand.
func (c *CLI) schedulerRunCommand() *cobra.Command {
	var (
		listen    string
		noAPI     bool
		updateNow bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Refresh the knowledge base periodically and serve the HTTP API",
		Long: `run starts the refresh scheduler in the foreground and serves the HTTP
API on the configured address until interrupted. With the file backend,
edits to the knowledge base document are picked up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScheduler(cmd, listen, noAPI, updateNow)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "API listen address (default: server.listen from the config)")
	cmd.Flags().BoolVar(&noAPI, "no-api", false, "do not serve the HTTP API")
	cmd.Flags().BoolVar(&updateNow, "now", false, "run a refresh cycle immediately")
	return cmd
}

func (c *CLI) runScheduler(cmd *cobra.Command, listen string, noAPI, updateNow bool) error {
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

	sched := a.newScheduler(col, c.Logger)
	if !cmd.Flags().Changed("listen") {
		listen = a.cfg.Server.Listen
	}

	g, gctx := errgroup.WithContext(ctx)

	sched.Start()
	printSuccess(w, "Scheduler running every %g hours", a.cfg.Scheduler.IntervalHours)

	var srv *server.Server
	if !noAPI && listen != "" {
		srv = server.New(listen, server.Deps{
			Store:     a.store,
			Scheduler: sched,
			Checker:   a.newChecker(c.Logger),
			Logger:    c.Logger,
		})
		g.Go(srv.Start)
		printDetail(w, "API on http://%s", listen)
	}

	if fb, ok := a.backend.(*storage.FileBackend); ok {
		g.Go(func() error { return kb.Watch(gctx, a.store, fb.Path(), c.Logger) })
		printDetail(w, "Watching %s", fb.Path())
	}

	if updateNow {
		g.Go(func() error {
			if err := sched.Update(gctx); err != nil && !errors.Is(err, errors.ErrCodeUpdateInProgress) {
				c.Logger.Warn("initial refresh failed", "err", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		sched.Stop()
		if srv == nil {
			return nil
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	c.Logger.Info("scheduler stopped")
	return err
}
