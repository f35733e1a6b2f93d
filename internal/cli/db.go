package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/julicq/is-deprecated-or-not/pkg/collector"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// =============================================================================
// list-db
// =============================================================================

// listCommand creates the list-db command.
func (c *CLI) listCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "list-db",
		Short: "List every deprecated package in the knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			records := sortedRecords(a.store.Current())
			if interactive {
				return runBrowser(records)
			}
			printRecordTable(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the list in a terminal UI")
	return cmd
}

func sortedRecords(snap *kb.Snapshot) []kb.Record {
	all := snap.All()
	return lo.Map(snap.Names(), func(name string, _ int) kb.Record { return all[name] })
}

func printRecordTable(w io.Writer, records []kb.Record) {
	if len(records) == 0 {
		printInfo(w, "The knowledge base is empty")
		printNextStep(w, "Collect data with", appName+" update-db")
		return
	}

	rows := lo.Map(records, func(r kb.Record, _ int) []string {
		return []string{r.Name, r.DeprecatedSince, r.Source, alternativeNames(r)}
	})
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Since", "Source", "Alternatives").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorRed)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorGreen)
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		})

	fmt.Fprintln(w, t.Render())
	printDetail(w, "%d packages", len(records))
}

func alternativeNames(r kb.Record) string {
	if len(r.Alternatives) == 0 {
		return "—"
	}
	return strings.Join(lo.Map(r.Alternatives, func(a kb.Alternative, _ int) string { return a.Name }), ", ")
}

func runBrowser(records []kb.Record) error {
	if !writerIsTTY(os.Stdout) {
		return errors.New(errors.ErrCodeUnsupported, "--interactive needs a terminal")
	}
	if len(records) == 0 {
		printInfo(os.Stdout, "The knowledge base is empty")
		return nil
	}
	_, err := tea.NewProgram(NewPackageListModel(records), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// search
// =============================================================================

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search NAME",
		Short: "Look up a package in the knowledge base",
		Long: `Search prints the knowledge base record for NAME. When NAME is not an
exact match, records whose name contains it are listed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			snap := a.store.Current()
			if rec, ok := snap.Lookup(args[0]); ok {
				printRecord(w, rec)
				return nil
			}

			matches := snap.Search(args[0])
			if len(matches) == 0 {
				printSuccess(w, "%s is not in the knowledge base of deprecated packages", args[0])
				return nil
			}
			printInfo(w, "No exact match for %s; %d similar:", args[0], len(matches))
			for _, rec := range matches {
				fmt.Fprintln(w)
				printRecord(w, rec)
			}
			return nil
		},
	}
}

// =============================================================================
// stats
// =============================================================================

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge base statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			printStatistics(cmd.OutOrStdout(), collector.StatisticsOf(a.store.Current()), a.backend.Name(), time.Now())
			return nil
		},
	}
}

func printStatistics(w io.Writer, st collector.Statistics, backend string, now time.Time) {
	fmt.Fprintln(w, StyleTitle.Render("Knowledge base"))
	printKeyValue(w, "Packages", StyleNumber.Render(fmt.Sprint(st.TotalPackages)))
	printKeyValue(w, "Backend", backend)
	if st.LastUpdated != nil {
		printKeyValue(w, "Last updated", formatRelativeTime(*st.LastUpdated, now))
	} else {
		printKeyValue(w, "Last updated", "never")
	}

	if len(st.Sources) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Sources"))
	names := lo.Keys(st.Sources)
	slices.Sort(names)
	for _, name := range names {
		printKeyValue(w, name, fmt.Sprint(st.Sources[name]))
	}
}

// =============================================================================
// validate-db
// =============================================================================

// validateCommand creates the validate-db command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-db",
		Short: "Check the knowledge base for malformed records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			res := a.store.Current().Validate()
			if res.Valid {
				printSuccess(w, "Knowledge base is valid (%d packages)", res.TotalPackages)
				return nil
			}
			for _, p := range res.Problems {
				printError(w, "%s", p)
			}
			return errors.New(errors.ErrCodeCorruptDatabase, "%d of %d records are invalid", len(res.Problems), res.TotalPackages)
		},
	}
}

// =============================================================================
// export-db
// =============================================================================

// exportCommand creates the export-db command.
func (c *CLI) exportCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export-db",
		Short: "Write the knowledge base as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return exportSnapshot(cmd.OutOrStdout(), a.store.Current(), format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func exportSnapshot(w io.Writer, snap *kb.Snapshot, format, output string) error {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := kb.Encode(&buf, snap); err != nil {
			return err
		}
	case "json":
		if err := kb.EncodeJSON(&buf, snap); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeUnsupportedFormat, "unsupported export format %q (want yaml or json)", format)
	}

	if output == "" {
		_, err := w.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write export %s", output)
	}
	printSuccess(w, "Exported %d packages", snap.Len())
	printFile(w, output)
	return nil
}
