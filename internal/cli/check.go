package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/julicq/is-deprecated-or-not/pkg/checker"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

// checkOpts holds the check command's flags.
type checkOpts struct {
	path             string
	export           string
	output           string
	failOnDeprecated bool
}

// checkCommand creates the check command for auditing a project.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{path: ".", export: string(checker.FormatText)}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report deprecated packages among a project's dependencies",
		Long: `Check parses the manifests in a project directory (requirements*.txt,
setup.py, pyproject.toml, Pipfile) and reports which dependencies are
deprecated together with suggested alternatives.

Only the top level of the directory is scanned. A single manifest file
may be given instead of a directory.`,
		Example: `  deprecated-checker check
  deprecated-checker check --path ./service --export json --output report.json
  deprecated-checker check --path requirements-dev.txt --fail-on-deprecated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", opts.path, "project directory or manifest file")
	cmd.Flags().StringVarP(&opts.export, "export", "e", opts.export, "report format: text, json or yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.failOnDeprecated, "fail-on-deprecated", false, "exit with an error when deprecated packages are found")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, w io.Writer, opts checkOpts) error {
	format, err := checker.ParseFormat(opts.export)
	if err != nil {
		return err
	}

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	prog := newProgress(c.Logger)
	result, err := a.newChecker(c.Logger).CheckProject(ctx, opts.path)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Checked %d dependencies in %d manifests", result.TotalDeprecated+result.TotalSafe, len(result.Manifests)))

	for _, fe := range result.Skipped {
		c.Logger.Warn("manifest skipped", "file", fe.Name, "err", fe.Err)
	}

	report, err := checker.GenerateReport(result, format)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(report), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write report %s", opts.output)
		}
		printSuccess(w, "Report written (%d deprecated, %d safe)", result.TotalDeprecated, result.TotalSafe)
		printFile(w, opts.output)
	} else {
		fmt.Fprint(w, report)
	}

	if opts.failOnDeprecated && result.TotalDeprecated > 0 {
		return fmt.Errorf("%d deprecated packages found", result.TotalDeprecated)
	}
	return nil
}
