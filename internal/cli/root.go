package cli

import (
	"github.com/spf13/cobra"

	"github.com/julicq/is-deprecated-or-not/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Find deprecated packages among a Python project's dependencies",
		Long:          `deprecated-checker reads requirements files, setup.py, pyproject.toml and Pipfile, reports which declared packages are deprecated and suggests what to migrate to. Its knowledge base is refreshed from PyPI, GitHub, security advisories and a curated list.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigFile, "config", "", "config file (default: search "+appName+".yaml)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.schedulerCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.clearCacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}
