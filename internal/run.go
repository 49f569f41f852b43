package internal

import (
	"github.com/spf13/cobra"

	"github.com/romforge/romforge/internal/config"
)

var version = "dev"

// Execute parses the command line and runs the selected command. The returned
// value is the process exit code.
func Execute() int {
	opts := config.Options{}
	code := 0

	root := &cobra.Command{
		Use:          "romforge",
		Short:        "Synchronize, patch and rebrand a declared set of source trees",
		Version:      version,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			code = Run(opts)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to the YAML run manifest")
	root.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "log every mutating operation instead of executing it")

	history := &cobra.Command{
		Use:   "history",
		Short: "List reports from previous runs",
		RunE: func(_ *cobra.Command, _ []string) error {
			code = RunHistory(opts)
			return nil
		},
	}
	history.Flags().IntVar(&opts.HistoryLimit, "limit", 10, "maximum number of runs to list")
	root.AddCommand(history)

	if err := root.Execute(); err != nil {
		return 1
	}

	return code
}
