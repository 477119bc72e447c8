package cmd

import (
	"github.com/flanksource/phantomjs-installer/pkg/envs"
	"github.com/flanksource/phantomjs-installer/pkg/installer"
	"github.com/spf13/cobra"
)

var envExport bool

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print environment variables pointing at the installed binary",
	Long: `Print the variables configured under env in the settings file.

Examples:
  eval "$(phantomjs-installer env --export)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := installer.New(installOptions()...).Environment()
		if err != nil {
			return err
		}
		return envs.PrintEnvs(cmd.OutOrStdout(), env, envExport)
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolVar(&envExport, "export", false, "Prefix every line with export")
}
