package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
	buildDirty   = "false"
)

// SetVersion records the build metadata injected by the linker
func SetVersion(version, commit, date, dirty string) {
	buildVersion, buildCommit, buildDate, buildDirty = version, commit, date, dirty
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the installer version",
	Run: func(cmd *cobra.Command, args []string) {
		v := buildVersion
		if buildDirty == "true" {
			v += "-dirty"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "phantomjs-installer %s (commit %s, built %s)\n", v, buildCommit, buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
