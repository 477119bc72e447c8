package cmd

import (
	"fmt"

	"github.com/flanksource/phantomjs-installer/pkg/installer"
	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url [version]",
	Short: "Print the download URL of a PhantomJS release",
	Long: `Print the archive URL for the current platform. Without a version the
version pinned by the project is used.

Examples:
  phantomjs-installer url
  PHANTOMJS_PLATFORM=windows phantomjs-installer url 2.1.1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v string
		if len(args) > 0 {
			v = args[0]
		}
		url, err := installer.New(installOptions()...).DownloadURL(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
}
