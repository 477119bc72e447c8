package cmd

import (
	"context"

	"github.com/flanksource/phantomjs-installer/pkg/plugin"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook <event>",
	Short: "Entry point for composer script events",
	Long: `Run the handler subscribed to a composer script event.

Both ` + string(plugin.PostInstallCmd) + ` and ` + string(plugin.PostUpdateCmd) + ` install PhantomJS.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := plugin.New(func(context.Context, plugin.Event) error {
			_, err := runInstall()
			return err
		})
		return registry.Dispatch(cmd.Context(), plugin.Event(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
