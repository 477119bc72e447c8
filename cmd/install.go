package cmd

import (
	"fmt"

	"github.com/flanksource/clicky"
	"github.com/flanksource/clicky/task"
	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/flanksource/phantomjs-installer/pkg/installer"
	"github.com/flanksource/phantomjs-installer/pkg/types"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the PhantomJS version pinned by the project",
	Long: `Install the PhantomJS version pinned by the installer package of the project.

Examples:
  phantomjs-installer install                     # Install into the composer bin-dir
  phantomjs-installer install --force             # Re-download an up to date binary
  PHANTOMJS_PLATFORM=linux phantomjs-installer install`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runInstall()
		return err
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

// runInstall runs the pipeline in a task and waits for it to finish. A failed
// download is reported but only errors returned by the installer fail the command.
func runInstall() (*types.InstallResult, error) {
	inst := installer.New(installOptions()...)

	var result *types.InstallResult
	var installErr error
	task.StartTask("phantomjs", func(ctx flanksourceContext.Context, t *task.Task) (interface{}, error) {
		result, installErr = inst.Install(ctx.Context, t)
		return result, installErr
	})

	exitCode := clicky.WaitForGlobalCompletion()
	if installErr != nil {
		return result, installErr
	}
	if exitCode != 0 {
		return result, fmt.Errorf("installation failed with exit code %d", exitCode)
	}
	if result != nil {
		fmt.Println(result.Pretty().String())
	}
	return result, nil
}
