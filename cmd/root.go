package cmd

import (
	"github.com/flanksource/clicky"
	"github.com/flanksource/commons/logger"
	"github.com/flanksource/phantomjs-installer/pkg/installer"
	"github.com/spf13/cobra"
)

var (
	projectDir string
	binDir     string
	cacheDir   string
	configFile string
	force      bool
)

var rootCmd = &cobra.Command{
	Use:   "phantomjs-installer",
	Short: "Installs the PhantomJS binary into a composer project",
	Long: `phantomjs-installer downloads the PhantomJS release pinned by the installer
package of a composer project and places the executable in the project bin-dir.

Add it to the composer scripts to run it on every install and update:

  "scripts": {
    "post-install-cmd": "phantomjs-installer hook post-install-cmd",
    "post-update-cmd": "phantomjs-installer hook post-update-cmd"
  }`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Apply clicky flags after command line parsing
		clicky.Flags.UseFlags()

		logger.V(3).Infof("Using project %s", projectDir)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// installOptions builds the installer options from the global flags
func installOptions() []installer.InstallOption {
	opts := []installer.InstallOption{
		installer.WithProjectDir(projectDir),
		installer.WithForce(force),
	}
	if binDir != "" {
		opts = append(opts, installer.WithBinDir(binDir))
	}
	if cacheDir != "" {
		opts = append(opts, installer.WithCacheDir(cacheDir))
	}
	if configFile != "" {
		opts = append(opts, installer.WithSettingsFile(configFile))
	}
	return opts
}

func init() {
	clicky.BindAllFlags(rootCmd.PersistentFlags(), "tasks", "!format")

	rootCmd.PersistentFlags().StringVarP(&projectDir, "project-dir", "d", ".", "Directory holding composer.json")
	rootCmd.PersistentFlags().StringVar(&binDir, "bin-dir", "", "Directory to install the binary, defaults to the composer bin-dir")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Composer cache directory used for downloads")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the installer settings file")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Re-download even when the installed binary is up to date")
}
