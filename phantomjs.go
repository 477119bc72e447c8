package phantomjs

import (
	"context"

	"github.com/flanksource/clicky"
	"github.com/flanksource/clicky/task"
	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/flanksource/phantomjs-installer/pkg/installer"
	"github.com/flanksource/phantomjs-installer/pkg/plugin"
	"github.com/flanksource/phantomjs-installer/pkg/types"
)

// Re-export commonly used types for public API
type (
	InstallResult = types.InstallResult
	InstallStatus = types.InstallStatus
	InstallOption = installer.InstallOption
	Event         = plugin.Event
)

// Re-export status constants
const (
	InstallStatusInstalled        = types.InstallStatusInstalled
	InstallStatusForcedInstalled  = types.InstallStatusForcedInstalled
	InstallStatusAlreadyInstalled = types.InstallStatusAlreadyInstalled
	InstallStatusSkipped          = types.InstallStatusSkipped
	InstallStatusFailed           = types.InstallStatusFailed

	PostInstallCmd = plugin.PostInstallCmd
	PostUpdateCmd  = plugin.PostUpdateCmd
)

// Re-export installer options
var (
	WithProjectDir     = installer.WithProjectDir
	WithBinDir         = installer.WithBinDir
	WithCacheDir       = installer.WithCacheDir
	WithSettingsFile   = installer.WithSettingsFile
	WithForce          = installer.WithForce
	WithPlatformConfig = installer.WithPlatformConfig
	WithSettings       = installer.WithSettings
	WithOutput         = installer.WithOutput
	WithTransport      = installer.WithTransport
	WithStore          = installer.WithStore
	WithVersionProbe   = installer.WithVersionProbe
)

// Install makes sure the PhantomJS binary pinned by the project is in its bin directory.
//
// Example:
//
//	result, err := phantomjs.Install(
//	    phantomjs.WithProjectDir("/srv/app"),
//	    phantomjs.WithForce(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Pretty())
func Install(opts ...InstallOption) (*InstallResult, error) {
	inst := installer.New(opts...)

	var result *InstallResult
	var installErr error

	task.StartTask("phantomjs", func(ctx flanksourceContext.Context, t *task.Task) (interface{}, error) {
		result, installErr = inst.Install(ctx.Context, t)
		return result, installErr
	})

	clicky.WaitForGlobalCompletion()

	return result, installErr
}

// InstallWithContext runs the pipeline without a task, reporting through the
// configured output or the global logger.
func InstallWithContext(ctx context.Context, opts ...InstallOption) (*InstallResult, error) {
	return installer.New(opts...).Install(ctx, nil)
}

// Hook handles a composer script event. Both lifecycle events run the install pipeline.
func Hook(ctx context.Context, event Event, opts ...InstallOption) (*InstallResult, error) {
	var result *InstallResult
	registry := plugin.New(func(ctx context.Context, _ plugin.Event) error {
		var err error
		result, err = InstallWithContext(ctx, opts...)
		return err
	})
	err := registry.Dispatch(ctx, event)
	return result, err
}
