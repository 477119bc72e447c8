package helpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flanksource/phantomjs-installer/mock"
	"github.com/flanksource/phantomjs-installer/pkg/config"
	"github.com/flanksource/phantomjs-installer/pkg/installer"
	"github.com/flanksource/phantomjs-installer/pkg/platform"
	"github.com/flanksource/phantomjs-installer/pkg/types"
	"github.com/flanksource/phantomjs-installer/pkg/verify"
)

// TestContext holds the directories used by a single test
type TestContext struct {
	TempDir  string
	BinDir   string
	CacheDir string
	Cleanup  func()
}

// InstallTestData describes one release download
type InstallTestData struct {
	Platform platform.Info
	Version  string
}

func (d InstallTestData) String() string {
	return fmt.Sprintf("%s@%s", d.Platform, d.Version)
}

// InstallResult holds the outcome of a real installation
type InstallResult struct {
	Result   *types.InstallResult
	Binary   string
	Output   *mock.Recorder
	Duration time.Duration
	Error    error
}

// CreateInstallTestEnvironment creates isolated bin and cache directories
func CreateInstallTestEnvironment() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "phantomjs-e2e-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	ctx := &TestContext{
		TempDir:  tempDir,
		BinDir:   filepath.Join(tempDir, "bin"),
		CacheDir: filepath.Join(tempDir, "cache"),
	}
	ctx.Cleanup = func() {
		_ = os.RemoveAll(tempDir)
	}
	return ctx, nil
}

// GetPlatformsForTesting lists every platform a release archive is published for
func GetPlatformsForTesting() []platform.Info {
	return []platform.Info{
		{OS: platform.Linux, Bitsize: "64"},
		{OS: platform.Linux, Bitsize: "32"},
		{OS: platform.MacOSX, Bitsize: "64"},
		{OS: platform.Windows, Bitsize: "64"},
	}
}

// GetAllInstallData pairs every platform with every known release
func GetAllInstallData() ([]InstallTestData, error) {
	settings, err := config.LoadDefaultSettings()
	if err != nil {
		return nil, err
	}
	var data []InstallTestData
	for _, p := range GetPlatformsForTesting() {
		for _, v := range settings.Versions {
			data = append(data, InstallTestData{Platform: p, Version: v})
		}
	}
	return data, nil
}

// TestInstallation downloads a release from the public CDN into the test directories
func TestInstallation(testCtx *TestContext, data InstallTestData) *InstallResult {
	start := time.Now()
	recorder := mock.NewRecorder()

	inst := installer.New(
		installer.WithProjectDir(testCtx.TempDir),
		installer.WithBinDir(testCtx.BinDir),
		installer.WithCacheDir(testCtx.CacheDir),
		installer.WithPlatformConfig(config.PlatformConfig{
			OSOverride:      string(data.Platform.OS),
			BitsizeOverride: data.Platform.Bitsize,
		}),
		installer.WithStore(mock.NewStore(data.Version)),
		// foreign binaries cannot be run to read their version
		installer.WithVersionProbe(mock.Probe("")),
		installer.WithOutput(recorder),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := inst.Install(ctx, nil)
	return &InstallResult{
		Result:   result,
		Binary:   filepath.Join(testCtx.BinDir, data.Platform.BinaryName("phantomjs")),
		Output:   recorder,
		Duration: time.Since(start),
		Error:    err,
	}
}

// ValidateInstalledBinary checks the installed file exists and was built for the platform
func ValidateInstalledBinary(result *InstallResult, expected platform.Info) error {
	if result.Error != nil {
		return result.Error
	}
	if result.Result.Status != types.InstallStatusInstalled {
		return fmt.Errorf("unexpected status %s: %s", result.Result.Status, result.Result.Reason)
	}
	info, err := os.Stat(result.Binary)
	if err != nil {
		return fmt.Errorf("binary not installed: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("binary %s is empty", result.Binary)
	}
	_, err = verify.VerifyBinaryPlatform(result.Binary, expected)
	return err
}
