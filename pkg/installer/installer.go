package installer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/flanksource/clicky/task"
	"github.com/flanksource/phantomjs-installer/pkg/cache"
	"github.com/flanksource/phantomjs-installer/pkg/composer"
	"github.com/flanksource/phantomjs-installer/pkg/config"
	"github.com/flanksource/phantomjs-installer/pkg/download"
	"github.com/flanksource/phantomjs-installer/pkg/envs"
	"github.com/flanksource/phantomjs-installer/pkg/extract"
	"github.com/flanksource/phantomjs-installer/pkg/output"
	"github.com/flanksource/phantomjs-installer/pkg/platform"
	"github.com/flanksource/phantomjs-installer/pkg/release"
	"github.com/flanksource/phantomjs-installer/pkg/retrieval"
	"github.com/flanksource/phantomjs-installer/pkg/types"
	"github.com/flanksource/phantomjs-installer/pkg/utils"
	"github.com/flanksource/phantomjs-installer/pkg/verify"
	"github.com/flanksource/phantomjs-installer/pkg/version"
)

// Installer runs the PhantomJS install pipeline for a composer project
type Installer struct {
	options InstallOptions
}

// New creates a new installer with the given options
func New(opts ...InstallOption) *Installer {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Installer{options: options}
}

// Options returns the effective options
func (i *Installer) Options() InstallOptions {
	return i.options
}

// run is everything resolved once at the start of a pipeline run
type run struct {
	settings *config.Settings
	env      config.PlatformConfig
	platform platform.Info
	store    composer.Store
	binDir   string
	cache    *cache.Cache
	out      output.Output
}

func (i *Installer) prepare(t *task.Task) (*run, error) {
	opts := i.options
	r := &run{out: opts.Output}
	if r.out == nil {
		r.out = output.ForTask(t)
	}

	r.settings = opts.Settings
	if r.settings == nil {
		path := opts.SettingsFile
		if path == "" {
			path = filepath.Join(opts.ProjectDir, config.SettingsFile)
		}
		settings, err := config.LoadSettings(path)
		if err != nil {
			return nil, err
		}
		r.settings = settings
	}

	if opts.Platform != nil {
		r.env = *opts.Platform
	} else {
		r.env = config.FromEnv()
	}
	r.platform = platform.Detect(r.env)

	project := composer.Open(opts.ProjectDir)
	r.store = opts.Store
	if r.store == nil {
		r.store = project
	}

	r.binDir = firstNonEmpty(opts.BinDir, r.settings.BinDir)
	if r.binDir == "" {
		r.binDir = project.BinDir()
	}
	cacheDir := firstNonEmpty(opts.CacheDir, r.settings.CacheDir)
	if cacheDir == "" {
		cacheDir = project.CacheDir()
	}
	r.cache = cache.New(cacheDir)
	return r, nil
}

func (r *run) resolver() *version.Resolver {
	owner := composer.Owner{Type: r.settings.Owner.Type, Namespace: r.settings.Owner.Namespace}
	return version.NewResolver(r.store, owner, r.settings.Versions)
}

func (r *run) builder() release.Builder {
	return release.Builder{
		Platform:    r.platform,
		CDNOverride: r.env.CDNURLOverride,
		CDNExtra:    r.store.Extra(r.settings.ExtraKey, config.CDNURLKey),
		CDNDefault:  r.settings.CDNURL,
		TargetDir:   r.cache.VersionDir,
		Filenames:   r.settings.Filenames,
	}
}

// Install ensures the requested PhantomJS release is in the bin directory.
// Failures already reported through the output return a failed status and a nil error.
func (i *Installer) Install(ctx context.Context, t *task.Task) (*types.InstallResult, error) {
	start := time.Now()
	result := &types.InstallResult{}
	defer func() {
		result.Duration = time.Since(start)
	}()

	r, err := i.prepare(t)
	if err != nil {
		result.Status = types.InstallStatusFailed
		return result, err
	}
	out := r.out
	result.Platform = r.platform
	result.BinDir = r.binDir

	if r.platform.IsUnknown() {
		out.Errorf("PhantomJS installation skipped: failed to determine the OS type")
		if r.env.OSOverride != "" {
			if suggestion := platform.Suggest(r.env.OSOverride); suggestion != "" {
				out.Infof("%s=%q is not recognised, did you mean %q?", config.EnvPlatform, r.env.OSOverride, suggestion)
			}
		}
		result.Status = types.InstallStatusSkipped
		result.Reason = "failed to determine the OS type"
		return result, nil
	}

	probe := i.options.Probe
	if probe == nil {
		probe = version.Probe{BinDir: r.binDir, Platform: r.platform, Out: out}
	}
	installed := probe.InstalledVersion()
	result.InstalledVersion = installed

	resolver := r.resolver()
	requested, err := resolver.RequestedVersion()
	if err != nil {
		result.Status = types.InstallStatusFailed
		return result, err
	}
	result.RequestedVersion = requested

	force := i.options.Force || r.settings.Force
	// an installed version that cannot be compared is replaced
	cmp, cmpErr := version.Compare(requested, installed)
	upToDate := installed != "" && cmpErr == nil && cmp <= 0
	if upToDate && !force {
		out.Debugf("PhantomJS v%s is installed, v%s requested", installed, requested)
		result.Status = types.InstallStatusAlreadyInstalled
		return result, nil
	}

	builder := r.builder()
	url, err := builder.URL(requested)
	if err != nil {
		out.Errorf("%v", err)
		result.Status = types.InstallStatusFailed
		return result, err
	}
	if !extract.IsArchive(url) {
		name := path.Base(url)
		out.Warnf("PhantomJS installation skipped: %s cannot be extracted", name)
		result.Status = types.InstallStatusSkipped
		result.Reason = fmt.Sprintf("unsupported archive %s", name)
		return result, nil
	}

	out.Infof("Installing PhantomJS v%s", requested)
	if t != nil {
		t.SetDescription(fmt.Sprintf("Installing PhantomJS v%s", requested))
	}

	if err := r.cache.Clear(); err != nil {
		result.Status = types.InstallStatusFailed
		return result, err
	}

	transport := i.options.Transport
	if transport == nil {
		tr := download.NewTransport(r.cache, t)
		tr.Out = out
		tr.Checksums = r.settings.Checksums
		transport = tr
	}

	engine := &retrieval.Engine{
		Transport:     transport,
		Output:        out,
		NewDescriptor: builder.Descriptor,
	}
	downloaded, err := engine.Download(ctx, resolver.Queue(requested))
	if err != nil {
		result.Status = types.InstallStatusFailed
		var aborted *retrieval.AbortedError
		if errors.Is(err, retrieval.ErrExhausted) || errors.As(err, &aborted) {
			result.Reason = err.Error()
			return result, nil
		}
		return result, err
	}

	desc := downloaded.Descriptor
	result.DownloadedVersion = desc.Version
	result.URL = desc.URL

	installation, err := InstallBinary(desc, r.binDir, out)
	if installation != nil {
		result.Binaries = installation.Matched
	}
	if errors.Is(err, ErrBinaryNotLocated) {
		out.Errorf("%v", err)
		result.Status = types.InstallStatusFailed
		result.Reason = err.Error()
		return result, nil
	}
	if err != nil {
		result.Status = types.InstallStatusFailed
		return result, err
	}
	if len(installation.Installed) == 0 {
		out.Errorf("None of the matched files are executable: %v", installation.Matched)
		result.Status = types.InstallStatusFailed
		result.Reason = "no executable binary in the downloaded archive"
		return result, nil
	}

	for _, path := range installation.Installed {
		info, err := verify.VerifyBinaryPlatform(path, r.platform)
		var mismatch *verify.MismatchError
		switch {
		case errors.As(err, &mismatch):
			out.Warnf("%v", mismatch)
		case err != nil:
			out.Debugf("Could not inspect %s: %v", utils.LogPath(path), err)
		default:
			out.Debugf("Installed %s (%s)", utils.LogPath(path), info)
		}
	}

	out.Infof("Done")
	result.Status = types.InstallStatusInstalled
	if upToDate {
		result.Status = types.InstallStatusForcedInstalled
	}
	return result, nil
}

// DownloadURL returns the archive URL for v, or for the requested version when v is empty
func (i *Installer) DownloadURL(v string) (string, error) {
	r, err := i.prepare(nil)
	if err != nil {
		return "", err
	}
	if r.platform.IsUnknown() {
		return "", &release.UnsupportedPlatformError{Platform: r.platform}
	}
	if v == "" {
		if v, err = r.resolver().RequestedVersion(); err != nil {
			return "", err
		}
	}
	return r.builder().URL(version.Normalize(v))
}

// VersionQueue returns the download fallback order for v. An empty v lists every known release.
func (i *Installer) VersionQueue(v string) ([]string, error) {
	r, err := i.prepare(nil)
	if err != nil {
		return nil, err
	}
	if v != "" {
		v = version.Normalize(v)
	}
	return r.resolver().Queue(v), nil
}

// Environment renders the env templates of the settings for the requested version
func (i *Installer) Environment() (map[string]string, error) {
	r, err := i.prepare(nil)
	if err != nil {
		return nil, err
	}
	requested, err := r.resolver().RequestedVersion()
	if err != nil {
		return nil, err
	}
	binary := r.platform.BinaryName(version.BinaryName)
	return envs.RenderEnvs(r.settings.Env, map[string]interface{}{
		"bin_dir":  r.binDir,
		"bin_path": filepath.Join(r.binDir, binary),
		"binary":   binary,
		"version":  requested,
		"os":       string(r.platform.OS),
		"bitsize":  r.platform.Bitsize,
		"platform": r.platform.String(),
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
