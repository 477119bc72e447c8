package cmd

import (
	"github.com/flanksource/clicky"
	"github.com/flanksource/phantomjs-installer/pkg/installer"
	"github.com/samber/lo"
)

type VersionsOptions struct {
	Version string `json:"version,omitempty" arg:"positional"`
}

// Candidate is a single entry of the download fallback order
type Candidate struct {
	Order   int    `json:"order"`
	Version string `json:"version"`
	URL     string `json:"url,omitempty"`
}

func init() {
	clicky.AddCommand(rootCmd, VersionsOptions{}, func(opts VersionsOptions) (any, error) {
		return GetCandidates(opts)
	})
}

// GetCandidates lists the versions tried, in order, when downloading opts.Version
func GetCandidates(opts VersionsOptions) ([]Candidate, error) {
	inst := installer.New(installOptions()...)
	queue, err := inst.VersionQueue(opts.Version)
	if err != nil {
		return nil, err
	}
	return lo.Map(queue, func(v string, i int) Candidate {
		// the URL is informational, an unsupported platform leaves it empty
		url, _ := inst.DownloadURL(v)
		return Candidate{Order: i + 1, Version: v, URL: url}
	}), nil
}
