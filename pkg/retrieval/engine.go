package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/flanksource/phantomjs-installer/pkg/download"
	"github.com/flanksource/phantomjs-installer/pkg/output"
	"github.com/flanksource/phantomjs-installer/pkg/release"
)

// ErrExhausted is returned when every candidate version was missing from the CDN
var ErrExhausted = errors.New("no candidate version could be downloaded")

// AbortedError stops the fallback chain at Version
type AbortedError struct {
	Version string
	Err     error
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("download of v%s aborted: %v", e.Version, e.Err)
}

func (e *AbortedError) Unwrap() error {
	return e.Err
}

// State of the retrieval state machine
type State int

const (
	CandidatesRemaining State = iota
	Succeeded
	Exhausted
	Aborted
)

func (s State) String() string {
	switch s {
	case CandidatesRemaining:
		return "candidates-remaining"
	case Succeeded:
		return "succeeded"
	case Exhausted:
		return "exhausted"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome classifies the result of one download attempt
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeFatal
)

// Classify maps an attempt error to its outcome. Only a 404 moves on to the next candidate.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var transportErr *download.TransportError
	if errors.As(err, &transportErr) && transportErr.NotFound() {
		return OutcomeRetryable
	}
	return OutcomeFatal
}

// DescriptorFunc builds the descriptor for a candidate version
type DescriptorFunc func(version string) (*release.Descriptor, error)

// Engine walks a version queue until one candidate downloads
type Engine struct {
	Transport     download.Fetcher
	Output        output.Output
	NewDescriptor DescriptorFunc
}

// Result records how the state machine ended
type Result struct {
	State      State
	Descriptor *release.Descriptor
	Attempted  []string
}

// Download tries each version of queue in order. Candidates are strictly sequential
// since every failure decides whether the next one runs. Descriptor errors are
// returned unchanged.
func (e *Engine) Download(ctx context.Context, queue []string) (*Result, error) {
	out := e.Output
	if out == nil {
		out = output.Logger{}
	}

	result := &Result{State: CandidatesRemaining}
	remaining := append([]string(nil), queue...)

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			result.State = Aborted
			return result, err
		}

		version := remaining[0]
		remaining = remaining[1:]
		if len(result.Attempted) > 0 {
			out.Warnf("Failed to download requested version, retrying: %s", version)
		}

		desc, err := e.NewDescriptor(version)
		if err != nil {
			result.State = Aborted
			return result, err
		}

		result.Attempted = append(result.Attempted, version)
		err = e.Transport.Fetch(ctx, desc)

		switch Classify(err) {
		case OutcomeSuccess:
			result.State = Succeeded
			result.Descriptor = desc
			return result, nil
		case OutcomeRetryable:
			out.Debugf("v%s not found at %s", version, desc.URL)
			continue
		default:
			var transportErr *download.TransportError
			if errors.As(err, &transportErr) {
				out.Errorf("Transport failure %d while downloading v%s: %v", transportErr.StatusCode, version, err)
			} else {
				out.Errorf("Unexpected error while downloading v%s: %v", version, err)
			}
			out.Errorf("Failed to download PhantomJS")
			result.State = Aborted
			return result, &AbortedError{Version: version, Err: err}
		}
	}

	out.Errorf("Failed to download PhantomJS")
	result.State = Exhausted
	return result, ErrExhausted
}
