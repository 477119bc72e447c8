package retrieval

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/flanksource/phantomjs-installer/pkg/download"
	"github.com/flanksource/phantomjs-installer/pkg/output"
	"github.com/flanksource/phantomjs-installer/pkg/platform"
	"github.com/flanksource/phantomjs-installer/pkg/release"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeFetcher struct {
	responses map[string]error
	attempted []string
}

func (f *fakeFetcher) Fetch(_ context.Context, desc *release.Descriptor) error {
	f.attempted = append(f.attempted, desc.Version)
	return f.responses[desc.Version]
}

type recorder struct {
	output.Discard
	warnings []string
	errors   []string
}

func (r *recorder) Warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func notFound(version string) error {
	return &download.TransportError{URL: "https://cdn.example.com/" + version, StatusCode: http.StatusNotFound}
}

var linux64 = release.Builder{
	Platform:   platform.Info{OS: platform.Linux, Bitsize: "64"},
	CDNDefault: "https://cdn.example.com/",
	TargetDir:  func(v string) string { return "/tmp/phantomjs/" + v },
}

var _ = Describe("Engine", func() {
	var (
		fetcher *fakeFetcher
		rec     *recorder
		engine  *Engine
	)

	BeforeEach(func() {
		fetcher = &fakeFetcher{responses: map[string]error{}}
		rec = &recorder{}
		engine = &Engine{Transport: fetcher, Output: rec, NewDescriptor: linux64.Descriptor}
	})

	It("falls back past a missing version and stops at the first success", func() {
		fetcher.responses["9.9.9"] = notFound("9.9.9")

		result, err := engine.Download(context.Background(), []string{"9.9.9", "2.1.1", "2.0.0"})
		Expect(err).ToNot(HaveOccurred())
		Expect(result.State).To(Equal(Succeeded))
		Expect(result.Descriptor.Version).To(Equal("2.1.1"))
		Expect(result.Descriptor.URL).To(Equal("https://cdn.example.com/phantomjs-2.1.1-linux-x86_64.tar.bz2"))
		Expect(result.Descriptor.TargetDir).To(Equal("/tmp/phantomjs/2.1.1"))
		Expect(fetcher.attempted).To(Equal([]string{"9.9.9", "2.1.1"}))
		Expect(rec.warnings).To(ConsistOf(ContainSubstring("retrying: 2.1.1")))
	})

	It("aborts on a server error without trying older versions", func() {
		fetcher.responses["2.1.1"] = &download.TransportError{URL: "u", StatusCode: http.StatusInternalServerError}

		result, err := engine.Download(context.Background(), []string{"2.1.1", "2.0.0"})
		Expect(result.State).To(Equal(Aborted))
		Expect(fetcher.attempted).To(Equal([]string{"2.1.1"}))

		var aborted *AbortedError
		Expect(errors.As(err, &aborted)).To(BeTrue())
		Expect(aborted.Version).To(Equal("2.1.1"))
		var transportErr *download.TransportError
		Expect(errors.As(err, &transportErr)).To(BeTrue())
		Expect(rec.errors).To(ContainElement(ContainSubstring("Transport failure 500 while downloading v2.1.1")))
		Expect(rec.errors).To(ContainElement("Failed to download PhantomJS"))
	})

	It("aborts on a non-transport error", func() {
		fetcher.responses["2.1.1"] = errors.New("disk full")

		result, err := engine.Download(context.Background(), []string{"2.1.1", "2.0.0"})
		Expect(result.State).To(Equal(Aborted))
		Expect(err).To(MatchError(ContainSubstring("disk full")))
		Expect(fetcher.attempted).To(Equal([]string{"2.1.1"}))
		Expect(rec.errors).To(ContainElement(ContainSubstring("Unexpected error while downloading v2.1.1")))
	})

	It("reports exhaustion when every candidate is missing", func() {
		for _, v := range []string{"2.1.1", "2.0.0"} {
			fetcher.responses[v] = notFound(v)
		}

		result, err := engine.Download(context.Background(), []string{"2.1.1", "2.0.0"})
		Expect(err).To(MatchError(ErrExhausted))
		Expect(result.State).To(Equal(Exhausted))
		Expect(result.Attempted).To(Equal([]string{"2.1.1", "2.0.0"}))
		Expect(rec.errors).To(Equal([]string{"Failed to download PhantomJS"}))
	})

	It("treats an empty queue as exhausted", func() {
		result, err := engine.Download(context.Background(), nil)
		Expect(err).To(MatchError(ErrExhausted))
		Expect(result.State).To(Equal(Exhausted))
		Expect(fetcher.attempted).To(BeEmpty())
	})

	It("retries a duplicated candidate", func() {
		fetcher.responses["2.1.1"] = notFound("2.1.1")
		_, err := engine.Download(context.Background(), []string{"2.1.1", "2.1.1"})
		Expect(err).To(MatchError(ErrExhausted))
		Expect(fetcher.attempted).To(Equal([]string{"2.1.1", "2.1.1"}))
	})

	It("propagates unsupported platforms before any transport call", func() {
		b := linux64
		b.Platform = platform.Info{OS: platform.Linux, Bitsize: "16"}
		engine.NewDescriptor = b.Descriptor

		_, err := engine.Download(context.Background(), []string{"2.1.1"})
		var unsupported *release.UnsupportedPlatformError
		Expect(errors.As(err, &unsupported)).To(BeTrue())
		Expect(fetcher.attempted).To(BeEmpty())
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := engine.Download(ctx, []string{"2.1.1"})
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.State).To(Equal(Aborted))
		Expect(fetcher.attempted).To(BeEmpty())
	})
})

var _ = DescribeTable("Classify",
	func(err error, expected Outcome) {
		Expect(Classify(err)).To(Equal(expected))
	},
	Entry("success", nil, OutcomeSuccess),
	Entry("not found", notFound("1.0.0"), OutcomeRetryable),
	Entry("wrapped not found", fmt.Errorf("fetch: %w", notFound("1.0.0")), OutcomeRetryable),
	Entry("forbidden", &download.TransportError{StatusCode: http.StatusForbidden}, OutcomeFatal),
	Entry("network", &download.TransportError{Err: errors.New("connection refused")}, OutcomeFatal),
	Entry("other", errors.New("boom"), OutcomeFatal),
)
