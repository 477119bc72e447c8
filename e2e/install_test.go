//go:build e2e

package e2e

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flanksource/phantomjs-installer/e2e/helpers"
	"github.com/flanksource/phantomjs-installer/mock"
)

var _ = Describe("Installation tests", func() {
	data, err := helpers.GetAllInstallData()
	if err != nil {
		panic(err)
	}

	for _, d := range data {
		d := d
		Describe(d.String(), Label("network"), func() {
			var testCtx *helpers.TestContext

			BeforeEach(func() {
				var err error
				testCtx, err = helpers.CreateInstallTestEnvironment()
				Expect(err).ToNot(HaveOccurred(), "Test environment creation should succeed")
			})

			AfterEach(func() {
				if testCtx != nil {
					testCtx.Cleanup()
				}
			})

			It("downloads and installs a binary for the platform", func() {
				result := helpers.TestInstallation(testCtx, d)
				GinkgoWriter.Printf("%s installed in %v\n", d, result.Duration)
				for _, e := range result.Output.Entries {
					GinkgoWriter.Printf("  [%s] %s\n", e.Level, e.Message)
				}

				Expect(helpers.ValidateInstalledBinary(result, d.Platform)).To(Succeed())
				Expect(result.Output.Contains(mock.LevelWarn, "expected")).To(BeFalse())
			})
		})
	}
})
