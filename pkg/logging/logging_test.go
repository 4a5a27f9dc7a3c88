package logging

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/config"
)

func TestLogging(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t,
		"Logging Suite")
}

var _ = Describe("ExpandTimestamp()", func() {
	It("leaves plain paths alone", func() {
		Expect(ExpandTimestamp("data/logs.txt")).To(Equal("data/logs.txt"))
	})
	It("replaces every placeholder", func() {
		expanded := ExpandTimestamp("{timestamp}/logs-{timestamp}.txt")
		Expect(expanded).ToNot(ContainSubstring("{timestamp}"))
		Expect(expanded).To(MatchRegexp(`^\d{8}-\d{6}/logs-\d{8}-\d{6}\.txt$`))
	})
})

var _ = Describe("Setup()", func() {
	It("returns error on an unknown level", func() {
		err := Setup(&config.LoggingRules{}, "noisy")
		Expect(err).To(HaveOccurred())
	})
	It("accepts a level override", func() {
		err := Setup(&config.LoggingRules{Level: "debug"}, "warning")
		Expect(err).ToNot(HaveOccurred())
	})
	It("writes a rotating log file", func() {
		dir := GinkgoT().TempDir()
		rules := &config.LoggingRules{
			Enabled:   true,
			Level:     "info",
			File:      dir + "/logs-{timestamp}.txt",
			MaxSizeMB: 1,
		}
		Expect(Setup(rules, "")).To(Succeed())
	})
})

var _ = Describe("ForDevice()", func() {
	It("tags entries with device identity", func() {
		entry := ForDevice("leaf1", "192.0.2.1")
		Expect(entry.Data["device"]).To(Equal("leaf1"))
		Expect(entry.Data["host"]).To(Equal("192.0.2.1"))
	})
})
