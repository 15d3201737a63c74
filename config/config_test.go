package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r10ksim/config"
)

var _ = Describe("Presets", func() {
	It("BaselineConfig matches the testable-property scenarios' assumed widths", func() {
		cfg := config.BaselineConfig()
		Expect(cfg.DecodeWidth).To(Equal(4))
		Expect(cfg.RetireWidth).To(Equal(4))
		Expect(cfg.ExecuteWidth).To(Equal(3))
		Expect(cfg.OOODegree).To(Equal(32))
		Expect(cfg.InstQSize).To(Equal(16))
		Expect(cfg.SpeculateDepth).To(Equal(4))
		Expect(cfg.Validate()).ToNot(HaveOccurred())
	})

	It("HackingConfig is single-issue everywhere and cascades issue/operand", func() {
		cfg := config.HackingConfig()
		Expect(cfg.DecodeWidth).To(Equal(1))
		Expect(cfg.RetireWidth).To(Equal(1))
		Expect(cfg.ExecuteWidth).To(Equal(1))
		Expect(cfg.CascadeIssueOperand).To(BeTrue())
		Expect(cfg.Validate()).ToNot(HaveOccurred())
	})

	It("Preset resolves named presets and rejects unknown ones", func() {
		cfg, err := config.Preset("hacking")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg).To(Equal(config.HackingConfig()))

		_, err = config.Preset("does-not-exist")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Validate", func() {
	It("rejects a non-positive width", func() {
		cfg := config.BaselineConfig()
		cfg.DecodeWidth = 0
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("rejects a speculate depth that doesn't fit a 64-bit mask", func() {
		cfg := config.BaselineConfig()
		cfg.SpeculateDepth = 65
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("rejects DRISChecker without ROBRename", func() {
		cfg := config.BaselineConfig()
		cfg.ROBRename = false
		cfg.DRISChecker = true
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("rejects an unknown InstQScan policy", func() {
		cfg := config.BaselineConfig()
		cfg.InstQScan = "bogus"
		Expect(cfg.Validate()).To(HaveOccurred())
	})
})

var _ = Describe("LoadConfig/SaveConfig", func() {
	It("round-trips through a JSON file, preserving unset baseline defaults", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "cfg.json")

		Expect(os.WriteFile(path, []byte(`{"execute_width": 1}`), 0o644)).To(Succeed())

		cfg, err := config.LoadConfig(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.ExecuteWidth).To(Equal(1))
		Expect(cfg.DecodeWidth).To(Equal(config.BaselineConfig().DecodeWidth))

		savePath := filepath.Join(dir, "roundtrip.json")
		Expect(cfg.SaveConfig(savePath)).To(Succeed())

		reloaded, err := config.LoadConfig(savePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(reloaded).To(Equal(cfg))
	})

	It("errors on a missing file", func() {
		_, err := config.LoadConfig("/nonexistent/path/cfg.json")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Clone", func() {
	It("returns an independent copy", func() {
		cfg := config.BaselineConfig()
		clone := cfg.Clone()
		clone.ExecuteWidth = 1

		Expect(cfg.ExecuteWidth).To(Equal(3))
		Expect(clone.ExecuteWidth).To(Equal(1))
	})
})
