package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satchelworks/satchel/pkg/config"
)

var _ = Describe("InitViper", func() {
	var configDir string

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
	})

	It("applies defaults when no config file exists", func() {
		v, err := config.InitViper(configDir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.ConfigFromViper(v)
		Expect(cfg.Storage.RemoteKey).To(Equal("satchel.db"))
		Expect(cfg.S3.Endpoint).To(Equal("s3.amazonaws.com"))
		Expect(cfg.S3.UseSSL).To(BeTrue())
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
	})

	It("reads values from config.toml", func() {
		content := `version = 0

[s3]
bucket = "viper-bucket"

[api]
listen = ":9999"
`
		path := filepath.Join(configDir, "config.toml")
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

		v, err := config.InitViper(configDir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.ConfigFromViper(v)
		Expect(cfg.S3.Bucket).To(Equal("viper-bucket"))
		Expect(cfg.API.Listen).To(Equal(":9999"))

		// untouched keys keep their defaults
		Expect(cfg.Storage.RemoteKey).To(Equal("satchel.db"))
	})

	It("lets SATCHEL_ environment variables override the file", func() {
		content := `version = 0

[s3]
bucket = "file-bucket"
`
		path := filepath.Join(configDir, "config.toml")
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

		GinkgoT().Setenv("SATCHEL_S3_BUCKET", "env-bucket")
		GinkgoT().Setenv("SATCHEL_S3_ACCESS_KEY", "env-access-key")

		v, err := config.InitViper(configDir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.ConfigFromViper(v)
		Expect(cfg.S3.Bucket).To(Equal("env-bucket"))
		Expect(cfg.S3.AccessKey).To(Equal("env-access-key"))
	})
})
