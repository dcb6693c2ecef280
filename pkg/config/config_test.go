package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tripplanner/pkg/config"
)

var _ = Describe("Load", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		for _, key := range []string{
			config.EnvAPIKey, config.EnvListen, config.EnvRelayURL,
			config.EnvModel, config.EnvBaseURL, config.EnvTimeout,
		} {
			GinkgoT().Setenv(key, "")
		}
		GinkgoT().Setenv("HOME", tmpDir)
	})

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		Expect(os.WriteFile(p, []byte(body), 0o600)).To(Succeed())
		return p
	}

	It("falls back to defaults without a file", func() {
		cfg, err := config.Load("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
		Expect(cfg.Upstream.APIKey).To(BeEmpty())
	})

	It("fails on a missing explicit file", func() {
		_, err := config.Load(filepath.Join(tmpDir, "nope.toml"), "")
		Expect(err).To(HaveOccurred())
	})

	It("reads the TOML file", func() {
		path := write("config.toml", `
[relay]
listen_addr = ":9090"

[upstream]
model = "deepseek-reasoner"
timeout = "90s"

[client]
relay_url = "http://relay.internal:9090"
`)
		cfg, err := config.Load(path, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Relay.ListenAddr).To(Equal(":9090"))
		Expect(cfg.Upstream.Model).To(Equal("deepseek-reasoner"))
		Expect(cfg.Upstream.Timeout.Duration).To(Equal(90 * time.Second))
		Expect(cfg.Upstream.BaseURL).To(Equal("https://api.deepseek.com/v1"))
		Expect(cfg.Client.RelayURL).To(Equal("http://relay.internal:9090"))
	})

	It("lets the environment win over the file", func() {
		path := write("config.toml", "[relay]\nlisten_addr = \":9090\"\n")
		GinkgoT().Setenv(config.EnvListen, ":7070")
		GinkgoT().Setenv(config.EnvAPIKey, "sk-env")

		cfg, err := config.Load(path, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Relay.ListenAddr).To(Equal(":7070"))
		Expect(cfg.Upstream.APIKey).To(Equal("sk-env"))
	})

	It("loads the credential from a dotenv file", func() {
		Expect(os.Unsetenv(config.EnvAPIKey)).To(Succeed())
		envFile := write(".env", config.EnvAPIKey+"=sk-dotenv\n")
		DeferCleanup(os.Unsetenv, config.EnvAPIKey)

		cfg, err := config.Load("", envFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Upstream.APIKey).To(Equal("sk-dotenv"))
	})

	It("ignores a missing dotenv file", func() {
		_, err := config.Load("", filepath.Join(tmpDir, "absent.env"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a malformed timeout", func() {
		GinkgoT().Setenv(config.EnvTimeout, "soon")
		_, err := config.Load("", "")
		Expect(err).To(MatchError(ContainSubstring(config.EnvTimeout)))
	})
})
