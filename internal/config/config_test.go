package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var (
		tempDir    string
		configFile string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test")
		Expect(err).NotTo(HaveOccurred())
		configFile = filepath.Join(tempDir, "config.yaml")
		os.Clearenv()
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("when config file exists with valid content", func() {
			BeforeEach(func() {
				validConfig := `
server:
  port: "8080"

database:
  host: "db.internal"
  port: 5432
  user: "olympiadqr"
  database: "olympiadqr"

token:
  hmac_secret_key: "0123456789abcdef0123456789abcdef"

auth:
  secret_key: "jwt-signing-secret"

qr:
  error_correction: "H"

ocr:
  confidence_threshold: 0.75

logging:
  level: "debug"
  format: "json"
`
				Expect(os.WriteFile(configFile, []byte(validConfig), 0644)).To(Succeed())
			})

			It("loads configuration successfully", func() {
				cfg, err := Load(configFile)
				Expect(err).NotTo(HaveOccurred())

				Expect(cfg.Server.Port).To(Equal("8080"))
				Expect(cfg.Database.Host).To(Equal("db.internal"))
				Expect(cfg.Token.HMACSecretKey).To(Equal("0123456789abcdef0123456789abcdef"))
				Expect(cfg.Auth.SecretKey).To(Equal("jwt-signing-secret"))
				Expect(cfg.OCR.ConfidenceThreshold).To(Equal(0.75))
				Expect(cfg.Logging.Level).To(Equal("debug"))
			})
		})

		Context("when config file does not exist", func() {
			It("returns an error", func() {
				_, err := Load("/nonexistent/config.yaml")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to read config file"))
			})
		})

		Context("when config file has invalid YAML", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(configFile, []byte("server:\n  port: [\n"), 0644)).To(Succeed())
			})

			It("returns an error", func() {
				_, err := Load(configFile)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to parse config file"))
			})
		})

		Context("when required secrets are missing", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(configFile, []byte("server:\n  port: \"8080\"\n"), 0644)).To(Succeed())
			})

			It("fails validation", func() {
				_, err := Load(configFile)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("hmac_secret_key"))
				Expect(err.Error()).To(ContainSubstring("secret_key is required"))
			})
		})
	})

	Describe("validate", func() {
		var cfg *Config

		BeforeEach(func() {
			cfg = defaults()
			cfg.Token.HMACSecretKey = "0123456789abcdef0123456789abcdef"
			cfg.Auth.SecretKey = "jwt-signing-secret"
		})

		It("passes for a valid config", func() {
			Expect(validate(cfg)).To(Succeed())
		})

		It("rejects a short HMAC secret", func() {
			cfg.Token.HMACSecretKey = "too-short"
			err := validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("hmac_secret_key"))
		})

		It("rejects an invalid QR error-correction level", func() {
			cfg.QR.ErrorCorrection = "Z"
			err := validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("error_correction"))
		})

		It("rejects an out-of-range OCR confidence threshold", func() {
			cfg.OCR.ConfidenceThreshold = 1.5
			err := validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("confidence_threshold"))
		})
	})

	Describe("loadFromEnv", func() {
		It("overrides database and secret settings from the environment", func() {
			os.Setenv("DB_HOST", "envhost")
			os.Setenv("DB_PORT", "6543")
			os.Setenv("HMAC_SECRET_KEY", "abcdefabcdefabcdefabcdefabcdefab")
			os.Setenv("LOG_LEVEL", "warn")

			cfg := defaults()
			Expect(loadFromEnv(cfg)).To(Succeed())

			Expect(cfg.Database.Host).To(Equal("envhost"))
			Expect(cfg.Database.Port).To(Equal(6543))
			Expect(cfg.Token.HMACSecretKey).To(Equal("abcdefabcdefabcdefabcdefabcdefab"))
			Expect(cfg.Logging.Level).To(Equal("warn"))
		})

		It("ignores an unparsable DB_PORT", func() {
			os.Setenv("DB_PORT", "not-a-port")
			cfg := defaults()
			original := cfg.Database.Port
			Expect(loadFromEnv(cfg)).To(Succeed())
			Expect(cfg.Database.Port).To(Equal(original))
		})
	})
})
