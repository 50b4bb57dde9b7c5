package database

import (
	"time"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Database Configuration", func() {
	Describe("DefaultConfig", func() {
		It("returns sensible defaults", func() {
			cfg := DefaultConfig()

			Expect(cfg.Host).To(Equal("localhost"))
			Expect(cfg.Port).To(Equal(5432))
			Expect(cfg.Database).To(Equal("olympiadqr"))
			Expect(cfg.SSLMode).To(Equal("disable"))
			Expect(cfg.MaxOpenConns).To(Equal(25))
			Expect(cfg.MaxIdleConns).To(Equal(5))
			Expect(cfg.ConnMaxLifetime).To(Equal(5 * time.Minute))
		})
	})

	Describe("Validate", func() {
		var cfg *Config

		BeforeEach(func() {
			cfg = DefaultConfig()
		})

		It("passes for the default config", func() {
			Expect(cfg.Validate()).To(Succeed())
		})

		It("rejects an empty host", func() {
			cfg.Host = ""
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("database host is required")))
		})

		It("rejects an out-of-range port", func() {
			cfg.Port = 0
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("database port must be between 1 and 65535")))

			cfg.Port = 70000
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("database port must be between 1 and 65535")))
		})

		It("rejects an empty user", func() {
			cfg.User = ""
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("database user is required")))
		})

		It("rejects non-positive max open connections", func() {
			cfg.MaxOpenConns = 0
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("max open connections must be greater than 0")))
		})

		It("rejects negative max idle connections", func() {
			cfg.MaxIdleConns = -1
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("max idle connections must be non-negative")))
		})
	})

	Describe("ConnectionString", func() {
		It("includes the password when set", func() {
			cfg := &Config{Host: "localhost", Port: 5432, User: "testuser", Database: "testdb", SSLMode: "disable", Password: "testpass"}
			Expect(cfg.ConnectionString()).To(Equal(
				"host=localhost port=5432 user=testuser dbname=testdb sslmode=disable password=testpass"))
		})

		It("omits the password when empty", func() {
			cfg := &Config{Host: "localhost", Port: 5432, User: "testuser", Database: "testdb", SSLMode: "disable"}
			result := cfg.ConnectionString()
			Expect(result).To(Equal("host=localhost port=5432 user=testuser dbname=testdb sslmode=disable"))
			Expect(result).NotTo(ContainSubstring("password="))
		})
	})

	Describe("Connect", func() {
		It("rejects an invalid configuration before dialing", func() {
			logger := logrus.New()
			logger.SetLevel(logrus.FatalLevel)

			cfg := &Config{Host: "", Port: 5432, User: "testuser"}
			_, err := Connect(cfg, logger)
			Expect(err).To(MatchError(ContainSubstring("invalid database configuration")))
		})

		// A real connection requires a live Postgres instance and is left
		// to integration tests run against docker-compose.
	})
})
