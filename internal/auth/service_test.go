package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/avzakharova/studio-bot/internal"
	"github.com/avzakharova/studio-bot/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

var _ = Describe("AuthService", func() {
	var (
		service *auth.Service

		testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	)

	newService := func(tokenDuration time.Duration) *auth.Service {
		hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		return auth.NewService(internal.SecurityConfig{
			AdminLogin:        "admin",
			AdminPasswordHash: string(hash),
			JWTSecret:         "0123456789abcdef0123456789abcdef",
			TokenDuration:     tokenDuration,
		}, testLogger)
	}

	BeforeEach(func() {
		service = newService(time.Hour)
	})

	Describe("Authenticate", func() {
		It("issues a token for the configured admin", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Login: "admin", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.ExpiresAt).To(BeTemporally("~", time.Now().Add(time.Hour), time.Minute))
		})

		It("rejects an unknown login", func() {
			_, err := service.Authenticate(auth.LoginDTO{Login: "intruder", Password: "correct-horse"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Login: "admin", Password: "wrong"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})
	})

	Describe("ValidateToken", func() {
		It("round-trips the admin claim", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Login: "admin", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Login).To(Equal("admin"))
		})

		It("rejects garbage", func() {
			_, err := service.ValidateToken("not-a-token")
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("rejects an expired token", func() {
			expired := newService(-time.Minute)
			tokens, err := expired.Authenticate(auth.LoginDTO{Login: "admin", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			_, err = expired.ValidateToken(tokens.AccessToken)
			Expect(err).To(MatchError(internal.ErrTokenExpired))
		})

		It("rejects a token signed with a different secret", func() {
			other := auth.NewService(internal.SecurityConfig{
				AdminLogin:        "admin",
				AdminPasswordHash: "$2a$04$invalidhashnotchecked00000000000000000000000000000000",
				JWTSecret:         "fedcba9876543210fedcba9876543210",
				TokenDuration:     time.Hour,
			}, testLogger)

			tokens, err := service.Authenticate(auth.LoginDTO{Login: "admin", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			_, err = other.ValidateToken(tokens.AccessToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})
})
