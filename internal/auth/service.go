package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/avzakharova/studio-bot/internal"
)

type LoginDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Claims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// Service authenticates the single studio administrator against the
// configured bcrypt hash and issues short-lived HS256 tokens for the admin
// REST surface.
type Service struct {
	cfg    internal.SecurityConfig
	logger *slog.Logger
}

func NewService(cfg internal.SecurityConfig, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

func (s *Service) Authenticate(dto LoginDTO) (*TokenResponse, error) {
	if dto.Login != s.cfg.AdminLogin {
		return nil, internal.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("admin login failed", "login", dto.Login)
		return nil, internal.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.cfg.TokenDuration)
	claims := Claims{
		Login: dto.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   dto.Login,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}

	s.logger.Info("admin authenticated", "login", dto.Login)
	return &TokenResponse{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal.ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
