package services

import (
	"errors"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/portfolio-go/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials indicates a failed admin login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues and validates admin tokens for the message dashboard.
type AuthService struct {
	logger *logging.ChanneledLogger
}

// NewAuthService creates the auth service.
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{logger: logger}
}

// Login checks the admin password against the configured bcrypt hash and
// returns a signed token on success.
func (s *AuthService) Login(password string) (string, error) {
	if config.AdminPasswordHash == "" || config.JWTSecret == "" {
		s.logger.Auth().Error("Admin login attempted without configured credentials")
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(config.AdminPasswordHash), []byte(password)); err != nil {
		s.logger.Auth().Warn("Admin login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateAdminToken(config.JWTSecret, config.AdminTokenTTL)
	if err != nil {
		return "", err
	}

	s.logger.Auth().Info("Admin login succeeded")
	return token, nil
}

// ValidateToken checks a bearer token and confirms it carries admin access.
func (s *AuthService) ValidateToken(token string) error {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return err
	}
	if !security.IsAdminClaims(claims) {
		return ErrInvalidCredentials
	}
	return nil
}
