package service

import (
	"errors"
	"time"

	"github.com/arch-spatula/jmc/config"
	"github.com/arch-spatula/jmc/pkg/logger"
	"github.com/arch-spatula/jmc/pkg/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("editor password is not configured")
)

// EditorToken 로그인 결과
type EditorToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	Enabled() bool
	Login(password string) (*EditorToken, error)
}

type authService struct {
	cfg config.EditorConfig
}

func NewAuthService(cfg config.EditorConfig) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) Enabled() bool {
	return s.cfg.PasswordHash != ""
}

// Login checks the editor password against the configured bcrypt hash
func (s *authService) Login(password string) (*EditorToken, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	if !util.VerifyPassword(s.cfg.PasswordHash, password) {
		logger.Warn("Editor login failed")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := util.GenerateToken(s.cfg.JWTSecret, s.cfg.TokenExpiry)
	if err != nil {
		return nil, err
	}

	logger.Info("Editor token issued", map[string]interface{}{
		"expires_at": expiresAt,
	})
	return &EditorToken{Token: token, ExpiresAt: expiresAt}, nil
}
