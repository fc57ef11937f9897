package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/util"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService 单用户认证，凭据来自配置而不是用户表
type AuthService struct {
	Cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{Cfg: cfg}
}

func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.Cfg.Auth.Username {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.Cfg.Auth.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return util.GenerateJWT(username, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}
