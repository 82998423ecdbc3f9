package service

import (
	"context"
	"crypto/subtle"
	"time"

	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// adminAuthService authenticates the single configured operator account.
// The plaintext credential from configuration is hashed at construction so
// it never lives in memory longer than startup.
type adminAuthService struct {
	username     string
	passwordHash string
	hasher       ports.HashService
	tokens       ports.TokenService
	log          zerolog.Logger
}

func NewAuthService(username, password string, hasher ports.HashService, tokens ports.TokenService, log zerolog.Logger) (ports.AuthService, error) {
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	return &adminAuthService{
		username:     username,
		passwordHash: hash,
		hasher:       hasher,
		tokens:       tokens,
		log:          log.With().Str("component", "auth_service").Logger(),
	}, nil
}

func (s *adminAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	// Verify the password even when the username is wrong so both paths
	// take comparable time.
	passwordOK, err := s.hasher.Verify(password, s.passwordHash)
	if err != nil {
		s.log.Error().Err(err).Msg("password verification failed")
		return "", time.Time{}, apperror.InternalError(err)
	}

	if !usernameOK || !passwordOK {
		s.log.Warn().Str("username", username).Msg("admin login rejected")
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokens.Generate(s.username)
	if err != nil {
		s.log.Error().Err(err).Msg("token generation failed")
		return "", time.Time{}, apperror.InternalError(err)
	}

	s.log.Info().Str("username", username).Time("expires_at", expiry).Msg("admin login succeeded")
	return token, expiry, nil
}
