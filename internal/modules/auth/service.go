package auth

import (
	"context"
	"time"

	"github.com/restful-go/accounts/internal/database"
	"github.com/restful-go/accounts/internal/models"
	jwtpkg "github.com/restful-go/accounts/internal/pkg/jwt"
	"github.com/restful-go/accounts/internal/pkg/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Revoker records tokens that must no longer be honored. Nil means revocation
// is disabled by configuration.
type Revoker interface {
	Add(ctx context.Context, token string) error
}

// Service owns the login/refresh/logout session rules.
type Service struct {
	users   database.UserRepository
	codec   *jwtpkg.Codec
	revoker Revoker
	log     *zap.Logger
	now     func() time.Time
}

func NewService(users database.UserRepository, codec *jwtpkg.Codec, revoker Revoker, log *zap.Logger) *Service {
	return &Service{
		users:   users,
		codec:   codec,
		revoker: revoker,
		log:     log,
		now:     time.Now,
	}
}

// Login checks credentials, rotates the user's stored refresh token and
// returns a fresh access token. Concurrent logins race on the refresh token;
// the last write wins and supersedes any earlier one.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", errUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", &validate.PasswordError{Reason: "WrongPassword"}
	}

	refresh, err := s.codec.SignRefresh(u.Email)
	if err != nil {
		return "", err
	}
	u.RefreshToken = models.ActiveRefreshToken(refresh)
	if err := s.users.Update(ctx, u); err != nil {
		return "", err
	}

	return s.codec.SignAccess(u.ID, u.Email)
}

// Refresh trades a validly signed access token for a usable one. A token
// that has not lapsed comes straight back; a lapsed one is exchanged for a
// brand-new token, but only after the user's stored refresh token passes
// signature verification. The stored token is re-verified on every call, so
// a logout can never be bypassed by a cached login state.
func (s *Service) Refresh(ctx context.Context, rawToken string) (string, error) {
	claims, err := s.codec.Verify(rawToken, jwtpkg.KindAccess)
	if err != nil {
		return "", err
	}

	if !claims.Expired(s.now()) {
		return rawToken, nil
	}

	u, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", errUserNotFound
	}

	stored, ok := u.RefreshToken.Signed()
	if !ok {
		// Absent or invalidated by logout: fail closed.
		return "", jwtpkg.ErrInvalidToken
	}
	if _, err := s.codec.Verify(stored, jwtpkg.KindRefresh); err != nil {
		return "", err
	}

	return s.codec.SignAccess(u.ID, u.Email)
}

// Logout permanently invalidates the user's stored refresh token and, when
// revocation is enabled, blocks the presented access token for the rest of
// its natural lifetime. A revocation store failure is logged and tolerated:
// the refresh invalidation alone already ends the session.
func (s *Service) Logout(ctx context.Context, email, rawToken string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return errUserNotFound
	}

	u.RefreshToken = models.InvalidatedRefreshToken()

	if s.revoker != nil && rawToken != "" {
		if err := s.revoker.Add(ctx, rawToken); err != nil {
			s.log.Warn("failed to revoke access token", zap.Error(err))
		}
	}

	return s.users.Update(ctx, u)
}
