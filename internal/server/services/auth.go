// Package services contains server-side business logic. This file implements
// AuthService, the session manager: registration, login, refresh-token
// rotation with replay containment, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/common"
	"taskboard/internal/dbx"
	"taskboard/internal/logging"
	"taskboard/internal/server/auth"
	"taskboard/internal/server/config"
	"taskboard/internal/server/metrics"
	"taskboard/internal/server/models"
	"taskboard/internal/server/repositories/refreshtokens"
	"taskboard/internal/server/repositories/repomanager"
)

// AuthResult bundles a freshly signed access token, the raw refresh token
// (handed to the caller exactly once) and the owning user.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// AuthService orchestrates the session lifecycle. All failure modes that
// depend on account state map to common.ErrorUnauthorized externally; the
// distinctions live only in the logs.
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		logger:                       l.With("module", "auth_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a user and issues the first token pair. The user row, the
// refresh-token record and the access-token signature all complete before
// commit, so no failure can leave a committed user without a usable session.
func (s *AuthService) Register(ctx context.Context, email, password, fullName, deviceInfo, ip string) (*AuthResult, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	var (
		user   *models.User
		raw    string
		access string
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			ID:           uuid.NewString(),
			Email:        email,
			FullName:     fullName,
			PasswordHash: passwordHash,
			Role:         models.DefaultRole,
			AvatarURL:    models.DefaultAvatarURL,
		})
		if err != nil {
			return err
		}
		user = u

		raw, err = s.issueRefreshToken(ctx, tx, u.ID, deviceInfo, ip)
		if err != nil {
			return err
		}

		access, err = s.signAccessToken(u)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "registration failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &AuthResult{AccessToken: access, RefreshToken: raw, User: user}, nil
}

// Login verifies credentials and issues a token pair. Unknown email, wrong
// password and deactivated account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password, deviceInfo, ip string) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).GetByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login rejected: unknown email")
			metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		s.logger.Info(ctx, "login rejected: wrong password", "user_id", user.ID)
		metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, common.ErrorUnauthorized
	}

	if !user.IsActive {
		s.logger.Info(ctx, "login rejected: deactivated account", "user_id", user.ID)
		metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, common.ErrorUnauthorized
	}

	// The hash has served its purpose; everything downstream gets the
	// password-free shape.
	user.PasswordHash = ""

	result, err := s.issuePair(ctx, user, deviceInfo, ip)
	if err != nil {
		return nil, err
	}
	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	return result, nil
}

// Refresh exchanges a raw refresh token for a new pair. The presented token
// is consumed win-or-lose: whatever the outcome, it can never be exchanged
// again.
func (s *AuthService) Refresh(ctx context.Context, rawToken, deviceInfo, ip string) (*AuthResult, error) {
	res, err := s.repomanager.RefreshTokens(s.db).Consume(ctx, auth.HashRefreshToken(rawToken))
	if err != nil {
		s.logger.Error(ctx, "refresh token consume failed", "error", err)
		return nil, common.ErrorInternal
	}

	switch res.Status {
	case refreshtokens.StatusNotFound:
		s.logger.Info(ctx, "refresh rejected: unknown token")
		metrics.Refreshes.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, common.ErrorUnauthorized
	case refreshtokens.StatusExpired:
		s.logger.Info(ctx, "refresh rejected: expired token", "user_id", res.UserID)
		metrics.Refreshes.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, common.ErrorUnauthorized
	case refreshtokens.StatusReused:
		s.logger.Warn(ctx, "refresh token reuse detected, all sessions revoked",
			"user_id", res.UserID, "revoked_count", res.RevokedCount)
		metrics.ReuseDetected.Inc()
		metrics.Refreshes.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, res.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "refresh rejected: account no longer exists", "user_id", res.UserID)
			metrics.Refreshes.WithLabelValues(metrics.ResultFailure).Inc()
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "refresh user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		s.logger.Info(ctx, "refresh rejected: deactivated account", "user_id", user.ID)
		metrics.Refreshes.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, common.ErrorUnauthorized
	}

	result, err := s.issuePair(ctx, user, deviceInfo, ip)
	if err != nil {
		return nil, err
	}
	metrics.Refreshes.WithLabelValues(metrics.ResultSuccess).Inc()
	return result, nil
}

// Logout is a best-effort single-session revoke. An unknown or already
// revoked token is not an error; the result reports whether a record changed.
func (s *AuthService) Logout(ctx context.Context, rawToken string) (bool, error) {
	revoked, err := s.repomanager.RefreshTokens(s.db).Revoke(ctx, auth.HashRefreshToken(rawToken))
	if err != nil {
		s.logger.Error(ctx, "logout failed", "error", err)
		return false, common.ErrorInternal
	}
	return revoked, nil
}

// LogoutAll revokes every live refresh token of the user and returns the
// number of sessions terminated.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	count, err := s.repomanager.RefreshTokens(s.db).RevokeAllForUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "logout-all failed", "user_id", userID, "error", err)
		return 0, common.ErrorInternal
	}
	return count, nil
}

// ValidateByID re-confirms the subject of an access token. A missing or
// deactivated user yields (nil, nil) so the caller can translate that to an
// authorization failure without learning which case it was.
func (s *AuthService) ValidateByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		s.logger.Error(ctx, "user validation failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// --- helpers below ---

func (s *AuthService) signAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) issueRefreshToken(ctx context.Context, db dbx.DBTX, userID, deviceInfo, ip string) (string, error) {
	raw, err := auth.NewRefreshToken()
	if err != nil {
		return "", err
	}
	repo := s.repomanager.RefreshTokens(db)
	if err := repo.Create(ctx, userID, auth.HashRefreshToken(raw), deviceInfo, ip, s.refreshTokenValidityDuration); err != nil {
		return "", err
	}
	return raw, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User, deviceInfo, ip string) (*AuthResult, error) {
	raw, err := s.issueRefreshToken(ctx, s.db, user.ID, deviceInfo, ip)
	if err != nil {
		s.logger.Error(ctx, "refresh token issuance failed", "error", err)
		return nil, common.ErrorInternal
	}
	access, err := s.signAccessToken(user)
	if err != nil {
		s.logger.Error(ctx, "access token signing failed", "error", err)
		return nil, common.ErrorInternal
	}
	return &AuthResult{AccessToken: access, RefreshToken: raw, User: user}, nil
}
