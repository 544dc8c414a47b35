package service

import (
	"context"
	"errors"

	"botdash/gateway/internal/session"
	"botdash/gateway/internal/util"
	"botdash/gateway/pkg/jwt"
	"botdash/gateway/pkg/logger"
	"botdash/gateway/pkg/tradeapi"
)

// AuthService owns the gateway session lifecycle: it signs users in
// against the upstream trading API, keeps the upstream bearer token
// server-side, and hands the browser a signed gateway token instead.
type AuthService struct {
	api      *tradeapi.Client
	sessions *session.Store
	tokens   *jwt.Manager
	log      *logger.Logger
}

// LoginResult is what a successful login returns to the browser
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// NewAuthService creates a new auth service
func NewAuthService(api *tradeapi.Client, sessions *session.Store, tokens *jwt.Manager, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.GetLogger()
	}
	return &AuthService{
		api:      api,
		sessions: sessions,
		tokens:   tokens,
		log:      log,
	}
}

// Login authenticates against the upstream API and creates a session
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, tradeapi.ErrUnauthorized) {
			return nil, util.ErrUnauthorized("Invalid username or password")
		}
		return nil, util.FromUpstream(err)
	}

	sess, err := s.sessions.Create(ctx, resp.Token, resp.Username)
	if err != nil {
		s.log.Error("failed to create session", err)
		return nil, util.ErrInternalServer("Failed to create session")
	}

	token, err := s.tokens.GenerateToken(sess.ID, sess.Username)
	if err != nil {
		s.log.Error("failed to sign session token", err)
		return nil, util.ErrInternalServer("Failed to create session")
	}

	s.log.WithField("username", resp.Username).Info("user signed in")

	return &LoginResult{Token: token, Username: resp.Username}, nil
}

// Authenticate resolves a gateway token into its live session
func (s *AuthService) Authenticate(ctx context.Context, gatewayToken string) (*session.Session, error) {
	claims, err := s.tokens.ValidateToken(gatewayToken)
	if err != nil {
		return nil, util.ErrUnauthorized("Invalid or expired token")
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, util.ErrSessionExpired()
		}
		s.log.Error("failed to load session", err)
		return nil, util.ErrInternalServer("Failed to load session")
	}

	return sess, nil
}

// Logout tears down the session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		s.log.Error("failed to clear session", err)
		return util.ErrInternalServer("Failed to sign out")
	}
	return nil
}

// Invalidate tears down a session after the upstream rejected its token.
// Best-effort: the session may already be gone.
func (s *AuthService) Invalidate(ctx context.Context, sessionID string) {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		s.log.Error("failed to invalidate session", err)
	}
}

// ForgotPassword proxies a password reset request upstream
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.api.ForgotPassword(ctx, email); err != nil {
		return util.FromUpstream(err)
	}
	return nil
}

// ResetPassword completes a password reset with the emailed token
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := s.api.ResetPassword(ctx, resetToken, newPassword); err != nil {
		return util.FromUpstream(err)
	}
	return nil
}
