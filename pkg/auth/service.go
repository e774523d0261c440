package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/models"
)

// Service issues and validates brewlog access tokens. Revoked tokens are
// tracked in an optional Redis deny-list keyed by token id; with no Redis
// client configured, tokens simply remain valid until expiry.
type Service struct {
	secret   []byte
	tokenTTL time.Duration
	redis    *redis.Client
	logger   *zap.Logger
}

// NewService creates a token service. The redis client may be nil.
func NewService(secret string, tokenTTL time.Duration, redisClient *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		redis:    redisClient,
		logger:   logger,
	}
}

// IssueToken creates a signed HS256 token for the given account.
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Issuer:    "brewlog",
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateRequest authenticates a request. The Authorization bearer header
// wins; the session cookie is the fallback for browser clients. Returns
// the verified claims and the raw token.
func (s *Service) ValidateRequest(r *http.Request) (*Claims, string, error) {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		tokenStr = sessionToken(r)
	}
	if tokenStr == "" {
		return nil, "", errors.New("no credentials presented")
	}

	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil, "", err
	}

	revoked, err := s.isRevoked(r.Context(), claims.ID)
	if err != nil {
		// Deny-list lookup failure fails closed.
		s.logger.Error("Token revocation check failed", zap.Error(err))
		return nil, "", err
	}
	if revoked {
		return nil, "", errors.New("token revoked")
	}

	return claims, tokenStr, nil
}

// Revoke adds the token's id to the deny-list until the token would have
// expired anyway. Without Redis this is a no-op.
func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	if s.redis == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revocationKey(claims.ID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *Service) parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == 0 {
		return nil, errors.New("token missing account id")
	}
	return claims, nil
}

func (s *Service) isRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.redis == nil || tokenID == "" {
		return false, nil
	}
	n, err := s.redis.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revocationKey(tokenID string) string {
	return "revoked:" + tokenID
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func sessionToken(r *http.Request) string {
	if Store == nil {
		return ""
	}
	session, err := GetSession(r)
	if err != nil {
		return ""
	}
	token, _ := session.Values[SessionKeyToken].(string)
	return token
}
