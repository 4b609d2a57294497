package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justicelink/case-management/internal"
	"github.com/justicelink/case-management/internal/user"
)

// TokenGenerator creates tokens and expiration times.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (token string, err error)
	GenerateRefreshToken(userID, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = internal.NewUnauthorizedError("invalid credentials", internal.ErrCodeInvalidCredentials)
	ErrInvalidToken       = internal.NewUnauthorizedError("invalid token", internal.ErrCodeInvalidToken)
	ErrTokenExpired       = internal.NewUnauthorizedError("token expired", internal.ErrCodeTokenExpired)
)

// ContextWithUser and UserFromContext alias the identity directory's
// context helpers so transport code only ever imports this package.
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return user.NewContext(ctx, u)
}

func UserFromContext(ctx context.Context) (*user.User, bool) {
	return user.FromContext(ctx)
}
