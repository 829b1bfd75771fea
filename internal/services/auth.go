package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/aet-studio-backend/internal/platform/ctxutil"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService validates bearer tokens issued by the identity service. Tokens are HS256
// JWTs whose subject is the teacher id.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(teacherID string, ttl time.Duration) (string, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
}

func NewAuthService(log *logger.Logger, jwtSecretKey string) AuthService {
	serviceLog := log.With("service", "AuthService")
	if jwtSecretKey == "" {
		serviceLog.Warn("JWT_SECRET_KEY is empty; every protected request will be rejected")
	}
	return &authService{log: serviceLog, jwtSecretKey: jwtSecretKey}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" || as.jwtSecretKey == "" {
		return ctx, ErrInvalidToken
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, ErrInvalidToken
	}
	teacherID := strings.TrimSpace(claims.Subject)
	if teacherID == "" {
		return ctx, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	rd := &ctxutil.RequestData{
		TeacherID: teacherID,
		TokenID:   claims.ID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

// IssueToken mints a token for teacherID. Used by local tooling and tests.
func (as *authService) IssueToken(teacherID string, ttl time.Duration) (string, error) {
	if as.jwtSecretKey == "" {
		return "", fmt.Errorf("missing JWT_SECRET_KEY")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   teacherID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
