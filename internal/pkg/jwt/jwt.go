package jwt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

type Service interface {
	GenerateAccessToken(session user.Session) (token string, expiresAt int64, err error)
	GenerateSSEToken(session user.Session) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (user.Session, error)
	SessionFromClaims(claims map[string]interface{}) (user.Session, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}
}

func sessionClaims(session user.Session, tokenType string, expiresAt int64) map[string]interface{} {
	return map[string]interface{}{
		"user_id":   session.ID,
		"username":  session.Username,
		"full_name": session.FullName,
		"email":     session.Email,
		"role":      string(session.Role),
		"is_admin":  session.IsAdmin(),
		"type":      tokenType,
		"exp":       expiresAt,
	}
}

func (j *JWTService) GenerateAccessToken(session user.Session) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(sessionClaims(session, TokenTypeAccess, expiresAt))
	return tokenString, expiresAt, err
}

// SessionFromClaims rebuilds the session an access token was issued for.
func (j *JWTService) SessionFromClaims(claims map[string]interface{}) (user.Session, error) {
	tokenType, _ := claims["type"].(string)
	if tokenType != TokenTypeAccess {
		return user.Session{}, fmt.Errorf("unexpected token type %q", tokenType)
	}
	return sessionFromMap(claims)
}

func sessionFromMap(claims map[string]interface{}) (user.Session, error) {
	id, _ := claims["user_id"].(string)
	if id == "" {
		return user.Session{}, fmt.Errorf("user_id claim missing")
	}
	role, _ := claims["role"].(string)
	if !user.Role(role).IsValid() {
		return user.Session{}, fmt.Errorf("invalid role claim %q", role)
	}

	username, _ := claims["username"].(string)
	fullName, _ := claims["full_name"].(string)
	email, _ := claims["email"].(string)

	return user.Session{
		ID:       id,
		Username: username,
		FullName: fullName,
		Role:     user.Role(role),
		Email:    email,
	}, nil
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	// Drop entries whose token has expired anyway
	cutoff := j.now().Unix()
	for t, exp := range j.revokedTokens {
		if exp < cutoff {
			delete(j.revokedTokens, t)
		}
	}

	exp := j.now().Add(24 * time.Hour).Unix()
	if parsed, err := j.tokenAuth.Decode(token); err == nil && !parsed.Expiration().IsZero() {
		exp = parsed.Expiration().Unix()
	}
	j.revokedTokens[token] = exp
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(session user.Session) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := j.now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(sessionClaims(session, TokenTypeSSE, expiresAt))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the session it was issued for
func (j *JWTService) ValidateSSEToken(tokenString string) (user.Session, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Session{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return user.Session{}, err
	}

	// Check token type
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeSSE {
		return user.Session{}, jwt.ErrInvalidJWT()
	}

	return sessionFromMap(claims)
}
