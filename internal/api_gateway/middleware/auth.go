package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/personal-finance-ledger/internal/domain/shared"
)

// IdentityKey is the key used to store the caller identity in the context
const IdentityKey = "identity"

// TokenVerifier validates HS256 bearer tokens and extracts the subject as identity
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for tokens signed with secret
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Issue signs a token for identity that expires after ttl
func (v *TokenVerifier) Issue(identity shared.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identity.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify parses the token and returns the identity it was issued for
func (v *TokenVerifier) Verify(tokenString string) (shared.Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return shared.AnonymousIdentity, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.Subject == "" {
		return shared.AnonymousIdentity, errors.New("token has no subject")
	}
	return shared.Identity(claims.Subject), nil
}

// Identity resolves the caller from the Authorization header. Requests without the
// header continue as the anonymous identity; a header that fails verification is rejected.
func Identity(verifier *TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(IdentityKey, shared.AnonymousIdentity)
			c.Next()
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("Rejected bearer token",
				"correlation_id", GetCorrelationID(c),
				"error", err,
			)
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// GetIdentity returns the caller identity, or the anonymous identity if none was resolved
func GetIdentity(c *gin.Context) shared.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		if identity, ok := v.(shared.Identity); ok {
			return identity
		}
	}
	return shared.AnonymousIdentity
}

func abortUnauthorized(c *gin.Context, message string) {
	abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// abortWithError writes the standard error envelope and stops the chain
func abortWithError(c *gin.Context, status int, code, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(status, response)
}
