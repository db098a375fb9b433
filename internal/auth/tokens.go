package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/config"
	"github.com/craftmatrix/savetrack-api/models"
)

const (
	ClaimUID   = "uid"
	ClaimEmail = "email"
	ClaimRole  = "role"

	// Claim URIs emitted by WS-Federation style issuers.
	ClaimNameIdentifierURI = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	ClaimEmailURI          = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"

	DefaultTTL = time.Hour
)

// Tokens issues and validates HS256 bearer tokens.
type Tokens struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokens(cfg config.JWTConfig) *Tokens {
	return &Tokens{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
}

func (t *Tokens) sign(claims jwt.MapClaims) (string, error) {
	now := t.now()
	claims["iss"] = t.issuer
	claims["aud"] = t.audience
	claims["iat"] = jwt.NewNumericDate(now)
	claims["nbf"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(t.ttl))
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// IssueDebug issues a token whose subject is the email address.
func (t *Tokens) IssueDebug(email, role string) (string, error) {
	if role == "" {
		role = models.DefaultRole
	}
	return t.sign(jwt.MapClaims{
		"sub":     email,
		"jti":     uuid.NewString(),
		ClaimRole: role,
	})
}

// IssueForUser issues a token carrying both the email subject and the user id.
func (t *Tokens) IssueForUser(u models.User) (string, error) {
	role := u.Role
	if role == "" {
		role = models.DefaultRole
	}
	return t.sign(jwt.MapClaims{
		"sub":      u.Email,
		"jti":      u.ID.String(),
		ClaimUID:   u.ID.String(),
		ClaimEmail: u.Email,
		ClaimRole:  role,
	})
}

// Parse verifies signature, issuer, audience and expiry.
func (t *Tokens) Parse(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func Bearer(token string) string { return "Bearer " + token }

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
