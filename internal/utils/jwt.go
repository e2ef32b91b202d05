package utils // package utils provides helper functions for token creation, hashing and paging

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens

	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
)

// ErrInvalidToken is returned when a token cannot be verified or its claims
// do not describe a principal.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the token payload: id, roleId and the display fields that
// clients decode to render the signed-in user.
type Claims struct {
	ID        int64  `json:"id"`
	RoleID    int    `json:"roleId"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// NewAccessToken builds and signs an HS256 JWT describing p. The token
// carries exp and iat in addition to the principal fields.
func NewAccessToken(secret string, p model.Principal, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		ID:        p.ID,
		RoleID:    p.RoleID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and returns the principal it
// describes. Only HMAC-signed tokens are accepted.
func ParseAccessToken(secret, raw string) (model.Principal, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Principal{}, ErrInvalidToken
	}
	if claims.RoleID < 0 {
		return model.Principal{}, ErrInvalidToken
	}
	return model.Principal{
		ID:        claims.ID,
		RoleID:    claims.RoleID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Username:  claims.Username,
	}, nil
}
