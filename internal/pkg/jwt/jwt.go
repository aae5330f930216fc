package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Kind selects the signing secret for a token.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)

func (k Kind) String() string {
	if k == KindRefresh {
		return "refresh"
	}
	return "access"
}

// ErrInvalidToken is returned when a token's signature does not verify or its
// payload lacks the identity claim.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"id,omitempty"`
	Email  string `json:"email"`
	jwtlib.RegisteredClaims
}

// Expired reports whether the embedded expiry lies in the past. A missing
// expiry counts as expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

// Codec signs and verifies access and refresh tokens. The two kinds use
// distinct secrets, so a token signed for one purpose never verifies for the
// other.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessLife    time.Duration
	refreshLife   time.Duration
}

func NewCodec(accessSecret, refreshSecret string, accessLife, refreshLife time.Duration) *Codec {
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessLife:    accessLife,
		refreshLife:   refreshLife,
	}
}

// SignAccess creates a signed access token for the given user.
func (c *Codec) SignAccess(userID, email string) (string, error) {
	return c.sign(Claims{UserID: userID, Email: email}, KindAccess, c.accessLife)
}

// SignRefresh creates a signed refresh token carrying only the user's email.
func (c *Codec) SignRefresh(email string) (string, error) {
	return c.sign(Claims{Email: email}, KindRefresh, c.refreshLife)
}

func (c *Codec) sign(claims Claims, kind Kind, life time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwtlib.RegisteredClaims{
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(life)),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(c.secret(kind))
}

// Verify checks a token's signature against the secret selected by kind and
// returns its claims. Expiry is deliberately NOT enforced here: whether a
// lapsed token is still acceptable is a policy decision of the caller. The
// refresh flow relies on this to tell "legitimately issued but lapsed" apart
// from "forged or malformed".
func (c *Codec) Verify(tokenStr string, kind Kind) (*Claims, error) {
	parser := jwtlib.NewParser(jwtlib.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret(kind), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}
