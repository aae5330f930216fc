package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenState describes the per-user stored refresh credential.
type RefreshTokenState int

const (
	// RefreshAbsent means the user has never logged in.
	RefreshAbsent RefreshTokenState = iota
	// RefreshActive holds a signed refresh token issued at last login.
	RefreshActive
	// RefreshInvalidated is set on logout; it can never satisfy the refresh
	// flow again.
	RefreshInvalidated
)

// RefreshToken is a tagged variant: Absent | Active(signed) | Invalidated.
// Verification of anything but Active fails closed.
type RefreshToken struct {
	State RefreshTokenState `bson:"state"           json:"-"`
	Token string            `bson:"token,omitempty" json:"-"`
}

func ActiveRefreshToken(signed string) RefreshToken {
	return RefreshToken{State: RefreshActive, Token: signed}
}

func InvalidatedRefreshToken() RefreshToken {
	return RefreshToken{State: RefreshInvalidated}
}

// Signed returns the stored signed token. ok is false for the Absent and
// Invalidated states.
func (t RefreshToken) Signed() (string, bool) {
	if t.State != RefreshActive || t.Token == "" {
		return "", false
	}
	return t.Token, true
}

// User is an account document.
type User struct {
	ID           string       `bson:"_id"          json:"id"`
	Name         string       `bson:"name"         json:"name"`
	Email        string       `bson:"email"        json:"email"`
	Password     string       `bson:"password"     json:"-"`
	DOB          time.Time    `bson:"dob"          json:"dob"`
	Address      string       `bson:"address"      json:"address"`
	Description  string       `bson:"description"  json:"description"`
	RefreshToken RefreshToken `bson:"refreshToken" json:"-"`
	CreatedAt    time.Time    `bson:"createdAt"    json:"created"`
	UpdatedAt    time.Time    `bson:"updatedAt"    json:"modified"`
}

// EnsureID assigns a fresh UUID when the document has none yet.
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
}
