package auth

import "errors"

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

var (
	errUserNotFound    = errors.New("user not found")
	errUserNotLoggedIn = errors.New("user not logged in")
)
