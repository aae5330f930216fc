package user

import "errors"

type CreateUserDTO struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DOB         string `json:"dob"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type UpdateUserDTO struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	DOB         *string `json:"dob"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

var (
	errUserNotFound      = errors.New("user not found")
	errUserAlreadyExists = errors.New("user already exists")
	errInvalidDOB        = errors.New("invalid date of birth, expect YYYY-MM-DD")
)

const dobFormat = "2006-01-02"
