package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDataInvalid    = errors.New("user data invalid")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidPhoto       = errors.New("invalid photo")
)

type User struct {
	Id           int
	Uid          string
	Username     string
	Email        string
	PasswordHash string
	PhotoKey     string
}

// Registration is the sign-up form: Password2 must repeat Password.
type Registration struct {
	Username  string
	Email     string
	Password  string
	Password2 string
}

type Profile struct {
	Username string
	Email    string
}
