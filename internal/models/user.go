package models

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
