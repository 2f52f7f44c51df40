package models

// Credentials is the admin login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Admin is the single account allowed to manage results.
type Admin struct {
	Username     string
	PasswordHash string
}

type JWT struct {
	Token string `json:"token"`
}
