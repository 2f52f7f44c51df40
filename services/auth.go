package services

import (
	"crypto/subtle"
	"time"

	"results-portal/models"
	"results-portal/utils"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NewAdmin builds the admin account. A plain password is hashed with bcrypt;
// an explicit hash takes precedence.
func NewAdmin(username, password, passwordHash string) (models.Admin, error) {
	if username == "" {
		return models.Admin{}, errors.New("admin username is empty")
	}
	if passwordHash == "" {
		if password == "" {
			return models.Admin{}, errors.New("admin password is empty")
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return models.Admin{}, errors.Wrap(err, "hash admin password")
		}
		passwordHash = hash
	}
	return models.Admin{Username: username, PasswordHash: passwordHash}, nil
}

// AuthService checks the fixed admin credentials and issues bearer tokens.
// Captcha checking happens in the client before a login request is sent.
type AuthService struct {
	admin  models.Admin
	secret []byte
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewAuthService(admin models.Admin, secret []byte, ttl time.Duration, log logrus.FieldLogger) *AuthService {
	return &AuthService{admin: admin, secret: secret, ttl: ttl, log: log}
}

// Login returns a signed token, or ErrInvalidCredentials without saying
// which of the two values was wrong.
func (a *AuthService) Login(creds models.Credentials) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(a.admin.Username)) == 1
	passOK := utils.ComparePasswords(a.admin.PasswordHash, []byte(creds.Password))
	if !userOK || !passOK {
		a.log.Warn("admin login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(a.secret, a.admin.Username, a.ttl)
	if err != nil {
		return "", errors.Wrap(err, "issue token")
	}
	a.log.WithField("username", a.admin.Username).Info("admin logged in")
	return token, nil
}

// Verify checks a bearer token and returns the admin username it was issued to.
func (a *AuthService) Verify(token string) (string, error) {
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		return "", errors.Wrap(ErrUnauthorized, err.Error())
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username != a.admin.Username || role != "admin" {
		return "", ErrUnauthorized
	}
	return username, nil
}
