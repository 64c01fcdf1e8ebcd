package services

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/superkingsely080296-boop/Comms-API-master/utils"
)

// AuthService issues tokens for the admin surface. Credentials come from
// configuration, not a user table.
type AuthService struct {
	adminUser     string
	adminPassHash string
	jwtSecret     string
	jwtTTL        time.Duration
}

func NewAuthService(adminUser, adminPassHash, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{
		adminUser:     adminUser,
		adminPassHash: adminPassHash,
		jwtSecret:     jwtSecret,
		jwtTTL:        jwtTTL,
	}
}

var ErrInvalidCredentials = errors.New("invalid username or password")

// Login checks the configured admin credentials and returns a signed token.
func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.adminUser || s.adminPassHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPassHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := utils.GenerateToken(username, "admin", s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}
