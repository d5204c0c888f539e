package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"greenpark/internal/auth"
	"greenpark/internal/db"
)

// adminTokenTTL is how long an admin token stays valid.
const adminTokenTTL = time.Hour

// minPasswordLength applies to new admin accounts.
const minPasswordLength = 8

type AdminRepo interface {
	GetByEmail(ctx context.Context, email string) (*db.Admin, error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
}

type AdminAuthService struct {
	repo   AdminRepo
	secret string
	now    func() time.Time
}

func NewAdminAuthService(repo AdminRepo, jwtSecret string) *AdminAuthService {
	return &AdminAuthService{repo: repo, secret: jwtSecret, now: time.Now}
}

// Login checks the credentials and returns a signed admin token.
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", err
	}
	if admin == nil {
		return "", ErrInvalidCredentials
	}
	if !checkPasswordHash(password, admin.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return auth.IssueToken(s.secret, admin.ID, admin.Email, adminTokenTTL, s.now())
}

func (s *AdminAuthService) CreateAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil || len(password) < minPasswordLength {
		return ErrInvalidAdmin
	}
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return s.repo.CreateAdmin(ctx, email, hash)
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
