package services

import (
	"database/sql"
	"errors"
	"time"

	"tradewind/internal/domain"
	"tradewind/internal/repos"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// TokenClaims is the bearer token payload: identity plus role, so route
// guards never need a database round trip.
type TokenClaims struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users    *repos.UserRepo
	Secret   string
	TokenTTL time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthService{Users: users, Secret: secret, TokenTTL: ttl}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Phone    string
	Role     string
	ImageURL string
}

// Register stores a new user with a bcrypt hash; the plaintext password is
// never persisted. Duplicate email is a conflict.
func (s *AuthService) Register(in RegisterInput) (*domain.User, error) {
	if _, err := s.Users.ByEmail(in.Email); err == nil {
		return nil, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Hash:         string(hash),
		Address:      in.Address,
		Phone:        in.Phone,
		Role:         in.Role,
		ProfileImage: in.ImageURL,
	}
	if err := s.Users.Create(u); err != nil {
		// Concurrent registration for the same email loses on the unique index.
		if repos.IsDuplicateEmail(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the password and mints a signed, time-limited bearer token.
// Unknown email and wrong password are distinct failures, mirroring the API
// contract.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCredentials
	}

	now := time.Now()
	claims := &TokenClaims{
		ID:    u.ID,
		Role:  u.Role,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ParseToken validates signature and expiry and returns the claims.
func (s *AuthService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
