package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Sentinel errors for the auth surfaces. Handlers translate these into
// the proper HTTP statuses.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService provides business logic for account management and session
// tokens.
type UserService struct {
	repo      *Repository
	jwtSecret []byte
	jwtExpiry time.Duration
}

// NewUserService creates a new user service
func NewUserService(repo *Repository, jwtSecret string, jwtExpiry time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
	}
}

// Register creates a new account and returns it with a session token.
func (s *UserService) Register(email, password, name string) (*User, string, error) {
	existing, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := NewUser(email, string(hash), name)
	if err := s.repo.CreateUser(user); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate verifies credentials and returns the user with a fresh
// session token. Wrong email and wrong password are indistinguishable to
// the caller.
func (s *UserService) Authenticate(email, password string) (*User, string, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.repo.UpdateUserLastLogin(user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// AuthenticateAdmin verifies admin credentials against the admin_users
// table and returns the admin with a fresh session token.
func (s *UserService) AuthenticateAdmin(email, password string) (*AdminUser, string, error) {
	admin, err := s.repo.GetAdminByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.repo.UpdateAdminLastLogin(admin.ID); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return nil, "", err
	}

	return admin, token, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *UserService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdateUserPassword(userID, string(hash))
}

// UpdateProfile updates name and/or email, rejecting an email already
// held by another account.
func (s *UserService) UpdateProfile(userID, name, email string) (*User, error) {
	if email != "" {
		existing, err := s.repo.GetUserByEmail(email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrEmailTaken
		}
	}

	if err := s.repo.UpdateUserProfile(userID, name, email); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// GenerateToken mints a signed session token for the given identity.
func (s *UserService) GenerateToken(userID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"iat":    now.Unix(),
		"exp":    now.Add(s.jwtExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies a session token and returns the user ID it was
// minted for.
func (s *UserService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("token missing user identity")
	}

	return userID, nil
}

// Repo exposes the repository for handlers that need direct queries.
func (s *UserService) Repo() *Repository {
	return s.repo
}
