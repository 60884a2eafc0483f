package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"securelogin/internal/models"
	"securelogin/internal/repositories"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

type UserService interface {
	Register(email, plainPassword string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
	}
}

// Register creates the account with 2FA off and no pending secret.
// Uniqueness is check-then-create; the UNIQUE index on email is the backstop
// for the race between concurrent registrations.
func (s *userService) Register(email, plainPassword string) (*models.User, error) {
	if strings.TrimSpace(plainPassword) == "" {
		return nil, fmt.Errorf("password is required")
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.authService.HashPassword(plainPassword)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Is2FAEnabled: false,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email); err != nil {
			// warn but do not fail creation
			log.Printf("Register: warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return user, nil
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	u, err := s.repo.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	u, err := s.repo.GetByEmail(email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}
