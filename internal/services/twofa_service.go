package services

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"log"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"securelogin/internal/models"
	"securelogin/internal/repositories"
)

var (
	Err2FAAlreadyEnabled = errors.New("2FA already enabled")
	Err2FANotSetUp       = errors.New("2FA setup not initiated")
	Err2FANotEnabled     = errors.New("2FA not enabled")
	ErrInvalidCode       = errors.New("invalid 2FA code")
)

type TwoFAService interface {
	// Setup provisions a fresh secret and enrollment QR; 2FA stays off
	// until Verify confirms a code.
	Setup(userID int) (*models.TwoFASetup, error)
	// Verify completes enrollment by flipping the enabled flag.
	Verify(userID int, code string) error
	// Authenticate is the second factor of login; returns the user on success.
	Authenticate(userID int, code string) (*models.User, error)
}

type twoFAService struct {
	repo         repositories.UserRepository
	emailService EmailService
	issuer       string
}

func NewTwoFAService(repo repositories.UserRepository, emailService EmailService, issuer string) TwoFAService {
	return &twoFAService{
		repo:         repo,
		emailService: emailService,
		issuer:       issuer,
	}
}

func (s *twoFAService) Setup(userID int) (*models.TwoFASetup, error) {
	user, err := s.repo.GetByID(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Is2FAEnabled {
		return nil, Err2FAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}

	// перезаписывает незавершённый enrollment, если он был
	if err := s.repo.UpdateTwoFASecret(user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qr, err := qrDataURL(key)
	if err != nil {
		return nil, err
	}

	return &models.TwoFASetup{
		Secret: key.Secret(),
		QR:     qr,
	}, nil
}

func (s *twoFAService) Verify(userID int, code string) error {
	user, err := s.repo.GetByID(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if user.TwoFASecret == nil || *user.TwoFASecret == "" {
		return Err2FANotSetUp
	}
	if user.Is2FAEnabled {
		return Err2FAAlreadyEnabled
	}
	if !validTOTP(code, *user.TwoFASecret) {
		return ErrInvalidCode
	}

	if err := s.repo.Enable2FA(user.ID); err != nil {
		return err
	}

	if s.emailService != nil {
		if err := s.emailService.Send2FAEnabledEmail(user.Email); err != nil {
			log.Printf("Verify2FA: warning: failed to send 2FA notice to %s: %v", user.Email, err)
		}
	}
	return nil
}

func (s *twoFAService) Authenticate(userID int, code string) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !user.Is2FAEnabled || user.TwoFASecret == nil || *user.TwoFASecret == "" {
		return nil, Err2FANotEnabled
	}
	if !validTOTP(code, *user.TwoFASecret) {
		return nil, ErrInvalidCode
	}
	return user, nil
}

// validTOTP accepts the current 30s step plus one step either side for
// clock drift.
func validTOTP(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(256, 256)
	if err != nil {
		return "", fmt.Errorf("render enrollment qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode enrollment qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
