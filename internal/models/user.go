package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // не отдаём наружу
	TwoFASecret  *string   `json:"-"` // nil, пока enrollment не начат
	Is2FAEnabled bool      `json:"is_2fa_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TwoFAVerifyRequest struct {
	Code string `json:"code"`
}

type TwoFALoginRequest struct {
	UserID int    `json:"userId"`
	Code   string `json:"code"`
}

// TwoFASetup is what GET /2fa/setup returns: the base32 secret and the
// otpauth enrollment QR as a PNG data URL.
type TwoFASetup struct {
	Secret string `json:"secret"`
	QR     string `json:"qr"`
}
