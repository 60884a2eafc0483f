package repositories

import (
	"database/sql"

	"securelogin/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)

	// 2FA helpers
	UpdateTwoFASecret(userID int, secret string) error
	Enable2FA(userID int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, password_hash, twofa_secret, is_twofa_enabled)
		VALUES ($1, $2, NULL, FALSE)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, email, password_hash, twofa_secret, is_twofa_enabled, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
		SELECT id, email, password_hash, twofa_secret, is_twofa_enabled, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.DB.QueryRow(q, email))
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		secret  sql.NullString
		enabled sql.NullBool
		created sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &secret, &enabled, &created); err != nil {
		return nil, err
	}
	if secret.Valid {
		s := secret.String
		u.TwoFASecret = &s
	}
	if enabled.Valid {
		u.Is2FAEnabled = enabled.Bool
	}
	if created.Valid {
		u.CreatedAt = created.Time
	}
	return u, nil
}

// ===== 2FA helpers =====

// UpdateTwoFASecret overwrites any pending secret; the enabled flag is left
// untouched (enrollment completes in Enable2FA).
func (r *userRepository) UpdateTwoFASecret(userID int, secret string) error {
	const q = `
		UPDATE users
		SET twofa_secret=$1
		WHERE id=$2
	`
	_, err := r.DB.Exec(q, secret, userID)
	return err
}

func (r *userRepository) Enable2FA(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET is_twofa_enabled=TRUE
		WHERE id=$1
	`, userID)
	return err
}
