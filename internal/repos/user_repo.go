package repos

import (
	"strings"

	"tradewind/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// IsDuplicateEmail reports whether err is the unique-index violation raised
// by the case-insensitive email index.
func IsDuplicateEmail(err error) bool {
	return err != nil && strings.Contains(err.Error(), "idx_users_email")
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,name,email,password_hash,address,phone,role,profile_image_url)
		VALUES(?,?,?,?,?,?,?,?)
	`, u.ID, u.Name, u.Email, u.Hash, u.Address, u.Phone, u.Role, u.ProfileImage)
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
		SELECT id,name,email,password_hash,address,phone,role,profile_image_url,created_at
		FROM users WHERE LOWER(email)=LOWER(?)
	`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
		SELECT id,name,email,password_hash,address,phone,role,profile_image_url,created_at
		FROM users WHERE id=?
	`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListExcluding returns every user except the given one (the admin user
// listing excludes the caller).
func (r *UserRepo) ListExcluding(id string) ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `
		SELECT id,name,email,password_hash,address,phone,role,profile_image_url,created_at
		FROM users WHERE id != ? ORDER BY created_at
	`, id)
	return out, err
}

func (r *UserRepo) UpdateProfile(id, name, email, phone string) (int64, error) {
	res, err := r.DB.Exec(`UPDATE users SET name=?, email=?, phone=? WHERE id=?`,
		name, email, phone, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete hard-deletes the user; the cart cascades, orders are retained.
func (r *UserRepo) Delete(id string) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
