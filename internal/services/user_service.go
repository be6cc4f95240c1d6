package services

import (
	"database/sql"
	"errors"

	"tradewind/internal/domain"
	"tradewind/internal/repos"
)

// UserService covers the admin-side account operations: listing, profile
// edits and hard deletes. Registration and login live in AuthService.
type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService {
	return &UserService{Users: users}
}

// List returns every account except the caller's own.
func (s *UserService) List(excludingID string) ([]domain.User, error) {
	return s.Users.ListExcluding(excludingID)
}

func (s *UserService) Get(id string) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// UpdateProfile overwrites name, email and phone. A duplicate email maps
// to ErrConflict so the handler can answer 409.
func (s *UserService) UpdateProfile(id, name, email, phone string) (*domain.User, error) {
	n, err := s.Users.UpdateProfile(id, name, email, phone)
	if err != nil {
		if repos.IsDuplicateEmail(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(id)
}

// Delete hard-deletes the account. The cart cascades away; orders are
// retained as historical snapshots.
func (s *UserService) Delete(id string) error {
	n, err := s.Users.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
