package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
	"github.com/ardiansyahrf/car-rental-api/internal/utils"
)

// UserRepo provides access to the users and roles tables.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user with the given role and returns its ID. The
// password is bcrypt-hashed with the provided cost before storage.
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (role_id, name, email, password_hash, address, phone_number) VALUES (?,?,?,?,?,?)",
		u.RoleID, u.Name, email, hash, u.Address, u.PhoneNumber)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,role_id,name,email,password_hash,address,phone_number,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.RoleID, &u.Name, &u.Email, &u.PasswordHash, &u.Address, &u.PhoneNumber, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,role_id,name,email,password_hash,address,phone_number,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.RoleID, &u.Name, &u.Email, &u.PasswordHash, &u.Address, &u.PhoneNumber, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// RoleName resolves a role_id into its name (ADMIN, CUSTOMER).
func (r *UserRepo) RoleName(ctx context.Context, roleID uint8) (string, error) {
	var name string
	err := r.DB.QueryRowContext(ctx,
		"SELECT name FROM roles WHERE id=? LIMIT 1", roleID).Scan(&name)
	return name, err
}

// UpdateProfile updates the mutable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, address, phone string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, address=?, phone_number=? WHERE id=?",
		name, address, phone, id)
	return err
}
