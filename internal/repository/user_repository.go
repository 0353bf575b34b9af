package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/projectnexus/nexus-backend/internal/model"
)

const userColumns = "id,username,email,password_hash,first_name,last_name,role,is_active,last_login,created_at,updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts the user and assigns a fresh UUID when the ID is unset.
// The caller is responsible for hashing the password beforehand; this layer
// never sees a plaintext secret.  Uniqueness races are resolved by the
// database's unique keys and surface as ErrUsernameExists/ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, is_active) VALUES (?,?,?,?,?,?,?,?)",
		u.ID, u.Username, u.Email, u.PasswordHash,
		nullable(u.FirstName), nullable(u.LastName), u.Role, u.IsActive)
	if err != nil {
		return dupKeyError(err)
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// List returns all users ordered by creation time.  Used by the admin
// listing endpoint; the dashboard's user base is small enough that paging
// has not been needed.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, query, arg))
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (model.User, error) {
	var (
		u         model.User
		first     sql.NullString
		last      sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&first, &last, &u.Role, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.FirstName = first.String
	u.LastName = last.String
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

// nullable maps empty strings to NULL so optional name columns stay NULL
// instead of collecting empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// dupKeyError maps a MySQL duplicate-key failure (error 1062) to the
// matching sentinel based on which unique key was violated.
func dupKeyError(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return err
	}
	if strings.Contains(msg, "uq_users_email") || strings.Contains(msg, "email") {
		return ErrEmailExists
	}
	return ErrUsernameExists
}
