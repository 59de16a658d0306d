package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/vaughan-dsouza/userdir/internal/models"
)

var (
	ErrNotFound       = errors.New("store: user not found")
	ErrDuplicateEmail = errors.New("store: email already registered")
)

const publicColumns = `id, first_name, last_name, email, role, avatar`

// Users is the credential store over the users table. Queries are written
// with ? placeholders and rebound for the connected driver.
type Users struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewUsers(db *sqlx.DB, timeout time.Duration) *Users {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Users{db: db, timeout: timeout}
}

func (s *Users) q(query string) string {
	return s.db.Rebind(query)
}

// List returns every user ordered by id. Password hashes are not selected.
func (s *Users) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, `SELECT `+publicColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var u models.User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT `+publicColumns+` FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// GetByEmail is the only read that includes the password hash; it backs login.
func (s *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var u models.User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT `+publicColumns+`, password FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (s *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int
	if err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(1) FROM users WHERE email = ?`), email); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

func (s *Users) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Create inserts u (whose Password must already be a hash) and sets u.ID.
// The unique index on email is the real guard against duplicates.
func (s *Users) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if u.Role == "" {
		u.Role = models.DefaultRole
	}

	err := s.db.QueryRowxContext(ctx, s.q(`
		INSERT INTO users (first_name, last_name, email, password, role, avatar)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`), u.FirstName, u.LastName, u.Email, u.Password, u.Role, u.Avatar).Scan(&u.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update merges the non-nil fields of p into row id in one statement.
// p.Password, when set, must already be a hash.
func (s *Users) Update(ctx context.Context, id int64, p models.UserPatch) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE users
		SET first_name = COALESCE(?, first_name),
		    last_name = COALESCE(?, last_name),
		    email = COALESCE(?, email),
		    role = COALESCE(?, role),
		    password = COALESCE(?, password),
		    avatar = COALESCE(?, avatar)
		WHERE id = ?
	`), p.FirstName, p.LastName, p.Email, p.Role, p.Password, p.Avatar, id)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return affectedOne(res, id)
}

// Delete removes row id; a zero affected-row count means it did not exist.
func (s *Users) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return affectedOne(res, id)
}

func affectedOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
