package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

func (s *SQLStore) CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (User, error) {
	const q = `
		INSERT INTO users (email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, first_name, last_name, password_hash, created_at;
	`
	var u User
	err := s.DB.QueryRowContext(ctx, q, email, firstName, lastName, passwordHash).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (User, error) {
	const q = `
		SELECT id, email, first_name, last_name, password_hash, created_at
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	var u User
	err := s.DB.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error {
	const q = `UPDATE users SET password_hash = $1 WHERE id = $2;`
	_, err := s.DB.ExecContext(ctx, q, newHash, userID)
	return err
}

// isUniqueViolation matches SQLSTATE 23505 from the pgx driver.
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
