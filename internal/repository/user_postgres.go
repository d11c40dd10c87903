package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
)

type userPostgresRepository struct {
	pool *pgxpool.Pool
}

// NewUserPostgresRepository returns a Postgres-backed implementation with the
// same operation contracts as the workbook backend.
func NewUserPostgresRepository(pool *pgxpool.Pool) UserRepository {
	return &userPostgresRepository{pool: pool}
}

func (r *userPostgresRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, full_name, department, password_hash)
        VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query,
		user.Username,
		user.FullName,
		user.Department,
		user.PasswordHash,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userPostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT username, full_name, department, password_hash
        FROM users WHERE username=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.FullName,
		&user.Department,
		&user.PasswordHash,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userPostgresRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT username, full_name, department, password_hash
        FROM users ORDER BY username`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.Username,
			&user.FullName,
			&user.Department,
			&user.PasswordHash,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
