package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
)

type requestPostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRequestPostgresRepository returns a Postgres-backed implementation.
// Listing orders by inserted_seq so insertion order matches the workbook
// backend; department enumeration order stays authoritative in Go.
func NewRequestPostgresRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestPostgresRepository{pool: pool}
}

const requestColumns = `id, username, title, description, department, status, created_at`

func (r *requestPostgresRepository) Create(ctx context.Context, request *domain.Request) error {
	const query = `
        INSERT INTO requests (id, username, title, description, department, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.pool.Exec(ctx, query,
		request.ID,
		request.Username,
		request.Title,
		request.Description,
		request.Department,
		request.Status,
		request.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *requestPostgresRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE id=$1`

	var request domain.Request
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.Username,
		&request.Title,
		&request.Description,
		&request.Department,
		&request.Status,
		&request.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *requestPostgresRepository) List(ctx context.Context) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests ORDER BY inserted_seq`
	return r.query(ctx, query)
}

func (r *requestPostgresRepository) ListByUser(ctx context.Context, username string) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE username=$1 ORDER BY inserted_seq`
	return r.query(ctx, query, username)
}

func (r *requestPostgresRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	const query = `UPDATE requests SET status=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestPostgresRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM requests WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestPostgresRepository) CountsByStatus(ctx context.Context) (domain.StatusCounts, error) {
	const query = `SELECT status, COUNT(*) FROM requests GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	defer rows.Close()

	var counts domain.StatusCounts
	for rows.Next() {
		var status domain.RequestStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return domain.StatusCounts{}, err
		}
		counts.Total += n
		switch status {
		case domain.StatusPending:
			counts.Pending = n
		case domain.StatusInProgress:
			counts.InProgress = n
		case domain.StatusCompleted:
			counts.Completed = n
		}
	}
	return counts, rows.Err()
}

func (r *requestPostgresRepository) CountsByDepartment(ctx context.Context) ([]domain.DepartmentCount, error) {
	const query = `SELECT department, COUNT(*) FROM requests GROUP BY department`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	volume := make(map[string]int)
	for rows.Next() {
		var department string
		var n int
		if err := rows.Scan(&department, &n); err != nil {
			return nil, err
		}
		volume[department] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return departmentCounts(volume), nil
}

func (r *requestPostgresRepository) query(ctx context.Context, query string, args ...any) ([]domain.Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.Request
	for rows.Next() {
		var request domain.Request
		if err := rows.Scan(
			&request.ID,
			&request.Username,
			&request.Title,
			&request.Description,
			&request.Department,
			&request.Status,
			&request.CreatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
