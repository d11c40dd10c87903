package repository

import (
	"context"
	"errors"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
)

// Sentinel errors shared by every backend. Anything else returned by a
// repository is a storage failure.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines persistence access for portal accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// RequestRepository encapsulates request persistence. Listing operations
// preserve insertion order; counting operations are full-collection tallies.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	List(ctx context.Context) ([]domain.Request, error)
	ListByUser(ctx context.Context, username string) ([]domain.Request, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
	Delete(ctx context.Context, id string) error
	CountsByStatus(ctx context.Context) (domain.StatusCounts, error)
	CountsByDepartment(ctx context.Context) ([]domain.DepartmentCount, error)
}
