package repository

import (
	"context"
	"fmt"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/persistence"
)

const usersSheet = "city_nexus_users.csv"

var usersHeader = []string{"username", "fullName", "department", "password"}

type userWorkbookRepository struct {
	wb *persistence.Workbook
}

// NewUserWorkbookRepository returns a workbook-backed implementation. The
// users sheet is initialized empty when missing.
func NewUserWorkbookRepository(wb *persistence.Workbook) (UserRepository, error) {
	if err := wb.EnsureSheet(usersSheet, usersHeader); err != nil {
		return nil, err
	}
	return &userWorkbookRepository{wb: wb}, nil
}

func (r *userWorkbookRepository) Create(_ context.Context, user *domain.User) error {
	return r.wb.UpdateSheet(usersSheet, usersHeader, func(rows [][]string) ([][]string, error) {
		users, err := decodeUsers(rows)
		if err != nil {
			return nil, err
		}
		for _, existing := range users {
			if existing.Username == user.Username {
				return nil, ErrDuplicate
			}
		}
		return append(rows, encodeUser(user)), nil
	})
}

func (r *userWorkbookRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *userWorkbookRepository) List(_ context.Context) ([]domain.User, error) {
	rows, err := r.wb.LoadSheet(usersSheet)
	if err != nil {
		return nil, err
	}
	return decodeUsers(rows)
}

func encodeUser(user *domain.User) []string {
	return []string{user.Username, user.FullName, user.Department, user.PasswordHash}
}

func decodeUsers(rows [][]string) ([]domain.User, error) {
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(usersHeader) {
			return nil, fmt.Errorf("users sheet: malformed row with %d fields", len(row))
		}
		users = append(users, domain.User{
			Username:     row[0],
			FullName:     row[1],
			Department:   row[2],
			PasswordHash: row[3],
		})
	}
	return users, nil
}
