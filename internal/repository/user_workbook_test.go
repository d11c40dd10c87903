package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Katsud0n0/city-nexus-connect/internal/config"
	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/persistence"
)

func newTestWorkbook(t *testing.T) *persistence.Workbook {
	t.Helper()
	wb, err := persistence.NewWorkbook(config.StoreConfig{DataDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	return wb
}

func newUserRepo(t *testing.T) UserRepository {
	t.Helper()
	repo, err := NewUserWorkbookRepository(newTestWorkbook(t))
	require.NoError(t, err)
	return repo
}

func TestUserCreateAndList(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	alice := &domain.User{Username: "alice", FullName: "Alice A", Department: "Health", PasswordHash: "h1"}
	bob := &domain.User{Username: "bob", FullName: "Bob B", Department: "Finance", PasswordHash: "h2"}
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.User{*alice, *bob}, users)
}

func TestUserCreateDuplicateUsernameRejected(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	original := &domain.User{Username: "alice", FullName: "Alice A", Department: "Health", PasswordHash: "h1"}
	require.NoError(t, repo.Create(ctx, original))

	dup := &domain.User{Username: "alice", FullName: "Other", Department: "Finance", PasswordHash: "h2"}
	require.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicate)

	// rejection leaves the collection unchanged
	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.User{*original}, users)
}

func TestUserUsernameIsCaseSensitive(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "alice", FullName: "Lower", Department: "Health", PasswordHash: "h"}))
	require.NoError(t, repo.Create(ctx, &domain.User{Username: "Alice", FullName: "Upper", Department: "Health", PasswordHash: "h"}))

	user, err := repo.GetByUsername(ctx, "Alice")
	require.NoError(t, err)
	require.Equal(t, "Upper", user.FullName)
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	repo := newUserRepo(t)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}
